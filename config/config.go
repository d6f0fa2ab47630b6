// Package config loads the engine's block-level parameters from flags,
// environment variables and an optional config file, binding one Config
// struct through viper and pflag.
package config

import (
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/starkcore/txexec/core"
	"github.com/starkcore/txexec/fee"
	"github.com/starkcore/txexec/felt"
)

// Config is the decoded shape of the block context and fee model a run of
// the engine executes against.
type Config struct {
	ChainID          string             `mapstructure:"chain-id"`
	FeeTokenAddress  string             `mapstructure:"fee-token-address"`
	SequencerAddress string             `mapstructure:"sequencer-address"`
	GasPriceWei      uint64             `mapstructure:"gas-price-wei"`
	GasPriceFri      uint64             `mapstructure:"gas-price-fri"`
	BlockNumber      uint64             `mapstructure:"block-number"`
	BlockTimestamp   uint64             `mapstructure:"block-timestamp"`
	InvokeTxMaxSteps uint64             `mapstructure:"invoke-tx-max-steps"`
	FeeWeights       map[string]float64 `mapstructure:"fee-weights"`
	Concurrency      int                `mapstructure:"concurrency"`
}

const (
	defaultChainID          = "SN_TXCORE"
	defaultInvokeTxMaxSteps = 3_000_000
	defaultGasPriceWei      = 1
	defaultConcurrency      = 4
)

// BindFlags registers every config field as a pflag on fs; the parsed set
// is handed to viper so flags take precedence over file and env values.
func BindFlags(fs *pflag.FlagSet) {
	fs.String("chain-id", defaultChainID, "chain id transaction hashes are bound to")
	fs.String("fee-token-address", "0x0", "fee token contract address")
	fs.String("sequencer-address", "0x0", "block sequencer address")
	fs.Uint64("gas-price-wei", defaultGasPriceWei, "L1 gas price in wei")
	fs.Uint64("gas-price-fri", defaultGasPriceWei, "L1 gas price in fri")
	fs.Uint64("block-number", 0, "block number transactions execute against")
	fs.Uint64("block-timestamp", 0, "block timestamp transactions execute against")
	fs.Uint64("invoke-tx-max-steps", defaultInvokeTxMaxSteps, "max VM steps for an invoke transaction")
	fs.Int("concurrency", defaultConcurrency, "max concurrent transactions per block")
}

// Load builds a Config from fs (already parsed) plus any config file set
// with SetConfigFile, overlaying flags over file values over defaults --
// viper's usual precedence.
func Load(fs *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetEnvPrefix("TXCORE")
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	var cfg Config
	decodeHook := mapstructure.ComposeDecodeHookFunc(mapstructure.StringToTimeDurationHookFunc())
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHook)); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// shortStringFelt packs an ASCII chain name into a Felt the way Starknet's
// short-string encoding does: each byte is a digit of a big-endian integer.
func shortStringFelt(s string) *felt.Felt {
	return new(felt.Felt).SetBytes([]byte(s))
}

// BlockContext converts the decoded Config into the BlockContext the
// execution engine consumes.
func (c *Config) BlockContext() (*core.BlockContext, error) {
	chainName := c.ChainID
	if chainName == "" {
		chainName = defaultChainID
	}
	chainID := shortStringFelt(chainName)
	feeToken, err := felt.FromString(hexOrDefault(c.FeeTokenAddress))
	if err != nil {
		return nil, err
	}
	sequencer, err := felt.FromString(hexOrDefault(c.SequencerAddress))
	if err != nil {
		return nil, err
	}

	weights := core.DefaultCairoResourceFeeWeights()
	for name, w := range c.FeeWeights {
		weights[core.ResourceName(name)] = w
	}

	return &core.BlockContext{
		ChainID:          core.Network{Name: chainName, ChainID: chainID},
		FeeTokenAddress:  core.AddressFromFelt(feeToken),
		SequencerAddress: core.AddressFromFelt(sequencer),
		GasPriceWei:      felt.New(c.GasPriceWei),
		GasPriceFri:      felt.New(c.GasPriceFri),
		BlockNumber:      c.BlockNumber,
		BlockTimestamp:   c.BlockTimestamp,
		FeeWeights:       weights,
		InvokeTxMaxSteps: c.InvokeTxMaxSteps,
	}, nil
}

// ResourceWeights decodes the fee-weights section into the typed struct the
// fee package consumes, falling back to defaults for unset fields.
func (c *Config) ResourceWeights() (fee.ResourceWeights, error) {
	if len(c.FeeWeights) == 0 {
		return fee.DefaultResourceWeights(), nil
	}
	raw := make(map[string]any)
	for name, w := range core.DefaultCairoResourceFeeWeights() {
		raw[string(name)] = w
	}
	for k, v := range c.FeeWeights {
		raw[k] = v
	}
	return fee.DecodeResourceWeights(raw)
}

func hexOrDefault(s string) string {
	if s == "" {
		return "0x0"
	}
	return s
}
