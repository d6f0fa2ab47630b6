package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/starkcore/txexec/core"
	"github.com/starkcore/txexec/fee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newParsedFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(newParsedFlags(t), "")
	require.NoError(t, err)
	assert.Equal(t, defaultChainID, cfg.ChainID)
	assert.Equal(t, uint64(defaultInvokeTxMaxSteps), cfg.InvokeTxMaxSteps)
	assert.Equal(t, defaultConcurrency, cfg.Concurrency)
}

func TestLoadHonorsExplicitFlags(t *testing.T) {
	fs := newParsedFlags(t, "--chain-id=SN_MAIN", "--gas-price-wei=7", "--concurrency=16")
	cfg, err := Load(fs, "")
	require.NoError(t, err)
	assert.Equal(t, "SN_MAIN", cfg.ChainID)
	assert.Equal(t, uint64(7), cfg.GasPriceWei)
	assert.Equal(t, 16, cfg.Concurrency)
}

func TestBlockContextEncodesChainNameAsShortString(t *testing.T) {
	cfg, err := Load(newParsedFlags(t, "--chain-id=SN_MAIN"), "")
	require.NoError(t, err)

	block, err := cfg.BlockContext()
	require.NoError(t, err)
	assert.Equal(t, "SN_MAIN", block.ChainID.Name)
	assert.True(t, block.ChainID.ChainID.Equal(shortStringFelt("SN_MAIN")))
}

func TestBlockContextMergesFeeWeightOverridesOntoDefaults(t *testing.T) {
	cfg, err := Load(newParsedFlags(t), "")
	require.NoError(t, err)
	cfg.FeeWeights = map[string]float64{"n_steps": 0.5}

	block, err := cfg.BlockContext()
	require.NoError(t, err)
	assert.Equal(t, 0.5, block.FeeWeights[core.ResourceName("n_steps")])
	// Untouched resources still carry their engine default.
	assert.Equal(t, core.DefaultCairoResourceFeeWeights()[core.ResourceName("pedersen_builtin")], block.FeeWeights[core.ResourceName("pedersen_builtin")])
}

func TestResourceWeightsFallsBackToDefaultsWhenUnset(t *testing.T) {
	cfg, err := Load(newParsedFlags(t), "")
	require.NoError(t, err)
	weights, err := cfg.ResourceWeights()
	require.NoError(t, err)
	assert.Equal(t, fee.DefaultResourceWeights().Steps, weights.Steps)
}
