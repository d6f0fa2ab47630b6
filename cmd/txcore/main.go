// Command txcore executes a single transaction against a JSON state
// fixture and prints the resulting TransactionExecutionInfo: a cobra root
// command with pflag-bound config, viper for file/env overlay, and
// automaxprocs imported for its side effect before anything else runs.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/starkcore/txexec/config"
	"github.com/starkcore/txexec/core"
	"github.com/starkcore/txexec/metrics"
	"github.com/starkcore/txexec/state"
	"github.com/starkcore/txexec/transaction"
	"github.com/starkcore/txexec/utils"
	"github.com/starkcore/txexec/vm"
)

var configFile string

func newRootCmd() *cobra.Command {
	var txPath, statePath, tracePath string

	cmd := &cobra.Command{
		Use:   "txcore",
		Short: "Execute a Starknet-style transaction against a state fixture",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags(), configFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			block, err := cfg.BlockContext()
			if err != nil {
				return fmt.Errorf("build block context: %w", err)
			}
			weights, err := cfg.ResourceWeights()
			if err != nil {
				return fmt.Errorf("decode fee weights: %w", err)
			}

			reader, err := loadStateFixture(statePath)
			if err != nil {
				return fmt.Errorf("load state fixture: %w", err)
			}

			req, err := loadTxRequest(txPath)
			if err != nil {
				return fmt.Errorf("load transaction: %w", err)
			}
			tx, err := req.Decode()
			if err != nil {
				return fmt.Errorf("decode transaction: %w", err)
			}

			logger, err := utils.NewZapLogger()
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}

			st := state.New(reader, nil)
			opts := transaction.ExecuteOptions{
				VM:         vm.NewReferenceVM(),
				HashEngine: core.NewFieldMixHashEngine(),
				Weights:    weights,
				Logger:     logger,
			}

			mx := metrics.NewTxMetrics(prometheus.NewRegistry())
			start := time.Now()
			info, err := tx.Execute(st, block, opts)
			mx.Observe(tx.TxType(), info, time.Since(start).Seconds())
			if err != nil {
				return fmt.Errorf("execute transaction: %w", err)
			}

			if tracePath != "" {
				trace, err := info.Marshal()
				if err != nil {
					return fmt.Errorf("encode trace: %w", err)
				}
				if err := os.WriteFile(tracePath, trace, 0o644); err != nil {
					return fmt.Errorf("write trace: %w", err)
				}
			}

			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	flags := cmd.Flags()
	config.BindFlags(flags)
	flags.StringVar(&configFile, "config", "", "path to a YAML/JSON config file")
	flags.StringVar(&statePath, "state", "", "path to a JSON state fixture")
	flags.StringVar(&txPath, "tx", "", "path to a JSON transaction request")
	flags.StringVar(&tracePath, "trace-out", "", "write the execution trace as CBOR to this path")
	cmd.MarkFlagRequired("state")
	cmd.MarkFlagRequired("tx")

	return cmd
}

func loadTxRequest(path string) (*transaction.TxRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var req transaction.TxRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func loadStateFixture(path string) (state.StateReader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fixture state.FixtureReader
	if err := json.Unmarshal(data, &fixture); err != nil {
		return nil, err
	}
	return &fixture, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
