// Package txapi is the in-process query facade over a CachedState and
// BlockContext: the read endpoints and fee-estimation entry point a JSON-RPC
// handler would expose, adapted here to a direct Go API with no transport.
package txapi

import (
	"github.com/pkg/errors"
	"github.com/starkcore/txexec/core"
	"github.com/starkcore/txexec/felt"
	"github.com/starkcore/txexec/state"
	"github.com/starkcore/txexec/transaction"
)

// API answers read queries against a CachedState and estimates fees by
// dry-running a transaction on a disposable clone.
type API struct {
	state *state.CachedState
	block *core.BlockContext
	opts  transaction.ExecuteOptions
}

func New(st *state.CachedState, block *core.BlockContext, opts transaction.ExecuteOptions) *API {
	return &API{state: st, block: block, opts: opts}
}

// ChainID returns the chain identifier transactions in this block are bound to.
func (a *API) ChainID() *felt.Felt {
	return a.block.ChainID.L2ChainIDFelt()
}

// Nonce returns the nonce currently recorded for addr.
func (a *API) Nonce(addr core.Address) (*felt.Felt, error) {
	nonce, err := a.state.GetNonceAt(addr)
	if err != nil {
		return nil, errors.Wrap(err, "nonce")
	}
	return nonce, nil
}

// StorageAt returns the value stored at (addr, key); storage is total, so a
// never-written key returns zero rather than an error.
func (a *API) StorageAt(addr core.Address, key felt.Felt) (*felt.Felt, error) {
	return a.state.GetStorageAt(core.NewStorageEntry(addr, key))
}

// ClassHashAt returns the class deployed at addr.
func (a *API) ClassHashAt(addr core.Address) (core.ClassHash, error) {
	hash, err := a.state.GetClassHashAt(addr)
	if err != nil {
		return core.ClassHash{}, errors.Wrap(err, "class hash at")
	}
	return hash, nil
}

// Class returns the compiled class registered under hash.
func (a *API) Class(hash core.ClassHash) (core.CompiledClass, error) {
	class, err := a.state.GetContractClass(hash)
	if err != nil {
		return nil, errors.Wrap(err, "class")
	}
	return class, nil
}

// FeeEstimate is the outcome of dry-running a transaction for fee purposes:
// it never mutates the caller's state, and OverallFee is what charging would
// have cost had the transaction actually been submitted.
type FeeEstimate struct {
	GasConsumed *felt.Felt
	GasPrice    *felt.Felt
	OverallFee  *felt.Felt
	Resources   *core.ExecutionResources
	Reverted    bool
	RevertError string
}

// EstimateFee dry-runs tx against a private clone of the API's state,
// skipping the synthesized fee-transfer call (SkipFeeTransfer) since no
// balance should actually move for an estimate. The clone is discarded
// regardless of outcome.
func (a *API) EstimateFee(tx transaction.Transaction) (*FeeEstimate, error) {
	clone, err := a.state.CloneForTesting()
	if err != nil {
		return nil, errors.Wrap(err, "clone for fee estimate")
	}

	opts := a.opts
	opts.SkipFeeTransfer = true

	info, err := tx.Execute(clone, a.block, opts)
	if err != nil {
		return nil, err
	}

	gasConsumed := new(felt.Felt).Div(info.ActualFee, a.block.GasPriceWei)
	return &FeeEstimate{
		GasConsumed: gasConsumed,
		GasPrice:    a.block.GasPriceWei,
		OverallFee:  info.ActualFee,
		Resources:   info.Resources,
		Reverted:    info.Reverted(),
		RevertError: info.RevertError,
	}, nil
}

// SimulateBlock dry-runs an ordered batch of transactions against a private
// clone, using BlockExecutor for the same per-transaction cloning and
// deterministic merge order a real block execution would use, and never
// merges the outcome back into the API's own state.
func (a *API) SimulateBlock(txs []transaction.Transaction, concurrency int) ([]transaction.BlockResult, error) {
	clone, err := a.state.CloneForTesting()
	if err != nil {
		return nil, errors.Wrap(err, "clone for simulation")
	}
	be := transaction.NewBlockExecutor(clone, a.block, a.opts, concurrency)
	return be.ExecuteBlock(txs)
}
