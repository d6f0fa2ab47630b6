package transaction

import (
	"github.com/starkcore/txexec/core"
	"github.com/starkcore/txexec/execution"
	"github.com/starkcore/txexec/felt"
	"github.com/starkcore/txexec/state"
	"github.com/starkcore/txexec/syscall"
)

// InvokeFunction calls __validate__ then __execute__ on the sender account
// with the user-supplied calldata.
type InvokeFunction struct {
	BaseTx
	Calldata []*felt.Felt
}

func (tx *InvokeFunction) TxType() TxType { return TxInvoke }

func (tx *InvokeFunction) Execute(st *state.CachedState, block *core.BlockContext, opts ExecuteOptions) (*TransactionExecutionInfo, error) {
	validate := func(st *state.CachedState, txctx *syscall.TxContext, ep *execution.EntryPoint) (*core.CallInfo, error) {
		return ep.Execute(st, txctx, tx.SenderAddr, tx.SenderAddr, nil, nil, selector("__validate__"), tx.Calldata,
			core.EntryPointExternal, core.CallTypeCall, 0)
	}
	execute := func(st *state.CachedState, txctx *syscall.TxContext, ep *execution.EntryPoint) (*core.CallInfo, error) {
		return ep.Execute(st, txctx, tx.SenderAddr, tx.SenderAddr, nil, nil, selector("__execute__"), tx.Calldata,
			core.EntryPointExternal, core.CallTypeCall, 0)
	}
	return runPipeline(st, block, opts, pipelineInput{
		TxType: TxInvoke, Hash: tx.Hash, Version: tx.Version, MaxFee: tx.MaxFee,
		Nonce: tx.NonceVal, Sender: tx.SenderAddr, Signature: tx.SignatureVals,
		Validate: validate, Execute: execute,
	})
}
