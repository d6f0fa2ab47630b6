package transaction

import (
	"github.com/starkcore/txexec/core"
	"github.com/starkcore/txexec/execution"
	"github.com/starkcore/txexec/felt"
	"github.com/starkcore/txexec/state"
	"github.com/starkcore/txexec/syscall"
)

// DeclareTransaction is the deprecated v0 Declare: it registers a Cairo 0
// DeprecatedClass and binds no compiled-class-hash. Kept as a distinct
// variant from DeclareV2 since the two differ in both payload and effect.
type DeclareTransaction struct {
	BaseTx
	Class     *core.DeprecatedClass
	ClassHash core.ClassHash
}

func (tx *DeclareTransaction) TxType() TxType { return TxDeclare }

func (tx *DeclareTransaction) Execute(st *state.CachedState, block *core.BlockContext, opts ExecuteOptions) (*TransactionExecutionInfo, error) {
	calldata := []*felt.Felt{&tx.ClassHash.Felt}
	validate := func(st *state.CachedState, txctx *syscall.TxContext, ep *execution.EntryPoint) (*core.CallInfo, error) {
		return ep.Execute(st, txctx, tx.SenderAddr, tx.SenderAddr, nil, nil, selector("__validate_declare__"), calldata,
			core.EntryPointExternal, core.CallTypeCall, 0)
	}
	execute := func(st *state.CachedState, txctx *syscall.TxContext, ep *execution.EntryPoint) (*core.CallInfo, error) {
		st.SetContractClass(tx.ClassHash, tx.Class)
		return declarationCallInfo(tx.SenderAddr, tx.ClassHash), nil
	}
	return runPipeline(st, block, opts, pipelineInput{
		TxType: TxDeclare, Hash: tx.Hash, Version: tx.Version, MaxFee: tx.MaxFee,
		Nonce: tx.NonceVal, Sender: tx.SenderAddr, Signature: tx.SignatureVals,
		Validate: validate, Execute: execute,
	})
}

// DeclareV2Transaction registers a Sierra (Cairo 1) class and binds its
// compiled-class-hash (the CASM-level hash bound to the Sierra class hash).
type DeclareV2Transaction struct {
	BaseTx
	Class             *core.CasmClass
	ClassHash         core.ClassHash
	CompiledClassHash core.CompiledClassHash
}

func (tx *DeclareV2Transaction) TxType() TxType { return TxDeclareV2 }

func (tx *DeclareV2Transaction) Execute(st *state.CachedState, block *core.BlockContext, opts ExecuteOptions) (*TransactionExecutionInfo, error) {
	calldata := []*felt.Felt{&tx.ClassHash.Felt}
	validate := func(st *state.CachedState, txctx *syscall.TxContext, ep *execution.EntryPoint) (*core.CallInfo, error) {
		return ep.Execute(st, txctx, tx.SenderAddr, tx.SenderAddr, nil, nil, selector("__validate_declare__"), calldata,
			core.EntryPointExternal, core.CallTypeCall, 0)
	}
	execute := func(st *state.CachedState, txctx *syscall.TxContext, ep *execution.EntryPoint) (*core.CallInfo, error) {
		st.SetContractClass(tx.ClassHash, tx.Class)
		st.SetCompiledClassHash(tx.ClassHash, tx.CompiledClassHash)
		return declarationCallInfo(tx.SenderAddr, tx.ClassHash), nil
	}
	return runPipeline(st, block, opts, pipelineInput{
		TxType: TxDeclareV2, Hash: tx.Hash, Version: tx.Version, MaxFee: tx.MaxFee,
		Nonce: tx.NonceVal, Sender: tx.SenderAddr, Signature: tx.SignatureVals,
		Validate: validate, Execute: execute,
	})
}

// declarationCallInfo is a synthetic zero-resource CallInfo standing in for
// the execute phase of a Declare, which registers a class rather than
// invoking one -- there is no entry point to run, so no VM resources are
// consumed, but the pipeline still expects an ExecuteCallInfo to aggregate.
func declarationCallInfo(sender core.Address, classHash core.ClassHash) *core.CallInfo {
	info := core.NewCallInfo(sender, sender, core.CallTypeCall)
	info.ClassHash = &classHash
	return info
}
