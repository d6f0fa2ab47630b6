package transaction

import (
	"github.com/starkcore/txexec/core"
	"github.com/starkcore/txexec/execution"
	"github.com/starkcore/txexec/felt"
	"github.com/starkcore/txexec/state"
	"github.com/starkcore/txexec/syscall"
)

// DeployTransaction is the deprecated, pre-account-abstraction Deploy: it
// predates fee charging entirely, so like L1HandlerTransaction it never
// charges a fee. It deploys a fixed address and runs the constructor; there
// is no validate phase and no sender signature.
type DeployTransaction struct {
	Hash                *felt.Felt
	Version             *felt.Felt
	ClassHash           core.ClassHash
	ContractAddress     core.Address
	ConstructorCalldata []*felt.Felt
}

func (tx *DeployTransaction) TxType() TxType         { return TxDeploy }
func (tx *DeployTransaction) Nonce() *felt.Felt      { return &felt.Zero }
func (tx *DeployTransaction) SenderAddress() core.Address { return tx.ContractAddress }
func (tx *DeployTransaction) TxHash() *felt.Felt     { return tx.Hash }

func (tx *DeployTransaction) Execute(st *state.CachedState, block *core.BlockContext, opts ExecuteOptions) (*TransactionExecutionInfo, error) {
	checkpoint := st.Checkpoint()
	st.SetClassHashAt(tx.ContractAddress, tx.ClassHash)

	ep := execution.New(opts.VM)
	txctx := txContext(block, opts.HashEngine, tx.Hash, tx.Version, &felt.Zero, &felt.Zero, tx.ContractAddress, nil, false, &syscall.OrderCounters{})
	ctorInfo, err := ep.Execute(st, txctx, core.Address{}, tx.ContractAddress, nil, nil, selector("constructor"),
		tx.ConstructorCalldata, core.EntryPointConstructor, core.CallTypeCall, 0)
	if err != nil {
		return nil, wrapState(err)
	}
	if ctorInfo.FailureFlag {
		st.Rollback(checkpoint)
		info := (&TransactionExecutionInfo{TxType: TxDeploy}).ToRevertError("constructor failed")
		return info, nil
	}
	return &TransactionExecutionInfo{
		ExecuteCallInfo: ctorInfo,
		TxType:          TxDeploy,
		Resources:       aggregateResources(ctorInfo),
		ActualFee:       &felt.Zero,
	}, nil
}
