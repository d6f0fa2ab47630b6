package transaction

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/starkcore/txexec/core"
	"github.com/starkcore/txexec/execution"
	"github.com/starkcore/txexec/felt"
	"github.com/starkcore/txexec/state"
	"github.com/starkcore/txexec/syscall"
)

// L1HandlerTransaction dispatches an L1-originated message into a
// contract's l1_handler entry point. It has no validate phase and charges
// no fee -- the L1 bridge already paid for this execution (paid_fee_on_l1),
// so the pipeline only tracks that bookkeeping value rather than computing
// one of its own.
type L1HandlerTransaction struct {
	Hash            *felt.Felt
	Version         *felt.Felt
	ContractAddress core.Address
	EntryPoint      *felt.Felt
	Calldata        []*felt.Felt
	NonceVal        *felt.Felt
	FromAddress     common.Address
	PaidFeeOnL1     *felt.Felt
}

func (tx *L1HandlerTransaction) TxType() TxType         { return TxL1Handler }
func (tx *L1HandlerTransaction) Nonce() *felt.Felt      { return tx.NonceVal }
func (tx *L1HandlerTransaction) SenderAddress() core.Address { return tx.ContractAddress }
func (tx *L1HandlerTransaction) TxHash() *felt.Felt     { return tx.Hash }

func (tx *L1HandlerTransaction) Execute(st *state.CachedState, block *core.BlockContext, opts ExecuteOptions) (*TransactionExecutionInfo, error) {
	ep := execution.New(opts.VM)
	txctx := txContext(block, opts.HashEngine, tx.Hash, tx.Version, &felt.Zero, tx.NonceVal, tx.ContractAddress, nil, false, &syscall.OrderCounters{})
	calldata := append([]*felt.Felt{new(felt.Felt).SetBytes(tx.FromAddress.Bytes())}, tx.Calldata...)

	checkpoint := st.Checkpoint()
	info, err := ep.Execute(st, txctx, core.Address{}, tx.ContractAddress, nil, nil, tx.EntryPoint, calldata,
		core.EntryPointL1Handler, core.CallTypeCall, 0)
	if err != nil {
		return nil, wrapState(err)
	}
	if info.FailureFlag {
		st.Rollback(checkpoint)
		return (&TransactionExecutionInfo{TxType: TxL1Handler}).ToRevertError("l1_handler execution reverted"), nil
	}
	return &TransactionExecutionInfo{
		ExecuteCallInfo: info,
		TxType:          TxL1Handler,
		Resources:       aggregateResources(info),
		ActualFee:       tx.PaidFeeOnL1,
	}, nil
}
