package transaction

import (
	"github.com/starkcore/txexec/core"
	"github.com/starkcore/txexec/encoder"
	"github.com/starkcore/txexec/felt"
)

// TransactionExecutionInfo is the immutable result handed back to the
// caller. A reverted transaction still produces one, with ValidateCallInfo
// and ExecuteCallInfo cleared and RevertError populated.
type TransactionExecutionInfo struct {
	ValidateCallInfo    *core.CallInfo
	ExecuteCallInfo     *core.CallInfo
	FeeTransferCallInfo *core.CallInfo
	ActualFee           *felt.Felt
	Resources           *core.ExecutionResources
	TxType              TxType
	RevertError         string
}

// ToRevertError returns a copy with validate/execute cleared and
// revert_error populated with msg; fee accounting is applied afterwards via
// SetFeeInfo since the fee transfer still happens on a reverted tx.
func (info *TransactionExecutionInfo) ToRevertError(msg string) *TransactionExecutionInfo {
	return &TransactionExecutionInfo{
		TxType:      info.TxType,
		RevertError: msg,
	}
}

// SetFeeInfo attaches the fee actually charged and the CallInfo of the fee
// transfer call, used both on the success path and after ToRevertError.
func (info *TransactionExecutionInfo) SetFeeInfo(actualFee *felt.Felt, feeTransferCallInfo *core.CallInfo) {
	info.ActualFee = actualFee
	info.FeeTransferCallInfo = feeTransferCallInfo
}

// Reverted reports whether this result represents a reverted transaction.
func (info *TransactionExecutionInfo) Reverted() bool {
	return info.RevertError != ""
}

// Marshal serializes the execution info to canonical CBOR, used for trace
// snapshots in tests and by the CLI's trace-dump output.
func (info *TransactionExecutionInfo) Marshal() ([]byte, error) {
	return encoder.Marshal(info)
}

func UnmarshalTransactionExecutionInfo(data []byte) (*TransactionExecutionInfo, error) {
	var info TransactionExecutionInfo
	if err := encoder.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
