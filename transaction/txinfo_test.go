package transaction

import (
	"testing"

	"github.com/starkcore/txexec/core"
	"github.com/starkcore/txexec/felt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRevertErrorClearsCallInfos(t *testing.T) {
	original := &TransactionExecutionInfo{
		ValidateCallInfo: core.NewCallInfo(core.Address{}, core.AddressFromFelt(felt.New(1)), core.CallTypeCall),
		ExecuteCallInfo:  core.NewCallInfo(core.Address{}, core.AddressFromFelt(felt.New(1)), core.CallTypeCall),
		TxType:           TxInvoke,
	}

	reverted := original.ToRevertError("something broke")
	assert.Nil(t, reverted.ValidateCallInfo)
	assert.Nil(t, reverted.ExecuteCallInfo)
	assert.Nil(t, reverted.FeeTransferCallInfo)
	assert.Equal(t, TxInvoke, reverted.TxType)
	assert.Equal(t, "something broke", reverted.RevertError)
	assert.True(t, reverted.Reverted())
	assert.False(t, original.Reverted())
}

func TestSetFeeInfoAfterRevert(t *testing.T) {
	info := (&TransactionExecutionInfo{TxType: TxInvoke}).ToRevertError("fee trouble")
	feeCall := core.NewCallInfo(core.Address{}, core.AddressFromFelt(felt.New(0x1001)), core.CallTypeCall)

	info.SetFeeInfo(felt.New(123), feeCall)
	assert.True(t, info.ActualFee.Equal(felt.New(123)))
	assert.Same(t, feeCall, info.FeeTransferCallInfo)
	assert.True(t, info.Reverted(), "restoring fee accounting keeps the revert marker")
}

func TestExecutionInfoCBORRoundTrip(t *testing.T) {
	execute := core.NewCallInfo(core.AddressFromFelt(felt.New(0x101)), core.AddressFromFelt(felt.New(0x100)), core.CallTypeCall)
	execute.Retdata = []*felt.Felt{felt.New(2)}
	execute.ExecutionResources.Steps = 4135

	info := &TransactionExecutionInfo{
		ExecuteCallInfo: execute,
		ActualFee:       felt.New(2490),
		Resources:       execute.AggregatedResources(),
		TxType:          TxInvoke,
	}

	data, err := info.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalTransactionExecutionInfo(data)
	require.NoError(t, err)

	assert.Equal(t, TxInvoke, decoded.TxType)
	assert.True(t, decoded.ActualFee.Equal(felt.New(2490)))
	require.NotNil(t, decoded.ExecuteCallInfo)
	require.Len(t, decoded.ExecuteCallInfo.Retdata, 1)
	assert.True(t, decoded.ExecuteCallInfo.Retdata[0].Equal(felt.New(2)))
	assert.True(t, decoded.ExecuteCallInfo.ContractAddress.Equal(felt.New(0x100)))
	assert.Equal(t, uint64(4135), decoded.Resources.Steps)
	assert.False(t, decoded.Reverted())
}
