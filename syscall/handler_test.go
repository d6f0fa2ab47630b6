package syscall

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/starkcore/txexec/core"
	"github.com/starkcore/txexec/felt"
	"github.com/starkcore/txexec/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubInvoker records the InvokeRequest it receives and hands back a canned
// CallInfo, standing in for execution.EntryPoint in handler-level tests.
type stubInvoker struct {
	lastReq InvokeRequest
	result  *core.CallInfo
	err     error
}

func (s *stubInvoker) Invoke(req InvokeRequest) (*core.CallInfo, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	child := core.NewCallInfo(req.CallerAddress, req.ContractAddress, req.CallType)
	child.Retdata = []*felt.Felt{felt.New(1)}
	return child, nil
}

func newTestHandler(t *testing.T, validateMode bool) (*Handler, *stubInvoker, *state.CachedState, *core.CallInfo) {
	t.Helper()
	st := state.New(&state.FixtureReader{}, nil)
	frame := core.NewCallInfo(core.AddressFromFelt(felt.New(0x99)), core.AddressFromFelt(felt.New(0x100)), core.CallTypeCall)
	tx := &TxContext{
		Block: &core.BlockContext{
			ChainID:          core.Network{Name: "SN_TEST", ChainID: felt.New(1)},
			SequencerAddress: core.AddressFromFelt(felt.New(0x1000)),
			BlockNumber:      7,
		},
		TxHash:        felt.New(0xabc),
		Version:       felt.New(1),
		MaxFee:        felt.New(1000),
		Nonce:         felt.New(0),
		SenderAddress: core.AddressFromFelt(felt.New(0x101)),
		Signature:     []*felt.Felt{felt.New(5)},
		ValidateMode:  validateMode,
		HashEngine:    core.NewFieldMixHashEngine(),
		Orders:        &OrderCounters{},
	}
	invoker := &stubInvoker{}
	return NewHandler(st, tx, invoker, frame), invoker, st, frame
}

func TestStorageReadRecordsObservation(t *testing.T) {
	h, _, st, frame := newTestHandler(t, false)
	entry := core.NewStorageEntry(frame.ContractAddress, *felt.New(0x10))
	st.SetStorageAt(entry, felt.New(0xaa))

	v, err := h.StorageRead(felt.New(0x10))
	require.NoError(t, err)
	assert.True(t, v.Equal(felt.New(0xaa)))
	require.Len(t, frame.StorageReadValues, 1)
	assert.True(t, frame.StorageReadValues[0].Equal(felt.New(0xaa)))
	assert.Contains(t, frame.AccessedStorageKeys, *felt.New(0x10))
}

func TestStorageWriteMutatesCurrentContract(t *testing.T) {
	h, _, st, frame := newTestHandler(t, false)

	require.NoError(t, h.StorageWrite(felt.New(0x10), felt.New(0xbb)))

	v, err := st.GetStorageAt(core.NewStorageEntry(frame.ContractAddress, *felt.New(0x10)))
	require.NoError(t, err)
	assert.True(t, v.Equal(felt.New(0xbb)))
	assert.Contains(t, frame.AccessedStorageKeys, *felt.New(0x10))
}

func TestStorageWriteForbiddenDuringValidate(t *testing.T) {
	h, _, _, _ := newTestHandler(t, true)

	err := h.StorageWrite(felt.New(0x10), felt.New(0xbb))
	require.Error(t, err)
	var syscallErr *core.SyscallHandlerError
	require.ErrorAs(t, err, &syscallErr)
	assert.Equal(t, "storage_write", syscallErr.Syscall)
}

func TestReplaceClassForbiddenDuringValidate(t *testing.T) {
	h, _, _, _ := newTestHandler(t, true)
	err := h.ReplaceClass(felt.New(0x42))
	require.Error(t, err)
	var syscallErr *core.SyscallHandlerError
	require.ErrorAs(t, err, &syscallErr)
}

func TestReplaceClassRebindsCurrentContract(t *testing.T) {
	h, _, st, frame := newTestHandler(t, false)
	require.NoError(t, h.ReplaceClass(felt.New(0x42)))

	hash, err := st.GetClassHashAt(frame.ContractAddress)
	require.NoError(t, err)
	assert.True(t, hash.Equal(felt.New(0x42)))
}

func TestEventOrdersAreTransactionWide(t *testing.T) {
	h, _, st, _ := newTestHandler(t, false)

	// A second frame sharing the same TxContext, as a nested call would.
	innerFrame := core.NewCallInfo(core.AddressFromFelt(felt.New(0x100)), core.AddressFromFelt(felt.New(0x200)), core.CallTypeCall)
	inner := NewHandler(st, h.tx, h.invoker, innerFrame)

	require.NoError(t, h.EmitEvent([]*felt.Felt{felt.New(1)}, nil))
	require.NoError(t, inner.EmitEvent([]*felt.Felt{felt.New(2)}, nil))
	require.NoError(t, h.EmitEvent([]*felt.Felt{felt.New(3)}, nil))

	assert.Equal(t, uint64(0), h.frame.Events[0].Order)
	assert.Equal(t, uint64(1), innerFrame.Events[0].Order)
	assert.Equal(t, uint64(2), h.frame.Events[1].Order)
}

func TestSendMessageToL1OrdersIndependently(t *testing.T) {
	h, _, _, frame := newTestHandler(t, false)
	require.NoError(t, h.EmitEvent(nil, nil))
	require.NoError(t, h.SendMessageToL1(common.HexToAddress("0xabc"), []*felt.Felt{felt.New(9)}))

	require.Len(t, frame.L2ToL1Messages, 1)
	assert.Equal(t, uint64(0), frame.L2ToL1Messages[0].Order, "message orders count separately from event orders")
	assert.Equal(t, common.HexToAddress("0xabc"), frame.L2ToL1Messages[0].ToAddress)
}

func TestCallContractAppendsChildAndReturnsRetdata(t *testing.T) {
	h, invoker, _, frame := newTestHandler(t, false)

	ret, err := h.CallContract(felt.New(0x200), felt.New(0xaaa), nil)
	require.NoError(t, err)
	require.Len(t, ret, 1)
	require.Len(t, frame.InternalCalls, 1)

	assert.Equal(t, frame.ContractAddress, invoker.lastReq.CallerAddress, "callee sees the current contract as caller")
	assert.Equal(t, core.CallTypeCall, invoker.lastReq.CallType)
	assert.Nil(t, invoker.lastReq.ClassHashOverride)
}

func TestCallContractSurfacesChildFailure(t *testing.T) {
	h, invoker, _, frame := newTestHandler(t, false)
	failed := core.NewCallInfo(core.Address{}, core.AddressFromFelt(felt.New(0x200)), core.CallTypeCall)
	failed.FailureFlag = true
	failed.Retdata = []*felt.Felt{felt.New(0xdead)}
	invoker.result = failed

	ret, err := h.CallContract(felt.New(0x200), felt.New(1), nil)
	require.Error(t, err)
	assert.Len(t, frame.InternalCalls, 1, "the failed child is still attached to the tree")
	require.Len(t, ret, 1)
	assert.True(t, ret[0].Equal(felt.New(0xdead)))
}

func TestLibraryCallKeepsCurrentStorageContext(t *testing.T) {
	h, invoker, _, frame := newTestHandler(t, false)

	_, err := h.LibraryCall(felt.New(0x42), felt.New(1), nil)
	require.NoError(t, err)

	req := invoker.lastReq
	assert.Equal(t, frame.ContractAddress, req.ContractAddress, "delegate runs in the current contract's storage")
	assert.Equal(t, frame.CallerAddress, req.CallerAddress, "caller is unchanged for a delegate call")
	assert.Equal(t, core.CallTypeDelegate, req.CallType)
	require.NotNil(t, req.ClassHashOverride)
	assert.True(t, req.ClassHashOverride.Equal(felt.New(0x42)))
	require.NotNil(t, req.CodeAddress)
}

func TestDeployReservesAddressAndRunsConstructor(t *testing.T) {
	h, invoker, st, _ := newTestHandler(t, false)

	deployed, _, err := h.Deploy(felt.New(0x42), felt.New(7), []*felt.Felt{felt.New(1)}, false)
	require.NoError(t, err)
	require.NotNil(t, deployed)

	hash, err := st.GetClassHashAt(core.AddressFromFelt(deployed))
	require.NoError(t, err)
	assert.True(t, hash.Equal(felt.New(0x42)))

	assert.Equal(t, core.EntryPointConstructor, invoker.lastReq.EntryPointType)
	assert.True(t, invoker.lastReq.ContractAddress.Equal(deployed))
}

func TestDeployRejectsOccupiedAddress(t *testing.T) {
	h, _, st, _ := newTestHandler(t, false)

	first, _, err := h.Deploy(felt.New(0x42), felt.New(7), nil, false)
	require.NoError(t, err)

	// Same class, salt and calldata resolve to the same address.
	_, _, err = h.Deploy(felt.New(0x42), felt.New(7), nil, false)
	require.Error(t, err)
	var syscallErr *core.SyscallHandlerError
	require.ErrorAs(t, err, &syscallErr)
	assert.Equal(t, "deploy", syscallErr.Syscall)

	hash, err := st.GetClassHashAt(core.AddressFromFelt(first))
	require.NoError(t, err)
	assert.True(t, hash.Equal(felt.New(0x42)), "the original deployment is untouched")
}

func TestGetTxInfoIsDepthIndependent(t *testing.T) {
	h, _, st, _ := newTestHandler(t, false)
	innerFrame := core.NewCallInfo(core.AddressFromFelt(felt.New(0x100)), core.AddressFromFelt(felt.New(0x200)), core.CallTypeCall)
	inner := NewHandler(st, h.tx, h.invoker, innerFrame)

	outerInfo := h.GetTxInfo()
	innerInfo := inner.GetTxInfo()

	assert.True(t, outerInfo.TxHash.Equal(innerInfo.TxHash))
	assert.True(t, outerInfo.SenderAddress.Equal(innerInfo.SenderAddress))
	assert.True(t, outerInfo.ChainID.Equal(felt.New(1)))
	require.Len(t, innerInfo.Signature, 1)
	assert.True(t, innerInfo.Signature[0].Equal(felt.New(5)))
}

func TestContextAccessors(t *testing.T) {
	h, _, _, frame := newTestHandler(t, false)
	assert.True(t, h.GetCallerAddress().Equal(&frame.CallerAddress.Felt))
	assert.True(t, h.GetContractAddress().Equal(&frame.ContractAddress.Felt))
	assert.True(t, h.GetSequencerAddress().Equal(felt.New(0x1000)))
	assert.Equal(t, uint64(7), h.GetBlockInfo().BlockNumber)
}

func TestSha256ProcessBlockIsDeterministic(t *testing.T) {
	var st [8]uint32
	var block [64]byte
	block[0] = 0x80

	first := (&Handler{}).Sha256ProcessBlock(st, block)
	second := (&Handler{}).Sha256ProcessBlock(st, block)
	assert.Equal(t, first, second)

	block[1] = 0x01
	third := (&Handler{}).Sha256ProcessBlock(st, block)
	assert.NotEqual(t, first, third)
}
