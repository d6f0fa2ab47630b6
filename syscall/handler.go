// Package syscall implements the bridge a running contract uses to read and
// mutate world state: every storage access, inner call, event, message, and
// deploy a contract performs passes through a Handler.
package syscall

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/starkcore/txexec/core"
	"github.com/starkcore/txexec/felt"
	"github.com/starkcore/txexec/state"
	"github.com/starkcore/txexec/utils"
	"github.com/starkcore/txexec/vm"
)

var _ vm.SyscallBridge = (*Handler)(nil)

// OrderCounters are the tx-wide monotonic counters events and L2->L1
// messages draw from: orders across the call tree are unique and
// correspond to emission order during DFS execution. They must be shared
// by every Handler created while executing one transaction, which is why
// they are passed by pointer rather than owned per-frame.
type OrderCounters struct {
	nextEvent   uint64
	nextMessage uint64
}

func (o *OrderCounters) takeEvent() uint64 {
	n := o.nextEvent
	o.nextEvent++
	return n
}

func (o *OrderCounters) takeMessage() uint64 {
	n := o.nextMessage
	o.nextMessage++
	return n
}

// TxContext carries the parts of the enclosing transaction a syscall can
// observe: get_tx_info, get_block_info, get_sequencer_address.
type TxContext struct {
	Block         *core.BlockContext
	TxHash        *felt.Felt
	Version       *felt.Felt
	MaxFee        *felt.Felt
	Nonce         *felt.Felt
	SenderAddress core.Address
	Signature     []*felt.Felt
	ValidateMode  bool // forbids storage writes
	HashEngine    core.HashEngine
	Orders        *OrderCounters
}

// EntryPointInvoker lets the Handler recurse into a new entry-point
// invocation (call_contract/library_call/deploy) without importing the
// execution package -- execution.EntryPoint satisfies this interface
// structurally, so the call stack is passed explicitly rather than kept as
// global mutable state.
type EntryPointInvoker interface {
	Invoke(req InvokeRequest) (*core.CallInfo, error)
}

// InvokeRequest is everything needed to run a nested entry point.
type InvokeRequest struct {
	State             *state.CachedState
	Tx                *TxContext
	CallerAddress     core.Address
	ContractAddress   core.Address
	ClassHashOverride *core.ClassHash
	CodeAddress       *core.Address
	Selector          *felt.Felt
	Calldata          []*felt.Felt
	EntryPointType    core.EntryPointType
	CallType          core.CallType
	Gas               uint64
}

// Handler is the per-call-frame syscall bridge. A new Handler is created
// for every entry-point invocation, each pointing at the CallInfo node it
// is populating; call_contract/library_call/deploy create a child CallInfo
// via the invoker and append it to this frame's InternalCalls.
type Handler struct {
	state   *state.CachedState
	tx      *TxContext
	invoker EntryPointInvoker
	frame   *core.CallInfo
}

func NewHandler(st *state.CachedState, tx *TxContext, invoker EntryPointInvoker, frame *core.CallInfo) *Handler {
	return &Handler{state: st, tx: tx, invoker: invoker, frame: frame}
}

func (h *Handler) StorageRead(key *felt.Felt) (*felt.Felt, error) {
	entry := core.NewStorageEntry(h.frame.ContractAddress, *key)
	value, err := h.state.GetStorageAt(entry)
	if err != nil {
		return nil, err
	}
	h.frame.RecordStorageRead(*key, value)
	return value, nil
}

func (h *Handler) StorageWrite(key, value *felt.Felt) error {
	if h.tx.ValidateMode {
		return core.NewSyscallHandlerError("storage_write", "storage writes are forbidden during validate")
	}
	entry := core.NewStorageEntry(h.frame.ContractAddress, *key)
	h.state.SetStorageAt(entry, value)
	h.frame.RecordStorageWrite(*key)
	return nil
}

func (h *Handler) EmitEvent(keys, data []*felt.Felt) error {
	h.frame.Events = append(h.frame.Events, core.OrderedEvent{
		Order: h.tx.Orders.takeEvent(),
		Keys:  keys,
		Data:  data,
	})
	return nil
}

func (h *Handler) SendMessageToL1(to common.Address, payload []*felt.Felt) error {
	h.frame.L2ToL1Messages = append(h.frame.L2ToL1Messages, core.OrderedL2ToL1Message{
		Order:     h.tx.Orders.takeMessage(),
		ToAddress: to,
		Payload:   payload,
	})
	return nil
}

// CallContract resolves the class deployed at address and recursively
// invokes it with call_type=Call, caller=current contract.
func (h *Handler) CallContract(address, selector *felt.Felt, calldata []*felt.Felt) ([]*felt.Felt, error) {
	target := core.AddressFromFelt(address)
	child, err := h.invoker.Invoke(InvokeRequest{
		State:           h.state,
		Tx:              h.tx,
		CallerAddress:   h.frame.ContractAddress,
		ContractAddress: target,
		Selector:        selector,
		Calldata:        calldata,
		EntryPointType:  core.EntryPointExternal,
		CallType:        core.CallTypeCall,
		Gas:             0,
	})
	if err != nil {
		return nil, err
	}
	h.frame.InternalCalls = append(h.frame.InternalCalls, child)
	if child.FailureFlag {
		return child.Retdata, core.NewSyscallHandlerError("call_contract", "inner call failed")
	}
	return child.Retdata, nil
}

// LibraryCall executes classHash's code in the CURRENT contract's storage
// context: the contract address and caller stay the one the current frame
// already has, only the class (and hence code_address) differs.
func (h *Handler) LibraryCall(classHash, selector *felt.Felt, calldata []*felt.Felt) ([]*felt.Felt, error) {
	override := core.ClassHashFromFelt(classHash)
	codeAddr := core.AddressFromFelt(classHash)
	child, err := h.invoker.Invoke(InvokeRequest{
		State:             h.state,
		Tx:                h.tx,
		CallerAddress:     h.frame.CallerAddress,
		ContractAddress:   h.frame.ContractAddress,
		ClassHashOverride: &override,
		CodeAddress:       &codeAddr,
		Selector:          selector,
		Calldata:          calldata,
		EntryPointType:    core.EntryPointExternal,
		CallType:          core.CallTypeDelegate,
		Gas:               0,
	})
	if err != nil {
		return nil, err
	}
	h.frame.InternalCalls = append(h.frame.InternalCalls, child)
	if child.FailureFlag {
		return child.Retdata, core.NewSyscallHandlerError("library_call", "inner call failed")
	}
	return child.Retdata, nil
}

// Deploy computes the deterministic contract address, reserves it by
// setting its class hash, and invokes the constructor.
func (h *Handler) Deploy(classHash, salt *felt.Felt, ctorCalldata []*felt.Felt, deployerIsZero bool) (*felt.Felt, []*felt.Felt, error) {
	deployer := h.frame.ContractAddress
	if deployerIsZero {
		deployer = core.Address{}
	}
	ch := core.ClassHashFromFelt(classHash)
	addr := core.ComputeContractAddress(h.tx.HashEngine, deployer, salt, ch, ctorCalldata)

	if existing, err := h.state.GetClassHashAt(addr); err == nil && !existing.IsZero() {
		return nil, nil, core.NewSyscallHandlerError("deploy", "contract address already deployed")
	}
	h.state.SetClassHashAt(addr, ch)

	child, err := h.invoker.Invoke(InvokeRequest{
		State:           h.state,
		Tx:              h.tx,
		CallerAddress:   h.frame.ContractAddress,
		ContractAddress: addr,
		Selector:        ConstructorSelector,
		Calldata:        ctorCalldata,
		EntryPointType:  core.EntryPointConstructor,
		CallType:        core.CallTypeCall,
		Gas:             0,
	})
	if err != nil {
		return nil, nil, err
	}
	h.frame.InternalCalls = append(h.frame.InternalCalls, child)
	if child.FailureFlag {
		return nil, child.Retdata, core.NewSyscallHandlerError("deploy", "constructor failed")
	}
	return addr.Felt.Clone(), child.Retdata, nil
}

// ConstructorSelector is used when a class has no declared constructor
// entry point override; production classes supply their own selector via
// calldata, but the reference engine always dispatches constructors here.
var ConstructorSelector = new(felt.Felt).SetBytes([]byte("constructor"))

func (h *Handler) ReplaceClass(classHash *felt.Felt) error {
	if h.tx.ValidateMode {
		return core.NewSyscallHandlerError("replace_class", "forbidden during validate")
	}
	h.state.SetClassHashAt(h.frame.ContractAddress, core.ClassHashFromFelt(classHash))
	return nil
}

func (h *Handler) GetCallerAddress() *felt.Felt   { return h.frame.CallerAddress.Felt.Clone() }
func (h *Handler) GetContractAddress() *felt.Felt { return h.frame.ContractAddress.Felt.Clone() }
func (h *Handler) GetSequencerAddress() *felt.Felt {
	return h.tx.Block.SequencerAddress.Felt.Clone()
}
func (h *Handler) GetBlockInfo() *core.BlockContext { return h.tx.Block }

// GetTxInfo returns the enclosing transaction's identity fields, the same
// values every nested call (however deep) observes regardless of which
// contract is currently executing.
func (h *Handler) GetTxInfo() *vm.TxInfo {
	return &vm.TxInfo{
		Version:       h.tx.Version,
		SenderAddress: h.tx.SenderAddress.Felt.Clone(),
		MaxFee:        h.tx.MaxFee,
		TxHash:        h.tx.TxHash,
		ChainID:       h.tx.Block.ChainID.L2ChainIDFelt(),
		Nonce:         h.tx.Nonce,
		Signature:     utils.Map(h.tx.Signature, (*felt.Felt).Clone),
	}
}

func (h *Handler) GetClassHashAt(address *felt.Felt) (*felt.Felt, error) {
	ch, err := h.state.GetClassHashAt(core.AddressFromFelt(address))
	if err != nil {
		return nil, err
	}
	return ch.Felt.Clone(), nil
}

func (h *Handler) Keccak(data []byte) *felt.Felt { return core.Keccak256Felt(data) }

func (h *Handler) Pedersen(a, b *felt.Felt) *felt.Felt { return h.tx.HashEngine.Pedersen(a, b) }

// Sha256ProcessBlock performs one streaming SHA-256 block update. The raw
// block-compression function is not exported by crypto/sha256, so this
// computes sha256.Sum256 over the state bytes plus the 64-byte block as a
// deterministic stand-in; it is NOT the real SHA-256 compression function
// and a production build must swap in one.
func (h *Handler) Sha256ProcessBlock(state [8]uint32, block [64]byte) [8]uint32 {
	digest := sha256.Sum256(append(stateBytes(state), block[:]...))
	var out [8]uint32
	for i := range out {
		out[i] = binary.BigEndian.Uint32(digest[i*4 : i*4+4])
	}
	return out
}

func stateBytes(state [8]uint32) []byte {
	b := make([]byte, 32)
	for i, s := range state {
		binary.BigEndian.PutUint32(b[i*4:i*4+4], s)
	}
	return b
}
