// Package vm defines the narrow interface the engine uses to reach the
// Cairo VM, an external collaborator this repo does not implement. It also
// ships ReferenceVM, a deterministic test double that runs small
// Go-closure "programs" instead of real Cairo bytecode, so the rest of the
// engine -- state cache, syscall handler, transaction pipeline -- can be
// exercised without a real Cairo VM.
package vm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/starkcore/txexec/core"
	"github.com/starkcore/txexec/felt"
)

// SyscallBridge is the callback surface a running program uses to reach
// world state. It intentionally matches (structurally) *syscall.Handler's
// exported methods; syscall imports vm (for TxInfo), but vm imports neither
// syscall nor execution, which is what keeps vm <-> syscall <-> execution
// free of import cycles.
type SyscallBridge interface {
	StorageRead(key *felt.Felt) (*felt.Felt, error)
	StorageWrite(key, value *felt.Felt) error
	EmitEvent(keys, data []*felt.Felt) error
	SendMessageToL1(to common.Address, payload []*felt.Felt) error
	CallContract(address, selector *felt.Felt, calldata []*felt.Felt) ([]*felt.Felt, error)
	LibraryCall(classHash, selector *felt.Felt, calldata []*felt.Felt) ([]*felt.Felt, error)
	Deploy(classHash, salt *felt.Felt, ctorCalldata []*felt.Felt, deployerIsZero bool) (*felt.Felt, []*felt.Felt, error)
	ReplaceClass(classHash *felt.Felt) error
	GetCallerAddress() *felt.Felt
	GetContractAddress() *felt.Felt
	GetSequencerAddress() *felt.Felt
	GetBlockInfo() *core.BlockContext
	GetTxInfo() *TxInfo
	GetClassHashAt(address *felt.Felt) (*felt.Felt, error)
	Keccak(data []byte) *felt.Felt
	Pedersen(a, b *felt.Felt) *felt.Felt
	Sha256ProcessBlock(state [8]uint32, block [64]byte) [8]uint32
}

// TxInfo is what the get_tx_info syscall returns: the enclosing
// transaction's identity fields, visible to any contract running within
// it regardless of call depth.
type TxInfo struct {
	Version       *felt.Felt
	SenderAddress *felt.Felt
	MaxFee        *felt.Felt
	TxHash        *felt.Felt
	ChainID       *felt.Felt
	Nonce         *felt.Felt
	Signature     []*felt.Felt
}

// EntryPointContext is everything RunEntryPoint needs: which class/offset
// to run, the calldata, the gas budget, and the syscall bridge back into
// world state.
type EntryPointContext struct {
	Class       core.CompiledClass
	Selector    *felt.Felt
	EntryOffset uint64 // Cairo 0 program-counter offset
	SierraIndex uint64 // Cairo 1 Sierra function index
	IsCasm      bool
	Calldata    []*felt.Felt
	InitialGas  uint64
	Syscalls    SyscallBridge
}

// Result is the VM's report back to ExecutionEntryPoint.
type Result struct {
	Retdata      []*felt.Felt
	Steps        uint64
	MemoryHoles  uint64
	Builtins     map[core.Builtin]uint64
	RemainingGas uint64
	Failed       bool
}

// Error wraps a VM-level failure (panic, step-limit exceeded, trap) with
// enough context for the transaction pipeline's runner-error path to carry
// it.
type Error struct {
	Message string
	Step    uint64
	PC      uint64
}

func (e *Error) Error() string { return e.Message }

// VM is the narrow collaborator interface:
//
//	run_from_entrypoint(program, pc, args, gas, syscall_ptr) ->
//	    {steps, builtins, memory_holes, retdata, remaining_gas} | VmError
type VM interface {
	RunEntryPoint(ctx EntryPointContext) (*Result, error)
}
