package vm

import (
	"sync"

	"github.com/starkcore/txexec/core"
	"github.com/starkcore/txexec/felt"
)

// ProgramContext is what a registered Program runs against: its calldata,
// the syscall bridge, and an accumulator for retdata/resources/failure that
// ReferenceVM turns into a Result once the program returns.
type ProgramContext struct {
	Calldata []*felt.Felt
	Syscalls SyscallBridge

	retdata  []*felt.Felt
	steps    uint64
	holes    uint64
	builtins map[core.Builtin]uint64
}

func newProgramContext(calldata []*felt.Felt, bridge SyscallBridge) *ProgramContext {
	return &ProgramContext{
		Calldata: calldata,
		Syscalls: bridge,
		builtins: make(map[core.Builtin]uint64),
	}
}

func (p *ProgramContext) Return(values ...*felt.Felt) { p.retdata = values }

func (p *ProgramContext) AddSteps(n uint64)                   { p.steps += n }
func (p *ProgramContext) AddMemoryHoles(n uint64)             { p.holes += n }
func (p *ProgramContext) AddBuiltin(b core.Builtin, n uint64) { p.builtins[b] += n }

// Program is a hand-written stand-in for a compiled Cairo program's entry
// point, the way a real VM would interpret bytecode. ReferenceVM looks one
// up by (class hash, entry selector) and runs it directly.
type Program func(p *ProgramContext) error

type programKey struct {
	classHash felt.Felt
	selector  felt.Felt
}

// ReferenceVM is a deterministic VM test double: it dispatches to
// hand-registered Programs instead of interpreting real Cairo bytecode.
// Safe for concurrent RunEntryPoint calls once registration is complete.
type ReferenceVM struct {
	mu       sync.RWMutex
	programs map[programKey]Program
}

func NewReferenceVM() *ReferenceVM {
	return &ReferenceVM{programs: make(map[programKey]Program)}
}

// Register binds a Program to (classHash, selector). Entry-point resolution
// in ExecutionEntryPoint happens before RunEntryPoint is called -- by the
// time the VM runs, the class and selector are already known to exist in
// the class's entry-point table; Register keys on the same pair purely as a
// dispatch mechanism.
func (v *ReferenceVM) Register(classHash, selector felt.Felt, program Program) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.programs[programKey{classHash, selector}] = program
}

func (v *ReferenceVM) lookup(classHash, selector *felt.Felt) (Program, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	p, ok := v.programs[programKey{*classHash, *selector}]
	return p, ok
}

// RunEntryPoint implements VM. The "program, pc" pair a real VM would use
// becomes (class hash, selector) for dispatch purposes in this test double.
func (v *ReferenceVM) RunEntryPoint(ctx EntryPointContext) (*Result, error) {
	selector := selectorFromContext(ctx)
	classHash := ctx.Class.ClassHash()

	program, ok := v.lookup(classHash, selector)
	if !ok {
		return nil, &Error{Message: "reference VM has no program registered for this selector"}
	}

	pctx := newProgramContext(ctx.Calldata, ctx.Syscalls)
	runErr := program(pctx)

	result := &Result{
		Retdata:      pctx.retdata,
		Steps:        pctx.steps,
		MemoryHoles:  pctx.holes,
		Builtins:     pctx.builtins,
		RemainingGas: ctx.InitialGas,
		Failed:       runErr != nil,
	}
	if runErr != nil {
		result.Retdata = []*felt.Felt{core.Keccak256Felt([]byte(runErr.Error()))}
	}
	return result, nil
}

// selectorFromContext recovers the dispatch selector the program was
// registered under.
func selectorFromContext(ctx EntryPointContext) *felt.Felt {
	return ctx.Selector
}
