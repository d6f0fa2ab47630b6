// Package execution invokes a single entry point on a contract: it resolves
// the class, prepares the VM, runs it, and collects the resulting CallInfo.
package execution

import (
	"github.com/starkcore/txexec/core"
	"github.com/starkcore/txexec/felt"
	"github.com/starkcore/txexec/state"
	"github.com/starkcore/txexec/syscall"
	"github.com/starkcore/txexec/utils"
	"github.com/starkcore/txexec/vm"
)

// EntryPoint invokes one entry point and, by recursing through itself via
// the syscall.Handler it hands to the VM, resolves the whole call tree
// beneath it.
type EntryPoint struct {
	VM vm.VM
}

func New(v vm.VM) *EntryPoint {
	return &EntryPoint{VM: v}
}

var _ syscall.EntryPointInvoker = (*EntryPoint)(nil)

// Invoke implements syscall.EntryPointInvoker, letting a Handler recurse
// into call_contract/library_call/deploy without execution importing
// syscall in the other direction.
func (e *EntryPoint) Invoke(req syscall.InvokeRequest) (*core.CallInfo, error) {
	return e.Execute(req.State, req.Tx, req.CallerAddress, req.ContractAddress,
		req.ClassHashOverride, req.CodeAddress, req.Selector, req.Calldata,
		req.EntryPointType, req.CallType, req.Gas)
}

// Execute implements ExecutionEntryPoint::execute. classHashOverride is
// used by library_call to run a specific class's code regardless of what
// is deployed at contractAddress.
func (e *EntryPoint) Execute(
	st *state.CachedState,
	tx *syscall.TxContext,
	callerAddress, contractAddress core.Address,
	classHashOverride *core.ClassHash,
	codeAddress *core.Address,
	selector *felt.Felt,
	calldata []*felt.Felt,
	entryPointType core.EntryPointType,
	callType core.CallType,
	gasBudget uint64,
) (*core.CallInfo, error) {
	classHash, class, err := e.resolveClass(st, contractAddress, classHashOverride)
	if err != nil {
		return nil, err
	}

	offset, isCasm, sierraIndex, err := findEntryPoint(class, entryPointType, selector)
	if err != nil {
		return nil, err
	}

	frame := core.NewCallInfo(callerAddress, contractAddress, callType)
	frame.ClassHash = &classHash
	frame.EntryPointSelector = selector
	frame.EntryPointType = entryPointType
	frame.Calldata = calldata
	if callType == core.CallTypeDelegate {
		frame.CodeAddress = codeAddress
	}

	handler := syscall.NewHandler(st, tx, e, frame)

	result, runErr := e.VM.RunEntryPoint(vm.EntryPointContext{
		Class:       class,
		Selector:    selector,
		EntryOffset: offset,
		SierraIndex: sierraIndex,
		IsCasm:      isCasm,
		Calldata:    calldata,
		InitialGas:  gasBudget,
		Syscalls:    handler,
	})
	if runErr != nil {
		return nil, runErr
	}

	frame.Retdata = result.Retdata
	frame.ExecutionResources.Steps = result.Steps
	frame.ExecutionResources.MemoryHoles = result.MemoryHoles
	for b, n := range result.Builtins {
		frame.ExecutionResources.AddBuiltin(b, n)
	}
	frame.FailureFlag = result.Failed
	if isCasm {
		if result.RemainingGas <= gasBudget {
			frame.GasConsumed = gasBudget - result.RemainingGas
		}
	}

	return frame, nil
}

func (e *EntryPoint) resolveClass(st *state.CachedState, contractAddress core.Address, override *core.ClassHash) (core.ClassHash, core.CompiledClass, error) {
	classHash := override
	if classHash == nil {
		ch, err := st.GetClassHashAt(contractAddress)
		if err != nil {
			return core.ClassHash{}, nil, err
		}
		classHash = utils.HeapPtr(ch)
	}
	class, err := st.GetContractClass(*classHash)
	if err != nil {
		return core.ClassHash{}, nil, err
	}
	return *classHash, class, nil
}

func findEntryPoint(class core.CompiledClass, kind core.EntryPointType, selector *felt.Felt) (offset uint64, isCasm bool, sierraIndex uint64, err error) {
	idx, casm, ferr := core.FindEntryPoint(class, kind, selector)
	if ferr != nil {
		return 0, false, 0, ferr
	}
	if casm {
		return 0, true, idx, nil
	}
	return idx, false, 0, nil
}
