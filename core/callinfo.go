package core

import (
	"sort"

	"github.com/bits-and-blooms/bitset"
	"github.com/ethereum/go-ethereum/common"
	"github.com/starkcore/txexec/felt"
)

// Builtin identifies a Cairo VM builtin runner.
type Builtin int

const (
	BuiltinRangeCheck Builtin = iota
	BuiltinPedersen
	BuiltinEcOp
	BuiltinEcdsa
	BuiltinBitwise
	BuiltinOutput
	BuiltinPoseidon
	BuiltinSegmentArena
	builtinCount
)

func (b Builtin) String() string {
	switch b {
	case BuiltinRangeCheck:
		return "range_check_builtin"
	case BuiltinPedersen:
		return "pedersen_builtin"
	case BuiltinEcOp:
		return "ec_op_builtin"
	case BuiltinEcdsa:
		return "ecdsa_builtin"
	case BuiltinBitwise:
		return "bitwise_builtin"
	case BuiltinOutput:
		return "output_builtin"
	case BuiltinPoseidon:
		return "poseidon_builtin"
	case BuiltinSegmentArena:
		return "segment_arena_builtin"
	default:
		return "unknown_builtin"
	}
}

// ExecutionResources is the step/memory/builtin accounting for one entry
// point invocation. usedBuiltins is a bitset flagging which builtins
// appeared at all, letting resource summation skip zero-count builtins
// without scanning the full counts array.
type ExecutionResources struct {
	Steps        uint64
	MemoryHoles  uint64
	BuiltinCount [int(builtinCount)]uint64
	usedBuiltins *bitset.BitSet
}

func NewExecutionResources() *ExecutionResources {
	return &ExecutionResources{usedBuiltins: bitset.New(uint(builtinCount))}
}

func (r *ExecutionResources) AddBuiltin(b Builtin, n uint64) {
	if r.usedBuiltins == nil {
		r.usedBuiltins = bitset.New(uint(builtinCount))
	}
	r.BuiltinCount[b] += n
	if n > 0 {
		r.usedBuiltins.Set(uint(b))
	}
}

// UsedBuiltins returns the builtins with a non-zero count, in stable Builtin
// order -- fee calculation sums these and must not depend on Go's
// randomized map iteration order.
func (r *ExecutionResources) UsedBuiltins() []Builtin {
	var out []Builtin
	if r.usedBuiltins == nil {
		return out
	}
	for b := Builtin(0); b < builtinCount; b++ {
		if r.usedBuiltins.Test(uint(b)) {
			out = append(out, b)
		}
	}
	return out
}

func (r *ExecutionResources) Add(other *ExecutionResources) {
	if other == nil {
		return
	}
	r.Steps += other.Steps
	r.MemoryHoles += other.MemoryHoles
	for b := Builtin(0); b < builtinCount; b++ {
		r.AddBuiltin(b, other.BuiltinCount[b])
	}
}

// OrderedEvent is an event emitted during a call, tagged with its position
// in the transaction-wide DFS emission order.
type OrderedEvent struct {
	Order uint64
	Keys  []*felt.Felt
	Data  []*felt.Felt
}

// OrderedL2ToL1Message is an L2->L1 message queued during a call.
type OrderedL2ToL1Message struct {
	Order     uint64
	ToAddress common.Address
	Payload   []*felt.Felt
}

// CallInfo records one contract call: its calldata/retdata, every storage
// touch, every event and message it (directly) emitted, and the internal
// calls it made, in execution order.
type CallInfo struct {
	CallerAddress      Address
	ContractAddress    Address
	ClassHash          *ClassHash
	CodeAddress        *Address // set only for CallTypeDelegate
	EntryPointSelector *felt.Felt
	EntryPointType     EntryPointType
	CallType           CallType
	Calldata           []*felt.Felt
	Retdata            []*felt.Felt

	Events          []OrderedEvent
	L2ToL1Messages  []OrderedL2ToL1Message
	InternalCalls   []*CallInfo
	StorageReadValues   []*felt.Felt
	AccessedStorageKeys map[felt.Felt]struct{}

	ExecutionResources *ExecutionResources
	GasConsumed         uint64
	FailureFlag         bool
}

func NewCallInfo(caller, contract Address, callType CallType) *CallInfo {
	return &CallInfo{
		CallerAddress:       caller,
		ContractAddress:     contract,
		CallType:            callType,
		AccessedStorageKeys: make(map[felt.Felt]struct{}),
		ExecutionResources:  NewExecutionResources(),
	}
}

// RecordStorageRead appends a read to this frame's observation-ordered
// sequence and marks the key as accessed.
func (c *CallInfo) RecordStorageRead(key felt.Felt, value *felt.Felt) {
	c.StorageReadValues = append(c.StorageReadValues, value)
	c.AccessedStorageKeys[key] = struct{}{}
}

func (c *CallInfo) RecordStorageWrite(key felt.Felt) {
	c.AccessedStorageKeys[key] = struct{}{}
}

// SortedAccessedStorageKeys returns the accessed keys sorted for
// deterministic iteration/serialization.
func (c *CallInfo) SortedAccessedStorageKeys() []felt.Felt {
	out := make([]felt.Felt, 0, len(c.AccessedStorageKeys))
	for k := range c.AccessedStorageKeys {
		out = append(out, k)
	}
	sortFelts(out)
	return out
}

// AggregatedResources sums this call's resources with every descendant's, in
// DFS order -- fee calculation walks the whole tree, not just the root call.
func (c *CallInfo) AggregatedResources() *ExecutionResources {
	total := NewExecutionResources()
	var walk func(ci *CallInfo)
	walk = func(ci *CallInfo) {
		total.Add(ci.ExecutionResources)
		for _, inner := range ci.InternalCalls {
			walk(inner)
		}
	}
	walk(c)
	return total
}

// AggregatedEvents returns every event in the call tree in emission order
// during DFS execution, strictly increasing in Order. A frame may emit both
// before and after an inner call, so the tree walk is followed by a stable
// sort on Order.
func (c *CallInfo) AggregatedEvents() []OrderedEvent {
	var out []OrderedEvent
	var walk func(ci *CallInfo)
	walk = func(ci *CallInfo) {
		out = append(out, ci.Events...)
		for _, inner := range ci.InternalCalls {
			walk(inner)
		}
	}
	walk(c)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// AggregatedL2ToL1Messages mirrors AggregatedEvents for outgoing messages.
func (c *CallInfo) AggregatedL2ToL1Messages() []OrderedL2ToL1Message {
	var out []OrderedL2ToL1Message
	var walk func(ci *CallInfo)
	walk = func(ci *CallInfo) {
		out = append(out, ci.L2ToL1Messages...)
		for _, inner := range ci.InternalCalls {
			walk(inner)
		}
	}
	walk(c)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// AggregatedAccessedStorageKeys is the access footprint of the whole call
// tree: the union of (address, key) pairs touched anywhere below c.
func (c *CallInfo) AggregatedAccessedStorageKeys() map[StorageEntry]struct{} {
	out := make(map[StorageEntry]struct{})
	var walk func(ci *CallInfo)
	walk = func(ci *CallInfo) {
		for k := range ci.AccessedStorageKeys {
			out[NewStorageEntry(ci.ContractAddress, k)] = struct{}{}
		}
		for _, inner := range ci.InternalCalls {
			walk(inner)
		}
	}
	walk(c)
	return out
}

func sortFelts(fs []felt.Felt) {
	sort.Slice(fs, func(i, j int) bool { return fs[i].Cmp(&fs[j]) < 0 })
}
