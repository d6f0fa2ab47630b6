package core

import (
	"testing"

	"github.com/starkcore/txexec/felt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addr(v uint64) Address { return AddressFromFelt(felt.New(v)) }

// buildCallTree constructs root -> (childA -> grandchild, childB) with
// events ordered the way DFS execution would have emitted them.
func buildCallTree() *CallInfo {
	root := NewCallInfo(Address{}, addr(1), CallTypeCall)
	childA := NewCallInfo(addr(1), addr(2), CallTypeCall)
	grandchild := NewCallInfo(addr(2), addr(3), CallTypeCall)
	childB := NewCallInfo(addr(1), addr(4), CallTypeCall)

	root.Events = append(root.Events, OrderedEvent{Order: 0})
	childA.Events = append(childA.Events, OrderedEvent{Order: 1})
	grandchild.Events = append(grandchild.Events, OrderedEvent{Order: 2})
	childB.Events = append(childB.Events, OrderedEvent{Order: 3})

	root.ExecutionResources.Steps = 10
	childA.ExecutionResources.Steps = 20
	grandchild.ExecutionResources.Steps = 30
	childB.ExecutionResources.Steps = 40
	childA.ExecutionResources.AddBuiltin(BuiltinPedersen, 2)
	childB.ExecutionResources.AddBuiltin(BuiltinPedersen, 3)

	childA.InternalCalls = append(childA.InternalCalls, grandchild)
	root.InternalCalls = append(root.InternalCalls, childA, childB)
	return root
}

func TestAggregatedResourcesWalksWholeTree(t *testing.T) {
	total := buildCallTree().AggregatedResources()
	assert.Equal(t, uint64(100), total.Steps)
	assert.Equal(t, uint64(5), total.BuiltinCount[BuiltinPedersen])
}

func TestAggregatedEventsAreDFSOrdered(t *testing.T) {
	events := buildCallTree().AggregatedEvents()
	require.Len(t, events, 4)
	for i, ev := range events {
		assert.Equal(t, uint64(i), ev.Order, "event orders must be strictly increasing from 0 in DFS order")
	}
}

func TestAggregatedAccessedStorageKeysAttributesKeysToTheirFrame(t *testing.T) {
	root := NewCallInfo(Address{}, addr(1), CallTypeCall)
	child := NewCallInfo(addr(1), addr(2), CallTypeCall)
	root.InternalCalls = append(root.InternalCalls, child)

	root.RecordStorageRead(*felt.New(10), felt.New(1))
	child.RecordStorageWrite(*felt.New(20))

	footprint := root.AggregatedAccessedStorageKeys()
	assert.Contains(t, footprint, NewStorageEntry(addr(1), *felt.New(10)))
	assert.Contains(t, footprint, NewStorageEntry(addr(2), *felt.New(20)))
	assert.Len(t, footprint, 2)

	// Per-frame records stay per-frame: the child's key does not appear in
	// the root's own accessed set.
	assert.NotContains(t, root.AccessedStorageKeys, *felt.New(20))
}

func TestStorageReadValuesPreserveObservationOrder(t *testing.T) {
	ci := NewCallInfo(Address{}, addr(1), CallTypeCall)
	ci.RecordStorageRead(*felt.New(1), felt.New(100))
	ci.RecordStorageRead(*felt.New(2), felt.New(200))
	ci.RecordStorageRead(*felt.New(1), felt.New(100))

	require.Len(t, ci.StorageReadValues, 3, "reads are a sequence, not a set")
	assert.True(t, ci.StorageReadValues[0].Equal(felt.New(100)))
	assert.True(t, ci.StorageReadValues[1].Equal(felt.New(200)))
	assert.Len(t, ci.AccessedStorageKeys, 2)
}

func TestSortedAccessedStorageKeysIsDeterministic(t *testing.T) {
	ci := NewCallInfo(Address{}, addr(1), CallTypeCall)
	for _, k := range []uint64{5, 3, 9, 1} {
		ci.RecordStorageWrite(*felt.New(k))
	}
	sorted := ci.SortedAccessedStorageKeys()
	require.Len(t, sorted, 4)
	for i := 1; i < len(sorted); i++ {
		assert.True(t, sorted[i-1].Cmp(&sorted[i]) < 0)
	}
}

func TestUsedBuiltinsSkipsZeroCounts(t *testing.T) {
	r := NewExecutionResources()
	r.AddBuiltin(BuiltinRangeCheck, 5)
	r.AddBuiltin(BuiltinPoseidon, 0)

	assert.Equal(t, []Builtin{BuiltinRangeCheck}, r.UsedBuiltins())
}
