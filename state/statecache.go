package state

import (
	"github.com/starkcore/txexec/core"
	"github.com/starkcore/txexec/felt"
)

func addressKey(a core.Address) []byte    { return a.Marshal() }
func classHashKey(c core.ClassHash) []byte { return c.Marshal() }
func storageKey(e core.StorageEntry) []byte {
	return append(e.Address.Marshal(), e.Key.Marshal()...)
}

// StateCache is the two-layer map of initial reads and writes, one
// entryCache per tracked domain.
type StateCache struct {
	classHashes       *entryCache[core.Address, core.ClassHash]
	nonces            *entryCache[core.Address, felt.Felt]
	storage           *entryCache[core.StorageEntry, felt.Felt]
	compiledClassHash *entryCache[core.ClassHash, core.CompiledClassHash]
}

func NewStateCache() *StateCache {
	return &StateCache{
		classHashes:       newEntryCache[core.Address, core.ClassHash](addressKey),
		nonces:            newEntryCache[core.Address, felt.Felt](addressKey),
		storage:           newEntryCache[core.StorageEntry, felt.Felt](storageKey),
		compiledClassHash: newEntryCache[core.ClassHash, core.CompiledClassHash](classHashKey),
	}
}

// Checkpoint is a structural snapshot of StateCache.writes, taken so a
// transaction can roll back its own writes without discarding values read
// before the checkpoint. initial values are never part of a checkpoint --
// they are never rolled back.
type Checkpoint struct {
	classHashes       map[core.Address]core.ClassHash
	nonces            map[core.Address]felt.Felt
	storage           map[core.StorageEntry]felt.Felt
	compiledClassHash map[core.ClassHash]core.CompiledClassHash
}

func (c *StateCache) Checkpoint() Checkpoint {
	return Checkpoint{
		classHashes:       c.classHashes.snapshotWrites(),
		nonces:            c.nonces.snapshotWrites(),
		storage:           c.storage.snapshotWrites(),
		compiledClassHash: c.compiledClassHash.snapshotWrites(),
	}
}

// Rollback restores writes to the given checkpoint, keeping all
// initial_values -- the cache never forgets an initial value once recorded.
func (c *StateCache) Rollback(cp Checkpoint) {
	c.classHashes.rollbackWrites(cp.classHashes)
	c.nonces.rollbackWrites(cp.nonces)
	c.storage.rollbackWrites(cp.storage)
	c.compiledClassHash.rollbackWrites(cp.compiledClassHash)
}

func (c *StateCache) Merge(other *StateCache) {
	c.classHashes.merge(other.classHashes)
	c.nonces.merge(other.nonces)
	c.storage.merge(other.storage)
	c.compiledClassHash.merge(other.compiledClassHash)
}

// StateDiff is the commit-ready result of StateCache.Diff: only the writes
// that actually changed something relative to what was first observed.
type StateDiff struct {
	ClassHashes       map[core.Address]core.ClassHash
	Nonces            map[core.Address]felt.Felt
	Storage           map[core.StorageEntry]felt.Felt
	CompiledClassHash map[core.ClassHash]core.CompiledClassHash
}

func (c *StateCache) Diff() StateDiff {
	return StateDiff{
		ClassHashes: c.classHashes.diff(func(a, b core.ClassHash) bool { return a.Equal(&b.Felt) }),
		Nonces:      c.nonces.diff(func(a, b felt.Felt) bool { return a.Equal(&b) }),
		Storage:     c.storage.diff(func(a, b felt.Felt) bool { return a.Equal(&b) }),
		CompiledClassHash: c.compiledClassHash.diff(func(a, b core.CompiledClassHash) bool {
			return a.Equal(&b.Felt)
		}),
	}
}

func (c *StateCache) Clone() *StateCache {
	return &StateCache{
		classHashes:       c.classHashes.clone(),
		nonces:            c.nonces.clone(),
		storage:           c.storage.clone(),
		compiledClassHash: c.compiledClassHash.clone(),
	}
}
