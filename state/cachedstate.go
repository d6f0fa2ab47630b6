package state

import (
	"github.com/starkcore/txexec/core"
	"github.com/starkcore/txexec/felt"
)

// CachedState is the mutable façade combining a shared StateReader, a
// StateCache, and a shared contract-class cache. It is owned by one
// transaction execution at a time.
type CachedState struct {
	reader     StateReader
	cache      *StateCache
	classCache *ContractClassCache
}

func New(reader StateReader, classCache *ContractClassCache) *CachedState {
	if classCache == nil {
		classCache = NewContractClassCache()
	}
	return &CachedState{
		reader:     reader,
		cache:      NewStateCache(),
		classCache: classCache,
	}
}

func (s *CachedState) Reader() StateReader   { return s.reader }
func (s *CachedState) Cache() *StateCache    { return s.cache }
func (s *CachedState) ClassCache() *ContractClassCache { return s.classCache }

func (s *CachedState) GetStorageAt(entry core.StorageEntry) (*felt.Felt, error) {
	if v, ok := s.cache.storage.current(entry); ok {
		return felt.HeapClone(&v), nil
	}
	v, err := s.reader.GetStorageAt(entry)
	if err != nil {
		// storage is total: an absent reader entry is zero, not an error.
		v = felt.Zero
	}
	s.cache.storage.recordInitialValue(entry, v)
	return felt.HeapClone(&v), nil
}

func (s *CachedState) SetStorageAt(entry core.StorageEntry, value *felt.Felt) {
	s.cache.storage.write(entry, *value)
}

func (s *CachedState) GetNonceAt(addr core.Address) (*felt.Felt, error) {
	if v, ok := s.cache.nonces.current(addr); ok {
		return felt.HeapClone(&v), nil
	}
	v, err := s.reader.GetNonceAt(addr)
	if err != nil {
		return nil, err
	}
	s.cache.nonces.recordInitialValue(addr, v)
	return felt.HeapClone(&v), nil
}

func (s *CachedState) SetNonceAt(addr core.Address, value *felt.Felt) {
	s.cache.nonces.write(addr, *value)
}

// IncrementNonce bumps the nonce at addr by one.
func (s *CachedState) IncrementNonce(addr core.Address) error {
	current, err := s.GetNonceAt(addr)
	if err != nil {
		return err
	}
	next := new(felt.Felt).Add(current, &felt.One)
	s.SetNonceAt(addr, next)
	return nil
}

func (s *CachedState) GetClassHashAt(addr core.Address) (core.ClassHash, error) {
	if v, ok := s.cache.classHashes.current(addr); ok {
		return v, nil
	}
	v, err := s.reader.GetClassHashAt(addr)
	if err != nil {
		return core.ClassHash{}, err
	}
	s.cache.classHashes.recordInitialValue(addr, v)
	return v, nil
}

func (s *CachedState) SetClassHashAt(addr core.Address, hash core.ClassHash) {
	s.cache.classHashes.write(addr, hash)
}

func (s *CachedState) GetCompiledClassHash(classHash core.ClassHash) (core.CompiledClassHash, error) {
	if v, ok := s.cache.compiledClassHash.current(classHash); ok {
		return v, nil
	}
	v, err := s.reader.GetCompiledClassHash(classHash)
	if err != nil {
		return core.CompiledClassHash{}, err
	}
	s.cache.compiledClassHash.recordInitialValue(classHash, v)
	return v, nil
}

func (s *CachedState) SetCompiledClassHash(classHash core.ClassHash, compiledHash core.CompiledClassHash) {
	s.cache.compiledClassHash.write(classHash, compiledHash)
}

// GetContractClass resolves a compiled class, consulting the shared
// contract-class cache before falling back to the StateReader.
func (s *CachedState) GetContractClass(hash core.ClassHash) (core.CompiledClass, error) {
	if class, ok := s.classCache.Get(hash); ok {
		return class, nil
	}
	class, err := s.reader.GetCompiledClass(hash)
	if err != nil {
		return nil, err
	}
	return s.classCache.InsertIfAbsent(hash, class), nil
}

// SetContractClass registers class under hash in the shared cache (used by
// Declare).
func (s *CachedState) SetContractClass(hash core.ClassHash, class core.CompiledClass) {
	s.classCache.InsertIfAbsent(hash, class)
}

// Checkpoint/Rollback delegate to the underlying StateCache, giving the
// transaction pipeline its snapshot/revert primitive.
func (s *CachedState) Checkpoint() Checkpoint   { return s.cache.Checkpoint() }
func (s *CachedState) Rollback(cp Checkpoint)   { s.cache.Rollback(cp) }

// CloneForTesting deep-copies the cache and footprint (but shares the
// StateReader and the append-only contract-class cache). toStateCache
// rebuilds every entryCache from fresh maps; keys and values are plain value
// types, so the clone shares no mutable state with the original.
func (s *CachedState) CloneForTesting() (*CachedState, error) {
	clone := &CachedState{reader: s.reader, classCache: s.classCache}
	snapshot := s.snapshotForCopy()
	clone.cache = snapshot.toStateCache()
	return clone, nil
}

// StateDiffSnapshot is a plain-struct view of StateCache's four
// entryCaches' maps (entryCache's bloom filter is rebuilt by toStateCache,
// not copied).
type StateDiffSnapshot struct {
	ClassHashInitial       map[core.Address]core.ClassHash
	ClassHashWrites        map[core.Address]core.ClassHash
	NonceInitial           map[core.Address]felt.Felt
	NonceWrites            map[core.Address]felt.Felt
	StorageInitial         map[core.StorageEntry]felt.Felt
	StorageWrites          map[core.StorageEntry]felt.Felt
	CompiledHashInitial    map[core.ClassHash]core.CompiledClassHash
	CompiledHashWrites     map[core.ClassHash]core.CompiledClassHash
}

func (s *CachedState) snapshotForCopy() StateDiffSnapshot {
	return StateDiffSnapshot{
		ClassHashInitial:    s.cache.classHashes.initial,
		ClassHashWrites:     s.cache.classHashes.writes,
		NonceInitial:        s.cache.nonces.initial,
		NonceWrites:         s.cache.nonces.writes,
		StorageInitial:      s.cache.storage.initial,
		StorageWrites:       s.cache.storage.writes,
		CompiledHashInitial: s.cache.compiledClassHash.initial,
		CompiledHashWrites:  s.cache.compiledClassHash.writes,
	}
}

func (d *StateDiffSnapshot) toStateCache() *StateCache {
	sc := NewStateCache()
	for k, v := range d.ClassHashInitial {
		sc.classHashes.initial[k] = v
	}
	for k, v := range d.ClassHashWrites {
		sc.classHashes.write(k, v)
	}
	for k, v := range d.NonceInitial {
		sc.nonces.initial[k] = v
	}
	for k, v := range d.NonceWrites {
		sc.nonces.write(k, v)
	}
	for k, v := range d.StorageInitial {
		sc.storage.initial[k] = v
	}
	for k, v := range d.StorageWrites {
		sc.storage.write(k, v)
	}
	for k, v := range d.CompiledHashInitial {
		sc.compiledClassHash.initial[k] = v
	}
	for k, v := range d.CompiledHashWrites {
		sc.compiledClassHash.write(k, v)
	}
	return sc
}
