package state

import (
	"sync"

	"github.com/starkcore/txexec/core"
)

// ContractClassCache is the process-wide, append-only ClassHash ->
// CompiledClass map shared across transactions. CompiledClass values are
// themselves immutable once constructed, so sharing pointers across
// transactions without copying is safe; the only thing that needs
// synchronization is the map itself.
type ContractClassCache struct {
	mu      sync.RWMutex
	classes map[core.ClassHash]core.CompiledClass
}

func NewContractClassCache() *ContractClassCache {
	return &ContractClassCache{classes: make(map[core.ClassHash]core.CompiledClass)}
}

func (c *ContractClassCache) Get(hash core.ClassHash) (core.CompiledClass, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	class, ok := c.classes[hash]
	return class, ok
}

// InsertIfAbsent stores class under hash unless already present, returning
// the value that ends up cached (the existing one on a race).
func (c *ContractClassCache) InsertIfAbsent(hash core.ClassHash, class core.CompiledClass) core.CompiledClass {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.classes[hash]; ok {
		return existing
	}
	c.classes[hash] = class
	return class
}
