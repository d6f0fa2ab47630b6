// Package state implements the layered, transactional state cache: a
// StateReader-backed StateCache that tracks reads vs writes, and a
// CachedState façade that mediates every state access a contract call
// makes.
package state

import (
	"github.com/bits-and-blooms/bloom/v3"
)

// entryCache is one (initial_values, writes) pair, generic over the
// key/value types so StateCache can reuse it for nonces, class hashes,
// storage and compiled-class hashes.
//
// A bits-and-blooms/bloom/v3 filter sits in front of writes: current() first
// tests the filter, and only on a possible-hit does it probe the real map.
// The filter is rebuilt whenever writes is rolled back or merged, so it
// never causes a false negative -- it only ever saves a map lookup.
type entryCache[K comparable, V any] struct {
	initial map[K]V
	writes  map[K]V
	keyFn   func(K) []byte
	filter  *bloom.BloomFilter
}

func newEntryCache[K comparable, V any](keyFn func(K) []byte) *entryCache[K, V] {
	return &entryCache[K, V]{
		initial: make(map[K]V),
		writes:  make(map[K]V),
		keyFn:   keyFn,
		filter:  bloom.NewWithEstimates(1024, 0.01),
	}
}

// recordInitialValue is a no-op if the key is already present in either
// map, preserving first-read-wins semantics.
func (c *entryCache[K, V]) recordInitialValue(key K, value V) {
	if _, ok := c.writes[key]; ok {
		return
	}
	if _, ok := c.initial[key]; ok {
		return
	}
	c.initial[key] = value
}

func (c *entryCache[K, V]) write(key K, value V) {
	c.writes[key] = value
	c.filter.Add(c.keyFn(key))
}

// current returns (value, found), writes shadowing initial_values.
func (c *entryCache[K, V]) current(key K) (V, bool) {
	if c.filter.Test(c.keyFn(key)) {
		if v, ok := c.writes[key]; ok {
			return v, true
		}
	}
	if v, ok := c.initial[key]; ok {
		return v, true
	}
	var zero V
	return zero, false
}

// rollbackWrites discards writes but keeps initial_values, restoring a
// prior structural snapshot of the writes map.
func (c *entryCache[K, V]) rollbackWrites(snapshot map[K]V) {
	c.writes = snapshot
	c.filter = bloom.NewWithEstimates(1024, 0.01)
	for k := range c.writes {
		c.filter.Add(c.keyFn(k))
	}
}

// snapshotWrites returns a shallow copy of the current writes map, used as
// a transactional checkpoint.
func (c *entryCache[K, V]) snapshotWrites() map[K]V {
	out := make(map[K]V, len(c.writes))
	for k, v := range c.writes {
		out[k] = v
	}
	return out
}

// merge overlays other's writes onto self's writes, and fills gaps in
// self's initial_values with other's.
func (c *entryCache[K, V]) merge(other *entryCache[K, V]) {
	for k, v := range other.writes {
		c.write(k, v)
	}
	for k, v := range other.initial {
		if _, ok := c.initial[k]; !ok {
			c.initial[k] = v
		}
	}
}

// diff returns only the writes that differ from their recorded initial
// value, suitable for committing to durable storage. Keys with no initial
// value recorded are always included, since there's nothing to compare
// against.
func (c *entryCache[K, V]) diff(equal func(a, b V) bool) map[K]V {
	out := make(map[K]V)
	for k, v := range c.writes {
		if initVal, ok := c.initial[k]; ok && equal(initVal, v) {
			continue
		}
		out[k] = v
	}
	return out
}

func (c *entryCache[K, V]) clone() *entryCache[K, V] {
	out := newEntryCache[K, V](c.keyFn)
	for k, v := range c.initial {
		out.initial[k] = v
	}
	for k, v := range c.writes {
		out.write(k, v)
	}
	return out
}
