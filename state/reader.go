package state

import (
	"github.com/starkcore/txexec/core"
	"github.com/starkcore/txexec/felt"
)

// StateReader is the pure read-only view over committed world state.
// Implementations must be deterministic and side-effect-free; a missing
// class hash, nonce or compiled class fails with a StateError, but a
// missing storage key returns zero, not an error -- storage is total.
type StateReader interface {
	GetClassHashAt(addr core.Address) (core.ClassHash, error)
	GetNonceAt(addr core.Address) (felt.Felt, error)
	GetStorageAt(entry core.StorageEntry) (felt.Felt, error)
	GetCompiledClass(hash core.ClassHash) (core.CompiledClass, error)
	GetCompiledClassHash(hash core.ClassHash) (core.CompiledClassHash, error)
}
