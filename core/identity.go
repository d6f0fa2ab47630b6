// Package core holds the domain types shared by every layer of the engine:
// addresses, class hashes, storage entries, compiled classes, call-tree
// records and the block context contracts execute against.
package core

import (
	"github.com/starkcore/txexec/felt"
)

// Address is the 32-byte identity of a contract, the storage domain used
// throughout the state cache.
type Address struct {
	felt.Felt
}

func AddressFromFelt(f *felt.Felt) Address {
	return Address{Felt: *f}
}

// ClassHash identifies a deployed class, Cairo 0 or compiled Cairo 1 CASM.
type ClassHash struct {
	felt.Felt
}

func ClassHashFromFelt(f *felt.Felt) ClassHash {
	return ClassHash{Felt: *f}
}

// CompiledClassHash is the CASM-level hash of a Sierra (Cairo 1) class, a
// layer of indirection above ClassHash.
type CompiledClassHash struct {
	felt.Felt
}

func CompiledClassHashFromFelt(f *felt.Felt) CompiledClassHash {
	return CompiledClassHash{Felt: *f}
}

// StorageEntry is (contract address, storage key). The key is carried both
// as a Felt (for arithmetic/comparison) and recoverable as the canonical
// 32-byte big-endian on-chain key via Key.Bytes().
type StorageEntry struct {
	Address Address
	Key     felt.Felt
}

func NewStorageEntry(addr Address, key felt.Felt) StorageEntry {
	return StorageEntry{Address: addr, Key: key}
}

// EntryPointType categorizes an entry point within a class.
type EntryPointType int

const (
	EntryPointExternal EntryPointType = iota
	EntryPointL1Handler
	EntryPointConstructor
)

func (t EntryPointType) String() string {
	switch t {
	case EntryPointExternal:
		return "EXTERNAL"
	case EntryPointL1Handler:
		return "L1_HANDLER"
	case EntryPointConstructor:
		return "CONSTRUCTOR"
	default:
		return "UNKNOWN"
	}
}

// CallType distinguishes a fresh storage-context call from a delegate call
// that executes target code in the caller's own storage.
type CallType int

const (
	CallTypeCall CallType = iota
	CallTypeDelegate
)

func (t CallType) String() string {
	if t == CallTypeDelegate {
		return "DELEGATE"
	}
	return "CALL"
}
