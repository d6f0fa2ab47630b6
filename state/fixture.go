package state

import (
	"fmt"

	"github.com/starkcore/txexec/core"
	"github.com/starkcore/txexec/felt"
)

// FixtureReader is a JSON-backed StateReader for standalone runs of the
// engine (the txcore CLI, package examples) that have no real backing
// store. Every map is keyed by the hex string form of an Address/ClassHash;
// storage keys are "<address>:<key>".
type FixtureReader struct {
	Nonces              map[string]string `json:"nonces"`
	ClassHashes         map[string]string `json:"class_hashes"`
	CompiledClassHashes map[string]string `json:"compiled_class_hashes"`
	Storage             map[string]string `json:"storage"`
}

func (f *FixtureReader) GetClassHashAt(addr core.Address) (core.ClassHash, error) {
	raw, ok := f.ClassHashes[addr.String()]
	if !ok {
		return core.ClassHash{}, core.NewStateError(core.ErrKindNoneClassHash, addr.String())
	}
	v, err := felt.FromString(raw)
	if err != nil {
		return core.ClassHash{}, err
	}
	return core.ClassHashFromFelt(v), nil
}

func (f *FixtureReader) GetNonceAt(addr core.Address) (felt.Felt, error) {
	raw, ok := f.Nonces[addr.String()]
	if !ok {
		return felt.Zero, core.NewStateError(core.ErrKindNoneNonce, addr.String())
	}
	v, err := felt.FromString(raw)
	if err != nil {
		return felt.Zero, err
	}
	return *v, nil
}

func (f *FixtureReader) GetStorageAt(entry core.StorageEntry) (felt.Felt, error) {
	raw, ok := f.Storage[fmt.Sprintf("%s:%s", entry.Address.String(), entry.Key.String())]
	if !ok {
		return felt.Zero, nil
	}
	v, err := felt.FromString(raw)
	if err != nil {
		return felt.Zero, err
	}
	return *v, nil
}

func (f *FixtureReader) GetCompiledClass(hash core.ClassHash) (core.CompiledClass, error) {
	return nil, core.NewStateError(core.ErrKindNoneCompiledClass, hash.String())
}

func (f *FixtureReader) GetCompiledClassHash(hash core.ClassHash) (core.CompiledClassHash, error) {
	raw, ok := f.CompiledClassHashes[hash.String()]
	if !ok {
		return core.CompiledClassHash{}, core.NewStateError(core.ErrKindNoneCompiledHash, hash.String())
	}
	v, err := felt.FromString(raw)
	if err != nil {
		return core.CompiledClassHash{}, err
	}
	return core.CompiledClassHashFromFelt(v), nil
}

var _ StateReader = (*FixtureReader)(nil)
