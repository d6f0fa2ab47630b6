package core

import (
	"github.com/Masterminds/semver/v3"
	"github.com/starkcore/txexec/felt"
)

// EntryPoint is a selector-indexed function within a class.
type EntryPoint struct {
	Selector *felt.Felt
	Offset   uint64
}

// SierraEntryPoint indexes into a Cairo 1 Sierra program's function table.
type SierraEntryPoint struct {
	Selector *felt.Felt
	Index    uint64
}

// EntryPointTable groups a class's entry points by type.
type EntryPointTable[T any] struct {
	Constructor []T
	External    []T
	L1Handler   []T
}

func (t EntryPointTable[T]) ByType(kind EntryPointType) []T {
	switch kind {
	case EntryPointConstructor:
		return t.Constructor
	case EntryPointL1Handler:
		return t.L1Handler
	default:
		return t.External
	}
}

// CompiledClass is the {Deprecated, Casm} variant a class resolves to. It is
// immutable once loaded into the contract-class cache.
type CompiledClass interface {
	isCompiledClass()
	ClassHash() *felt.Felt
}

// DeprecatedClass is a Cairo 0 program: bytecode plus entry-point tables.
type DeprecatedClass struct {
	Hash        *felt.Felt
	Program     []byte
	Abi         string
	EntryPoints EntryPointTable[EntryPoint]
}

func (*DeprecatedClass) isCompiledClass() {}

func (d *DeprecatedClass) ClassHash() *felt.Felt { return d.Hash }

// CasmClass is a compiled Cairo 1 class: CASM bytecode plus Sierra entry
// points and the Sierra compiler's semantic version (validated with
// Masterminds/semver so malformed `contract_class_version` strings are
// rejected at load time rather than silently truncated).
type CasmClass struct {
	Hash            *felt.Felt
	CasmProgram     []byte
	Abi             string
	SemanticVersion string
	EntryPoints     EntryPointTable[SierraEntryPoint]
}

func (*CasmClass) isCompiledClass() {}

func (c *CasmClass) ClassHash() *felt.Felt { return c.Hash }

// ParsedVersion parses SemanticVersion, surfacing a malformed Sierra
// compiler version the way a real class loader would reject bad metadata.
func (c *CasmClass) ParsedVersion() (*semver.Version, error) {
	return semver.NewVersion(c.SemanticVersion)
}

// FindEntryPoint looks a selector up within the class's entry-point table
// for the given entry-point type. Returns ErrEntryPointNotFound if absent.
func FindEntryPoint(class CompiledClass, kind EntryPointType, selector *felt.Felt) (uint64, bool, error) {
	switch c := class.(type) {
	case *DeprecatedClass:
		for _, ep := range c.EntryPoints.ByType(kind) {
			if ep.Selector.Equal(selector) {
				return ep.Offset, false, nil
			}
		}
	case *CasmClass:
		for _, ep := range c.EntryPoints.ByType(kind) {
			if ep.Selector.Equal(selector) {
				return ep.Index, true, nil
			}
		}
	default:
		return 0, false, ErrEntryPointNotFound
	}
	return 0, false, ErrEntryPointNotFound
}
