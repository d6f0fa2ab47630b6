package core

import (
	"testing"

	"github.com/starkcore/txexec/felt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeContractAddressIsDeterministic(t *testing.T) {
	engine := NewFieldMixHashEngine()
	deployer := AddressFromFelt(felt.New(0x101))
	salt := felt.New(1234)
	classHash := ClassHashFromFelt(felt.New(0x42))
	calldata := []*felt.Felt{felt.New(1), felt.New(2)}

	first := ComputeContractAddress(engine, deployer, salt, classHash, calldata)
	second := ComputeContractAddress(engine, deployer, salt, classHash, calldata)
	assert.True(t, first.Equal(&second.Felt))
}

func TestComputeContractAddressVariesWithEveryInput(t *testing.T) {
	engine := NewFieldMixHashEngine()
	deployer := AddressFromFelt(felt.New(0x101))
	salt := felt.New(1234)
	classHash := ClassHashFromFelt(felt.New(0x42))
	calldata := []*felt.Felt{felt.New(1)}

	base := ComputeContractAddress(engine, deployer, salt, classHash, calldata)

	variants := []Address{
		ComputeContractAddress(engine, AddressFromFelt(felt.New(0x102)), salt, classHash, calldata),
		ComputeContractAddress(engine, deployer, felt.New(1235), classHash, calldata),
		ComputeContractAddress(engine, deployer, salt, ClassHashFromFelt(felt.New(0x43)), calldata),
		ComputeContractAddress(engine, deployer, salt, classHash, []*felt.Felt{felt.New(2)}),
		ComputeContractAddress(engine, deployer, salt, classHash, nil),
	}
	for i, v := range variants {
		assert.False(t, base.Equal(&v.Felt), "variant %d should produce a different address", i)
	}
}

func TestKeccak256FeltIsStable(t *testing.T) {
	a := Keccak256Felt([]byte("transfer"))
	b := Keccak256Felt([]byte("transfer"))
	c := Keccak256Felt([]byte("transfeR"))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestPedersenArrayLengthSensitive(t *testing.T) {
	engine := NewFieldMixHashEngine()
	// The trailing length mix means a chain over [x] differs from [x, 0].
	one := engine.PedersenArray(felt.New(7))
	padded := engine.PedersenArray(felt.New(7), &felt.Zero)
	assert.False(t, one.Equal(padded))
}

func TestFindEntryPointBySelector(t *testing.T) {
	sel := felt.New(0xaaa)
	other := felt.New(0xbbb)
	class := &DeprecatedClass{
		Hash: felt.New(1),
		EntryPoints: EntryPointTable[EntryPoint]{
			External:    []EntryPoint{{Selector: sel, Offset: 7}},
			Constructor: []EntryPoint{{Selector: other, Offset: 9}},
		},
	}

	offset, isCasm, err := FindEntryPoint(class, EntryPointExternal, sel)
	require.NoError(t, err)
	assert.False(t, isCasm)
	assert.Equal(t, uint64(7), offset)

	// The selector exists, but not under the requested entry-point type.
	_, _, err = FindEntryPoint(class, EntryPointL1Handler, sel)
	assert.ErrorIs(t, err, ErrEntryPointNotFound)
}

func TestFindEntryPointCasm(t *testing.T) {
	sel := felt.New(0xccc)
	class := &CasmClass{
		Hash:            felt.New(2),
		SemanticVersion: "2.1.0",
		EntryPoints: EntryPointTable[SierraEntryPoint]{
			External: []SierraEntryPoint{{Selector: sel, Index: 3}},
		},
	}

	idx, isCasm, err := FindEntryPoint(class, EntryPointExternal, sel)
	require.NoError(t, err)
	assert.True(t, isCasm)
	assert.Equal(t, uint64(3), idx)

	version, err := class.ParsedVersion()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), version.Major())
}

func TestParsedVersionRejectsMalformed(t *testing.T) {
	class := &CasmClass{SemanticVersion: "not-a-version"}
	_, err := class.ParsedVersion()
	assert.Error(t, err)
}
