package state

import (
	"testing"

	"github.com/starkcore/txexec/core"
	"github.com/starkcore/txexec/felt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingReader wraps a FixtureReader and counts how often each method
// actually hits the backing store, so tests can assert on read-through
// caching behavior.
type countingReader struct {
	FixtureReader
	storageReads int
	nonceReads   int
}

func (r *countingReader) GetStorageAt(e core.StorageEntry) (felt.Felt, error) {
	r.storageReads++
	return r.FixtureReader.GetStorageAt(e)
}

func (r *countingReader) GetNonceAt(addr core.Address) (felt.Felt, error) {
	r.nonceReads++
	return r.FixtureReader.GetNonceAt(addr)
}

func testReader() *countingReader {
	return &countingReader{FixtureReader: FixtureReader{
		Nonces:      map[string]string{"0x101": "0x0"},
		ClassHashes: map[string]string{"0x101": "0x42"},
		Storage:     map[string]string{"0x101:0x1": "0xa"},
	}}
}

func TestGetStorageAtReadsThroughOnce(t *testing.T) {
	reader := testReader()
	st := New(reader, nil)
	addr := core.AddressFromFelt(felt.New(0x101))
	e := core.NewStorageEntry(addr, *felt.New(1))

	for i := 0; i < 3; i++ {
		v, err := st.GetStorageAt(e)
		require.NoError(t, err)
		assert.True(t, v.Equal(felt.New(0xa)))
	}
	assert.Equal(t, 1, reader.storageReads, "repeated reads of the same key must be served from the cache")
}

func TestGetStorageAtAbsentKeyIsZero(t *testing.T) {
	st := New(testReader(), nil)
	e := core.NewStorageEntry(core.AddressFromFelt(felt.New(0x999)), *felt.New(7))

	v, err := st.GetStorageAt(e)
	require.NoError(t, err)
	assert.True(t, v.IsZero())
}

func TestSetStorageAtShadowsReader(t *testing.T) {
	st := New(testReader(), nil)
	addr := core.AddressFromFelt(felt.New(0x101))
	e := core.NewStorageEntry(addr, *felt.New(1))

	st.SetStorageAt(e, felt.New(0xbb))
	v, err := st.GetStorageAt(e)
	require.NoError(t, err)
	assert.True(t, v.Equal(felt.New(0xbb)))
}

func TestIncrementNonce(t *testing.T) {
	reader := testReader()
	st := New(reader, nil)
	addr := core.AddressFromFelt(felt.New(0x101))

	require.NoError(t, st.IncrementNonce(addr))
	require.NoError(t, st.IncrementNonce(addr))

	nonce, err := st.GetNonceAt(addr)
	require.NoError(t, err)
	assert.True(t, nonce.Equal(felt.New(2)))
	assert.Equal(t, 1, reader.nonceReads)
}

func TestGetNonceAtMissingAddressErrors(t *testing.T) {
	st := New(testReader(), nil)
	_, err := st.GetNonceAt(core.AddressFromFelt(felt.New(0x999)))
	require.Error(t, err)

	var stateErr *core.StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, core.ErrKindNoneNonce, stateErr.Kind)
}

func TestGetContractClassUsesSharedCache(t *testing.T) {
	classCache := NewContractClassCache()
	hash := core.ClassHashFromFelt(felt.New(0x42))
	class := &core.DeprecatedClass{Hash: &hash.Felt}

	first := New(testReader(), classCache)
	first.SetContractClass(hash, class)

	// A second CachedState over the same class cache sees the class without
	// consulting its reader (whose GetCompiledClass always fails).
	second := New(testReader(), classCache)
	got, err := second.GetContractClass(hash)
	require.NoError(t, err)
	assert.Same(t, core.CompiledClass(class), got)
}

func TestGetContractClassMissingErrors(t *testing.T) {
	st := New(testReader(), nil)
	_, err := st.GetContractClass(core.ClassHashFromFelt(felt.New(0x77)))
	require.Error(t, err)

	var stateErr *core.StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, core.ErrKindNoneCompiledClass, stateErr.Kind)
}

func TestCheckpointRollbackThroughFacade(t *testing.T) {
	st := New(testReader(), nil)
	addr := core.AddressFromFelt(felt.New(0x101))
	e := core.NewStorageEntry(addr, *felt.New(1))

	// Read before the checkpoint so the initial value is on record.
	_, err := st.GetStorageAt(e)
	require.NoError(t, err)

	cp := st.Checkpoint()
	st.SetStorageAt(e, felt.New(0xff))
	st.Rollback(cp)

	v, err := st.GetStorageAt(e)
	require.NoError(t, err)
	assert.True(t, v.Equal(felt.New(0xa)), "rollback restores the initially-read value")
}

func TestCloneForTestingIsIndependent(t *testing.T) {
	st := New(testReader(), nil)
	addr := core.AddressFromFelt(felt.New(0x101))
	e := core.NewStorageEntry(addr, *felt.New(1))
	st.SetStorageAt(e, felt.New(0x10))

	clone, err := st.CloneForTesting()
	require.NoError(t, err)

	clone.SetStorageAt(e, felt.New(0x20))

	v, err := st.GetStorageAt(e)
	require.NoError(t, err)
	assert.True(t, v.Equal(felt.New(0x10)), "clone writes must not leak into the original")

	v, err = clone.GetStorageAt(e)
	require.NoError(t, err)
	assert.True(t, v.Equal(felt.New(0x20)))
}

func TestClassCacheInsertIfAbsentIsIdempotent(t *testing.T) {
	cache := NewContractClassCache()
	hash := core.ClassHashFromFelt(felt.New(1))
	first := &core.DeprecatedClass{Hash: &hash.Felt}
	second := &core.DeprecatedClass{Hash: &hash.Felt}

	assert.Same(t, core.CompiledClass(first), cache.InsertIfAbsent(hash, first))
	assert.Same(t, core.CompiledClass(first), cache.InsertIfAbsent(hash, second),
		"a duplicate insert returns the already-cached class")
}
