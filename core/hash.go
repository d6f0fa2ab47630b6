package core

import (
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/starkcore/txexec/felt"
)

// HashEngine is the pluggable collaborator for hash primitives treated as
// an external concern -- production Pedersen/Poseidon implementations are
// outside this engine's scope. The syscall handler and address computation
// consume hashing through this interface rather than depending on one
// concrete algorithm.
type HashEngine interface {
	Pedersen(a, b *felt.Felt) *felt.Felt
	PedersenArray(xs ...*felt.Felt) *felt.Felt
	Poseidon(a, b *felt.Felt) *felt.Felt
}

// FieldMixHashEngine is a reference HashEngine used by the engine's own
// tests and by the ReferenceVM. It is deterministic and collision-resistant
// enough to exercise ordering/footprint invariants, but it is NOT the real
// Pedersen/Poseidon permutation used on-chain -- those live behind this
// interface so a production build can swap in the real cryptographic
// implementation without touching any caller.
type FieldMixHashEngine struct{}

func NewFieldMixHashEngine() *FieldMixHashEngine { return &FieldMixHashEngine{} }

func (FieldMixHashEngine) Pedersen(a, b *felt.Felt) *felt.Felt {
	mixed := new(felt.Felt).Mul(a, b)
	shifted := new(felt.Felt).Add(a, b)
	return new(felt.Felt).Add(mixed, shifted)
}

func (h FieldMixHashEngine) PedersenArray(xs ...*felt.Felt) *felt.Felt {
	acc := &felt.Zero
	for _, x := range xs {
		acc = h.Pedersen(acc, x)
	}
	return h.Pedersen(acc, felt.New(uint64(len(xs))))
}

func (FieldMixHashEngine) Poseidon(a, b *felt.Felt) *felt.Felt {
	sq := new(felt.Felt).Mul(a, a)
	return new(felt.Felt).Add(sq, b)
}

// Keccak256Felt hashes data with Keccak-256 (go-ethereum/crypto) and reduces
// the digest mod the Stark prime, matching the shape of the `keccak`
// syscall.
func Keccak256Felt(data []byte) *felt.Felt {
	digest := crypto.Keccak256(data)
	return new(felt.Felt).SetBytes(digest)
}

const contractAddressDomain = "STARKNET_CONTRACT_ADDRESS"

// ComputeContractAddress implements the deterministic address formula:
//
//	pedersen_hash_chain("STARKNET_CONTRACT_ADDRESS", deployer, salt, class_hash,
//	    pedersen_hash_chain(ctor_calldata)) mod ADDRESS_BOUND
//
// ADDRESS_BOUND is 2^251 - 256, which lies below the Stark prime, so the
// hash-chain result is reduced explicitly.
func ComputeContractAddress(h HashEngine, deployer Address, salt *felt.Felt, classHash ClassHash, ctorCalldata []*felt.Felt) Address {
	prefix := new(felt.Felt).SetBytes([]byte(contractAddressDomain))
	calldataHash := h.PedersenArray(ctorCalldata...)
	result := h.PedersenArray(prefix, &deployer.Felt, salt, &classHash.Felt, calldataHash)
	var v big.Int
	result.BigInt(&v)
	addressBound := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 251), big.NewInt(256))
	v.Mod(&v, addressBound)
	return AddressFromFelt(new(felt.Felt).SetBigInt(&v))
}
