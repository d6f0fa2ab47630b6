// Package felt wraps the STARK field element type from gnark-crypto so the
// rest of the engine can treat addresses, class hashes, storage keys and
// calldata uniformly as Felt values instead of raw bytes or big.Ints.
package felt

import (
	"encoding/json"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fr"
	"github.com/fxamacker/cbor/v2"
)

// Bytes is the canonical 32-byte big-endian encoding of a Felt.
type Bytes = [32]byte

// Felt is a field element modulo the Stark prime.
type Felt struct {
	impl fr.Element
}

const Base10 = 10

var (
	Zero = Felt{}
	One  = func() Felt {
		var f Felt
		f.impl.SetOne()
		return f
	}()
)

// New returns a Felt set to the given uint64 value.
func New(v uint64) *Felt {
	return new(Felt).SetUint64(v)
}

func (z *Felt) SetUint64(v uint64) *Felt {
	z.impl.SetUint64(v)
	return z
}

// SetBytes interprets b as a big-endian integer mod the Stark prime.
func (z *Felt) SetBytes(b []byte) *Felt {
	z.impl.SetBytes(b)
	return z
}

// SetBigInt reduces v mod the Stark prime.
func (z *Felt) SetBigInt(v *big.Int) *Felt {
	z.impl.SetBigInt(v)
	return z
}

func (z *Felt) Add(x, y *Felt) *Felt {
	z.impl.Add(&x.impl, &y.impl)
	return z
}

func (z *Felt) Sub(x, y *Felt) *Felt {
	z.impl.Sub(&x.impl, &y.impl)
	return z
}

func (z *Felt) Mul(x, y *Felt) *Felt {
	z.impl.Mul(&x.impl, &y.impl)
	return z
}

// Div computes x/y. Division by zero returns the zero Felt rather than
// panicking; fee-estimate callers divide by a gas price that may be zero.
func (z *Felt) Div(x, y *Felt) *Felt {
	if y.IsZero() {
		*z = Zero
		return z
	}
	z.impl.Div(&x.impl, &y.impl)
	return z
}

func (z *Felt) IsZero() bool {
	return z.impl.IsZero()
}

func (z *Felt) IsOne() bool {
	return z.impl.IsOne()
}

func (z *Felt) Equal(o *Felt) bool {
	return z.impl.Equal(&o.impl)
}

func (z *Felt) Cmp(o *Felt) int {
	return z.impl.Cmp(&o.impl)
}

// Marshal returns the canonical 32-byte big-endian representation.
func (z *Felt) Marshal() []byte {
	b := z.impl.Bytes()
	out := make([]byte, len(b))
	copy(out, b[:])
	return out
}

func (z *Felt) Bytes() Bytes {
	return z.impl.Bytes()
}

func (z *Felt) BigInt(out *big.Int) *big.Int {
	return z.impl.BigInt(out)
}

func (z *Felt) Uint64() uint64 {
	return z.impl.Uint64()
}

func (z *Felt) Text(base int) string {
	return z.impl.Text(base)
}

func (z *Felt) String() string {
	return "0x" + z.impl.Text(16)
}

func (z *Felt) MarshalJSON() ([]byte, error) {
	return json.Marshal(z.String())
}

func (z *Felt) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	_, err := z.impl.SetString(s)
	return err
}

// MarshalBinary implements encoding.BinaryMarshaler with the canonical
// 32-byte big-endian form, which is also what the CBOR encoder picks up
// when a Felt appears in a serialized execution trace. The value receiver
// lets map keys of type Felt (not *Felt) encode too.
func (z Felt) MarshalBinary() ([]byte, error) {
	b := z.impl.Bytes()
	return b[:], nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (z *Felt) UnmarshalBinary(data []byte) error {
	z.impl.SetBytes(data)
	return nil
}

// MarshalCBOR encodes the Felt as a CBOR byte string holding the canonical
// big-endian form. The value receiver lets map keys of type Felt encode.
func (z Felt) MarshalCBOR() ([]byte, error) {
	b := z.impl.Bytes()
	return cbor.Marshal(b[:])
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (z *Felt) UnmarshalCBOR(data []byte) error {
	var b []byte
	if err := cbor.Unmarshal(data, &b); err != nil {
		return err
	}
	z.impl.SetBytes(b)
	return nil
}

// FromString parses a decimal or "0x"-prefixed hexadecimal string into a
// new Felt.
func FromString(s string) (*Felt, error) {
	z := new(Felt)
	if _, err := z.impl.SetString(s); err != nil {
		return nil, err
	}
	return z, nil
}

// Clone returns a deep copy.
func (z *Felt) Clone() *Felt {
	out := *z
	return &out
}

// HeapClone copies a value-typed Felt onto the heap, useful when a cache
// stores Felt by value but callers need an addressable *Felt.
func HeapClone(v *Felt) *Felt {
	out := *v
	return &out
}
