package bitvalue

import (
	"encoding/hex"
	"fmt"
	"math/rand"
	"strings"
)

// Value is an immutable bit string with an exact bit length.
//
// The zero Value is the empty bit string. Values are comparable with == and
// may be used as map keys; see the package documentation for the canonical
// form that makes this sound.
type Value struct {
	n int
	b string
}

// FromUint64 returns the n bit, big-endian representation of v.
// n may exceed 64, in which case v is left padded with zeros.
func FromUint64(v uint64, n int) (Value, error) {
	if n < 0 {
		return Value{}, fmt.Errorf("%w: negative length %d", ErrInvalidRange, n)
	}
	if BitLength(v) > n {
		return Value{}, fmt.Errorf("%w: %d does not fit in %d bits", ErrInvalidRange, v, n)
	}
	buf := make([]byte, byteLen(n))
	for i := 0; i < BitLength(v); i++ {
		if v&(1<<uint(i)) == 0 {
			continue
		}
		p := n - 1 - i
		buf[p/8] |= 0x80 >> uint(p%8)
	}
	return Value{n: n, b: string(buf)}, nil
}

// MustFromUint64 is FromUint64 for arguments known to be valid. It panics
// otherwise.
func MustFromUint64(v uint64, n int) Value {
	x, err := FromUint64(v, n)
	if err != nil {
		panic(err)
	}
	return x
}

// FromBytes returns the value holding every bit of b.
func FromBytes(b []byte) Value {
	return Value{n: len(b) * 8, b: string(b)}
}

// FromBytesLen returns the value holding the leading n bits of b.
//
// b must be exactly ceil(n/8) bytes long. Bits of the last byte beyond n are
// discarded.
func FromBytesLen(b []byte, n int) (Value, error) {
	if n < 0 || len(b) != byteLen(n) {
		return Value{}, fmt.Errorf("%w: %d bytes can not hold exactly %d bits", ErrInvalidRange, len(b), n)
	}
	if n == 0 {
		return Empty, nil
	}
	buf := make([]byte, len(b))
	copy(buf, b)
	return canonical(buf, n), nil
}

// Zeros returns n zero bits.
func Zeros(n int) (Value, error) {
	if n < 0 {
		return Value{}, fmt.Errorf("%w: negative length %d", ErrInvalidRange, n)
	}
	return Value{n: n, b: string(make([]byte, byteLen(n)))}, nil
}

// Parse reads a string of '0' and '1' characters, MSB first.
func Parse(s string) (Value, error) {
	buf := make([]byte, byteLen(len(s)))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
		case '1':
			buf[i/8] |= 0x80 >> uint(i%8)
		default:
			return Value{}, fmt.Errorf("%w: %q", ErrBadBitString, s)
		}
	}
	return Value{n: len(s), b: string(buf)}, nil
}

func MustParse(s string) Value {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Random returns n bits drawn from rng.
func Random(rng *rand.Rand, n int) Value {
	if n <= 0 {
		return Empty
	}
	buf := make([]byte, byteLen(n))
	_, _ = rng.Read(buf)
	return canonical(buf, n)
}

// Len returns the bit length.
func (v Value) Len() int { return v.n }

// Bytes returns a copy of the canonical storage, ceil(Len()/8) bytes.
func (v Value) Bytes() []byte { return []byte(v.b) }

// Bit returns bit i, where bit 0 is the most significant.
func (v Value) Bit(i int) (bool, error) {
	if i < 0 || i >= v.n {
		return false, fmt.Errorf("%w: bit %d of %d", ErrInvalidRange, i, v.n)
	}
	return v.bit(i), nil
}

func (v Value) bit(i int) bool {
	return v.b[i/8]&(0x80>>uint(i%8)) != 0
}

// Uint64 returns the value as an unsigned integer. Values wider than 64 bits
// are rejected even when their leading bits are zero.
func (v Value) Uint64() (uint64, error) {
	if v.n > 64 {
		return 0, fmt.Errorf("%w: %d bits", ErrValueTooLarge, v.n)
	}
	var x uint64
	for i := 0; i < len(v.b); i++ {
		x = x<<8 | uint64(v.b[i])
	}
	return x >> uint(len(v.b)*8-v.n), nil
}

// String renders the value as '0' and '1' characters.
func (v Value) String() string {
	var sb strings.Builder
	sb.Grow(v.n)
	for i := 0; i < v.n; i++ {
		if v.bit(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Hex renders the canonical storage bytes in hex.
func (v Value) Hex() string {
	return hex.EncodeToString([]byte(v.b))
}
