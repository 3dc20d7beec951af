package bitvalue

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/dchest/siphash"
)

// Concat returns v followed by o.
func (v Value) Concat(o Value) Value {
	if o.n == 0 {
		return v
	}
	if v.n == 0 {
		return o
	}
	buf := make([]byte, byteLen(v.n+o.n))
	copy(buf, v.b)
	off := v.n / 8
	shift := uint(v.n % 8)
	for i := 0; i < len(o.b); i++ {
		c := o.b[i]
		buf[off+i] |= c >> shift
		if shift != 0 && off+i+1 < len(buf) {
			buf[off+i+1] |= c << (8 - shift)
		}
	}
	return Value{n: v.n + o.n, b: string(buf)}
}

// Concat joins all of vs in order.
func Concat(vs ...Value) Value {
	var out Value
	for _, v := range vs {
		out = out.Concat(v)
	}
	return out
}

// Range returns the length bits starting at bit start.
//
// Range(i, 0) is Empty for any 0 <= i <= Len().
func (v Value) Range(start, length int) (Value, error) {
	if start < 0 || length < 0 || start > v.n || length > v.n-start {
		return Value{}, fmt.Errorf("%w: [%d, +%d) of %d bits", ErrInvalidRange, start, length, v.n)
	}
	if length == 0 {
		return Empty, nil
	}
	if start == 0 && length == v.n {
		return v, nil
	}
	return v.extract(start, length), nil
}

// Suffix returns the bits from start to the end of v.
func (v Value) Suffix(start int) (Value, error) {
	if start < 0 || start > v.n {
		return Value{}, fmt.Errorf("%w: suffix at %d of %d bits", ErrInvalidRange, start, v.n)
	}
	return v.Range(start, v.n-start)
}

// extract assumes the range has been validated.
func (v Value) extract(start, length int) Value {
	dst := make([]byte, byteLen(length))
	off := start / 8
	shift := uint(start % 8)
	for i := range dst {
		c := v.b[off+i] << shift
		if shift != 0 && off+i+1 < len(v.b) {
			c |= v.b[off+i+1] >> (8 - shift)
		}
		dst[i] = c
	}
	return canonical(dst, length)
}

// HasPrefix reports whether the leading p.Len() bits of v equal p.
func (v Value) HasPrefix(p Value) bool {
	if p.n > v.n {
		return false
	}
	if p.n == 0 {
		return true
	}
	return v.extract(0, p.n) == p
}

// ShiftLeft appends k zero bits.
func (v Value) ShiftLeft(k int) (Value, error) {
	z, err := Zeros(k)
	if err != nil {
		return Value{}, err
	}
	return v.Concat(z), nil
}

// And, Or and Xor zero extend the shorter operand on the right.
func (v Value) And(o Value) Value { return v.bitwise(o, func(a, b byte) byte { return a & b }) }
func (v Value) Or(o Value) Value  { return v.bitwise(o, func(a, b byte) byte { return a | b }) }
func (v Value) Xor(o Value) Value { return v.bitwise(o, func(a, b byte) byte { return a ^ b }) }

func (v Value) bitwise(o Value, op func(a, b byte) byte) Value {
	n := max(v.n, o.n)
	buf := make([]byte, byteLen(n))
	for i := range buf {
		var a, b byte
		if i < len(v.b) {
			a = v.b[i]
		}
		if i < len(o.b) {
			b = o.b[i]
		}
		buf[i] = op(a, b)
	}
	return Value{n: n, b: string(buf)}
}

// Next returns the value one greater than v at the same bit length.
//
// ok is false when v is all ones (including Empty): there is no successor.
// Over a fixed width key space, [p, p.Next()) is every key prefixed by p.
func (v Value) Next() (next Value, ok bool) {
	if v.n == 0 {
		return Value{}, false
	}
	buf := []byte(v.b)
	unit := uint(0x80) >> uint((v.n-1)%8)
	for i := len(buf) - 1; i >= 0; i-- {
		sum := uint(buf[i]) + unit
		buf[i] = byte(sum)
		if sum < 0x100 {
			return Value{n: v.n, b: string(buf)}, true
		}
		unit = 1
	}
	return Value{}, false
}

// Compare orders values by bit content; a prefix sorts before its extensions.
func (v Value) Compare(o Value) int {
	if c := strings.Compare(v.b, o.b); c != 0 {
		return c
	}
	switch {
	case v.n < o.n:
		return -1
	case v.n > o.n:
		return 1
	}
	return 0
}

// Compare is Value.Compare as a function, for use with sort and slices.
func Compare(a, b Value) int { return a.Compare(b) }

func (v Value) Equal(o Value) bool { return v == o }

const (
	hashK0 = 0x736f6d6570736575
	hashK1 = 0x646f72616e646f6d
)

// Hash returns a SipHash-2-4 digest of the bit string. Equal values always
// hash equal, and values of different lengths differ even when their bytes
// agree. It keys dedup sets and fingerprints of code tables.
func (v Value) Hash() uint64 {
	buf := make([]byte, len(v.b)+8)
	copy(buf, v.b)
	binary.BigEndian.PutUint64(buf[len(v.b):], uint64(v.n))
	return siphash.Hash(hashK0, hashK1, buf)
}
