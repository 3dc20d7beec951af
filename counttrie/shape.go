package counttrie

import (
	"fmt"

	"github.com/forestrie/go-bitcodec/bitvalue"
)

// MaxUnboundedBits limits how deep any Depth lets the trie grow. Fixed
// depths beyond it are rejected at the root, before any node is coded.
const MaxUnboundedBits = 1 << 16

// Shape reports what is known about a code before its node is coded.
type Shape interface {
	CodeType(code bitvalue.Value) (CodeType, error)
}

// Depth is the shape of a key space that is either unbounded or fixed
// width. The zero Depth is Unbounded.
type Depth struct {
	bits  int
	fixed bool
}

func Unbounded() Depth { return Depth{} }

// Fixed returns the shape of a key space where every key is exactly bits
// long.
func Fixed(bits int) Depth { return Depth{bits: bits, fixed: true} }

// Bits returns the fixed depth, and false for an unbounded one.
func (d Depth) Bits() (int, bool) { return d.bits, d.fixed }

// Validate rejects fixed depths that are negative or deeper than
// MaxUnboundedBits.
func (d Depth) Validate() error {
	if d.fixed && (d.bits < 0 || d.bits > MaxUnboundedBits) {
		return fmt.Errorf("%w: fixed depth %d, limit %d", ErrDepthExceeded, d.bits, MaxUnboundedBits)
	}
	return nil
}

func (d Depth) CodeType(code bitvalue.Value) (CodeType, error) {
	if err := d.Validate(); err != nil {
		return Unknown, err
	}
	if !d.fixed {
		if code.Len() > MaxUnboundedBits {
			return Unknown, fmt.Errorf("%w: %d bits", ErrDepthExceeded, code.Len())
		}
		return Unknown, nil
	}
	switch {
	case code.Len() == d.bits:
		return Terminal, nil
	case code.Len() < d.bits:
		return Prefix, nil
	}
	return Unknown, fmt.Errorf("%w: %d bits, depth %d", ErrDepthExceeded, code.Len(), d.bits)
}

func (d Depth) String() string {
	if !d.fixed {
		return "unbounded"
	}
	return fmt.Sprintf("fixed(%d)", d.bits)
}
