package bitvalue

import "errors"

var (
	ErrInvalidRange  = errors.New("bitvalue: invalid range")
	ErrBadBitString  = errors.New("bitvalue: bit string may only contain '0' and '1'")
	ErrValueTooLarge = errors.New("bitvalue: value wider than 64 bits")
)

var (
	// Empty is the zero length value.
	Empty = Value{}
	// Zero is the single bit 0. It labels the left edge of a trie branch.
	Zero = MustFromUint64(0, 1)
	// One is the single bit 1. It labels the right edge of a trie branch.
	One = MustFromUint64(1, 1)
)
