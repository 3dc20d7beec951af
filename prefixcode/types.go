package prefixcode

import (
	"errors"

	"github.com/forestrie/go-bitcodec/bitvalue"
)

var (
	ErrUnknownSymbol   = errors.New("prefixcode: symbol is not in the code")
	ErrDuplicateSymbol = errors.New("prefixcode: symbol appears more than once")
	ErrZeroWeight      = errors.New("prefixcode: zero weight symbols can not be persisted")
	ErrEmptyCode       = errors.New("prefixcode: code has no symbols")
	ErrNotPrefixFree   = errors.New("prefixcode: code is not prefix free")
	ErrIndexMismatch   = errors.New("prefixcode: forward and reverse index disagree")
)

// Symbol is a symbol and the weight it is expected to occur with.
type Symbol[S any] struct {
	Key    S
	Weight uint64
}

// Entry is one code word and the symbol it stands for.
type Entry[S any] struct {
	Code   bitvalue.Value
	Symbol S
}
