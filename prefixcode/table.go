package prefixcode

import (
	"fmt"

	"github.com/forestrie/go-bitcodec/bitstream"
	"github.com/forestrie/go-bitcodec/bitvalue"
	"github.com/forestrie/go-bitcodec/countmap"
	"github.com/forestrie/go-bitcodec/counttrie"
	"golang.org/x/exp/slices"
)

// Keys maps symbols to and from the bit string keys a table is persisted
// under. Key must be injective.
type Keys[S any] interface {
	Key(s S) (bitvalue.Value, error)
	Symbol(k bitvalue.Value) (S, error)
	Depth() counttrie.Depth
}

type uint64Keys struct {
	width int
}

// Uint64Keys keys unsigned integer symbols by their width bit big-endian
// representation.
func Uint64Keys(width int) Keys[uint64] { return uint64Keys{width: width} }

func (k uint64Keys) Key(s uint64) (bitvalue.Value, error) { return bitvalue.FromUint64(s, k.width) }

func (k uint64Keys) Symbol(v bitvalue.Value) (uint64, error) {
	if v.Len() != k.width {
		return 0, fmt.Errorf("%w: key %s is not %d bits", bitvalue.ErrInvalidRange, v, k.width)
	}
	return v.Uint64()
}

func (k uint64Keys) Depth() counttrie.Depth { return counttrie.Fixed(k.width) }

type bitKeys struct{}

// BitKeys keys bit string symbols by themselves.
func BitKeys() Keys[bitvalue.Value] { return bitKeys{} }

func (bitKeys) Key(s bitvalue.Value) (bitvalue.Value, error)    { return s, nil }
func (bitKeys) Symbol(v bitvalue.Value) (bitvalue.Value, error) { return v, nil }
func (bitKeys) Depth() counttrie.Depth                          { return counttrie.Unbounded() }

// WriteTable persists the symbol weights as a count trie. ReadTable with the
// same keys and order rebuilds an identical code.
func (c *Code[S]) WriteTable(w *bitstream.Writer, keys Keys[S], opts ...counttrie.Option) error {
	m := countmap.New()
	for s, n := range c.weights {
		if n == 0 {
			return fmt.Errorf("%w: %v", ErrZeroWeight, s)
		}
		k, err := keys.Key(s)
		if err != nil {
			return err
		}
		if m.Get(k) != 0 {
			return fmt.Errorf("%w: key %s", ErrDuplicateSymbol, k)
		}
		m.Set(k, n)
	}
	codec := counttrie.New(append(slices.Clone(opts), counttrie.WithDepth(keys.Depth()))...)
	return codec.Write(w, m)
}

// ReadTable reads a table written by WriteTable and rebuilds the code.
func ReadTable[S comparable](r *bitstream.Reader, keys Keys[S], cmp func(a, b S) int, opts ...counttrie.Option) (*Code[S], error) {
	codec := counttrie.New(append(slices.Clone(opts), counttrie.WithDepth(keys.Depth()))...)
	m, err := codec.Read(r)
	if err != nil {
		return nil, err
	}
	symbols := make([]Symbol[S], 0, m.Len())
	for _, e := range m.Entries() {
		s, err := keys.Symbol(e.Key)
		if err != nil {
			return nil, err
		}
		symbols = append(symbols, Symbol[S]{Key: s, Weight: e.Count})
	}
	return NewFunc(symbols, cmp)
}
