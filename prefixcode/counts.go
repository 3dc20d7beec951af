package prefixcode

import (
	"fmt"

	"github.com/forestrie/go-bitcodec/bitstream"
	"github.com/forestrie/go-bitcodec/bitvalue"
	"github.com/forestrie/go-bitcodec/countmap"
	"github.com/forestrie/go-bitcodec/counttrie"
	"golang.org/x/exp/slices"
)

type codeShape[S comparable] struct {
	c *Code[S]
}

// Shape returns the count trie shape of the code tree: code words are
// Terminal and every other reachable path is a Prefix.
func (c *Code[S]) Shape() counttrie.Shape { return codeShape[S]{c: c} }

func (s codeShape[S]) CodeType(code bitvalue.Value) (counttrie.CodeType, error) {
	i := s.c.floor(code)
	if i < 0 || !code.HasPrefix(s.c.forward[i].Code) {
		return counttrie.Prefix, nil
	}
	if s.c.forward[i].Code == code {
		return counttrie.Terminal, nil
	}
	return counttrie.Unknown, fmt.Errorf("%w: %s extends code word %s", counttrie.ErrDepthExceeded, code, s.c.forward[i].Code)
}

func (c *Code[S]) countCodec(opts []counttrie.Option) *counttrie.Codec {
	return counttrie.New(append(slices.Clone(opts), counttrie.WithShape(c.Shape()))...)
}

// WriteCounts writes a histogram of symbols as a count trie keyed by code
// word. Only the code tree needs to be shared with the reader.
func (c *Code[S]) WriteCounts(w *bitstream.Writer, counts map[S]uint64, opts ...counttrie.Option) error {
	m := countmap.New()
	for s, n := range counts {
		code, err := c.Encode(s)
		if err != nil {
			return err
		}
		m.Set(code, n)
	}
	return c.countCodec(opts).Write(w, m)
}

// ReadCounts is the inverse of WriteCounts. Symbols with no occurrences are
// absent from the result.
func (c *Code[S]) ReadCounts(r *bitstream.Reader, opts ...counttrie.Option) (map[S]uint64, error) {
	m, err := c.countCodec(opts).Read(r)
	if err != nil {
		return nil, err
	}
	out := make(map[S]uint64, m.Len())
	for _, e := range m.Entries() {
		code, s, ok := c.DecodeBits(e.Key)
		if !ok || code != e.Key {
			return nil, fmt.Errorf("%w: %s is not a code word", ErrUnknownSymbol, e.Key)
		}
		out[s] = e.Count
	}
	return out, nil
}
