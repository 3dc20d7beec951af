package counttrie

import (
	"bytes"
	"fmt"
	"math"

	"github.com/forestrie/go-bitcodec/bitstream"
	"github.com/forestrie/go-bitcodec/bitvalue"
	"github.com/forestrie/go-bitcodec/countmap"
)

// FlatCountBits is the width of the entry count and of each weight in the
// flat layout.
const FlatCountBits = 32

// Flat is the naive fixed width serializer, useful as a size baseline:
//
//	uint32(entries) { key[depth] uint32(weight) }*
type Flat struct {
	depth int
}

// NewFlat returns a flat serializer for keys of exactly depth bits.
func NewFlat(depth int) (*Flat, error) {
	if depth < 0 {
		return nil, fmt.Errorf("%w: depth %d", bitvalue.ErrInvalidRange, depth)
	}
	return &Flat{depth: depth}, nil
}

func (f *Flat) Write(w *bitstream.Writer, m *countmap.Map) error {
	if uint64(m.Len()) > math.MaxUint32 {
		return fmt.Errorf("%w: %d entries", bitvalue.ErrInvalidRange, m.Len())
	}
	if err := w.WriteUint(uint64(m.Len()), FlatCountBits); err != nil {
		return err
	}
	for _, e := range m.Entries() {
		if e.Key.Len() != f.depth {
			return fmt.Errorf("%w: key %s is not %d bits", ErrShapeMismatch, e.Key, f.depth)
		}
		if e.Count > math.MaxUint32 {
			return fmt.Errorf("%w: weight %d of %s", bitvalue.ErrInvalidRange, e.Count, e.Key)
		}
		if err := w.Write(e.Key); err != nil {
			return err
		}
		if err := w.WriteUint(e.Count, FlatCountBits); err != nil {
			return err
		}
	}
	return nil
}

func (f *Flat) Read(r *bitstream.Reader) (*countmap.Map, error) {
	n, err := r.ReadUint(FlatCountBits)
	if err != nil {
		return nil, err
	}
	m := countmap.New()
	for i := uint64(0); i < n; i++ {
		k, err := r.Read(f.depth)
		if err != nil {
			return nil, err
		}
		c, err := r.ReadUint(FlatCountBits)
		if err != nil {
			return nil, err
		}
		if err := m.Add(k, c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (f *Flat) Marshal(m *countmap.Map, opts ...bitstream.Option) ([]byte, error) {
	var buf bytes.Buffer
	w := bitstream.NewWriter(&buf, opts...)
	if err := f.Write(w, m); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var (
	_ Serializer = (*Codec)(nil)
	_ Serializer = (*Flat)(nil)
)
