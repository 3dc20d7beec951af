package counttrie

import (
	"bytes"
	"fmt"
	"math"

	"github.com/forestrie/go-bitcodec/bitstream"
	"github.com/forestrie/go-bitcodec/bitvalue"
	"github.com/forestrie/go-bitcodec/countmap"
	"github.com/forestrie/go-bitcodec/windowcode"
	"golang.org/x/exp/slices"
)

// Serializer writes and reads a count map on a bit stream.
type Serializer interface {
	Write(w *bitstream.Writer, m *countmap.Map) error
	Read(r *bitstream.Reader) (*countmap.Map, error)
}

// Codec is the count trie serializer. It holds no per stream state and may
// be shared.
type Codec struct {
	shape        Shape
	useBinomials bool
	log          Logger
}

func New(opts ...Option) *Codec {
	o := newOptions(opts)
	return &Codec{
		shape:        o.Shape,
		useBinomials: o.UseBinomials,
		log:          o.Log,
	}
}

func (c *Codec) Shape() Shape { return c.shape }

func (c *Codec) UseBinomials() bool { return c.useBinomials }

// Write writes the total weight of m followed by its trie.
func (c *Codec) Write(w *bitstream.Writer, m *countmap.Map) error {
	total, err := checkedTotal(m)
	if err != nil {
		return err
	}
	if err := w.WriteVarUint(total); err != nil {
		return err
	}
	return c.writeTree(w, m, total)
}

// WriteSized writes the trie of m without its total weight, which the reader
// must already know. size must equal the total weight of m.
func (c *Codec) WriteSized(w *bitstream.Writer, m *countmap.Map, size uint64) error {
	total, err := checkedTotal(m)
	if err != nil {
		return err
	}
	if total != size {
		return fmt.Errorf("%w: map holds %d, declared %d", ErrSizeMismatch, total, size)
	}
	return c.writeTree(w, m, total)
}

func checkedTotal(m *countmap.Map) (uint64, error) {
	total, err := m.Total()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", bitvalue.ErrInvalidRange, err)
	}
	if total > math.MaxInt64 {
		return 0, fmt.Errorf("%w: total weight %d exceeds %d", bitvalue.ErrInvalidRange, total, int64(math.MaxInt64))
	}
	return total, nil
}

func (c *Codec) writeTree(w *bitstream.Writer, m *countmap.Map, total uint64) error {
	if total == 0 {
		return nil
	}
	sums, err := m.CumulativeSums()
	if err != nil {
		return err
	}
	e := encoder{
		Codec:   c,
		w:       w,
		entries: m.Entries(),
		sums:    sums,
	}
	start := w.BitsWritten()
	if err := e.node(bitvalue.Empty, 0, len(e.entries)); err != nil {
		return err
	}
	if c.log != nil {
		c.log.Debugf("counttrie: wrote %d keys, weight %d, %d nodes in %d bits",
			m.Len(), total, e.nodes, w.BitsWritten()-start)
	}
	return nil
}

// encoder walks the sorted entries. Every key in entries[lo:hi] starts with
// the node's code.
type encoder struct {
	*Codec
	w       *bitstream.Writer
	entries []countmap.Entry
	sums    []uint64
	nodes   int
}

func (e *encoder) check(c Check) error {
	if !e.w.UseChecks() {
		return nil
	}
	return e.w.WriteOrdinal(uint8(c))
}

func (e *encoder) node(code bitvalue.Value, lo, hi int) error {
	e.nodes++
	size := e.sums[hi] - e.sums[lo]

	if err := e.check(StartTree); err != nil {
		return err
	}
	typ, err := e.shape.CodeType(code)
	if err != nil {
		return err
	}

	var terminals uint64
	first := lo
	if e.entries[lo].Key == code {
		terminals = e.entries[lo].Count
		first++
	}
	split := code.Concat(bitvalue.One)
	i, _ := slices.BinarySearchFunc(e.entries[first:hi], split, func(x countmap.Entry, k bitvalue.Value) int {
		return bitvalue.Compare(x.Key, k)
	})
	mid := first + i
	zeros := e.sums[mid] - e.sums[first]
	ones := e.sums[hi] - e.sums[mid]

	switch typ {
	case Unknown:
		if err := e.check(BeforeTerminal); err != nil {
			return err
		}
		if err := e.w.WriteBoundedUint(terminals, 1+size); err != nil {
			return err
		}
		if err := e.check(AfterTerminal); err != nil {
			return err
		}
	case Terminal:
		if terminals != size {
			return fmt.Errorf("%w: keys extend past terminal code %s", ErrShapeMismatch, code)
		}
	case Prefix:
		if terminals != 0 {
			return fmt.Errorf("%w: key %s ends at a prefix code", ErrShapeMismatch, code)
		}
	}

	if maximum := size - terminals; maximum > 0 {
		if err := e.check(BeforeCount); err != nil {
			return err
		}
		if e.useBinomials {
			err = windowcode.EncodeBinomial(e.w, zeros, maximum)
		} else {
			err = e.w.WriteBoundedUint(zeros, 1+maximum)
		}
		if err != nil {
			return err
		}
		if err := e.check(AfterCount); err != nil {
			return err
		}
	}

	if zeros > 0 {
		if err := e.node(code.Concat(bitvalue.Zero), first, mid); err != nil {
			return err
		}
	}
	if ones > 0 {
		if err := e.node(split, mid, hi); err != nil {
			return err
		}
	}
	return e.check(EndTree)
}

// Read reads a map written by Write with the same shape and binomial
// setting.
func (c *Codec) Read(r *bitstream.Reader) (*countmap.Map, error) {
	total, err := r.ReadVarUint()
	if err != nil {
		return nil, err
	}
	if total > math.MaxInt64 {
		return nil, fmt.Errorf("%w: total weight %d", bitstream.ErrMalformedStream, total)
	}
	return c.readTree(r, total)
}

// ReadSized reads a map written by WriteSized with the given size.
func (c *Codec) ReadSized(r *bitstream.Reader, size uint64) (*countmap.Map, error) {
	if size > math.MaxInt64 {
		return nil, fmt.Errorf("%w: size %d exceeds %d", bitvalue.ErrInvalidRange, size, int64(math.MaxInt64))
	}
	return c.readTree(r, size)
}

func (c *Codec) readTree(r *bitstream.Reader, total uint64) (*countmap.Map, error) {
	if total == 0 {
		return countmap.New(), nil
	}
	d := decoder{Codec: c, r: r}
	start := r.BitsRead()
	if err := d.node(bitvalue.Empty, total); err != nil {
		return nil, err
	}
	if c.log != nil {
		c.log.Debugf("counttrie: read %d keys, weight %d, %d nodes in %d bits",
			len(d.entries), total, d.nodes, r.BitsRead()-start)
	}
	// pre-order emits keys already sorted
	return countmap.FromEntries(d.entries)
}

type decoder struct {
	*Codec
	r       *bitstream.Reader
	entries []countmap.Entry
	nodes   int
}

func (d *decoder) check(c Check) error {
	if !d.r.UseChecks() {
		return nil
	}
	return d.r.ExpectOrdinal(uint8(c))
}

func (d *decoder) node(code bitvalue.Value, size uint64) error {
	d.nodes++
	if err := d.check(StartTree); err != nil {
		return err
	}
	typ, err := d.shape.CodeType(code)
	if err != nil {
		return err
	}

	var terminals uint64
	switch typ {
	case Unknown:
		if err := d.check(BeforeTerminal); err != nil {
			return err
		}
		if terminals, err = d.r.ReadBoundedUint(1 + size); err != nil {
			return err
		}
		if err := d.check(AfterTerminal); err != nil {
			return err
		}
	case Terminal:
		terminals = size
	}
	if terminals > 0 {
		d.entries = append(d.entries, countmap.Entry{Key: code, Count: terminals})
	}

	maximum := size - terminals
	var zeros uint64
	if maximum > 0 {
		if err := d.check(BeforeCount); err != nil {
			return err
		}
		if d.useBinomials {
			zeros, err = windowcode.DecodeBinomial(d.r, maximum)
		} else {
			zeros, err = d.r.ReadBoundedUint(1 + maximum)
		}
		if err != nil {
			return err
		}
		if err := d.check(AfterCount); err != nil {
			return err
		}
	}
	ones := maximum - zeros

	if zeros > 0 {
		if err := d.node(code.Concat(bitvalue.Zero), zeros); err != nil {
			return err
		}
	}
	if ones > 0 {
		if err := d.node(code.Concat(bitvalue.One), ones); err != nil {
			return err
		}
	}
	return d.check(EndTree)
}

// Marshal writes m with its total and returns the flushed bytes.
func (c *Codec) Marshal(m *countmap.Map, opts ...bitstream.Option) ([]byte, error) {
	var buf bytes.Buffer
	w := bitstream.NewWriter(&buf, opts...)
	if err := c.Write(w, m); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Codec) Unmarshal(data []byte, opts ...bitstream.Option) (*countmap.Map, error) {
	return c.Read(bitstream.NewReader(bytes.NewReader(data), opts...))
}
