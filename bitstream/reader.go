package bitstream

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/forestrie/go-bitcodec/bitvalue"
	"github.com/icza/bitio"
)

// Reader unpacks bit fields from an io.Reader.
//
// Bits pulled from the stream but not yet consumed are held in a lookahead
// window. ReadAhead grows the window a byte at a time, which lets prefix code
// decoders inspect upcoming bits before committing to a read.
//
// If in does not implement io.ByteReader it is buffered, and bytes beyond the
// last one consumed may be read from it.
type Reader struct {
	in        *bitio.Reader
	ahead     bitvalue.Value
	useChecks bool
	bitsRead  uint64
}

func NewReader(in io.Reader, opts ...Option) *Reader {
	o := newOptions(opts)
	return &Reader{
		in:        bitio.NewReader(in),
		useChecks: o.UseChecks,
	}
}

// UseChecks reports whether inline check markers are expected.
func (r *Reader) UseChecks() bool { return r.useChecks }

// BitsRead counts the bits consumed so far. Lookahead bits are not counted
// until they are consumed.
func (r *Reader) BitsRead() uint64 { return r.bitsRead }

// Read returns exactly n bits.
func (r *Reader) Read(n int) (bitvalue.Value, error) {
	if n < 0 {
		return bitvalue.Value{}, fmt.Errorf("%w: read of %d bits", bitvalue.ErrInvalidRange, n)
	}
	var v bitvalue.Value
	if n <= r.ahead.Len() {
		head, err := r.ahead.Range(0, n)
		if err != nil {
			return bitvalue.Value{}, err
		}
		tail, err := r.ahead.Suffix(n)
		if err != nil {
			return bitvalue.Value{}, err
		}
		v, r.ahead = head, tail
	} else {
		fresh, err := r.pull(n - r.ahead.Len())
		if err != nil {
			return bitvalue.Value{}, err
		}
		v, r.ahead = r.ahead.Concat(fresh), bitvalue.Empty
	}
	r.bitsRead += uint64(n)
	return v, nil
}

// pull reads n bits straight from the stream, bypassing the lookahead.
func (r *Reader) pull(n int) (bitvalue.Value, error) {
	buf := make([]byte, (n+7)/8)
	full := n / 8
	for i := 0; i < full; i++ {
		u, err := r.in.ReadBits(8)
		if err != nil {
			return bitvalue.Value{}, streamErr(err, "read")
		}
		buf[i] = byte(u)
	}
	if rem := n % 8; rem != 0 {
		u, err := r.in.ReadBits(uint8(rem))
		if err != nil {
			return bitvalue.Value{}, streamErr(err, "read")
		}
		buf[full] = byte(u) << uint(8-rem)
	}
	return bitvalue.FromBytesLen(buf, n)
}

// ReadAhead pulls nbytes more bytes into the lookahead window and returns the
// whole window. ReadAhead(0) returns the window as is.
//
// Near the end of the stream fewer bits may be available than requested;
// they are taken and no error is returned. It is ErrMalformedStream only if
// no bit at all could be added.
func (r *Reader) ReadAhead(nbytes int) (bitvalue.Value, error) {
	if nbytes < 0 {
		return bitvalue.Value{}, fmt.Errorf("%w: read ahead %d bytes", bitvalue.ErrInvalidRange, nbytes)
	}
	if nbytes == 0 {
		return r.ahead, nil
	}
	want := nbytes * 8
	buf := make([]byte, nbytes)
	got := 0
	for ; got < want; got++ {
		b, err := r.in.ReadBool()
		if err != nil {
			if got > 0 && errors.Is(err, io.EOF) {
				break
			}
			return bitvalue.Value{}, streamErr(err, "read ahead")
		}
		if b {
			buf[got/8] |= 0x80 >> uint(got%8)
		}
	}
	fresh, err := bitvalue.FromBytesLen(buf[:(got+7)/8], got)
	if err != nil {
		return bitvalue.Value{}, err
	}
	r.ahead = r.ahead.Concat(fresh)
	return r.ahead, nil
}

// Lookahead returns the bits already pulled from the stream but not consumed.
func (r *Reader) Lookahead() bitvalue.Value { return r.ahead }

func (r *Reader) ReadBool() (bool, error) {
	if r.ahead.Len() == 0 {
		b, err := r.in.ReadBool()
		if err != nil {
			return false, streamErr(err, "read bool")
		}
		r.bitsRead++
		return b, nil
	}
	v, err := r.Read(1)
	if err != nil {
		return false, err
	}
	return v == bitvalue.One, nil
}

// ReadUint reads a width bit big-endian unsigned integer.
func (r *Reader) ReadUint(width int) (uint64, error) {
	if width < 0 || width > 64 {
		return 0, fmt.Errorf("%w: %d", ErrWidth, width)
	}
	if width == 0 {
		return 0, nil
	}
	if r.ahead.Len() == 0 {
		u, err := r.in.ReadBits(uint8(width))
		if err != nil {
			return 0, streamErr(err, "read uint")
		}
		r.bitsRead += uint64(width)
		return u, nil
	}
	v, err := r.Read(width)
	if err != nil {
		return 0, err
	}
	return v.Uint64()
}

func (r *Reader) ReadInt32() (int32, error) {
	u, err := r.ReadUint(32)
	return int32(uint32(u)), err
}

func (r *Reader) ReadFloat64() (float64, error) {
	u, err := r.ReadUint(64)
	return math.Float64frombits(u), err
}

func (r *Reader) ReadOrdinal() (uint8, error) {
	u, err := r.ReadUint(8)
	return uint8(u), err
}

// ReadBoundedUint is the inverse of Writer.WriteBoundedUint.
func (r *Reader) ReadBoundedUint(max uint64) (uint64, error) {
	if max == 0 {
		return 0, fmt.Errorf("%w: empty bound", bitvalue.ErrInvalidRange)
	}
	width := BoundedWidth(max)
	if r.useChecks {
		if err := r.expectUint(uint64(width), 8, "bounded width"); err != nil {
			return 0, err
		}
	}
	v, err := r.ReadUint(width)
	if err != nil {
		return 0, err
	}
	if v >= max {
		return 0, fmt.Errorf("%w: bounded value %d is not below %d", ErrMalformedStream, v, max)
	}
	return v, nil
}

// ReadVarUint is the inverse of Writer.WriteVarUint.
func (r *Reader) ReadVarUint() (uint64, error) {
	t, err := r.ReadUint(2)
	if err != nil {
		return 0, err
	}
	return r.ReadUint(VarUintWidths[t])
}

// Expect reads v.Len() bits and fails with a *CheckMismatchError if they
// differ from v.
func (r *Reader) Expect(v bitvalue.Value) error {
	got, err := r.Read(v.Len())
	if err != nil {
		return err
	}
	if got != v {
		return &CheckMismatchError{Label: "bits", Want: v, Got: got}
	}
	return nil
}

func (r *Reader) ExpectInt32(v int32) error {
	return r.expectUint(uint64(uint32(v)), 32, fmt.Sprintf("int32 %d", v))
}

// ExpectFloat64 compares IEEE-754 bit patterns, so NaN round trips.
func (r *Reader) ExpectFloat64(f float64) error {
	return r.expectUint(math.Float64bits(f), 64, fmt.Sprintf("float64 %v", f))
}

func (r *Reader) ExpectOrdinal(o uint8) error {
	return r.expectUint(uint64(o), 8, fmt.Sprintf("ordinal %d", o))
}

func (r *Reader) expectUint(want uint64, width int, label string) error {
	got, err := r.ReadUint(width)
	if err != nil {
		return err
	}
	if got != want {
		return &CheckMismatchError{
			Label: label,
			Want:  bitvalue.MustFromUint64(want, width),
			Got:   bitvalue.MustFromUint64(got, width),
		}
	}
	return nil
}
