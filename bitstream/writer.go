package bitstream

import (
	"fmt"
	"io"
	"math"

	"github.com/forestrie/go-bitcodec/bitvalue"
	"github.com/icza/bitio"
)

type flusher interface {
	Flush() error
}

// Writer packs bit fields onto an io.Writer. Whole bytes are forwarded as
// soon as they are complete; the sub-byte remainder is held until Flush.
type Writer struct {
	out         io.Writer
	bw          *bitio.Writer
	useChecks   bool
	bitsWritten uint64
}

func NewWriter(out io.Writer, opts ...Option) *Writer {
	o := newOptions(opts)
	return &Writer{
		out:       out,
		bw:        bitio.NewWriter(out),
		useChecks: o.UseChecks,
	}
}

// UseChecks reports whether inline check markers are written.
func (w *Writer) UseChecks() bool { return w.useChecks }

// BitsWritten counts the data bits written so far, excluding flush padding.
func (w *Writer) BitsWritten() uint64 { return w.bitsWritten }

// Write writes every bit of v.
func (w *Writer) Write(v bitvalue.Value) error {
	b := v.Bytes()
	full := v.Len() / 8
	for i := 0; i < full; i++ {
		if err := w.bw.WriteBits(uint64(b[i]), 8); err != nil {
			return streamErr(err, "write")
		}
	}
	if rem := v.Len() % 8; rem != 0 {
		if err := w.bw.WriteBits(uint64(b[full]>>uint(8-rem)), uint8(rem)); err != nil {
			return streamErr(err, "write")
		}
	}
	w.bitsWritten += uint64(v.Len())
	return nil
}

func (w *Writer) WriteBool(b bool) error {
	if err := w.bw.WriteBool(b); err != nil {
		return streamErr(err, "write bool")
	}
	w.bitsWritten++
	return nil
}

// WriteUint writes the low width bits of v, big-endian. v must fit.
func (w *Writer) WriteUint(v uint64, width int) error {
	if width < 0 || width > 64 {
		return fmt.Errorf("%w: %d", ErrWidth, width)
	}
	if bitvalue.BitLength(v) > width {
		return fmt.Errorf("%w: %d does not fit in %d bits", bitvalue.ErrInvalidRange, v, width)
	}
	if width == 0 {
		return nil
	}
	if err := w.bw.WriteBits(v, uint8(width)); err != nil {
		return streamErr(err, "write uint")
	}
	w.bitsWritten += uint64(width)
	return nil
}

func (w *Writer) WriteInt32(v int32) error { return w.WriteUint(uint64(uint32(v)), 32) }

func (w *Writer) WriteFloat64(f float64) error { return w.WriteUint(math.Float64bits(f), 64) }

// WriteOrdinal writes an 8 bit variant tag.
func (w *Writer) WriteOrdinal(o uint8) error { return w.WriteUint(uint64(o), 8) }

// WriteBoundedUint writes v, known to lie in [0, max), in BoundedWidth(max)
// bits.
func (w *Writer) WriteBoundedUint(v, max uint64) error {
	if max == 0 || v >= max {
		return fmt.Errorf("%w: %d is not in [0, %d)", bitvalue.ErrInvalidRange, v, max)
	}
	width := BoundedWidth(max)
	if w.useChecks {
		if err := w.WriteUint(uint64(width), 8); err != nil {
			return err
		}
	}
	return w.WriteUint(v, width)
}

// WriteVarUint writes v with no a priori bound.
func (w *Writer) WriteVarUint(v uint64) error {
	t := VarUintBucket(v)
	if err := w.WriteUint(uint64(t), 2); err != nil {
		return err
	}
	return w.WriteUint(v, VarUintWidths[t])
}

// Flush pads the remainder to a whole byte with zero bits and forwards it.
// If the underlying writer has a Flush method it is called too.
func (w *Writer) Flush() error {
	if err := w.bw.Close(); err != nil {
		return streamErr(err, "flush")
	}
	if f, ok := w.out.(flusher); ok {
		if err := f.Flush(); err != nil {
			return streamErr(err, "flush")
		}
	}
	return nil
}
