package windowcode

import (
	"fmt"
	"math"

	"github.com/forestrie/go-bitcodec/bitstream"
	"github.com/forestrie/go-bitcodec/bitvalue"
)

// maxWindowBits keeps the window size representable. Any larger window
// covers more than half of every count range we can code.
const maxWindowBits = 62

// Gaussian is the distribution used to place the central window.
type Gaussian struct {
	Mean   float64
	StdDev float64
}

// New returns a Gaussian with the given parameters. Both must be finite and
// stdDev must be positive.
func New(mean, stdDev float64) (Gaussian, error) {
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		return Gaussian{}, fmt.Errorf("%w: mean %v", ErrInvalidParameter, mean)
	}
	if math.IsNaN(stdDev) || math.IsInf(stdDev, 0) || stdDev <= 0 {
		return Gaussian{}, fmt.Errorf("%w: standard deviation %v", ErrInvalidParameter, stdDev)
	}
	return Gaussian{Mean: mean, StdDev: stdDev}, nil
}

// FromBinomial approximates the number of successes in n trials of
// probability p.
func FromBinomial(p float64, n uint64) (Gaussian, error) {
	if n == 0 {
		return Gaussian{}, fmt.Errorf("%w: empty population", ErrInvalidParameter)
	}
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return Gaussian{}, fmt.Errorf("%w: probability %v", ErrInvalidParameter, p)
	}
	fn := float64(n)
	return New(p*fn, math.Sqrt(fn*p*(1-p)))
}

// windowBits returns round(log2(2σ)) - 1, clamped at 0. Halves round up.
func (g Gaussian) windowBits() int {
	if !(g.StdDev > 0) {
		return 0
	}
	bits := int(math.Floor(math.Log2(2*g.StdDev)+0.5)) - 1
	if bits < 0 {
		return 0
	}
	return bits
}

// Window returns the central window used to code a value in [0, n].
//
// flat is true when the coder falls back to a plain bounded code over n+1
// values; start is then 0 and size is n+1.
func (g Gaussian) Window(n uint64) (start, size uint64, flat bool) {
	s, e, flat := g.window(n)
	if flat {
		return 0, n + 1, true
	}
	return s, e - s, false
}

// window returns [start, end) inside [0, n+1], or flat. n must not exceed
// math.MaxInt64.
func (g Gaussian) window(n uint64) (start, end uint64, flat bool) {
	bits := g.windowBits()
	if n == 0 || bits > maxWindowBits {
		return 0, 0, true
	}
	size := uint64(1) << uint(bits)
	if float64(size) >= float64(n+1)/2 {
		return 0, 0, true
	}
	// a window left of zero slides right, one past n slides left
	switch m := g.Mean - float64(size/2); {
	case m <= 0:
		start = 0
	case m >= float64(n+1):
		start = n + 1
	default:
		start = uint64(m)
	}
	end = start + size
	if end > n+1 {
		start -= end - (n + 1)
		end = n + 1
	}
	return start, end, false
}

func checkCount(n uint64) error {
	if n > math.MaxInt64 {
		return fmt.Errorf("%w: count %d exceeds %d", bitvalue.ErrInvalidRange, n, int64(math.MaxInt64))
	}
	return nil
}

// Encode writes v, which must lie in [0, n]. Nothing is written when n is 0.
func (g Gaussian) Encode(w *bitstream.Writer, v, n uint64) error {
	if err := checkCount(n); err != nil {
		return err
	}
	if v > n {
		return fmt.Errorf("%w: %d is above %d", bitvalue.ErrInvalidRange, v, n)
	}
	if n == 0 {
		return nil
	}
	start, end, flat := g.window(n)
	if flat {
		return w.WriteBoundedUint(v, n+1)
	}
	switch {
	case v < start:
		if err := w.WriteBool(false); err != nil {
			return err
		}
		if end <= n {
			if err := w.WriteBool(false); err != nil {
				return err
			}
		}
		return w.WriteBoundedUint(v, start)
	case v < end:
		if err := w.WriteBool(true); err != nil {
			return err
		}
		return w.WriteBoundedUint(v-start, end-start)
	default:
		if err := w.WriteBool(false); err != nil {
			return err
		}
		if start > 0 {
			if err := w.WriteBool(true); err != nil {
				return err
			}
		}
		return w.WriteBoundedUint(v-end, n+1-end)
	}
}

// Decode reads a value in [0, n] written by Encode with the same g and n.
func (g Gaussian) Decode(r *bitstream.Reader, n uint64) (uint64, error) {
	if err := checkCount(n); err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	start, end, flat := g.window(n)
	if flat {
		return r.ReadBoundedUint(n + 1)
	}
	inWindow, err := r.ReadBool()
	if err != nil {
		return 0, err
	}
	if inWindow {
		k, err := r.ReadBoundedUint(end - start)
		if err != nil {
			return 0, err
		}
		return start + k, nil
	}

	// the side bit is only present when both tails are non empty
	var above bool
	switch {
	case start == 0:
		above = true
	case end > n:
		above = false
	default:
		if above, err = r.ReadBool(); err != nil {
			return 0, err
		}
	}
	if above {
		k, err := r.ReadBoundedUint(n + 1 - end)
		if err != nil {
			return 0, err
		}
		return end + k, nil
	}
	return r.ReadBoundedUint(start)
}

// EncodeBinomial codes the zero side count k of a fair split of n units.
func EncodeBinomial(w *bitstream.Writer, k, n uint64) error {
	if n == 0 {
		if k != 0 {
			return fmt.Errorf("%w: %d is above 0", bitvalue.ErrInvalidRange, k)
		}
		return nil
	}
	g, err := FromBinomial(0.5, n)
	if err != nil {
		return err
	}
	return g.Encode(w, k, n)
}

// DecodeBinomial is the inverse of EncodeBinomial.
func DecodeBinomial(r *bitstream.Reader, n uint64) (uint64, error) {
	if n == 0 {
		return 0, nil
	}
	g, err := FromBinomial(0.5, n)
	if err != nil {
		return 0, err
	}
	return g.Decode(r, n)
}
