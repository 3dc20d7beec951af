package windowcode

import (
	"bytes"
	"math"
	"testing"

	"github.com/forestrie/go-bitcodec/bitstream"
	"github.com/forestrie/go-bitcodec/bitvalue"
	"github.com/stretchr/testify/require"
)

func encodeOne(t *testing.T, g Gaussian, v, n uint64, opts ...bitstream.Option) ([]byte, uint64) {
	t.Helper()
	var buf bytes.Buffer
	w := bitstream.NewWriter(&buf, opts...)
	require.NoError(t, g.Encode(w, v, n))
	bits := w.BitsWritten()
	require.NoError(t, w.Flush())
	return buf.Bytes(), bits
}

func TestFromBinomial(t *testing.T) {
	g, err := FromBinomial(0.5, 100)
	require.NoError(t, err)
	require.Equal(t, 50.0, g.Mean)
	require.Equal(t, 5.0, g.StdDev)

	for _, p := range []float64{0, 1, -0.1, 1.5, math.NaN(), math.Inf(1)} {
		_, err := FromBinomial(p, 10)
		require.ErrorIs(t, err, ErrInvalidParameter, "p %v", p)
	}
	_, err = FromBinomial(0.5, 0)
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestNewRejectsBadParameters(t *testing.T) {
	tests := []struct {
		name         string
		mean, stdDev float64
	}{
		{"nan mean", math.NaN(), 1},
		{"inf mean", math.Inf(-1), 1},
		{"zero deviation", 0, 0},
		{"negative deviation", 0, -1},
		{"inf deviation", 0, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.mean, tt.stdDev)
			require.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestWindow(t *testing.T) {
	binomial := func(n uint64) Gaussian {
		g, err := FromBinomial(0.5, n)
		require.NoError(t, err)
		return g
	}
	tests := []struct {
		name        string
		g           Gaussian
		n           uint64
		start, size uint64
		flat        bool
	}{
		{"one unit is flat", binomial(1), 1, 0, 2, true},
		{"smallest window", binomial(4), 4, 2, 1, false},
		{"sixteen", binomial(16), 16, 7, 2, false},
		{"hundred", binomial(100), 100, 48, 4, false},
		{"slides right", Gaussian{Mean: 0.2, StdDev: 3}, 100, 0, 4, false},
		{"fits at the top", Gaussian{Mean: 99.5, StdDev: 3}, 100, 97, 4, false},
		{"slides left", Gaussian{Mean: 100, StdDev: 3}, 100, 97, 4, false},
		{"far past the top", Gaussian{Mean: 1e30, StdDev: 3}, 100, 97, 4, false},
		{"wide deviation is flat", Gaussian{Mean: 10, StdDev: 1e300}, 100, 0, 101, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, size, flat := tt.g.Window(tt.n)
			require.Equal(t, tt.flat, flat)
			require.Equal(t, tt.start, start)
			require.Equal(t, tt.size, size)
		})
	}
}

func TestEncodeLayout(t *testing.T) {
	g, err := FromBinomial(0.5, 4)
	require.NoError(t, err)
	// window is [2, 3), both tails are non empty
	tests := []struct {
		v    uint64
		bits string
	}{
		{0, "000"},
		{1, "001"},
		{2, "1"},
		{3, "010"},
		{4, "011"},
	}
	for _, tt := range tests {
		data, n := encodeOne(t, g, tt.v, 4)
		require.Equal(t, uint64(len(tt.bits)), n, "value %d", tt.v)
		got, err := bitvalue.FromBytes(data).Range(0, len(tt.bits))
		require.NoError(t, err)
		require.Equal(t, tt.bits, got.String(), "value %d", tt.v)
	}
}

func TestImpliedSideBit(t *testing.T) {
	// the window starts at zero so only the upper tail exists
	low := Gaussian{Mean: 0.2, StdDev: 3}
	_, bits := encodeOne(t, low, 50, 100)
	require.Equal(t, uint64(1+7), bits)

	// the window ends at n so only the lower tail exists
	high := Gaussian{Mean: 100, StdDev: 3}
	_, bits = encodeOne(t, high, 5, 100)
	require.Equal(t, uint64(1+7), bits)
}

func TestZeroCountCostsNothing(t *testing.T) {
	g := Gaussian{Mean: 0, StdDev: 1}
	_, bits := encodeOne(t, g, 0, 0)
	require.Equal(t, uint64(0), bits)

	var buf bytes.Buffer
	w := bitstream.NewWriter(&buf)
	require.NoError(t, EncodeBinomial(w, 0, 0))
	require.Equal(t, uint64(0), w.BitsWritten())

	r := bitstream.NewReader(bytes.NewReader(nil))
	v, err := DecodeBinomial(r, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(0), v)
	require.Equal(t, uint64(0), r.BitsRead())
}

func TestValueAboveCountRejected(t *testing.T) {
	w := bitstream.NewWriter(&bytes.Buffer{})
	require.ErrorIs(t, Gaussian{Mean: 1, StdDev: 1}.Encode(w, 5, 4), bitvalue.ErrInvalidRange)
	require.ErrorIs(t, EncodeBinomial(w, 1, 0), bitvalue.ErrInvalidRange)
	require.ErrorIs(t, Gaussian{Mean: 1, StdDev: 1}.Encode(w, 0, math.MaxUint64), bitvalue.ErrInvalidRange)
}

func roundTripAll(t *testing.T, n uint64, enc func(*bitstream.Writer, uint64) error, dec func(*bitstream.Reader) (uint64, error), opts ...bitstream.Option) {
	t.Helper()
	var buf bytes.Buffer
	w := bitstream.NewWriter(&buf, opts...)
	for v := uint64(0); v <= n; v++ {
		require.NoError(t, enc(w, v))
	}
	written := w.BitsWritten()
	require.NoError(t, w.Flush())

	r := bitstream.NewReader(bytes.NewReader(buf.Bytes()), opts...)
	for v := uint64(0); v <= n; v++ {
		got, err := dec(r)
		require.NoError(t, err)
		require.Equal(t, v, got, "n %d", n)
	}
	require.Equal(t, written, r.BitsRead())
}

func TestBinomialRoundTripExhaustive(t *testing.T) {
	for n := uint64(0); n <= 200; n++ {
		roundTripAll(t, n,
			func(w *bitstream.Writer, v uint64) error { return EncodeBinomial(w, v, n) },
			func(r *bitstream.Reader) (uint64, error) { return DecodeBinomial(r, n) })
	}
}

func TestSkewedRoundTrip(t *testing.T) {
	gaussians := []Gaussian{
		{Mean: 0, StdDev: 4},
		{Mean: 3, StdDev: 2},
		{Mean: 60, StdDev: 5},
		{Mean: 119, StdDev: 8},
		{Mean: 500, StdDev: 3},
		{Mean: -40, StdDev: 6},
	}
	for _, g := range gaussians {
		for _, n := range []uint64{1, 2, 7, 33, 64, 120} {
			g := g
			roundTripAll(t, n,
				func(w *bitstream.Writer, v uint64) error { return g.Encode(w, v, n) },
				func(r *bitstream.Reader) (uint64, error) { return g.Decode(r, n) })
		}
	}
}

func TestRoundTripWithChecks(t *testing.T) {
	n := uint64(90)
	roundTripAll(t, n,
		func(w *bitstream.Writer, v uint64) error { return EncodeBinomial(w, v, n) },
		func(r *bitstream.Reader) (uint64, error) { return DecodeBinomial(r, n) },
		bitstream.WithChecks(true))
}

func TestLargeCounts(t *testing.T) {
	for _, n := range []uint64{1 << 20, 1<<40 + 3, math.MaxInt64} {
		g, err := FromBinomial(0.5, n)
		require.NoError(t, err)
		start, size, flat := g.Window(n)
		require.False(t, flat)
		require.Less(t, start, n)
		require.LessOrEqual(t, start+size, n+1)

		values := []uint64{0, 1, start, start + size/2, start + size - 1, start + size, n - 1, n}
		var buf bytes.Buffer
		w := bitstream.NewWriter(&buf)
		for _, v := range values {
			require.NoError(t, g.Encode(w, v, n))
		}
		require.NoError(t, w.Flush())

		r := bitstream.NewReader(bytes.NewReader(buf.Bytes()))
		for _, v := range values {
			got, err := g.Decode(r, n)
			require.NoError(t, err)
			require.Equal(t, v, got)
		}
	}
}

func TestCentralValuesAreCheap(t *testing.T) {
	n := uint64(1000)
	g, err := FromBinomial(0.5, n)
	require.NoError(t, err)
	_, central := encodeOne(t, g, n/2, n)
	_, edge := encodeOne(t, g, 3, n)
	require.Less(t, central, uint64(bitstream.BoundedWidth(n+1)))
	require.Greater(t, edge, central)
}
