package bitstream

import (
	"bytes"
	"math"
	"math/rand"
	"testing"

	"github.com/forestrie/go-bitcodec/bitvalue"
	"github.com/forestrie/go-bitcodec/codectesting"
	"github.com/stretchr/testify/require"
)

func TestValueRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var values []bitvalue.Value
	for i := 0; i < 100; i++ {
		values = append(values, bitvalue.Random(rng, rng.Intn(90)))
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	total := 0
	for _, v := range values {
		require.NoError(t, w.Write(v))
		total += v.Len()
	}
	require.NoError(t, w.Flush())
	require.Equal(t, uint64(total), w.BitsWritten())
	require.Equal(t, (total+7)/8, buf.Len())

	r := NewReader(bytes.NewReader(buf.Bytes()))
	for _, want := range values {
		got, err := r.Read(want.Len())
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	require.Equal(t, uint64(total), r.BitsRead())
}

func TestFlushPadsWithZeros(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Write(bitvalue.MustParse("101")))
	require.Equal(t, 0, buf.Len())
	require.NoError(t, w.Flush())
	require.Equal(t, []byte{0xA0}, buf.Bytes())
}

func TestFlushForwardsToBufferedWriter(t *testing.T) {
	var sink codectesting.TestSink
	w := NewWriter(&sink)
	require.NoError(t, w.WriteUint(0xABC, 12))
	require.Equal(t, 0, sink.Flushed.Len())
	require.NoError(t, w.Flush())
	require.Equal(t, 1, sink.MethodCallCount("Flush"))
	require.Equal(t, []byte{0xAB, 0xC0}, sink.Flushed.Bytes())
}

func TestBoundedUintWidths(t *testing.T) {
	tests := []struct {
		max   uint64
		width int
	}{
		{1, 0}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {255, 8}, {256, 8}, {257, 9}, {math.MaxUint64, 64},
	}
	for _, tt := range tests {
		require.Equal(t, tt.width, BoundedWidth(tt.max), "max %d", tt.max)

		for _, v := range []uint64{0, tt.max / 2, tt.max - 1} {
			var buf bytes.Buffer
			w := NewWriter(&buf)
			require.NoError(t, w.WriteBoundedUint(v, tt.max))
			require.Equal(t, uint64(tt.width), w.BitsWritten())
			require.NoError(t, w.Flush())

			r := NewReader(bytes.NewReader(buf.Bytes()))
			got, err := r.ReadBoundedUint(tt.max)
			require.NoError(t, err)
			require.Equal(t, v, got)
			require.Equal(t, uint64(tt.width), r.BitsRead())
		}
	}
}

func TestBoundedUintExhaustiveSmall(t *testing.T) {
	for max := uint64(1); max <= 40; max++ {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		for v := uint64(0); v < max; v++ {
			require.NoError(t, w.WriteBoundedUint(v, max))
		}
		require.NoError(t, w.Flush())

		r := NewReader(bytes.NewReader(buf.Bytes()))
		for v := uint64(0); v < max; v++ {
			got, err := r.ReadBoundedUint(max)
			require.NoError(t, err)
			require.Equal(t, v, got)
		}
	}
}

func TestBoundedUintRejectsOutOfRange(t *testing.T) {
	w := NewWriter(&bytes.Buffer{})
	require.ErrorIs(t, w.WriteBoundedUint(3, 3), bitvalue.ErrInvalidRange)
	require.ErrorIs(t, w.WriteBoundedUint(0, 0), bitvalue.ErrInvalidRange)

	// 2 bits can hold 3, which is not below 3
	r := NewReader(bytes.NewReader([]byte{0xC0}))
	_, err := r.ReadBoundedUint(3)
	require.ErrorIs(t, err, ErrMalformedStream)
}

func TestVarUint(t *testing.T) {
	tests := []struct {
		v      uint64
		bucket int
	}{
		{0, 0}, {1, 0}, {63, 0}, {64, 1}, {0xFFFF, 1}, {0x10000, 2}, {math.MaxUint32, 2}, {math.MaxUint32 + 1, 3}, {math.MaxUint64, 3},
	}
	for _, tt := range tests {
		require.Equal(t, tt.bucket, VarUintBucket(tt.v), "value %d", tt.v)

		var buf bytes.Buffer
		w := NewWriter(&buf)
		require.NoError(t, w.WriteVarUint(tt.v))
		require.Equal(t, uint64(2+VarUintWidths[tt.bucket]), w.BitsWritten())
		require.NoError(t, w.Flush())

		r := NewReader(bytes.NewReader(buf.Bytes()))
		got, err := r.ReadVarUint()
		require.NoError(t, err)
		require.Equal(t, tt.v, got)
	}
}

func TestVarUintLayout(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteVarUint(63))
	require.NoError(t, w.WriteVarUint(64))
	require.NoError(t, w.Flush())
	// 00 111111 | 01 0000000001000000 | padding
	require.Equal(t, []byte{0x3F, 0x40, 0x10, 0x00}, buf.Bytes())
}

func TestFixedFields(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteBool(true))
	require.NoError(t, w.WriteInt32(-5))
	require.NoError(t, w.WriteFloat64(math.Pi))
	require.NoError(t, w.WriteOrdinal(3))
	require.NoError(t, w.WriteFloat64(math.NaN()))
	require.NoError(t, w.Flush())

	r := NewReader(bytes.NewReader(buf.Bytes()))
	b, err := r.ReadBool()
	require.NoError(t, err)
	require.True(t, b)
	i, err := r.ReadInt32()
	require.NoError(t, err)
	require.Equal(t, int32(-5), i)
	require.NoError(t, r.ExpectFloat64(math.Pi))
	require.NoError(t, r.ExpectOrdinal(3))
	require.NoError(t, r.ExpectFloat64(math.NaN()))
}

func TestExpectMismatch(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteInt32(41))
	require.NoError(t, w.Write(bitvalue.MustParse("0110")))
	require.NoError(t, w.Flush())

	r := NewReader(bytes.NewReader(buf.Bytes()))
	err := r.ExpectInt32(42)
	require.ErrorIs(t, err, ErrCheckMismatch)

	var mismatch *CheckMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, bitvalue.MustFromUint64(42, 32), mismatch.Want)
	require.Equal(t, bitvalue.MustFromUint64(41, 32), mismatch.Got)

	err = r.Expect(bitvalue.MustParse("0111"))
	require.ErrorIs(t, err, ErrCheckMismatch)
}

func TestChecksPrefixBoundedWidth(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, WithChecks(true))
	require.True(t, w.UseChecks())
	require.NoError(t, w.WriteBoundedUint(5, 10))
	require.Equal(t, uint64(8+4), w.BitsWritten())
	require.NoError(t, w.Flush())

	r := NewReader(bytes.NewReader(buf.Bytes()), WithChecks(true))
	got, err := r.ReadBoundedUint(10)
	require.NoError(t, err)
	require.Equal(t, uint64(5), got)

	// a reader expecting a different bound sees the width marker disagree
	r = NewReader(bytes.NewReader(buf.Bytes()), WithChecks(true))
	_, err = r.ReadBoundedUint(100)
	require.ErrorIs(t, err, ErrCheckMismatch)
}

func TestShortStreamIsMalformed(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0xFF}))
	_, err := r.Read(9)
	require.ErrorIs(t, err, ErrMalformedStream)

	r = NewReader(bytes.NewReader(nil))
	_, err = r.ReadBool()
	require.ErrorIs(t, err, ErrMalformedStream)

	// bucket 1 wants a 16 bit payload, 6 bits remain
	r = NewReader(bytes.NewReader([]byte{0x40}))
	_, err = r.ReadVarUint()
	require.ErrorIs(t, err, ErrMalformedStream)
}

func TestReadAhead(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0xA5, 0x0F}))

	first, err := r.Read(3)
	require.NoError(t, err)
	require.Equal(t, "101", first.String())

	window, err := r.ReadAhead(0)
	require.NoError(t, err)
	require.Equal(t, bitvalue.Empty, window)

	window, err = r.ReadAhead(1)
	require.NoError(t, err)
	require.Equal(t, "00101000", window.String())
	require.Equal(t, window, r.Lookahead())
	require.Equal(t, uint64(3), r.BitsRead())

	// reads drain the window before touching the stream
	b, err := r.ReadBool()
	require.NoError(t, err)
	require.False(t, b)
	u, err := r.ReadUint(4)
	require.NoError(t, err)
	require.Equal(t, uint64(0x5), u)
	rest, err := r.Read(8)
	require.NoError(t, err)
	require.Equal(t, "00001111", rest.String())

	_, err = r.ReadAhead(1)
	require.ErrorIs(t, err, ErrMalformedStream)
}

func TestReadAheadTakesShortTail(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0xA5}))
	_, err := r.Read(3)
	require.NoError(t, err)

	window, err := r.ReadAhead(1)
	require.NoError(t, err)
	require.Equal(t, "00101", window.String())

	window, err = r.ReadAhead(0)
	require.NoError(t, err)
	require.Equal(t, "00101", window.String())
	_, err = r.ReadAhead(1)
	require.ErrorIs(t, err, ErrMalformedStream)
}

func TestMixedFieldsStayAligned(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	type field struct {
		max uint64
		v   uint64
	}
	var fields []field
	for i := 0; i < 500; i++ {
		max := 1 + uint64(rng.Int63n(1<<uint(rng.Intn(40))))
		fields = append(fields, field{max: max, v: uint64(rng.Int63n(int64(max)))})
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	for i, f := range fields {
		if i%3 == 0 {
			require.NoError(t, w.WriteVarUint(f.v))
		} else {
			require.NoError(t, w.WriteBoundedUint(f.v, f.max))
		}
	}
	require.NoError(t, w.Flush())

	r := NewReader(bytes.NewReader(buf.Bytes()))
	for i, f := range fields {
		var got uint64
		var err error
		if i%3 == 0 {
			got, err = r.ReadVarUint()
		} else {
			got, err = r.ReadBoundedUint(f.max)
		}
		require.NoError(t, err)
		require.Equal(t, f.v, got, "field %d", i)
	}
}
