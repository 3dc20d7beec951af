package countmap

import (
	"math"
	"math/rand"
	"testing"

	"github.com/forestrie/go-bitcodec/bitvalue"
	"github.com/stretchr/testify/require"
)

func keys(ss ...string) []bitvalue.Value {
	out := make([]bitvalue.Value, len(ss))
	for i, s := range ss {
		out[i] = bitvalue.MustParse(s)
	}
	return out
}

func sample() *Map {
	return FromMap(map[bitvalue.Value]uint64{
		bitvalue.MustParse("0"):   3,
		bitvalue.MustParse("10"):  2,
		bitvalue.MustParse("11"):  1,
		bitvalue.MustParse("010"): 4,
		bitvalue.MustParse("1"):   0,
	})
}

func TestFromMapOrdersAndDropsZeros(t *testing.T) {
	c := sample()
	require.Equal(t, 4, c.Len())
	require.Equal(t, keys("0", "010", "10", "11"), c.Keys())
	total, err := c.Total()
	require.NoError(t, err)
	require.Equal(t, uint64(10), total)
}

func TestAddSetDelete(t *testing.T) {
	c := New()
	k := bitvalue.MustParse("0110")
	require.NoError(t, c.Add(k, 2))
	require.NoError(t, c.Add(k, 3))
	require.NoError(t, c.Add(bitvalue.MustParse("1"), 0))
	require.Equal(t, uint64(5), c.Get(k))
	require.Equal(t, 1, c.Len())

	c.Set(k, 7)
	require.Equal(t, uint64(7), c.Get(k))
	c.Set(k, 0)
	require.Equal(t, 0, c.Len())
	c.Set(k, 0)
	require.Equal(t, 0, c.Len())

	c.Set(k, 1)
	require.Equal(t, uint64(1), c.Delete(k))
	require.Equal(t, uint64(0), c.Delete(k))
	require.Equal(t, uint64(0), c.Get(k))
}

func TestOverflow(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(bitvalue.One, math.MaxUint64))
	require.ErrorIs(t, c.Add(bitvalue.One, 1), ErrOverflow)
	require.NoError(t, c.Add(bitvalue.Zero, 1))
	_, err := c.Total()
	require.ErrorIs(t, err, ErrOverflow)
	_, err = c.CumulativeSums()
	require.ErrorIs(t, err, ErrOverflow)
	_, err = c.List()
	require.ErrorIs(t, err, ErrOverflow)
}

func TestFloorCeiling(t *testing.T) {
	c := sample()
	tests := []struct {
		k           string
		floor, ceil string
		hasF, hasC  bool
	}{
		{"", "", "0", false, true},
		{"0", "0", "0", true, true},
		{"00", "0", "010", true, true},
		{"0101", "010", "10", true, true},
		{"1", "010", "10", true, true},
		{"11", "11", "11", true, true},
		{"111", "11", "", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.k, func(t *testing.T) {
			f, ok := c.Floor(bitvalue.MustParse(tt.k))
			require.Equal(t, tt.hasF, ok)
			if ok {
				require.Equal(t, tt.floor, f.Key.String())
			}
			e, ok := c.Ceiling(bitvalue.MustParse(tt.k))
			require.Equal(t, tt.hasC, ok)
			if ok {
				require.Equal(t, tt.ceil, e.Key.String())
			}
		})
	}
}

func TestRangeAndPrefixed(t *testing.T) {
	c := sample()

	got, err := c.Range(bitvalue.MustParse("01"), bitvalue.MustParse("11"))
	require.NoError(t, err)
	require.Equal(t, []Entry{
		{Key: bitvalue.MustParse("010"), Count: 4},
		{Key: bitvalue.MustParse("10"), Count: 2},
	}, got)

	_, err = c.Range(bitvalue.One, bitvalue.Zero)
	require.ErrorIs(t, err, ErrRangeOrder)

	require.Len(t, c.Prefixed(bitvalue.Empty), 4)
	require.Len(t, c.Prefixed(bitvalue.Zero), 2)
	require.Len(t, c.Prefixed(bitvalue.One), 2)
	require.Len(t, c.Prefixed(bitvalue.MustParse("01")), 1)
	require.Empty(t, c.Prefixed(bitvalue.MustParse("00")))
	// "10" and "11" sort inside ["0111", "1000") but do not extend "0111"
	require.Empty(t, c.Prefixed(bitvalue.MustParse("0111")))
}

func TestPrefixedMatchesScan(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	c := New()
	for i := 0; i < 300; i++ {
		require.NoError(t, c.Add(bitvalue.Random(rng, 1+rng.Intn(10)), uint64(1+rng.Intn(5))))
	}
	for i := 0; i < 100; i++ {
		p := bitvalue.Random(rng, rng.Intn(6))
		var want []Entry
		for _, e := range c.Entries() {
			if e.Key.HasPrefix(p) {
				want = append(want, e)
			}
		}
		got := c.Prefixed(p)
		require.Equal(t, len(want), len(got), "prefix %s", p)
		for j := range want {
			require.Equal(t, want[j], got[j])
		}
	}
}

func TestCumulativeSumsAndList(t *testing.T) {
	c := sample()
	sums, err := c.CumulativeSums()
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 3, 7, 9, 10}, sums)

	list, err := c.List()
	require.NoError(t, err)
	require.Len(t, list, 10)
	require.Equal(t, bitvalue.MustParse("0"), list[0])
	require.Equal(t, bitvalue.MustParse("11"), list[9])
}

func TestFromEntriesCloneEqual(t *testing.T) {
	c, err := FromEntries([]Entry{
		{Key: bitvalue.MustParse("11"), Count: 1},
		{Key: bitvalue.MustParse("0"), Count: 1},
		{Key: bitvalue.MustParse("0"), Count: 2},
		{Key: bitvalue.MustParse("10"), Count: 2},
		{Key: bitvalue.MustParse("010"), Count: 4},
	})
	require.NoError(t, err)
	require.True(t, c.Equal(sample()))

	d := c.Clone()
	d.Set(bitvalue.MustParse("0"), 9)
	require.False(t, c.Equal(d))
	require.Equal(t, uint64(3), c.Get(bitvalue.MustParse("0")))
	require.Equal(t, sample().Map(), c.Map())
}
