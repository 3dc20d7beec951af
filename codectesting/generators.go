package codectesting

import (
	"github.com/forestrie/go-bitcodec/bitvalue"
	"github.com/forestrie/go-bitcodec/countmap"
	"github.com/stretchr/testify/require"
)

// UniformCounts returns keys distinct keys of exactly depth bits, each with
// a weight in [1, maxWeight].
func (c *TestContext) UniformCounts(keys, depth int, maxWeight uint64) *countmap.Map {
	require.LessOrEqual(c.T, uint64(keys), spaceSize(depth), "key space too small")
	m := countmap.New()
	for m.Len() < keys {
		k := bitvalue.Random(c.Rand, depth)
		if m.Get(k) != 0 {
			continue
		}
		m.Set(k, 1+uint64(c.Rand.Int63n(int64(maxWeight))))
	}
	return m
}

// ClusteredCounts draws samples keys of depth bits from a few dense
// clusters. The result is the kind of skewed histogram the trie codec is
// built for.
func (c *TestContext) ClusteredCounts(samples, depth int) *countmap.Map {
	const clusters = 4
	spread := depth / 3
	centres := make([]bitvalue.Value, clusters)
	for i := range centres {
		centres[i] = bitvalue.Random(c.Rand, depth-spread)
	}
	m := countmap.New()
	for i := 0; i < samples; i++ {
		centre := centres[c.Rand.Intn(clusters)]
		// geometric choice of cluster member keeps the weights uneven
		low := uint64(0)
		for low < (1<<uint(spread))-1 && c.Rand.Intn(3) != 0 {
			low++
		}
		require.NoError(c.T, m.Add(centre.Concat(bitvalue.MustFromUint64(low, spread)), 1))
	}
	return m
}

// VariableCounts returns up to keys keys of random lengths in [0, maxDepth].
// Some keys are prefixes of others.
func (c *TestContext) VariableCounts(keys, maxDepth int, maxWeight uint64) *countmap.Map {
	m := countmap.New()
	for i := 0; i < keys; i++ {
		k := bitvalue.Random(c.Rand, c.Rand.Intn(maxDepth+1))
		require.NoError(c.T, m.Add(k, 1+uint64(c.Rand.Int63n(int64(maxWeight)))))
	}
	return m
}

// Histogram returns weights for symbols 0..n-1 drawn from a Zipf like
// distribution over samples draws.
func (c *TestContext) Histogram(n, samples int) map[uint64]uint64 {
	h := make(map[uint64]uint64)
	for i := 0; i < samples; i++ {
		s := uint64(0)
		for s < uint64(n-1) && c.Rand.Intn(2) == 0 {
			s++
		}
		h[s]++
	}
	return h
}

func spaceSize(depth int) uint64 {
	if depth >= 64 {
		return ^uint64(0)
	}
	return 1 << uint(depth)
}
