// Package countmap is an ordered multiset of bit string keys.
//
// Keys are kept sorted by bitvalue.Compare, so every key sharing a prefix
// occupies one contiguous run. The trie codecs rely on this to split a node
// into its zero and one children with two binary searches.
//
// A Map is owned by one goroutine at a time.
package countmap

import (
	"fmt"
	"math/bits"

	"github.com/forestrie/go-bitcodec/bitvalue"
	"golang.org/x/exp/slices"
)

// Entry is one key and its weight. Weights in a Map are never zero.
type Entry struct {
	Key   bitvalue.Value
	Count uint64
}

type Map struct {
	entries []Entry
}

func New() *Map {
	return &Map{}
}

// FromMap builds a Map from an unordered go map. Zero weights are dropped.
func FromMap(m map[bitvalue.Value]uint64) *Map {
	c := &Map{entries: make([]Entry, 0, len(m))}
	for k, n := range m {
		if n == 0 {
			continue
		}
		c.entries = append(c.entries, Entry{Key: k, Count: n})
	}
	slices.SortFunc(c.entries, compareEntries)
	return c
}

// FromEntries builds a Map from entries in any order. Repeated keys are
// summed.
func FromEntries(entries []Entry) (*Map, error) {
	c := New()
	for _, e := range entries {
		if err := c.Add(e.Key, e.Count); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func compareEntries(a, b Entry) int { return bitvalue.Compare(a.Key, b.Key) }

func compareKey(e Entry, k bitvalue.Value) int { return bitvalue.Compare(e.Key, k) }

// search returns the index of the first entry not below k.
func (c *Map) search(k bitvalue.Value) (int, bool) {
	return slices.BinarySearchFunc(c.entries, k, compareKey)
}

// Add increases the weight of k by n.
func (c *Map) Add(k bitvalue.Value, n uint64) error {
	if n == 0 {
		return nil
	}
	i, found := c.search(k)
	if !found {
		c.entries = slices.Insert(c.entries, i, Entry{Key: k, Count: n})
		return nil
	}
	sum, carry := bits.Add64(c.entries[i].Count, n, 0)
	if carry != 0 {
		return fmt.Errorf("%w: adding %d to %s", ErrOverflow, n, k)
	}
	c.entries[i].Count = sum
	return nil
}

// Set replaces the weight of k. Setting zero removes k.
func (c *Map) Set(k bitvalue.Value, n uint64) {
	i, found := c.search(k)
	switch {
	case found && n == 0:
		c.entries = slices.Delete(c.entries, i, i+1)
	case found:
		c.entries[i].Count = n
	case n != 0:
		c.entries = slices.Insert(c.entries, i, Entry{Key: k, Count: n})
	}
}

// Get returns the weight of k, 0 if absent.
func (c *Map) Get(k bitvalue.Value) uint64 {
	if i, found := c.search(k); found {
		return c.entries[i].Count
	}
	return 0
}

// Delete removes k and returns the weight it had.
func (c *Map) Delete(k bitvalue.Value) uint64 {
	i, found := c.search(k)
	if !found {
		return 0
	}
	n := c.entries[i].Count
	c.entries = slices.Delete(c.entries, i, i+1)
	return n
}

// Len returns the number of distinct keys.
func (c *Map) Len() int { return len(c.entries) }

// Total returns the sum of all weights.
func (c *Map) Total() (uint64, error) {
	return sumEntries(c.entries)
}

func sumEntries(entries []Entry) (uint64, error) {
	var total uint64
	for _, e := range entries {
		var carry uint64
		total, carry = bits.Add64(total, e.Count, 0)
		if carry != 0 {
			return 0, ErrOverflow
		}
	}
	return total, nil
}

// Entries returns the entries in key order. The slice is shared with the
// Map and must not be modified.
func (c *Map) Entries() []Entry { return c.entries }

// Keys returns the keys in order.
func (c *Map) Keys() []bitvalue.Value {
	keys := make([]bitvalue.Value, len(c.entries))
	for i, e := range c.entries {
		keys[i] = e.Key
	}
	return keys
}

// Floor returns the greatest entry whose key is not above k.
func (c *Map) Floor(k bitvalue.Value) (Entry, bool) {
	i, found := c.search(k)
	if found {
		return c.entries[i], true
	}
	if i == 0 {
		return Entry{}, false
	}
	return c.entries[i-1], true
}

// Ceiling returns the least entry whose key is not below k.
func (c *Map) Ceiling(k bitvalue.Value) (Entry, bool) {
	i, _ := c.search(k)
	if i == len(c.entries) {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Range returns the entries with lo <= key < hi.
func (c *Map) Range(lo, hi bitvalue.Value) ([]Entry, error) {
	if bitvalue.Compare(lo, hi) > 0 {
		return nil, fmt.Errorf("%w: [%s, %s)", ErrRangeOrder, lo, hi)
	}
	i, _ := c.search(lo)
	j, _ := c.search(hi)
	return c.entries[i:j], nil
}

// Prefixed returns the entries whose keys start with p. They form one run
// beginning at the first key not below p.
func (c *Map) Prefixed(p bitvalue.Value) []Entry {
	i, _ := c.search(p)
	n, _ := slices.BinarySearchFunc(c.entries[i:], p, func(e Entry, p bitvalue.Value) int {
		if e.Key.HasPrefix(p) {
			return -1
		}
		return 1
	})
	return c.entries[i : i+n]
}

// CumulativeSums returns, for each entry, the total weight of the entries
// before it, followed by the grand total.
func (c *Map) CumulativeSums() ([]uint64, error) {
	sums := make([]uint64, len(c.entries)+1)
	for i, e := range c.entries {
		s, carry := bits.Add64(sums[i], e.Count, 0)
		if carry != 0 {
			return nil, ErrOverflow
		}
		sums[i+1] = s
	}
	return sums, nil
}

// Map returns the contents as a go map.
func (c *Map) Map() map[bitvalue.Value]uint64 {
	m := make(map[bitvalue.Value]uint64, len(c.entries))
	for _, e := range c.entries {
		m[e.Key] = e.Count
	}
	return m
}

func (c *Map) Equal(o *Map) bool {
	return slices.Equal(c.entries, o.entries)
}

func (c *Map) Clone() *Map {
	return &Map{entries: slices.Clone(c.entries)}
}

// List expands the multiset: each key repeated by its weight, in order.
func (c *Map) List() ([]bitvalue.Value, error) {
	total, err := c.Total()
	if err != nil {
		return nil, err
	}
	if total > uint64(maxListLen) {
		return nil, fmt.Errorf("%w: %d keys can not be listed", ErrOverflow, total)
	}
	out := make([]bitvalue.Value, 0, total)
	for _, e := range c.entries {
		for n := uint64(0); n < e.Count; n++ {
			out = append(out, e.Key)
		}
	}
	return out, nil
}

const maxListLen = 1 << 32

func (c *Map) String() string {
	return fmt.Sprint(c.entries)
}
