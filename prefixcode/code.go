package prefixcode

import (
	"container/heap"
	"fmt"
	"math/bits"

	"github.com/forestrie/go-bitcodec/bitvalue"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// Code is an immutable prefix code over symbols of type S.
type Code[S comparable] struct {
	forward []Entry[S] // sorted by code
	reverse map[S]bitvalue.Value
	weights map[S]uint64
	total   uint64
	cmp     func(a, b S) int
	maxLen  int
}

// CompareOrdered is the natural order of S.
func CompareOrdered[S constraints.Ordered](a, b S) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// New builds the code for naturally ordered symbols.
func New[S constraints.Ordered](symbols []Symbol[S]) (*Code[S], error) {
	return NewFunc(symbols, CompareOrdered[S])
}

// NewFunc builds the code using cmp to break weight ties. cmp must be a
// total order on the symbols.
func NewFunc[S comparable](symbols []Symbol[S], cmp func(a, b S) int) (*Code[S], error) {
	c := &Code[S]{
		reverse: make(map[S]bitvalue.Value, len(symbols)),
		weights: make(map[S]uint64, len(symbols)),
		cmp:     cmp,
	}
	if len(symbols) == 0 {
		return c, nil
	}

	pending := &subtrees[S]{cmp: cmp}
	for _, s := range symbols {
		if _, ok := c.weights[s.Key]; ok {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateSymbol, s.Key)
		}
		c.weights[s.Key] = s.Weight
		pending.items = append(pending.items, &node[S]{weight: s.Weight, least: s.Key, symbol: s.Key, leaf: true})
	}
	heap.Init(pending)
	for pending.Len() > 1 {
		zero := heap.Pop(pending).(*node[S])
		one := heap.Pop(pending).(*node[S])
		weight, carry := bits.Add64(zero.weight, one.weight, 0)
		if carry != 0 {
			return nil, fmt.Errorf("%w: total weight overflows", bitvalue.ErrInvalidRange)
		}
		least := zero.least
		if cmp(one.least, least) < 0 {
			least = one.least
		}
		heap.Push(pending, &node[S]{weight: weight, least: least, zero: zero, one: one})
	}
	root := pending.items[0]
	c.total = root.weight
	c.assign(root, bitvalue.Empty)
	slices.SortFunc(c.forward, func(a, b Entry[S]) int { return bitvalue.Compare(a.Code, b.Code) })
	return c, nil
}

func (c *Code[S]) assign(n *node[S], code bitvalue.Value) {
	if n.leaf {
		c.forward = append(c.forward, Entry[S]{Code: code, Symbol: n.symbol})
		c.reverse[n.symbol] = code
		c.maxLen = max(c.maxLen, code.Len())
		return
	}
	c.assign(n.zero, code.Concat(bitvalue.Zero))
	c.assign(n.one, code.Concat(bitvalue.One))
}

// node is a pending subtree. least is the least symbol it contains.
type node[S any] struct {
	weight    uint64
	least     S
	symbol    S
	leaf      bool
	zero, one *node[S]
}

// subtrees orders pending subtrees by weight, then by least symbol.
type subtrees[S any] struct {
	items []*node[S]
	cmp   func(a, b S) int
}

func (h *subtrees[S]) Len() int { return len(h.items) }

func (h *subtrees[S]) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.weight != b.weight {
		return a.weight < b.weight
	}
	return h.cmp(a.least, b.least) < 0
}

func (h *subtrees[S]) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *subtrees[S]) Push(x any) { h.items = append(h.items, x.(*node[S])) }

func (h *subtrees[S]) Pop() any {
	n := len(h.items)
	x := h.items[n-1]
	h.items = h.items[:n-1]
	return x
}

// Len returns the number of symbols.
func (c *Code[S]) Len() int { return len(c.forward) }

// TotalWeight returns the sum of the symbol weights.
func (c *Code[S]) TotalWeight() uint64 { return c.total }

// MaxCodeLen returns the length of the longest code word.
func (c *Code[S]) MaxCodeLen() int { return c.maxLen }

// Weights returns a copy of the symbol weights.
func (c *Code[S]) Weights() map[S]uint64 {
	out := make(map[S]uint64, len(c.weights))
	for k, v := range c.weights {
		out[k] = v
	}
	return out
}

// Symbols returns the symbols with their weights, ordered by symbol.
func (c *Code[S]) Symbols() []Symbol[S] {
	out := make([]Symbol[S], 0, len(c.weights))
	for k, v := range c.weights {
		out = append(out, Symbol[S]{Key: k, Weight: v})
	}
	slices.SortFunc(out, func(a, b Symbol[S]) int { return c.cmp(a.Key, b.Key) })
	return out
}

// Entries returns the code words in code order. The slice must not be
// modified.
func (c *Code[S]) Entries() []Entry[S] { return c.forward }

// Encode returns the code word for s.
func (c *Code[S]) Encode(s S) (bitvalue.Value, error) {
	code, ok := c.reverse[s]
	if !ok {
		return bitvalue.Value{}, fmt.Errorf("%w: %v", ErrUnknownSymbol, s)
	}
	return code, nil
}

// search returns the index of the first code not below v.
func (c *Code[S]) search(v bitvalue.Value) (int, bool) {
	return slices.BinarySearchFunc(c.forward, v, func(e Entry[S], k bitvalue.Value) int {
		return bitvalue.Compare(e.Code, k)
	})
}

// floor returns the index of the greatest code not above v, or -1.
func (c *Code[S]) floor(v bitvalue.Value) int {
	i, found := c.search(v)
	if found {
		return i
	}
	return i - 1
}

// DecodeBits finds the code word that prefixes v. ok is false if there is
// none.
func (c *Code[S]) DecodeBits(v bitvalue.Value) (code bitvalue.Value, s S, ok bool) {
	i := c.floor(v)
	if i < 0 || !v.HasPrefix(c.forward[i].Code) {
		return bitvalue.Value{}, s, false
	}
	return c.forward[i].Code, c.forward[i].Symbol, true
}

// Codes returns the code words that start with from, in code order.
func (c *Code[S]) Codes(from bitvalue.Value) []Entry[S] {
	lo, _ := c.search(from)
	// codes from lo on are either extensions of from or lie past all of them
	n, _ := slices.BinarySearchFunc(c.forward[lo:], from, func(e Entry[S], p bitvalue.Value) int {
		if e.Code.HasPrefix(p) {
			return -1
		}
		return 1
	})
	return c.forward[lo : lo+n]
}

// Fingerprint digests the code words in code order. It tells apart code
// trees built from different weights; it does not see which symbol each word
// stands for.
func (c *Code[S]) Fingerprint() uint64 {
	h := uint64(len(c.forward))
	for _, e := range c.forward {
		h = bits.RotateLeft64(h, 7) ^ e.Code.Hash()
	}
	return h
}

// Verify checks that the code is prefix free and that the forward and
// reverse indexes agree.
func (c *Code[S]) Verify() error {
	codes := make([]bitvalue.Value, len(c.forward))
	for i, e := range c.forward {
		codes[i] = e.Code
	}
	if !IsPrefixFree(codes) {
		return ErrNotPrefixFree
	}
	if len(c.reverse) != len(c.forward) || len(c.weights) != len(c.forward) {
		return fmt.Errorf("%w: %d codes, %d symbols", ErrIndexMismatch, len(c.forward), len(c.reverse))
	}
	for _, e := range c.forward {
		if code, ok := c.reverse[e.Symbol]; !ok || code != e.Code {
			return fmt.Errorf("%w: %v", ErrIndexMismatch, e.Symbol)
		}
	}
	return nil
}

// IsPrefixFree reports whether no code in codes is a prefix of another.
// Repeated codes are not prefix free.
func IsPrefixFree(codes []bitvalue.Value) bool {
	sorted := slices.Clone(codes)
	slices.SortFunc(sorted, bitvalue.Compare)
	// a prefix sorts directly before one of its extensions
	for i := 1; i < len(sorted); i++ {
		if sorted[i].HasPrefix(sorted[i-1]) {
			return false
		}
	}
	return true
}
