package bitvalue

/*

# Bit exact values

A Value is a binary string with an explicit bit length. The length is
independent of the byte storage: a 3 bit value occupies one byte, and the
5 trailing bits of that byte are always zero.

That canonical form is the invariant the rest of the module leans on:

- byte-wise equality is bit-string equality, so Value is comparable with ==
  and can be used directly as a Go map key
- Compare is a plain byte comparison with a length tie break
- Hash only needs to see the stored bytes and the length

Constructors are the only place the invariant is enforced. Every transform
(Concat, Range, And, Or, Xor, ShiftLeft, Next) returns a new Value.

## Bit numbering

Bits are numbered MSB-first: bit 0 is the most significant bit of byte 0.
This matches the order values are written to, and read from, a bitstream.

## Ordering

Values order lexicographically over their bits, and a prefix sorts before
all of its extensions:

	""  <  "0"  <  "00"  <  "01"  <  "1"  <  "10"

So every key sharing a prefix p forms a contiguous run in sorted order,
starting at p itself and ending before p.Next() (or at the end of the key
space when p has no successor). Trie serialization relies on this to drive
its recursion off range queries over a sorted map.

*/
