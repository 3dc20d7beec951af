package counttrie

/*

# Count tries: sparse weighted key sets as a bit stream

A count map assigns a weight to each of a sparse set of bit string keys. The
codec walks the binary trie those keys span and, at each node, writes only
how the node's weight divides among:

- the key that ends exactly at the node (its terminals)
- the subtree under `node‖0`
- the subtree under `node‖1` (implied: whatever remains)

The keys themselves are never written. They are recovered from the path to
every node that holds terminal weight.

## Stream layout

	varUint(total)                  omitted by the sized variants
	node(ε, total)                  when total > 0

	node(code, size):
	  [StartTree]
	  [BeforeTerminal] bounded(terminals, 1+size) [AfterTerminal]   Unknown codes only
	  [BeforeCount]    zeros(size-terminals)      [AfterCount]      if size-terminals > 0
	  node(code‖0, zeros)                                           if zeros > 0
	  node(code‖1, ones)                                            if ones > 0
	  [EndTree]

Bracketed markers are 8 bit ordinals present only when the stream has checks
enabled. `zeros` is coded with the binomial window coder (`windowcode`) or,
with binomials disabled, as a flat bounded integer.

## Shapes

A Shape says what is known about a code before any bits are read:

- Terminal: every unit of weight reaching it ends there, nothing is written
- Prefix: no key ends there, the terminal count is skipped
- Unknown: the terminal count is coded

A Fixed depth shape makes codes of exactly the depth terminal and shorter
codes prefixes. An Unbounded shape makes every code Unknown.

Writer and reader must agree on the shape, the binomial setting, and the
check setting. None of these are recorded in the stream; see the `frame`
package for a self-describing container.

## Invariants

1. The codec never writes bits for an absent child.
2. Nodes are visited in pre-order, so the decoder produces keys in ascending
   `bitvalue.Compare` order.
3. A map holding no weight encodes to the varUint 0 alone.

*/
