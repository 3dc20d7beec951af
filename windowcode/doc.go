package windowcode

/*

# Window coding of binomially distributed counts

A trie node holding `n` weight units splits them between its two children.
If the split is roughly fair the zero side count `k` is close to `n/2`, and a
flat `ceil(log2(n+1))` bit encoding wastes most of its range on counts that
almost never occur.

The window coder spends one extra bit to say whether `k` falls inside a
central window of `2^bits` values around the mean, where

	bits = max(0, round(log2(2*stdDev)) - 1)

and codes it inside the window with `bits` bits. Counts outside the window
pay a side bit and a flat code over whichever tail they fall in.

## Window geometry

	start = int(mean - window/2)      (integer halving, truncated)
	end   = start + window

If `start < 0` the window slides right to start at 0. If `end > n+1` it
slides left until it ends at `n+1`. After sliding one tail may be empty; the
side bit is then implied and not written.

If the window would cover at least half of `[0, n]` the coder falls back to a
flat bounded code over `n+1` values, and `n == 0` costs nothing at all.

## Layout

	in window:   1 | bounded(k-start, window)
	below:       0 [0 if the upper tail is non empty] | bounded(k, start)
	above:       0 [1 if the lower tail is non empty] | bounded(k-end, n+1-end)

*/
