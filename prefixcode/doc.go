// Package prefixcode builds deterministic Huffman codes over arbitrary
// symbols and uses them to read and write symbols on a bit stream.
//
// Construction repeatedly merges the two lightest pending subtrees. Ties in
// weight are broken by the least symbol each subtree contains, so the same
// weights always produce the same code. The lighter subtree takes the 0
// branch. A single symbol gets the empty code and costs no bits.
//
// Codes are kept sorted by bitvalue.Compare. Because the code is prefix
// free, the code of the next symbol in a stream is always the greatest code
// not above the upcoming bits, which makes decoding a floor lookup.
//
// The code table itself can be persisted as a count trie of symbol key to
// weight (WriteTable, ReadTable), and a histogram of symbols can be written
// as a count trie keyed by code (WriteCounts, ReadCounts). The latter needs
// no terminal counts: the code tree says where every key ends.
package prefixcode
