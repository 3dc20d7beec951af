// Package bitstream provides sequential, bit granular reads and writes over a
// byte oriented io.Reader or io.Writer.
//
// Fields are packed MSB-first with no byte alignment. Only Writer.Flush pads
// the final partial byte with zero bits; omitting it loses up to 7 trailing
// bits.
//
// Wire forms:
//
//	bounded(max)  ceil(log2(max)) bits, 0 bits when max <= 1.
//	              With checks on, preceded by an 8 bit field holding the width.
//	varuint       2 bit bucket t, then a {6,16,32,64}[t] bit payload. t is the
//	              smallest bucket wide enough for the value.
//	int32         32 bits, two's complement.
//	float64       64 bits, IEEE-754.
//	ordinal       8 bits.
//
// A Reader or Writer wraps exactly one stream and is not safe for concurrent
// use.
package bitstream
