package bitstream

import "github.com/forestrie/go-bitcodec/bitvalue"

// VarUintWidths are the payload widths selectable by the 2 bit varuint bucket.
var VarUintWidths = [4]int{6, 16, 32, 64}

// BoundedWidth returns the number of bits used to encode a value in [0, max).
func BoundedWidth(max uint64) int {
	return bitvalue.CeilLog2(max)
}

// VarUintBucket returns the smallest bucket whose payload can hold v.
func VarUintBucket(v uint64) int {
	n := bitvalue.BitLength(v)
	for t, w := range VarUintWidths {
		if n <= w {
			return t
		}
	}
	return len(VarUintWidths) - 1
}
