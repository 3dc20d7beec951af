package bitvalue

import "math/bits"

// BitLength returns the minimal number of bits needed to represent num.
// BitLength(0) is 0.
func BitLength(num uint64) int {
	return bits.Len64(num)
}

// CeilLog2 returns ceil(log2(num)), and 0 for num <= 1.
func CeilLog2(num uint64) int {
	if num <= 1 {
		return 0
	}
	return bits.Len64(num - 1)
}

// AllOnes reports whether num is of the form 2^k - 1
func AllOnes(num uint64) bool {
	return (1<<bits.OnesCount64(num) - 1) == num
}

func byteLen(n int) int { return (n + 7) / 8 }

// canonical masks the bits past n and freezes buf.
func canonical(buf []byte, n int) Value {
	if r := n % 8; r != 0 {
		buf[len(buf)-1] &= 0xFF << (8 - r)
	}
	return Value{n: n, b: string(buf)}
}
