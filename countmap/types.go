package countmap

import "errors"

var (
	ErrOverflow   = errors.New("countmap: total weight overflows uint64")
	ErrRangeOrder = errors.New("countmap: range lower bound is above the upper bound")
)
