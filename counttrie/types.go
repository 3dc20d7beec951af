package counttrie

import (
	"errors"
	"fmt"
)

var (
	ErrShapeMismatch = errors.New("counttrie: key set does not fit the code shape")
	ErrDepthExceeded = errors.New("counttrie: code is deeper than the shape allows")
	ErrSizeMismatch  = errors.New("counttrie: total weight differs from the declared size")
)

// CodeType classifies a trie node by what the shape says about it.
type CodeType uint8

const (
	Terminal CodeType = iota
	Prefix
	Unknown
)

func (t CodeType) String() string {
	switch t {
	case Terminal:
		return "Terminal"
	case Prefix:
		return "Prefix"
	case Unknown:
		return "Unknown"
	}
	return fmt.Sprintf("CodeType(%d)", uint8(t))
}

// Check is a serialization checkpoint, written as its 8 bit ordinal.
type Check uint8

const (
	StartTree Check = iota
	EndTree
	BeforeCount
	AfterCount
	BeforeTerminal
	AfterTerminal
)

func (c Check) String() string {
	switch c {
	case StartTree:
		return "StartTree"
	case EndTree:
		return "EndTree"
	case BeforeCount:
		return "BeforeCount"
	case AfterCount:
		return "AfterCount"
	case BeforeTerminal:
		return "BeforeTerminal"
	case AfterTerminal:
		return "AfterTerminal"
	}
	return fmt.Sprintf("Check(%d)", uint8(c))
}

// Logger is satisfied by the go-datatrails-common logger.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
}
