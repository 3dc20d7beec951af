package frame

import (
	"errors"

	"github.com/google/uuid"
)

const (
	// HeaderBytesV1 is the fixed header size for a V1 frame.
	HeaderBytesV1 = 32

	MagicV1   = "CTF1"
	VersionV1 uint8 = 1
)

// Kind identifies what the payload of a frame holds.
type Kind uint8

const (
	KindCounts  Kind = 1
	KindTable   Kind = 2
	KindSymbols Kind = 3
)

func (k Kind) String() string {
	switch k {
	case KindCounts:
		return "counts"
	case KindTable:
		return "table"
	case KindSymbols:
		return "symbols"
	}
	return "unknown"
}

const (
	FlagBinomials uint8 = 1 << 0
	FlagChecks    uint8 = 1 << 1

	knownFlags = FlagBinomials | FlagChecks
)

var (
	ErrBadRegionSize  = errors.New("frame: region size does not match the header")
	ErrNotInitialized = errors.New("frame: header not initialized")

	ErrBadMagic   = errors.New("frame: header magic invalid")
	ErrBadVersion = errors.New("frame: header version invalid")
	ErrBadKind    = errors.New("frame: header kind invalid")
	ErrBadFlags   = errors.New("frame: header flags invalid")

	ErrChecksum      = errors.New("frame: checksum mismatch")
	ErrBadMeta       = errors.New("frame: metadata invalid")
	ErrTableMismatch = errors.New("frame: symbols were coded with a different table")
	ErrSizeOverflow  = errors.New("frame: section too large for the header")
)

type HeaderV1 struct {
	Kind         Kind
	Flags        uint8
	MetaBytes    uint32
	PayloadBytes uint32
	Checksum     uint64
}

func (h HeaderV1) UseBinomials() bool { return h.Flags&FlagBinomials != 0 }
func (h HeaderV1) UseChecks() bool    { return h.Flags&FlagChecks != 0 }

// FrameBytes is the size of the whole frame the header describes.
func (h HeaderV1) FrameBytes() int {
	return HeaderBytesV1 + int(h.MetaBytes) + int(h.PayloadBytes)
}

// MetaV1 is the CBOR metadata of a V1 frame.
type MetaV1 struct {
	ID uuid.UUID `cbor:"1,keyasint"`

	// Depth and Fixed describe the trie shape of counts frames.
	Depth int  `cbor:"2,keyasint,omitempty"`
	Fixed bool `cbor:"3,keyasint,omitempty"`

	// Keys is the number of distinct keys, table symbols or coded symbols.
	Keys  uint64 `cbor:"4,keyasint"`
	Total uint64 `cbor:"5,keyasint,omitempty"`

	// TableID is the ID of the table frame a symbols frame was coded with.
	TableID  uuid.UUID `cbor:"6,keyasint"`
	KeyWidth int       `cbor:"7,keyasint,omitempty"`

	// Fingerprint is the code word fingerprint of the table a table frame
	// holds, or a symbols frame was coded with.
	Fingerprint uint64 `cbor:"8,keyasint,omitempty"`
}
