package frame

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// DecodeHeaderV1 decodes a V1 header from region.
//
// ok=false indicates the region is zero-filled / uninitialized.
func DecodeHeaderV1(region []byte) (h HeaderV1, ok bool, err error) {
	if len(region) < HeaderBytesV1 {
		return HeaderV1{}, false, ErrBadRegionSize
	}

	if bytes.Equal(region[0:4], []byte{0, 0, 0, 0}) {
		return HeaderV1{}, false, nil
	}

	if string(region[0:4]) != MagicV1 {
		return HeaderV1{}, false, ErrBadMagic
	}
	if region[4] != VersionV1 {
		return HeaderV1{}, false, ErrBadVersion
	}

	h.Kind = Kind(region[5])
	h.Flags = region[6]
	h.MetaBytes = readU32BE(region[8:12])
	h.PayloadBytes = readU32BE(region[12:16])
	h.Checksum = readU64BE(region[16:24])

	if err := checkKind(h.Kind); err != nil {
		return HeaderV1{}, false, err
	}
	if h.Flags&^knownFlags != 0 || region[7] != 0 {
		return HeaderV1{}, false, fmt.Errorf("%w: %08b", ErrBadFlags, h.Flags)
	}

	return h, true, nil
}

// EncodeHeaderV1 writes a V1 header into region.
func EncodeHeaderV1(region []byte, h HeaderV1) error {
	if len(region) < HeaderBytesV1 {
		return ErrBadRegionSize
	}
	if err := checkKind(h.Kind); err != nil {
		return err
	}
	if h.Flags&^knownFlags != 0 {
		return fmt.Errorf("%w: %08b", ErrBadFlags, h.Flags)
	}

	copy(region[0:4], []byte(MagicV1))
	region[4] = VersionV1
	region[5] = uint8(h.Kind)
	region[6] = h.Flags
	region[7] = 0
	writeU32BE(region[8:12], h.MetaBytes)
	writeU32BE(region[12:16], h.PayloadBytes)
	writeU64BE(region[16:24], h.Checksum)
	clear(region[24:HeaderBytesV1])
	return nil
}

func checkKind(k Kind) error {
	switch k {
	case KindCounts, KindTable, KindSymbols:
		return nil
	}
	return fmt.Errorf("%w: %d", ErrBadKind, k)
}

func readU32BE(b []byte) uint32     { return binary.BigEndian.Uint32(b) }
func readU64BE(b []byte) uint64     { return binary.BigEndian.Uint64(b) }
func writeU32BE(b []byte, v uint32) { binary.BigEndian.PutUint32(b, v) }
func writeU64BE(b []byte, v uint64) { binary.BigEndian.PutUint64(b, v) }
