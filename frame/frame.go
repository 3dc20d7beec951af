package frame

import (
	"bytes"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/forestrie/go-bitcodec/bitstream"
	"github.com/forestrie/go-bitcodec/countmap"
	"github.com/forestrie/go-bitcodec/counttrie"
	"github.com/forestrie/go-bitcodec/prefixcode"
	"github.com/google/uuid"
)

// Frame is a decoded and verified V1 frame.
type Frame struct {
	Header  HeaderV1
	Meta    MetaV1
	Payload []byte
}

func (f Frame) streamOptions() []bitstream.Option {
	return []bitstream.Option{bitstream.WithChecks(f.Header.UseChecks())}
}

// EncodeCountsV1 frames the count trie of m.
func EncodeCountsV1(m *countmap.Map, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	codec := counttrie.New(o.trieOptions(o.Depth)...)

	payload, err := codec.Marshal(m, bitstream.WithChecks(o.UseChecks))
	if err != nil {
		return nil, err
	}
	// Marshal has already rejected totals that overflow
	total, _ := m.Total()
	meta := MetaV1{ID: o.ID, Keys: uint64(m.Len()), Total: total}
	meta.setShape(o.Depth)
	return o.assemble(KindCounts, meta, payload)
}

// DecodeCountsV1 reads a frame written by EncodeCountsV1.
func DecodeCountsV1(data []byte, opts ...Option) (*countmap.Map, MetaV1, error) {
	o := newOptions(opts)
	f, err := Open(data, KindCounts)
	if err != nil {
		return nil, MetaV1{}, err
	}
	codec := counttrie.New(f.trieOptions(o.Log, f.Meta.shape())...)
	m, err := codec.Unmarshal(f.Payload, f.streamOptions()...)
	if err != nil {
		return nil, MetaV1{}, err
	}
	total, err := m.Total()
	if err != nil {
		return nil, MetaV1{}, err
	}
	if uint64(m.Len()) != f.Meta.Keys || total != f.Meta.Total {
		return nil, MetaV1{}, fmt.Errorf("%w: %d keys weighing %d, metadata says %d weighing %d",
			ErrBadMeta, m.Len(), total, f.Meta.Keys, f.Meta.Total)
	}
	return m, f.Meta, nil
}

// EncodeTableV1 frames the weights of a code over keyWidth bit unsigned
// symbols. The frame ID is what symbol frames coded with the table refer to.
func EncodeTableV1(c *prefixcode.Code[uint64], keyWidth int, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	keys := prefixcode.Uint64Keys(keyWidth)

	var buf bytes.Buffer
	w := bitstream.NewWriter(&buf, bitstream.WithChecks(o.UseChecks))
	if err := c.WriteTable(w, keys, o.trieOptions(keys.Depth())...); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	meta := MetaV1{
		ID:          o.ID,
		Keys:        uint64(c.Len()),
		Total:       c.TotalWeight(),
		KeyWidth:    keyWidth,
		Fingerprint: c.Fingerprint(),
	}
	meta.setShape(keys.Depth())
	return o.assemble(KindTable, meta, buf.Bytes())
}

// DecodeTableV1 rebuilds the code framed by EncodeTableV1.
func DecodeTableV1(data []byte, opts ...Option) (*prefixcode.Code[uint64], MetaV1, error) {
	o := newOptions(opts)
	f, err := Open(data, KindTable)
	if err != nil {
		return nil, MetaV1{}, err
	}
	keys := prefixcode.Uint64Keys(f.Meta.KeyWidth)
	r := bitstream.NewReader(bytes.NewReader(f.Payload), f.streamOptions()...)
	c, err := prefixcode.ReadTable(r, keys, prefixcode.CompareOrdered[uint64], f.trieOptions(o.Log, keys.Depth())...)
	if err != nil {
		return nil, MetaV1{}, err
	}
	if uint64(c.Len()) != f.Meta.Keys || c.TotalWeight() != f.Meta.Total {
		return nil, MetaV1{}, fmt.Errorf("%w: table of %d symbols weighing %d, metadata says %d weighing %d",
			ErrBadMeta, c.Len(), c.TotalWeight(), f.Meta.Keys, f.Meta.Total)
	}
	if fp := c.Fingerprint(); fp != f.Meta.Fingerprint {
		return nil, MetaV1{}, fmt.Errorf("%w: rebuilt table fingerprint %016x, metadata says %016x", ErrBadMeta, fp, f.Meta.Fingerprint)
	}
	return c, f.Meta, nil
}

// EncodeSymbolsV1 frames symbols coded with table. tableID is the ID of the
// table's frame.
func EncodeSymbolsV1(table *prefixcode.Code[uint64], tableID uuid.UUID, symbols []uint64, opts ...Option) ([]byte, error) {
	o := newOptions(opts)

	var buf bytes.Buffer
	w := bitstream.NewWriter(&buf, bitstream.WithChecks(o.UseChecks))
	if err := w.WriteVarUint(uint64(len(symbols))); err != nil {
		return nil, err
	}
	for _, s := range symbols {
		if err := table.Write(w, s); err != nil {
			return nil, err
		}
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	if o.Log != nil {
		o.Log.Debugf("frame %s: %d symbols in %d bits", o.ID, len(symbols), w.BitsWritten())
	}
	meta := MetaV1{ID: o.ID, Keys: uint64(len(symbols)), TableID: tableID, Fingerprint: table.Fingerprint()}
	return o.assemble(KindSymbols, meta, buf.Bytes())
}

// DecodeSymbolsV1 reads a frame written by EncodeSymbolsV1. The frame must
// name tableID as its table, and table must assign the code words the frame
// was written with.
func DecodeSymbolsV1(data []byte, table *prefixcode.Code[uint64], tableID uuid.UUID) ([]uint64, MetaV1, error) {
	f, err := Open(data, KindSymbols)
	if err != nil {
		return nil, MetaV1{}, err
	}
	if f.Meta.TableID != tableID {
		return nil, MetaV1{}, fmt.Errorf("%w: frame names %s, have %s", ErrTableMismatch, f.Meta.TableID, tableID)
	}
	if fp := table.Fingerprint(); fp != f.Meta.Fingerprint {
		return nil, MetaV1{}, fmt.Errorf("%w: table fingerprint %016x, frame was coded with %016x", ErrTableMismatch, fp, f.Meta.Fingerprint)
	}
	r := bitstream.NewReader(bytes.NewReader(f.Payload), f.streamOptions()...)
	n, err := r.ReadVarUint()
	if err != nil {
		return nil, MetaV1{}, err
	}
	if n != f.Meta.Keys {
		return nil, MetaV1{}, fmt.Errorf("%w: %d symbols, metadata says %d", ErrBadMeta, n, f.Meta.Keys)
	}
	// every code word is at least a bit, unless the table has one symbol
	if table.Len() > 1 && n > uint64(len(f.Payload))*8 {
		return nil, MetaV1{}, fmt.Errorf("%w: %d symbols in %d bytes", bitstream.ErrMalformedStream, n, len(f.Payload))
	}
	symbols := make([]uint64, 0, min(n, uint64(len(f.Payload))*8))
	for i := uint64(0); i < n; i++ {
		s, err := table.Decode(r)
		if err != nil {
			return nil, MetaV1{}, err
		}
		symbols = append(symbols, s)
	}
	return symbols, f.Meta, nil
}

// Open verifies a frame of the given kind and splits it into its parts.
// Payload aliases data.
func Open(data []byte, kind Kind) (Frame, error) {
	h, ok, err := DecodeHeaderV1(data)
	if err != nil {
		return Frame{}, err
	}
	if !ok {
		return Frame{}, ErrNotInitialized
	}
	if h.Kind != kind {
		return Frame{}, fmt.Errorf("%w: %s frame, want %s", ErrBadKind, h.Kind, kind)
	}
	if len(data) != h.FrameBytes() {
		return Frame{}, fmt.Errorf("%w: %d bytes, header describes %d", ErrBadRegionSize, len(data), h.FrameBytes())
	}
	body := data[HeaderBytesV1:]
	if sum := xxhash.Sum64(body); sum != h.Checksum {
		return Frame{}, fmt.Errorf("%w: %016x, header says %016x", ErrChecksum, sum, h.Checksum)
	}
	meta, err := decodeMeta(body[:h.MetaBytes])
	if err != nil {
		return Frame{}, err
	}
	return Frame{Header: h, Meta: meta, Payload: body[h.MetaBytes:]}, nil
}

func (o Options) assemble(kind Kind, meta MetaV1, payload []byte) ([]byte, error) {
	metaBytes, err := encodeMeta(meta)
	if err != nil {
		return nil, err
	}
	if uint64(len(metaBytes)) > math.MaxUint32 || uint64(len(payload)) > math.MaxUint32 {
		return nil, ErrSizeOverflow
	}

	out := make([]byte, HeaderBytesV1, HeaderBytesV1+len(metaBytes)+len(payload))
	out = append(out, metaBytes...)
	out = append(out, payload...)

	h := HeaderV1{
		Kind:         kind,
		Flags:        o.flags(),
		MetaBytes:    uint32(len(metaBytes)),
		PayloadBytes: uint32(len(payload)),
		Checksum:     xxhash.Sum64(out[HeaderBytesV1:]),
	}
	if err := EncodeHeaderV1(out, h); err != nil {
		return nil, err
	}
	if o.Log != nil {
		o.Log.Debugf("frame %s: %s, %d meta and %d payload bytes", meta.ID, kind, h.MetaBytes, h.PayloadBytes)
	}
	return out, nil
}

func (o Options) trieOptions(d counttrie.Depth) []counttrie.Option {
	opts := []counttrie.Option{counttrie.WithDepth(d), counttrie.WithBinomials(o.UseBinomials)}
	if o.Log != nil {
		opts = append(opts, counttrie.WithLogger(o.Log))
	}
	return opts
}

func (f Frame) trieOptions(log counttrie.Logger, d counttrie.Depth) []counttrie.Option {
	opts := []counttrie.Option{counttrie.WithDepth(d), counttrie.WithBinomials(f.Header.UseBinomials())}
	if log != nil {
		opts = append(opts, counttrie.WithLogger(log))
	}
	return opts
}
