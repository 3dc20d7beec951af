package frame

import (
	"fmt"

	"github.com/forestrie/go-bitcodec/counttrie"
	"github.com/fxamacker/cbor/v2"
)

var (
	metaEncMode cbor.EncMode
	metaDecMode cbor.DecMode
)

func init() {
	var err error
	if metaEncMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(err)
	}
	if metaDecMode, err = (cbor.DecOptions{DupMapKey: cbor.DupMapKeyEnforcedAPF}).DecMode(); err != nil {
		panic(err)
	}
}

func encodeMeta(m MetaV1) ([]byte, error) {
	return metaEncMode.Marshal(m)
}

func decodeMeta(data []byte) (MetaV1, error) {
	var m MetaV1
	if err := metaDecMode.Unmarshal(data, &m); err != nil {
		return MetaV1{}, fmt.Errorf("%w: %v", ErrBadMeta, err)
	}
	if m.Depth < 0 || m.KeyWidth < 0 || m.KeyWidth > 64 {
		return MetaV1{}, fmt.Errorf("%w: depth %d key width %d", ErrBadMeta, m.Depth, m.KeyWidth)
	}
	if err := m.shape().Validate(); err != nil {
		return MetaV1{}, fmt.Errorf("%w: %v", ErrBadMeta, err)
	}
	return m, nil
}

func (m MetaV1) shape() counttrie.Depth {
	if m.Fixed {
		return counttrie.Fixed(m.Depth)
	}
	return counttrie.Unbounded()
}

func (m *MetaV1) setShape(d counttrie.Depth) {
	m.Depth, m.Fixed = d.Bits()
}
