package frame

import (
	"github.com/forestrie/go-bitcodec/counttrie"
	"github.com/google/uuid"
)

type Options struct {
	// ID identifies the frame. A random ID is drawn when it is left nil.
	ID           uuid.UUID
	UseBinomials bool
	UseChecks    bool
	Depth        counttrie.Depth
	Log          counttrie.Logger
}

type Option func(*Options)

func WithID(id uuid.UUID) Option {
	return func(o *Options) {
		o.ID = id
	}
}

func WithBinomials(useBinomials bool) Option {
	return func(o *Options) {
		o.UseBinomials = useBinomials
	}
}

func WithChecks(useChecks bool) Option {
	return func(o *Options) {
		o.UseChecks = useChecks
	}
}

// WithDepth sets the trie depth of counts frames. Table frames take their
// depth from the key width.
func WithDepth(d counttrie.Depth) Option {
	return func(o *Options) {
		o.Depth = d
	}
}

func WithLogger(log counttrie.Logger) Option {
	return func(o *Options) {
		o.Log = log
	}
}

func newOptions(opts []Option) Options {
	o := Options{
		UseBinomials: true,
		Depth:        counttrie.Unbounded(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return o
}

func (o Options) flags() uint8 {
	var f uint8
	if o.UseBinomials {
		f |= FlagBinomials
	}
	if o.UseChecks {
		f |= FlagChecks
	}
	return f
}
