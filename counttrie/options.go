package counttrie

type Options struct {
	Shape        Shape
	UseBinomials bool
	Log          Logger
}

type Option func(*Options)

// WithShape sets the shape shared by writer and reader.
func WithShape(shape Shape) Option {
	return func(o *Options) {
		o.Shape = shape
	}
}

// WithDepth is WithShape for a Depth.
func WithDepth(d Depth) Option {
	return func(o *Options) {
		o.Shape = d
	}
}

// WithBinomials selects the window coder for zero side counts. It is on by
// default; off codes them as flat bounded integers.
func WithBinomials(useBinomials bool) Option {
	return func(o *Options) {
		o.UseBinomials = useBinomials
	}
}

func WithLogger(log Logger) Option {
	return func(o *Options) {
		o.Log = log
	}
}

func newOptions(opts []Option) Options {
	o := Options{
		Shape:        Unbounded(),
		UseBinomials: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
