package bitstream

type Options struct {
	// UseChecks interleaves self verifying markers with the data. Readers and
	// writers must agree on it. It inflates the stream and is meant for
	// development.
	UseChecks bool
}

type Option func(*Options)

func WithChecks(useChecks bool) Option {
	return func(o *Options) {
		o.UseChecks = useChecks
	}
}

func newOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
