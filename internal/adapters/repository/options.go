package repository

// Option applies a configuration option to the store.
type Option func(*options)

type options struct {
	sqlLogging bool
}

func newOptions(opts ...Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithSQLLogging enables GORM statement logging. Useful while debugging
// query shapes; off by default.
func WithSQLLogging(enabled bool) Option {
	return func(o *options) {
		o.sqlLogging = enabled
	}
}
