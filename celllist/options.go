package celllist

import "go.uber.org/zap"

// Option configures a Builder.
type Option func(*options)

type options struct {
	padding int
	hilbert bool
	order   int
	logger  *zap.Logger
}

func defaultOptions() *options {
	return &options{
		padding: 1,
		logger:  zap.NewNop(),
	}
}

// WithPadding sets the number of ghost cells added on each side of every
// axis.
func WithPadding(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.padding = n
		}
	}
}

// WithHilbert visits cells along a Hilbert curve of order m. Zero picks the
// smallest order covering the domain.
func WithHilbert(m int) Option {
	return func(o *options) {
		o.hilbert = true
		o.order = m
	}
}

// WithLinear visits cells in memory order. This is the default.
func WithLinear() Option {
	return func(o *options) {
		o.hilbert = false
	}
}

// WithLogger sets the logger used for debug diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
