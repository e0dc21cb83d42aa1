package ndgrid

import (
	"go.uber.org/zap"

	"github.com/robert-malhotra/go-ndgrid/internal/alloc"
	"github.com/robert-malhotra/go-ndgrid/internal/layout"
)

// Option configures grid construction.
type Option func(*options)

type options struct {
	layout      layout.Tag
	layoutSet   bool
	boundsCheck bool
	heap        *alloc.Heap
	logger      *zap.Logger
}

func defaultOptions() *options {
	return &options{
		boundsCheck: true,
		logger:      zap.NewNop(),
	}
}

// WithLayout fixes the memory layout, overriding any preference declared
// by the element type.
func WithLayout(tag Layout) Option {
	return func(o *options) {
		o.layout = tag
		o.layoutSet = true
	}
}

// WithBoundsCheck enables or disables coordinate validation. With checks
// disabled an out-of-range coordinate panics like a slice index would.
func WithBoundsCheck(enabled bool) Option {
	return func(o *options) {
		o.boundsCheck = enabled
	}
}

// WithHeap tracks the grid's owned memory in h. Without it owned blocks
// come from make and are not accounted.
func WithHeap(h *Heap) Option {
	return func(o *options) {
		o.heap = h
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
