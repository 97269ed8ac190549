package rawvec

import (
	"log/slog"

	"github.com/hupe1980/rawvec/alloc"
)

type options struct {
	allocator        alloc.Allocator
	logger           *Logger
	metricsCollector MetricsCollector
	zeroAlloc        bool
}

// Option configures a Vec at construction.
type Option func(*options)

// WithAllocator configures the allocator backing the vector.
//
// If nil is passed, alloc.Default is used.
//
// Example with an off-heap slab:
//
//	slab := alloc.NewSlab(0)
//	defer slab.Free()
//	v := rawvec.New[uint64](rawvec.WithAllocator(slab))
//	defer v.Free()
func WithAllocator(a alloc.Allocator) Option {
	return func(o *options) {
		if a == nil {
			a = alloc.Default
		}
		o.allocator = a
	}
}

// WithLogger configures structured logging of capacity changes.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := rawvec.NewJSONLogger(slog.LevelDebug)
//	v := rawvec.New[int](rawvec.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for capacity events.
// Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithZeroAlloc enables zero-size allocation mode from the start.
// See Vec.AllowZeroAlloc.
func WithZeroAlloc(enabled bool) Option {
	return func(o *options) {
		o.zeroAlloc = enabled
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		allocator:        alloc.Default,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
