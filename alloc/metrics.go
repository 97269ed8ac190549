package alloc

import (
	"sync/atomic"
	"time"
	"unsafe"
)

// MetricsCollector receives one call per allocator operation.
// Implement this interface to integrate with monitoring systems.
type MetricsCollector interface {
	// RecordAllocate is called after each Allocate. ok is false on failure.
	RecordAllocate(size int, ok bool, duration time.Duration)

	// RecordResize is called after each Resize. moved is true if the block
	// address changed.
	RecordResize(size int, ok, moved bool, duration time.Duration)

	// RecordRelease is called after each Release of a non-nil block.
	RecordRelease(duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAllocate(int, bool, time.Duration)     {}
func (NoopMetricsCollector) RecordResize(int, bool, bool, time.Duration) {}
func (NoopMetricsCollector) RecordRelease(time.Duration)                 {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	AllocateCount  atomic.Int64
	AllocateErrors atomic.Int64
	AllocateBytes  atomic.Int64
	ResizeCount    atomic.Int64
	ResizeErrors   atomic.Int64
	ResizeMoves    atomic.Int64
	ReleaseCount   atomic.Int64
	TotalNanos     atomic.Int64
}

// RecordAllocate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAllocate(size int, ok bool, duration time.Duration) {
	b.AllocateCount.Add(1)
	b.TotalNanos.Add(duration.Nanoseconds())
	if !ok {
		b.AllocateErrors.Add(1)
		return
	}
	b.AllocateBytes.Add(int64(size))
}

// RecordResize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordResize(size int, ok, moved bool, duration time.Duration) {
	b.ResizeCount.Add(1)
	b.TotalNanos.Add(duration.Nanoseconds())
	if !ok {
		b.ResizeErrors.Add(1)
		return
	}
	if moved {
		b.ResizeMoves.Add(1)
	}
}

// RecordRelease implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRelease(duration time.Duration) {
	b.ReleaseCount.Add(1)
	b.TotalNanos.Add(duration.Nanoseconds())
}

// Instrumented reports every call on the wrapped allocator to a collector.
type Instrumented struct {
	inner Allocator
	mc    MetricsCollector
}

// Instrument wraps inner. A nil collector disables reporting.
func Instrument(inner Allocator, mc MetricsCollector) *Instrumented {
	if mc == nil {
		mc = NoopMetricsCollector{}
	}
	return &Instrumented{inner: inner, mc: mc}
}

// Allocate implements Allocator.
func (i *Instrumented) Allocate(size int) unsafe.Pointer {
	start := time.Now()
	p := i.inner.Allocate(size)
	i.mc.RecordAllocate(size, p != nil, time.Since(start))
	return p
}

// Resize implements Allocator.
func (i *Instrumented) Resize(p unsafe.Pointer, size int) unsafe.Pointer {
	start := time.Now()
	np := i.inner.Resize(p, size)
	i.mc.RecordResize(size, np != nil, np != nil && np != p, time.Since(start))
	return np
}

// Release implements Allocator.
func (i *Instrumented) Release(p unsafe.Pointer) {
	if p == nil {
		return
	}
	start := time.Now()
	i.inner.Release(p)
	i.mc.RecordRelease(time.Since(start))
}
