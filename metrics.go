package rawvec

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting capacity events.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordGrow is called after each successful capacity change.
	// from and to are capacities in elements, duration covers the allocator call.
	RecordGrow(from, to int, duration time.Duration)

	// RecordRelease is called when a backing block is released.
	RecordRelease(capacity int)

	// RecordAllocFailure is called when a capacity change fails.
	RecordAllocFailure(bytes int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordGrow(int, int, time.Duration) {}
func (NoopMetricsCollector) RecordRelease(int)                  {}
func (NoopMetricsCollector) RecordAllocFailure(int)             {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	GrowCount      atomic.Int64
	ShrinkCount    atomic.Int64
	GrowTotalNanos atomic.Int64
	ReleaseCount   atomic.Int64
	FailureCount   atomic.Int64
	FailureBytes   atomic.Int64
	MaxCapacity    atomic.Int64
}

// RecordGrow implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGrow(from, to int, duration time.Duration) {
	if to < from {
		b.ShrinkCount.Add(1)
	} else {
		b.GrowCount.Add(1)
	}
	b.GrowTotalNanos.Add(duration.Nanoseconds())
	for {
		cur := b.MaxCapacity.Load()
		if int64(to) <= cur || b.MaxCapacity.CompareAndSwap(cur, int64(to)) {
			break
		}
	}
}

// RecordRelease implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRelease(int) {
	b.ReleaseCount.Add(1)
}

// RecordAllocFailure implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAllocFailure(bytes int) {
	b.FailureCount.Add(1)
	b.FailureBytes.Add(int64(bytes))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		GrowCount:    b.GrowCount.Load(),
		ShrinkCount:  b.ShrinkCount.Load(),
		GrowAvgNanos: b.getAvgGrowNanos(),
		ReleaseCount: b.ReleaseCount.Load(),
		FailureCount: b.FailureCount.Load(),
		FailureBytes: b.FailureBytes.Load(),
		MaxCapacity:  b.MaxCapacity.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgGrowNanos() int64 {
	count := b.GrowCount.Load() + b.ShrinkCount.Load()
	if count == 0 {
		return 0
	}
	return b.GrowTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	GrowCount    int64
	ShrinkCount  int64
	GrowAvgNanos int64
	ReleaseCount int64
	FailureCount int64
	FailureBytes int64
	MaxCapacity  int64
}
