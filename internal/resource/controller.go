package resource

import (
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

var (
	// ErrMemoryLimitExceeded means the request would push usage past MemoryLimitBytes.
	ErrMemoryLimitExceeded = errors.New("memory limit exceeded")
	// ErrRateLimited means the request exceeds the allocation rate budget.
	ErrRateLimited = errors.New("allocation rate exceeded")
)

// Config holds the limits of a Controller. Zero values disable a limit.
type Config struct {
	// MemoryLimitBytes caps the bytes held at any one time.
	MemoryLimitBytes int64

	// AllocRateBytesPerSec caps the bytes newly acquired per second.
	AllocRateBytesPerSec int64

	// AllocBurstBytes is the token bucket size (default AllocRateBytesPerSec).
	// A single request above the burst never succeeds.
	AllocBurstBytes int64
}

// Controller accounts bytes held by an allocator against a Config.
// A nil *Controller accepts everything and tracks nothing.
type Controller struct {
	limit int64
	held  *semaphore.Weighted // nil when unlimited
	rate  *rate.Limiter       // nil when unlimited

	used atomic.Int64
	peak atomic.Int64
}

// NewController returns a Controller enforcing cfg.
func NewController(cfg Config) *Controller {
	c := &Controller{limit: max(cfg.MemoryLimitBytes, 0)}
	if c.limit > 0 {
		c.held = semaphore.NewWeighted(c.limit)
	}
	if cfg.AllocRateBytesPerSec > 0 {
		burst := cfg.AllocBurstBytes
		if burst <= 0 {
			burst = cfg.AllocRateBytesPerSec
		}
		c.rate = rate.NewLimiter(rate.Limit(cfg.AllocRateBytesPerSec), int(burst))
	}
	return c
}

// AcquireMemory charges n bytes. It never blocks: a request that does not
// fit right now fails with ErrRateLimited or ErrMemoryLimitExceeded.
// Non-positive n is a no-op.
func (c *Controller) AcquireMemory(n int64) error {
	if c == nil || n <= 0 {
		return nil
	}
	if c.rate != nil && !c.rate.AllowN(time.Now(), int(n)) {
		return ErrRateLimited
	}
	if c.held != nil && !c.held.TryAcquire(n) {
		return ErrMemoryLimitExceeded
	}

	now := c.used.Add(n)
	for peak := c.peak.Load(); now > peak; peak = c.peak.Load() {
		if c.peak.CompareAndSwap(peak, now) {
			break
		}
	}
	return nil
}

// ReleaseMemory returns n bytes charged by AcquireMemory. Rate tokens are
// not refunded.
func (c *Controller) ReleaseMemory(n int64) {
	if c == nil || n <= 0 {
		return
	}
	if c.held != nil {
		c.held.Release(n)
	}
	c.used.Add(-n)
}

// MemoryUsage returns the bytes currently charged.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.used.Load()
}

// PeakMemoryUsage returns the highest MemoryUsage observed.
func (c *Controller) PeakMemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.peak.Load()
}

// MemoryLimit returns the configured cap, 0 if unlimited.
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.limit
}
