package alloc

import (
	"sync"
	"unsafe"

	"github.com/hupe1980/rawvec/internal/conv"
	"github.com/hupe1980/rawvec/internal/resource"
)

// LimitConfig configures a Limited allocator.
type LimitConfig struct {
	// MaxBytes is the hard cap on bytes outstanding. 0 means unlimited.
	MaxBytes int64
	// BytesPerSec caps newly acquired bytes per second. 0 means unlimited.
	BytesPerSec int64
	// BurstBytes is the rate limiter's bucket size. 0 means BytesPerSec.
	BurstBytes int64
}

// Limited enforces a byte budget around another allocator. A request that
// would exceed the budget fails with a nil block, exactly like an exhausted
// system allocator.
type Limited struct {
	inner Allocator
	rc    *resource.Controller

	mu    sync.Mutex
	sizes map[unsafe.Pointer]int
}

// NewLimited wraps inner with the given limits.
func NewLimited(inner Allocator, cfg LimitConfig) *Limited {
	return &Limited{
		inner: inner,
		rc: resource.NewController(resource.Config{
			MemoryLimitBytes:     cfg.MaxBytes,
			AllocRateBytesPerSec: cfg.BytesPerSec,
			AllocBurstBytes:      cfg.BurstBytes,
		}),
		sizes: make(map[unsafe.Pointer]int),
	}
}

// Allocate implements Allocator.
func (l *Limited) Allocate(size int) unsafe.Pointer {
	if size <= 0 {
		return nil
	}
	if err := l.rc.AcquireMemory(conv.IntToInt64(size)); err != nil {
		return nil
	}

	p := l.inner.Allocate(size)
	if p == nil {
		l.rc.ReleaseMemory(conv.IntToInt64(size))
		return nil
	}

	l.mu.Lock()
	l.sizes[p] = size
	l.mu.Unlock()
	return p
}

// Resize implements Allocator.
func (l *Limited) Resize(p unsafe.Pointer, size int) unsafe.Pointer {
	if p == nil {
		return l.Allocate(size)
	}
	if size <= 0 {
		return nil
	}

	l.mu.Lock()
	oldSize, ok := l.sizes[p]
	l.mu.Unlock()
	if !ok {
		return nil
	}

	delta := conv.IntToInt64(size - oldSize)
	if delta > 0 {
		if err := l.rc.AcquireMemory(delta); err != nil {
			return nil
		}
	}

	np := l.inner.Resize(p, size)
	if np == nil {
		if delta > 0 {
			l.rc.ReleaseMemory(delta)
		}
		return nil
	}
	if delta < 0 {
		l.rc.ReleaseMemory(-delta)
	}

	l.mu.Lock()
	delete(l.sizes, p)
	l.sizes[np] = size
	l.mu.Unlock()
	return np
}

// Release implements Allocator.
func (l *Limited) Release(p unsafe.Pointer) {
	if p == nil {
		return
	}

	l.mu.Lock()
	size, ok := l.sizes[p]
	delete(l.sizes, p)
	l.mu.Unlock()

	l.inner.Release(p)
	if ok {
		l.rc.ReleaseMemory(conv.IntToInt64(size))
	}
}

// Usage returns the bytes currently outstanding.
func (l *Limited) Usage() int64 {
	return l.rc.MemoryUsage()
}

// Peak returns the high-water mark of outstanding bytes.
func (l *Limited) Peak() int64 {
	return l.rc.PeakMemoryUsage()
}

// Limit returns the configured cap (0 if unlimited).
func (l *Limited) Limit() int64 {
	return l.rc.MemoryLimit()
}
