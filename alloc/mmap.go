package alloc

import (
	"sync"
	"unsafe"

	"github.com/hupe1980/rawvec/internal/mmap"
)

// Mmap backs every block with its own anonymous mapping. Blocks live
// outside the Go heap and are returned to the operating system on Release.
// Sizes are rounded up to whole pages by the kernel, which makes Mmap a
// good fit for large, long-lived buffers.
type Mmap struct {
	mu       sync.Mutex
	mappings map[unsafe.Pointer]*mmap.Mapping
	sizes    map[unsafe.Pointer]int
	advice   mmap.Advice
	stats    atomicStats
}

// MmapOption configures an Mmap allocator.
type MmapOption func(*Mmap)

// WithSequentialAccess advises the kernel that blocks are read front to back.
func WithSequentialAccess() MmapOption {
	return func(m *Mmap) {
		m.advice = mmap.AdviceSequential
	}
}

// NewMmap creates a new Mmap allocator.
func NewMmap(opts ...MmapOption) *Mmap {
	m := &Mmap{
		mappings: make(map[unsafe.Pointer]*mmap.Mapping),
		sizes:    make(map[unsafe.Pointer]int),
		advice:   mmap.AdviceNormal,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Allocate implements Allocator.
func (m *Mmap) Allocate(size int) unsafe.Pointer {
	mapping, err := mmap.MapAnon(size)
	if err != nil {
		m.stats.onFailure()
		return nil
	}
	if m.advice != mmap.AdviceNormal {
		_ = mapping.Advise(m.advice)
	}

	p := mapping.Addr()

	m.mu.Lock()
	m.mappings[p] = mapping
	m.sizes[p] = size
	m.mu.Unlock()

	m.stats.onAlloc(size)
	return p
}

// Resize implements Allocator.
func (m *Mmap) Resize(p unsafe.Pointer, size int) unsafe.Pointer {
	if p == nil {
		return m.Allocate(size)
	}

	m.mu.Lock()
	old, ok := m.mappings[p]
	oldSize := m.sizes[p]
	m.mu.Unlock()
	if !ok || size <= 0 {
		m.stats.onFailure()
		return nil
	}

	// Mappings are page-rounded, so small growth and any shrink fit in place.
	if size <= old.Size() {
		m.mu.Lock()
		m.sizes[p] = size
		m.mu.Unlock()
		m.stats.onResize(oldSize, size)
		return p
	}

	mapping, err := mmap.MapAnon(size)
	if err != nil {
		m.stats.onFailure()
		return nil
	}
	copy(mapping.Bytes(), old.Bytes()[:min(oldSize, size)])
	np := mapping.Addr()

	m.mu.Lock()
	delete(m.mappings, p)
	delete(m.sizes, p)
	m.mappings[np] = mapping
	m.sizes[np] = size
	m.mu.Unlock()

	_ = old.Close()
	m.stats.onResize(oldSize, size)
	return np
}

// Release implements Allocator.
func (m *Mmap) Release(p unsafe.Pointer) {
	if p == nil {
		return
	}

	m.mu.Lock()
	mapping, ok := m.mappings[p]
	size := m.sizes[p]
	delete(m.mappings, p)
	delete(m.sizes, p)
	m.mu.Unlock()

	if ok {
		_ = mapping.Close()
		m.stats.onRelease(size)
	}
}

// Stats returns the current allocator statistics.
func (m *Mmap) Stats() Stats {
	return m.stats.snapshot()
}
