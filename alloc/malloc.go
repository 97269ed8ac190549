package alloc

import (
	"sync"
	"unsafe"

	"modernc.org/memory"
)

// Malloc is a general purpose off-heap allocator built on modernc.org/memory,
// a malloc(3) work-alike that carves blocks out of mmap'd pages. It suits
// many small and medium arrays with independent lifetimes.
//
// Close returns every page to the operating system at once.
type Malloc struct {
	mu     sync.Mutex
	a      memory.Allocator
	blocks map[unsafe.Pointer]int
	stats  atomicStats
}

// NewMalloc creates a new Malloc allocator.
func NewMalloc() *Malloc {
	return &Malloc{blocks: make(map[unsafe.Pointer]int)}
}

// Allocate implements Allocator.
func (m *Malloc) Allocate(size int) unsafe.Pointer {
	if size <= 0 {
		m.stats.onFailure()
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.a.UnsafeMalloc(size)
	if err != nil || p == nil {
		m.stats.onFailure()
		return nil
	}
	m.blocks[p] = size
	m.stats.onAlloc(size)
	return p
}

// Resize implements Allocator.
func (m *Malloc) Resize(p unsafe.Pointer, size int) unsafe.Pointer {
	if p == nil {
		return m.Allocate(size)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	oldSize, ok := m.blocks[p]
	// UnsafeRealloc frees p for size 0, so that case is rejected here.
	if !ok || size <= 0 {
		m.stats.onFailure()
		return nil
	}

	np, err := m.a.UnsafeRealloc(p, size)
	if err != nil || np == nil {
		m.stats.onFailure()
		return nil
	}
	delete(m.blocks, p)
	m.blocks[np] = size
	m.stats.onResize(oldSize, size)
	return np
}

// Release implements Allocator. Unknown pointers are ignored.
func (m *Malloc) Release(p unsafe.Pointer) {
	if p == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	size, ok := m.blocks[p]
	if !ok {
		return
	}
	delete(m.blocks, p)
	_ = m.a.UnsafeFree(p)
	m.stats.onRelease(size)
}

// Stats returns the current allocator statistics.
func (m *Malloc) Stats() Stats {
	return m.stats.snapshot()
}

// Close frees every outstanding block and unmaps the allocator's pages.
// The allocator can be used again afterwards.
func (m *Malloc) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, size := range m.blocks {
		m.stats.onRelease(size)
	}
	clear(m.blocks)
	return m.a.Close()
}
