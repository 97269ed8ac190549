package alloc

import (
	"sync"
	"unsafe"

	"github.com/hupe1980/rawvec/internal/mem"
)

// Heap allocates blocks from the Go heap. Each block is 64-byte aligned and
// kept reachable in an internal table until it is released, so the garbage
// collector never reclaims a block that is still handed out.
type Heap struct {
	mu     sync.Mutex
	blocks map[unsafe.Pointer][]byte
	stats  atomicStats
}

// NewHeap creates a new Heap allocator.
func NewHeap() *Heap {
	return &Heap{
		blocks: make(map[unsafe.Pointer][]byte),
	}
}

// Allocate implements Allocator.
func (h *Heap) Allocate(size int) unsafe.Pointer {
	if size <= 0 {
		h.stats.onFailure()
		return nil
	}

	buf := mem.AllocAligned(size, mem.Alignment)
	p := unsafe.Pointer(&buf[0]) //nolint:gosec // unsafe is required for raw block access

	h.mu.Lock()
	h.blocks[p] = buf
	h.mu.Unlock()

	h.stats.onAlloc(size)
	return p
}

// Resize implements Allocator.
func (h *Heap) Resize(p unsafe.Pointer, size int) unsafe.Pointer {
	if p == nil {
		return h.Allocate(size)
	}
	if size <= 0 {
		h.stats.onFailure()
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	old, ok := h.blocks[p]
	if !ok {
		h.stats.onFailure()
		return nil
	}
	if size == len(old) {
		return p
	}

	buf := mem.AllocAligned(size, mem.Alignment)
	copy(buf, old)
	np := unsafe.Pointer(&buf[0]) //nolint:gosec // unsafe is required for raw block access

	delete(h.blocks, p)
	h.blocks[np] = buf

	h.stats.onResize(len(old), size)
	return np
}

// Release implements Allocator.
func (h *Heap) Release(p unsafe.Pointer) {
	if p == nil {
		return
	}

	h.mu.Lock()
	buf, ok := h.blocks[p]
	delete(h.blocks, p)
	h.mu.Unlock()

	if ok {
		h.stats.onRelease(len(buf))
	}
}

// Stats returns the current allocator statistics.
func (h *Heap) Stats() Stats {
	return h.stats.snapshot()
}
