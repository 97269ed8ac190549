package alloc

import (
	"sync/atomic"
	"unsafe"
)

// MinAlignment is the minimum alignment of every block returned by the
// allocators in this package. It covers every Go scalar type.
const MinAlignment = 8

// Allocator is the raw memory capability consumed by rawvec.Vec.
type Allocator interface {
	// Allocate returns a block of at least size bytes, or nil on failure.
	Allocate(size int) unsafe.Pointer
	// Resize returns a block of at least size bytes preserving the contents
	// of p, or nil on failure. On failure p remains valid.
	Resize(p unsafe.Pointer, size int) unsafe.Pointer
	// Release returns the block p to the allocator.
	Release(p unsafe.Pointer)
}

// Default is the allocator used when none is configured.
var Default Allocator = NewHeap()

// Stats tracks allocator usage.
//
// Note on semantics:
//   - Allocs, Resizes, Releases, Failures: historical call counts
//   - LiveBlocks, LiveBytes: blocks currently handed out
//   - PeakBytes: high-water mark of LiveBytes
type Stats struct {
	Allocs     uint64
	Resizes    uint64
	Releases   uint64
	Failures   uint64
	LiveBlocks int64
	LiveBytes  int64
	PeakBytes  int64
}

type atomicStats struct {
	allocs     atomic.Uint64
	resizes    atomic.Uint64
	releases   atomic.Uint64
	failures   atomic.Uint64
	liveBlocks atomic.Int64
	liveBytes  atomic.Int64
	peakBytes  atomic.Int64
}

func (s *atomicStats) onAlloc(size int) {
	s.allocs.Add(1)
	s.liveBlocks.Add(1)
	s.addBytes(int64(size))
}

func (s *atomicStats) onResize(oldSize, newSize int) {
	s.resizes.Add(1)
	s.addBytes(int64(newSize - oldSize))
}

func (s *atomicStats) onRelease(size int) {
	s.releases.Add(1)
	s.liveBlocks.Add(-1)
	s.liveBytes.Add(-int64(size))
}

func (s *atomicStats) onFailure() {
	s.failures.Add(1)
}

func (s *atomicStats) addBytes(delta int64) {
	live := s.liveBytes.Add(delta)
	for {
		peak := s.peakBytes.Load()
		if live <= peak || s.peakBytes.CompareAndSwap(peak, live) {
			return
		}
	}
}

func (s *atomicStats) snapshot() Stats {
	return Stats{
		Allocs:     s.allocs.Load(),
		Resizes:    s.resizes.Load(),
		Releases:   s.releases.Load(),
		Failures:   s.failures.Load(),
		LiveBlocks: s.liveBlocks.Load(),
		LiveBytes:  s.liveBytes.Load(),
		PeakBytes:  s.peakBytes.Load(),
	}
}

// bytesAt views size bytes starting at p.
func bytesAt(p unsafe.Pointer, size int) []byte {
	return unsafe.Slice((*byte)(p), size) //nolint:gosec // unsafe is required for raw block access
}
