package alloc

import (
	"math/bits"
	"sync"
	"unsafe"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/sys/cpu"

	"github.com/hupe1980/rawvec/internal/mmap"
)

const (
	slabMinClassShift = 6  // 64 B
	slabMaxClassShift = 20 // 1 MiB
	slabNumClasses    = slabMaxClassShift - slabMinClassShift + 1

	// DefaultSlabChunkSize is the default size of a slab chunk (4MB).
	DefaultSlabChunkSize = 4 << 20
)

// slabChunk is one mapping split into equally sized slots.
type slabChunk struct {
	mapping *mmap.Mapping
	used    *bitset.BitSet
	slots   uint
	inUse   uint
}

// sizeClass owns the chunks of one slot size. Classes are padded so that
// goroutines allocating different sizes do not share a cache line.
type sizeClass struct {
	_      cpu.CacheLinePad
	mu     sync.Mutex
	size   int
	chunks []*slabChunk
}

type slabRef struct {
	class int // -1 for blocks served by the large allocator
	chunk *slabChunk
	slot  uint
	size  int
}

// Slab serves requests from power-of-two size classes between 64 B and
// 1 MiB. Each class carves slots out of off-heap chunks and tracks free
// slots in a bitset. Requests above the largest class get a dedicated
// mapping.
//
// A growable array doubles its capacity, so its block sizes walk up the
// classes; a Resize within the same class completes in place.
type Slab struct {
	classes   [slabNumClasses]sizeClass
	chunkSize int

	mu     sync.Mutex
	blocks map[unsafe.Pointer]slabRef

	large *Mmap
	stats atomicStats
}

// NewSlab creates a Slab allocator. chunkSize <= 0 selects DefaultSlabChunkSize.
func NewSlab(chunkSize int) *Slab {
	if chunkSize <= 0 {
		chunkSize = DefaultSlabChunkSize
	}
	s := &Slab{
		chunkSize: chunkSize,
		blocks:    make(map[unsafe.Pointer]slabRef),
		large:     NewMmap(),
	}
	for i := range s.classes {
		s.classes[i].size = 1 << (slabMinClassShift + i)
	}
	return s
}

// classIndex returns the class serving size, or -1 if size is too large.
func classIndex(size int) int {
	shift := bits.Len(uint(size - 1))
	if shift < slabMinClassShift {
		shift = slabMinClassShift
	}
	if shift > slabMaxClassShift {
		return -1
	}
	return shift - slabMinClassShift
}

// Allocate implements Allocator.
func (s *Slab) Allocate(size int) unsafe.Pointer {
	if size <= 0 {
		s.stats.onFailure()
		return nil
	}

	idx := classIndex(size)
	if idx < 0 {
		p := s.large.Allocate(size)
		if p == nil {
			s.stats.onFailure()
			return nil
		}
		s.track(p, slabRef{class: -1, size: size})
		s.stats.onAlloc(size)
		return p
	}

	p, chunk, slot, ok := s.classes[idx].alloc(s.chunkSize)
	if !ok {
		s.stats.onFailure()
		return nil
	}
	s.track(p, slabRef{class: idx, chunk: chunk, slot: slot, size: size})
	s.stats.onAlloc(size)
	return p
}

// Resize implements Allocator.
func (s *Slab) Resize(p unsafe.Pointer, size int) unsafe.Pointer {
	if p == nil {
		return s.Allocate(size)
	}

	ref, ok := s.lookup(p)
	if !ok || size <= 0 {
		s.stats.onFailure()
		return nil
	}

	idx := classIndex(size)
	switch {
	case ref.class >= 0 && idx == ref.class:
		s.updateSize(p, size)
		s.stats.onResize(ref.size, size)
		return p
	case ref.class < 0 && idx < 0:
		np := s.large.Resize(p, size)
		if np == nil {
			s.stats.onFailure()
			return nil
		}
		s.mu.Lock()
		delete(s.blocks, p)
		s.blocks[np] = slabRef{class: -1, size: size}
		s.mu.Unlock()
		s.stats.onResize(ref.size, size)
		return np
	}

	np := s.Allocate(size)
	if np == nil {
		return nil
	}
	copy(bytesAt(np, size), bytesAt(p, min(ref.size, size)))
	s.Release(p)
	return np
}

// Release implements Allocator.
func (s *Slab) Release(p unsafe.Pointer) {
	if p == nil {
		return
	}

	s.mu.Lock()
	ref, ok := s.blocks[p]
	delete(s.blocks, p)
	s.mu.Unlock()
	if !ok {
		return
	}

	if ref.class < 0 {
		s.large.Release(p)
	} else {
		s.classes[ref.class].free(ref.chunk, ref.slot)
	}
	s.stats.onRelease(ref.size)
}

// Stats returns the current allocator statistics.
func (s *Slab) Stats() Stats {
	return s.stats.snapshot()
}

// Chunks returns the number of chunks currently mapped across all classes.
func (s *Slab) Chunks() int {
	n := 0
	for i := range s.classes {
		c := &s.classes[i]
		c.mu.Lock()
		n += len(c.chunks)
		c.mu.Unlock()
	}
	return n
}

// Free unmaps every chunk and large block. All blocks handed out by the
// Slab become invalid. Do NOT call Free concurrently with allocations.
func (s *Slab) Free() {
	for i := range s.classes {
		c := &s.classes[i]
		c.mu.Lock()
		for _, ch := range c.chunks {
			_ = ch.mapping.Close()
		}
		c.chunks = nil
		c.mu.Unlock()
	}

	s.mu.Lock()
	for p, ref := range s.blocks {
		if ref.class < 0 {
			s.large.Release(p)
		}
		s.stats.onRelease(ref.size)
	}
	clear(s.blocks)
	s.mu.Unlock()
}

func (s *Slab) track(p unsafe.Pointer, ref slabRef) {
	s.mu.Lock()
	s.blocks[p] = ref
	s.mu.Unlock()
}

func (s *Slab) lookup(p unsafe.Pointer) (slabRef, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref, ok := s.blocks[p]
	return ref, ok
}

func (s *Slab) updateSize(p unsafe.Pointer, size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref := s.blocks[p]
	ref.size = size
	s.blocks[p] = ref
}

func (c *sizeClass) alloc(chunkSize int) (unsafe.Pointer, *slabChunk, uint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ch := range c.chunks {
		if ch.inUse == ch.slots {
			continue
		}
		if slot, ok := ch.used.NextClear(0); ok && slot < ch.slots {
			return c.take(ch, slot), ch, slot, true
		}
	}

	mapping, err := mmap.MapAnon(max(chunkSize, c.size))
	if err != nil {
		return nil, nil, 0, false
	}
	slots := uint(mapping.Size() / c.size)
	ch := &slabChunk{
		mapping: mapping,
		used:    bitset.New(slots),
		slots:   slots,
	}
	c.chunks = append(c.chunks, ch)
	return c.take(ch, 0), ch, 0, true
}

func (c *sizeClass) take(ch *slabChunk, slot uint) unsafe.Pointer {
	ch.used.Set(slot)
	ch.inUse++
	return unsafe.Add(ch.mapping.Addr(), int(slot)*c.size)
}

func (c *sizeClass) free(ch *slabChunk, slot uint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch.used.Clear(slot)
	ch.inUse--

	// Keep one chunk per class warm; unmap the rest once empty.
	if ch.inUse == 0 && len(c.chunks) > 1 {
		for i, other := range c.chunks {
			if other == ch {
				c.chunks = append(c.chunks[:i], c.chunks[i+1:]...)
				break
			}
		}
		_ = ch.mapping.Close()
	}
}
