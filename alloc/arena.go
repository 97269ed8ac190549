package alloc

import (
	"errors"
	"fmt"
	"math/bits"
	"sync"
	"unsafe"

	"github.com/hupe1980/rawvec/internal/mmap"
)

// MemoryAcquirer is an interface for acquiring memory.
type MemoryAcquirer interface {
	AcquireMemory(amount int64) error
	ReleaseMemory(amount int64)
}

var (
	// ErrMaxChunksExceeded is returned when the arena exceeds the maximum number of chunks.
	ErrMaxChunksExceeded = errors.New("arena: max chunks exceeded")
)

const (
	// DefaultArenaChunkSize is the default size of an arena chunk (1MB).
	DefaultArenaChunkSize = 1024 * 1024
	// ArenaAlignment is the alignment of every arena block.
	ArenaAlignment = 16
	// MaxArenaChunks limits the number of chunks to prevent excessive memory usage.
	MaxArenaChunks = 65536
)

type arenaChunk struct {
	mapping *mmap.Mapping // off-heap backing
	offset  int
}

func (c *arenaChunk) base() unsafe.Pointer {
	return c.mapping.Addr()
}

// Arena is a bump allocator over off-heap chunks.
//
// # Memory Management
//
// Release only forgets a block; its bytes are reclaimed together with
// everything else on Reset or Free. Resizing the most recent block of the
// current chunk extends it in place. This makes Arena ideal for many
// short-lived arrays built in one phase and discarded together.
//
// All methods are safe for concurrent use, except that Reset and Free
// must not race with allocations.
type Arena struct {
	mu        sync.Mutex
	chunkSize int
	chunks    []*arenaChunk
	current   *arenaChunk
	last      unsafe.Pointer // most recent block in current
	sizes     map[unsafe.Pointer]int
	reserved  int64
	acquirer  MemoryAcquirer
	lastErr   error
	stats     atomicStats
}

// ArenaOption is a configuration option for Arena.
type ArenaOption func(*Arena)

// WithMemoryAcquirer sets the memory acquirer consulted before mapping a chunk.
func WithMemoryAcquirer(acquirer MemoryAcquirer) ArenaOption {
	return func(a *Arena) {
		a.acquirer = acquirer
	}
}

// NewArena creates a new Arena with the given chunk size, rounded up to a
// power of two. chunkSize <= 0 selects DefaultArenaChunkSize.
func NewArena(chunkSize int, opts ...ArenaOption) *Arena {
	if chunkSize <= 0 {
		chunkSize = DefaultArenaChunkSize
	}
	chunkSize = 1 << bits.Len(uint(chunkSize-1))

	a := &Arena{
		chunkSize: chunkSize,
		sizes:     make(map[unsafe.Pointer]int),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Allocate implements Allocator.
func (a *Arena) Allocate(size int) unsafe.Pointer {
	if size <= 0 {
		a.stats.onFailure()
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	p, err := a.bumpLocked(size)
	if err != nil {
		a.lastErr = err
		a.stats.onFailure()
		return nil
	}
	a.sizes[p] = size
	a.stats.onAlloc(size)
	return p
}

// Resize implements Allocator.
func (a *Arena) Resize(p unsafe.Pointer, size int) unsafe.Pointer {
	if p == nil {
		return a.Allocate(size)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	oldSize, ok := a.sizes[p]
	if !ok || size <= 0 {
		a.stats.onFailure()
		return nil
	}

	// Extend or shrink the most recent block in place.
	if p == a.last && a.current != nil {
		start := int(uintptr(p) - uintptr(a.current.base()))
		if end := start + alignUp(size, ArenaAlignment); end <= a.current.mapping.Size() {
			a.current.offset = end
			a.sizes[p] = size
			a.stats.onResize(oldSize, size)
			return p
		}
	}
	if size <= oldSize {
		a.sizes[p] = size
		a.stats.onResize(oldSize, size)
		return p
	}

	np, err := a.bumpLocked(size)
	if err != nil {
		a.lastErr = err
		a.stats.onFailure()
		return nil
	}
	copy(bytesAt(np, size), bytesAt(p, oldSize))
	delete(a.sizes, p)
	a.sizes[np] = size
	a.stats.onResize(oldSize, size)
	return np
}

// Release implements Allocator. The bytes are reclaimed on Reset or Free.
func (a *Arena) Release(p unsafe.Pointer) {
	if p == nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	size, ok := a.sizes[p]
	if !ok {
		return
	}
	delete(a.sizes, p)
	if p == a.last && a.current != nil {
		// Popping the most recent block gives its space back immediately.
		a.current.offset = int(uintptr(p) - uintptr(a.current.base()))
		a.last = nil
	}
	a.stats.onRelease(size)
}

// Err returns the cause of the most recent allocation failure, if any.
func (a *Arena) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

func (a *Arena) bumpLocked(size int) (unsafe.Pointer, error) {
	aligned := alignUp(size, ArenaAlignment)
	if aligned < size {
		return nil, fmt.Errorf("arena: size %d overflows", size)
	}

	c := a.current
	if c == nil || c.offset+aligned > c.mapping.Size() {
		var err error
		if c, err = a.newChunkLocked(aligned); err != nil {
			return nil, err
		}
	}

	p := unsafe.Add(c.base(), c.offset)
	c.offset += aligned
	a.last = p
	return p, nil
}

func (a *Arena) newChunkLocked(minSize int) (*arenaChunk, error) {
	if len(a.chunks) >= MaxArenaChunks {
		return nil, ErrMaxChunksExceeded
	}

	size := a.chunkSize
	if minSize > size {
		size = alignUp(minSize, a.chunkSize)
	}

	if a.acquirer != nil {
		if err := a.acquirer.AcquireMemory(int64(size)); err != nil {
			return nil, err
		}
	}

	mapping, err := mmap.MapAnon(size)
	if err != nil {
		if a.acquirer != nil {
			a.acquirer.ReleaseMemory(int64(size))
		}
		return nil, fmt.Errorf("failed to map anonymous memory for chunk: %w", err)
	}
	if extra := int64(mapping.Size() - size); extra > 0 && a.acquirer != nil {
		// Page rounding; account for what was actually mapped.
		if err := a.acquirer.AcquireMemory(extra); err != nil {
			_ = mapping.Close()
			a.acquirer.ReleaseMemory(int64(size))
			return nil, err
		}
	}

	c := &arenaChunk{mapping: mapping}
	a.chunks = append(a.chunks, c)
	a.current = c
	a.reserved += int64(mapping.Size())
	return c, nil
}

// Reserved returns the number of bytes currently mapped by the arena.
func (a *Arena) Reserved() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reserved
}

// Stats returns the current arena statistics.
func (a *Arena) Stats() Stats {
	return a.stats.snapshot()
}

// Reset invalidates every block and keeps only the first chunk for reuse.
//
// IMPORTANT:
//  1. Do NOT call Reset concurrently with allocations
//  2. All blocks allocated before Reset become invalid
func (a *Arena) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.dropBlocksLocked()
	if len(a.chunks) == 0 {
		return
	}

	for _, c := range a.chunks[1:] {
		a.unmapLocked(c)
	}
	first := a.chunks[0]
	first.offset = 0
	a.chunks = a.chunks[:1]
	a.current = first
}

// Free unmaps every chunk. The arena can be used again afterwards and maps
// fresh chunks on demand.
func (a *Arena) Free() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.dropBlocksLocked()
	for _, c := range a.chunks {
		a.unmapLocked(c)
	}
	a.chunks = nil
	a.current = nil
}

func (a *Arena) dropBlocksLocked() {
	for _, size := range a.sizes {
		a.stats.onRelease(size)
	}
	clear(a.sizes)
	a.last = nil
}

func (a *Arena) unmapLocked(c *arenaChunk) {
	size := int64(c.mapping.Size())
	_ = c.mapping.Close()
	a.reserved -= size
	if a.acquirer != nil {
		a.acquirer.ReleaseMemory(size)
	}
}

func (a *Arena) String() string {
	a.mu.Lock()
	chunks, reserved := len(a.chunks), a.reserved
	a.mu.Unlock()

	stats := a.Stats()
	return fmt.Sprintf(
		"Arena{chunks: %d, reserved: %.2f MB, live: %.2f MB, blocks: %d, allocs: %d}",
		chunks,
		float64(reserved)/(1024*1024),
		float64(stats.LiveBytes)/(1024*1024),
		stats.LiveBlocks,
		stats.Allocs,
	)
}

func alignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}
