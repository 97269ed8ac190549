// Package alloc defines the allocator capability used by rawvec and ships
// several implementations of it.
//
// # Contract
//
// An Allocator hands out raw blocks addressed by unsafe.Pointer:
//
//   - Allocate(size) returns a block of at least size bytes, or nil.
//   - Resize(p, size) returns a block of at least size bytes holding the first
//     min(old, size) bytes of p, or nil. On nil the block p is untouched and
//     still owned by the caller.
//   - Release(p) returns the block. Release(nil) is a no-op.
//
// Blocks are aligned to at least MinAlignment bytes. Their content is not
// guaranteed to be zero; callers that need zeroed memory clear it.
//
// # Implementations
//
//	┌──────────────┬─────────────────────────────────────────────────────┐
//	│ Heap         │ Go heap, 64-byte aligned, kept alive in a table     │
//	│ Mmap         │ one anonymous mapping per block (off-heap)          │
//	│ Malloc       │ malloc-style off-heap heap (modernc.org/memory)     │
//	│ Slab         │ power-of-two size classes carved from mmap chunks   │
//	│ Arena        │ bump allocation, memory reclaimed on Reset/Free     │
//	│ Limited      │ byte budget and allocation rate around another one  │
//	│ Instrumented │ reports every call to a MetricsCollector            │
//	└──────────────┴─────────────────────────────────────────────────────┘
//
// Memory handed out by these allocators is not scanned by the garbage
// collector. Storing Go pointers in it is unsound.
//
// # Thread Safety
//
// All allocators in this package are safe for concurrent use.
package alloc
