// Package rawvec provides a growable array whose storage is managed by hand.
//
// A Vec[T] is a contiguous, index-addressable sequence backed by exactly one
// block from a pluggable allocator (package alloc). Nothing is left to the
// garbage collector: the Vec decides its own capacity, zero-fills fresh
// memory, destroys elements explicitly, and returns its block on Free.
//
// # Quick Start
//
//	v := rawvec.New[int64]()
//	defer v.Free()
//
//	_ = v.Push(1)
//	_ = v.Push(2)
//	_ = v.Push(3)
//
//	v.Len()        // 3
//	v.Cap()        // 64
//	v.Slice(0, 3)  // [1 2 3]
//
// # Off-heap Storage
//
// Any alloc.Allocator can back a Vec. The off-heap allocators keep large
// arrays out of the Go heap entirely:
//
//	slab := alloc.NewSlab(0)
//	defer slab.Free()
//
//	v := rawvec.New[float32](rawvec.WithAllocator(slab))
//	defer v.Free()
//
// Because such memory is never scanned by the garbage collector, element
// types must not contain Go pointers. New panics and WithCapacity returns
// ErrPointerElement otherwise.
//
// # Capacity Policy
//
// A non-zero capacity is always a power of two of at least MinCapacity (64)
// elements. Capacity grows on demand and never shrinks implicitly; Clear
// shrinks back to MinCapacity, or releases the block entirely in zero-alloc
// mode (AllowZeroAlloc).
//
// # Element Lifecycle
//
// Element types that own resources implement Dropper. Drop runs exactly once
// for every element destroyed by Truncate, Clear, Set, Free, or an abandoned
// owning iteration. Elements moved out by Pop or owning iteration belong to
// the caller.
//
// # Errors and Panics
//
// Recoverable failures are returned as errors: allocation failure (ErrAlloc,
// *AllocError), invalid lengths (ErrInvalidArgument), bitwise copies of
// Dropper types (ErrNotCopyable), and element duplication failures
// (*CloneError). A failed capacity change leaves the Vec empty without
// storage, never half-initialized.
//
// Out-of-bounds indexing and slicing are programming errors and panic.
//
// # Iteration
//
//	for i, x := range v.All() { ... }        // read-only copies
//	for i, p := range v.IterMut() { *p++ }   // in-place mutation
//	for x := range v.IntoSeq() { ... }       // consumes v
//
// # Thread Safety
//
// A Vec is not safe for concurrent use. The allocators in package alloc are.
package rawvec
