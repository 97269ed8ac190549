// Package mmap provides anonymous memory mappings for off-heap allocation.
//
// # Overview
//
// An anonymous mapping is a read-write region obtained directly from the
// operating system. The Go garbage collector neither scans nor moves it, so
// it can back manually managed buffers whose lifetime is controlled by an
// explicit release call.
//
// # Usage
//
//	m, err := mmap.MapAnon(1 << 20)
//	if err != nil { ... }
//	defer m.Close()
//
//	buf := m.Bytes() // zero-filled on creation
//
//	// Hint that the pages will be touched soon
//	m.Advise(mmap.AdviceWillNeed)
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with MAP_ANON|MAP_PRIVATE, madvise(2) for hints
//   - Windows: VirtualAlloc with MEM_RESERVE|MEM_COMMIT (advice is a no-op)
//
// # Thread Safety
//
// Close is idempotent and protected by an atomic flag. Callers must ensure
// nothing touches Bytes() after Close returns.
package mmap
