package testutil

import (
	"sync"
	"unsafe"

	"github.com/hupe1980/rawvec/alloc"
)

// FailingAllocator wraps an allocator and makes chosen calls fail.
// Allocate and Resize count as calls; Release always succeeds.
type FailingAllocator struct {
	inner alloc.Allocator

	mu        sync.Mutex
	calls     int
	failAfter int // -1 disables
	failAbove int // 0 disables
	failures  int
}

// NewFailingAllocator wraps inner. Nothing fails until configured.
func NewFailingAllocator(inner alloc.Allocator) *FailingAllocator {
	return &FailingAllocator{inner: inner, failAfter: -1}
}

// FailAfter lets the next n calls succeed and fails every later one.
// A negative n disables the rule.
func (f *FailingAllocator) FailAfter(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = 0
	f.failAfter = n
}

// FailAbove fails every request for more than size bytes. 0 disables the rule.
func (f *FailingAllocator) FailAbove(size int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failAbove = size
}

// Failures returns how many calls were failed on purpose.
func (f *FailingAllocator) Failures() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failures
}

func (f *FailingAllocator) shouldFail(size int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if (f.failAfter >= 0 && f.calls > f.failAfter) || (f.failAbove > 0 && size > f.failAbove) {
		f.failures++
		return true
	}
	return false
}

// Allocate implements alloc.Allocator.
func (f *FailingAllocator) Allocate(size int) unsafe.Pointer {
	if f.shouldFail(size) {
		return nil
	}
	return f.inner.Allocate(size)
}

// Resize implements alloc.Allocator.
func (f *FailingAllocator) Resize(p unsafe.Pointer, size int) unsafe.Pointer {
	if f.shouldFail(size) {
		return nil
	}
	return f.inner.Resize(p, size)
}

// Release implements alloc.Allocator.
func (f *FailingAllocator) Release(p unsafe.Pointer) {
	f.inner.Release(p)
}
