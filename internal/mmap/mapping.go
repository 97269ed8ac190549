package mmap

import (
	"os"
	"sync/atomic"
	"unsafe"
)

const maxInt = int(^uint(0) >> 1)

// Mapping is a private, read-write, anonymous region of whole pages.
type Mapping struct {
	data   []byte
	unmap  func([]byte) error
	closed atomic.Bool
}

// MapAnon returns a zero-filled mapping of at least size bytes, rounded up
// to the page size.
func MapAnon(size int) (*Mapping, error) {
	page := os.Getpagesize()
	if size <= 0 || size > maxInt-page {
		return nil, ErrInvalidSize
	}

	data, unmap, err := osMapAnon((size + page - 1) &^ (page - 1))
	if err != nil {
		return nil, err
	}
	return &Mapping{data: data, unmap: unmap}, nil
}

// Size returns the mapped length in bytes. It does not change on Close.
func (m *Mapping) Size() int {
	return len(m.data)
}

// Bytes returns the mapped region, or nil after Close.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Addr returns the address of the first mapped byte, or nil after Close.
func (m *Mapping) Addr() unsafe.Pointer {
	if m.closed.Load() {
		return nil
	}
	return unsafe.Pointer(unsafe.SliceData(m.data)) //nolint:gosec // off-heap addressing
}

// Contains reports whether p lies inside the mapping.
func (m *Mapping) Contains(p unsafe.Pointer) bool {
	base := uintptr(m.Addr())
	if base == 0 || p == nil {
		return false
	}
	addr := uintptr(p)
	return addr >= base && addr-base < uintptr(len(m.data))
}

// Advise passes an access hint for the whole mapping to the kernel.
func (m *Mapping) Advise(advice Advice) error {
	if m.closed.Load() {
		return ErrClosed
	}
	return osAdvise(m.data, advice)
}

// Close unmaps the region. Only the first call has an effect.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	return m.unmap(m.data)
}
