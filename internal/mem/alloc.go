package mem

import (
	"unsafe"
)

// Alignment is the default byte alignment (64 bytes, one cache line).
const Alignment = 64

// AllocAligned allocates a zeroed byte slice of the given size whose first
// byte sits at an address divisible by align. align must be a power of two;
// values below 1 select Alignment.
//
// Note: This function allocates up to align-1 extra bytes to find an aligned
// offset. The underlying array is kept alive by the returned slice.
func AllocAligned(size, align int) []byte {
	if size <= 0 {
		return nil
	}
	if align <= 0 {
		align = Alignment
	}
	if align&(align-1) != 0 {
		panic("mem: alignment must be a power of two")
	}

	buf := make([]byte, size+align-1)

	ptr := unsafe.Pointer(&buf[0]) //nolint:gosec // unsafe is required for memory alignment
	addr := uintptr(ptr)
	mask := uintptr(align - 1)
	offset := (uintptr(align) - (addr & mask)) & mask

	return buf[offset : offset+uintptr(size) : offset+uintptr(size)]
}

// IsAligned reports whether p is a multiple of align.
func IsAligned(p unsafe.Pointer, align int) bool {
	if align <= 1 {
		return true
	}
	return uintptr(p)&uintptr(align-1) == 0
}
