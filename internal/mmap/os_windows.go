//go:build windows

package mmap

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// osMapAnon commits size bytes of zero-filled memory. Committed pages are
// only backed by physical memory once touched.
func osMapAnon(size int) ([]byte, func([]byte) error, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_READWRITE)
	if err != nil {
		return nil, nil, fmt.Errorf("mmap: commit %d bytes: %w", size, err)
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size) //nolint:gosec // VirtualAlloc returns a raw address
	unmap := func([]byte) error {
		return windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
	}
	return data, unmap, nil
}

// osAdvise is a no-op: Windows has no per-range access hints for committed memory.
func osAdvise([]byte, Advice) error {
	return nil
}
