//go:build unix

package mmap

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

var madvice = [...]int{
	AdviceNormal:     unix.MADV_NORMAL,
	AdviceSequential: unix.MADV_SEQUENTIAL,
	AdviceRandom:     unix.MADV_RANDOM,
	AdviceWillNeed:   unix.MADV_WILLNEED,
	AdviceDontNeed:   unix.MADV_DONTNEED,
}

// osMapAnon maps size bytes of private, zero-filled memory.
func osMapAnon(size int) ([]byte, func([]byte) error, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("mmap: map %d bytes: %w", size, err)
	}
	return data, unix.Munmap, nil
}

func osAdvise(data []byte, advice Advice) error {
	if len(data) == 0 || int(advice) >= len(madvice) {
		return nil
	}
	// Some kernels reject hints they do not implement; advice is optional.
	if err := unix.Madvise(data, madvice[advice]); err != nil && !errors.Is(err, unix.EINVAL) {
		return fmt.Errorf("mmap: madvise %s: %w", advice, err)
	}
	return nil
}
