package rawvec

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/hupe1980/rawvec/internal/conv"
	"github.com/hupe1980/rawvec/internal/mem"
)

// Reserve ensures room for at least additional more elements.
func (v *Vec[T]) Reserve(additional int) error {
	if additional < 0 {
		return invalidArgument("negative reserve %d", additional)
	}
	needed, err := conv.AddSize(v.length, additional)
	if err != nil {
		return &AllocError{Capacity: -1, cause: err}
	}
	if needed <= v.capacity {
		return nil
	}
	return v.reserve(needed)
}

// targetCapacity applies the growth policy: the smallest power of two
// >= needed, floored at MinCapacity. In zero-alloc mode a request for zero
// elements targets zero.
func (v *Vec[T]) targetCapacity(needed int) (int, error) {
	if needed == 0 && v.storage.Flag() {
		return 0, nil
	}
	if needed <= MinCapacity {
		return MinCapacity, nil
	}
	return conv.NextPowerOfTwo(needed)
}

// reserve moves the Vec to the capacity chosen for needed. It never looks
// at the length; callers guarantee the live elements fit.
//
// On allocator failure the live elements are destroyed, the old block is
// released, and the Vec is left empty with no storage.
func (v *Vec[T]) reserve(needed int) error {
	v.init()

	target, err := v.targetCapacity(needed)
	if err != nil {
		return v.allocFailed(needed, 0, err)
	}
	if target == v.capacity {
		return nil
	}
	if target == 0 {
		v.releaseStorage()
		v.logger.LogRelease(v.capacity, 0)
		v.capacity = 0
		return nil
	}

	if v.elemSize == 0 {
		v.storage.Replace(unsafe.Pointer(&zstBase)) //nolint:gosec // zero-sized elements share one address
		v.capacity = target
		return nil
	}

	size, err := conv.MulSize(target, v.elemSize)
	if err != nil {
		return v.allocFailed(target, 0, err)
	}

	start := time.Now()
	var p unsafe.Pointer
	if old := v.storage.Addr(); old == nil {
		p = v.alloc.Allocate(size)
	} else {
		p = v.alloc.Resize(old, size)
	}
	if p == nil {
		return v.allocFailed(target, size, nil)
	}
	if !mem.IsAligned(p, v.elemAlign) {
		panic(fmt.Sprintf("rawvec: allocator returned block %p not aligned to %d", p, v.elemAlign))
	}

	if target > v.capacity {
		oldSize := v.capacity * v.elemSize
		clear(unsafe.Slice((*byte)(unsafe.Add(p, oldSize)), size-oldSize)) //nolint:gosec // zero the grown tail
	}

	from := v.capacity
	v.storage.Replace(p)
	v.capacity = target

	v.metrics.RecordGrow(from, target, time.Since(start))
	v.logger.LogGrow(from, target, size)
	return nil
}

// allocFailed collapses the Vec to empty storage and reports the failure.
// The old block is still valid after a failed Resize, so its live elements
// are destroyed and it is released rather than leaked.
func (v *Vec[T]) allocFailed(capacity, size int, cause error) error {
	dropped := v.length
	if !v.storage.IsNil() {
		v.dropRange(0, v.length)
		v.releaseStorage()
	}
	v.length = 0
	v.capacity = 0

	err := &AllocError{Capacity: capacity, Bytes: size, cause: cause}
	v.metrics.RecordAllocFailure(size)
	v.logger.LogAllocFailure(capacity, size, dropped, err)
	return err
}
