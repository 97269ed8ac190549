package rawvec

import (
	"fmt"
	"unsafe"
)

// At returns a copy of the element at index i.
//
// At panics if i is out of range: an out-of-bounds index is a programming
// error, not a runtime condition.
func (v *Vec[T]) At(i int) T {
	v.checkIndex(i)
	return *v.slot(i)
}

// Ptr returns a pointer to the element at index i. The pointer is
// invalidated by any operation that changes the capacity.
//
// Ptr panics if i is out of range.
func (v *Vec[T]) Ptr(i int) *T {
	v.checkIndex(i)
	return v.slot(i)
}

// Set replaces the element at index i, destroying the previous one.
//
// Set panics if i is out of range.
func (v *Vec[T]) Set(i int, x T) {
	v.checkIndex(i)
	p := v.slot(i)
	if v.needsDrop {
		any(p).(Dropper).Drop()
	}
	*p = x
}

// Slice returns a view of the elements in [start, end). The view aliases
// the Vec's block: writes through it are visible in the Vec, and it is
// invalidated by any operation that changes the capacity. Its capacity
// equals its length, so append on the view never writes into the block.
//
// Slice panics unless 0 <= start <= end <= Len(). An empty range returns
// nil without touching the storage.
func (v *Vec[T]) Slice(start, end int) []T {
	if start < 0 || start > end || end > v.length {
		panic(fmt.Sprintf("rawvec: slice bounds out of range [%d:%d] with length %d", start, end, v.length))
	}
	if start == end {
		return nil
	}
	return unsafe.Slice(v.slot(start), end-start)
}

// SliceFrom returns the view [start, Len()).
func (v *Vec[T]) SliceFrom(start int) []T {
	return v.Slice(start, v.length)
}

// SliceTo returns the view [0, end).
func (v *Vec[T]) SliceTo(end int) []T {
	return v.Slice(0, end)
}

// SliceAll returns a view of every live element.
func (v *Vec[T]) SliceAll() []T {
	return v.Slice(0, v.length)
}

func (v *Vec[T]) checkIndex(i int) {
	if i < 0 || i >= v.length {
		panic(fmt.Sprintf("rawvec: index out of range [%d] with length %d", i, v.length))
	}
}

// overlaps reports whether s shares memory with v's block.
func (v *Vec[T]) overlaps(s []T) bool {
	if len(s) == 0 || v.storage.IsNil() || v.elemSize == 0 {
		return false
	}
	lo := uintptr(v.storage.Addr())
	hi := lo + uintptr(v.capacity*v.elemSize)
	sLo := uintptr(unsafe.Pointer(unsafe.SliceData(s))) //nolint:gosec // address comparison only
	sHi := sLo + uintptr(len(s)*v.elemSize)
	return sLo < hi && lo < sHi
}
