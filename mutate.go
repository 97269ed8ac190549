package rawvec

import (
	"unsafe"

	"github.com/hupe1980/rawvec/internal/conv"
)

// Push appends x.
//
// If the Vec cannot grow, Push returns a *PushError holding x: the value is
// not stored and ownership stays with the caller. As with every failed
// capacity change, the Vec itself is left empty (see Reserve).
func (v *Vec[T]) Push(x T) error {
	if v.length == v.capacity {
		if err := v.reserve(v.length + 1); err != nil {
			return &PushError[T]{Value: x, Err: err}
		}
	}
	*v.slot(v.length) = x
	v.length++
	return nil
}

// Pop removes the last element and returns it. Ownership moves to the
// caller; the element is not destroyed.
func (v *Vec[T]) Pop() (T, bool) {
	var zero T
	if v.length == 0 {
		return zero, false
	}
	v.length--
	p := v.slot(v.length)
	x := *p
	*p = zero
	return x, true
}

// ExtendFromSlice appends a bitwise copy of src.
//
// It returns ErrNotCopyable if T implements Dropper. It panics if src
// aliases the Vec's own block, since growing would invalidate it.
func (v *Vec[T]) ExtendFromSlice(src []T) error {
	v.init()
	if v.needsDrop {
		return ErrNotCopyable
	}
	if len(src) == 0 {
		return nil
	}
	if v.overlaps(src) {
		panic("rawvec: ExtendFromSlice source aliases the destination")
	}

	total, err := conv.AddSize(v.length, len(src))
	if err != nil {
		return &AllocError{Capacity: -1, cause: err}
	}
	if total > v.capacity {
		if err := v.reserve(total); err != nil {
			return err
		}
	}
	copy(unsafe.Slice(v.slot(v.length), len(src)), src)
	v.length = total
	return nil
}

// Extend appends a bitwise copy of every element of other. other must not
// be v itself.
func (v *Vec[T]) Extend(other *Vec[T]) error {
	return v.ExtendFromSlice(other.SliceAll())
}

// Resize sets the length to n. Growing exposes zero values of T; shrinking
// destroys the elements past n like Truncate.
//
// It returns ErrNotCopyable if T implements Dropper, because the exposed
// slots would hold values no constructor produced.
func (v *Vec[T]) Resize(n int) error {
	v.init()
	if v.needsDrop {
		return ErrNotCopyable
	}
	if n < 0 {
		return invalidArgument("negative length %d", n)
	}
	if n <= v.length {
		return v.Truncate(n)
	}
	if n > v.capacity {
		if err := v.reserve(n); err != nil {
			return err
		}
	}
	v.length = n
	return nil
}

// ForceResize sets the length to n without constructing or destroying
// anything. Growing exposes whatever bytes the slots hold (zero unless
// ForceResize previously shrank over live elements); shrinking abandons the
// elements past n without calling Drop.
//
// This is the raw escape hatch for callers that initialize slots through
// Ptr or AsPtr, or that moved elements out themselves. The caller is
// responsible for every element it exposes or abandons.
func (v *Vec[T]) ForceResize(n int) error {
	if n < 0 {
		return invalidArgument("negative length %d", n)
	}
	if n > v.capacity {
		if err := v.reserve(n); err != nil {
			return err
		}
	}
	v.length = n
	return nil
}

// Truncate destroys the elements in [n, Len()) in ascending order and sets
// the length to n. The capacity is unchanged.
//
// It returns ErrInvalidArgument, leaving the Vec unchanged, if n > Len().
func (v *Vec[T]) Truncate(n int) error {
	if n < 0 || n > v.length {
		return invalidArgument("truncate to %d with length %d", n, v.length)
	}
	v.dropRange(n, v.length)
	v.length = n
	return nil
}

// Clear destroys every element and then shrinks the block as far as the
// growth policy allows: to nothing in zero-alloc mode, otherwise to
// MinCapacity. An unallocated Vec stays unallocated. Shrinking is best
// effort; a failure leaves the Vec empty without storage.
func (v *Vec[T]) Clear() {
	_ = v.Truncate(0)
	if v.capacity > 0 {
		_ = v.reserve(0)
	}
}
