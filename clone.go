package rawvec

import "unsafe"

// TryCloner is implemented by element types that can duplicate themselves,
// possibly failing (for example because the copy needs its own resource).
type TryCloner[T any] interface {
	TryClone() (T, error)
}

// Clone returns a deep copy of v using T's TryClone. See Vec.TryCloneFunc.
func Clone[T TryCloner[T]](v *Vec[T]) (*Vec[T], error) {
	return v.TryCloneFunc(func(x *T) (T, error) {
		return (*x).TryClone()
	})
}

// TryCloneFunc returns a new Vec with the same capacity and configuration
// as v, holding fn applied to every element in index order.
//
// If fn fails at index i, the i copies made so far are destroyed, the new
// block is released, and a *CloneError wrapping fn's error is returned.
// v is never modified.
func (v *Vec[T]) TryCloneFunc(fn func(*T) (T, error)) (*Vec[T], error) {
	out, err := v.emptyLike()
	if err != nil {
		return nil, err
	}
	for i := 0; i < v.length; i++ {
		c, err := fn(v.slot(i))
		if err != nil {
			out.Free()
			return nil, &CloneError{Index: i, cause: err}
		}
		*out.slot(i) = c
		out.length = i + 1
	}
	return out, nil
}

// Clone returns a bitwise copy of v with the same capacity and
// configuration. It returns ErrNotCopyable if T implements Dropper.
func (v *Vec[T]) Clone() (*Vec[T], error) {
	v.init()
	if v.needsDrop {
		return nil, ErrNotCopyable
	}
	out, err := v.emptyLike()
	if err != nil {
		return nil, err
	}
	if v.length > 0 {
		copy(unsafe.Slice(out.slot(0), v.length), v.SliceAll())
		out.length = v.length
	}
	return out, nil
}

// emptyLike returns an empty Vec sharing v's configuration, with v's
// capacity already reserved.
func (v *Vec[T]) emptyLike() (*Vec[T], error) {
	v.init()
	out := &Vec[T]{
		ready:     true,
		elemSize:  v.elemSize,
		elemAlign: v.elemAlign,
		needsDrop: v.needsDrop,
		alloc:     v.alloc,
		logger:    v.logger,
		metrics:   v.metrics,
	}
	out.storage.SetFlag(v.storage.Flag())
	if v.capacity > 0 {
		if err := out.reserve(v.capacity); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Equal reports whether a and b have the same length and equal elements
// at every index. It stops at the first mismatch.
func Equal[T comparable](a, b *Vec[T]) bool {
	return EqualFunc(a, b, func(x, y T) bool { return x == y })
}

// EqualFunc is like Equal but compares elements with eq.
func EqualFunc[T, U any](a *Vec[T], b *Vec[U], eq func(T, U) bool) bool {
	if a.length != b.length {
		return false
	}
	for i := 0; i < a.length; i++ {
		if !eq(*a.slot(i), *b.slot(i)) {
			return false
		}
	}
	return true
}
