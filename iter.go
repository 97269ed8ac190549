package rawvec

import "iter"

// All returns an iterator over index-value pairs in index order. The values
// are copies; the Vec is not modified. The length is captured when the
// iteration begins, and iteration also stops if the Vec shrinks below the
// current index.
func (v *Vec[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		n := v.length
		for i := 0; i < n && i < v.length; i++ {
			if !yield(i, *v.slot(i)) {
				return
			}
		}
	}
}

// Values returns an iterator over the elements in index order.
func (v *Vec[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		n := v.length
		for i := 0; i < n && i < v.length; i++ {
			if !yield(*v.slot(i)) {
				return
			}
		}
	}
}

// IterMut returns an iterator over index-pointer pairs in index order.
// Writes through the pointers modify the Vec in place. The loop body must
// not change the Vec's capacity.
func (v *Vec[T]) IterMut() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		n := v.length
		for i := 0; i < n && i < v.length; i++ {
			if !yield(i, v.slot(i)) {
				return
			}
		}
	}
}

// IntoIter is an owning cursor over the elements of a consumed Vec. Each
// Next moves one element out to the caller. Close destroys the elements
// that were not yielded and releases the block; it must be called unless
// Next has already reported exhaustion, and is safe to call more than once.
type IntoIter[T any] struct {
	vec   *Vec[T]
	index int
	end   int
}

// IntoIter consumes v: its elements, block, and configuration move into
// the returned cursor and v is left empty with no storage.
func (v *Vec[T]) IntoIter() *IntoIter[T] {
	owned := v.take()
	return &IntoIter[T]{
		vec: owned,
		end: owned.length,
	}
}

// Next moves the next element out. It returns false once every element
// has been yielded, at which point the block has been released.
func (it *IntoIter[T]) Next() (T, bool) {
	var zero T
	if it.vec == nil {
		return zero, false
	}
	if it.index >= it.end {
		it.Close()
		return zero, false
	}
	p := it.vec.slot(it.index)
	x := *p
	*p = zero
	it.index++
	return x, true
}

// Remaining returns the number of elements not yet yielded.
func (it *IntoIter[T]) Remaining() int {
	if it.vec == nil {
		return 0
	}
	return it.end - it.index
}

// Close destroys every element not yet yielded, then releases the block.
// Elements already yielded belong to the caller and are not touched.
func (it *IntoIter[T]) Close() {
	if it.vec == nil {
		return
	}
	it.vec.dropRange(it.index, it.vec.length)
	it.index = it.end
	it.vec.length = 0
	it.vec.Free()
	it.vec = nil
}

// IntoSeq returns a single-use iterator that consumes v when the range loop
// starts. Elements are moved out one at a time. If the loop stops early,
// the remaining elements are destroyed and the block is released before
// the range statement completes.
//
//	for x := range v.IntoSeq() {
//	    if done(x) {
//	        break // the rest of v is dropped here
//	    }
//	}
func (v *Vec[T]) IntoSeq() iter.Seq[T] {
	return func(yield func(T) bool) {
		it := v.IntoIter()
		defer it.Close()
		for {
			x, ok := it.Next()
			if !ok || !yield(x) {
				return
			}
		}
	}
}

// take moves v's contents into a new Vec and resets v to empty storage,
// keeping its configuration and zero-alloc flag.
func (v *Vec[T]) take() *Vec[T] {
	v.init()
	owned := &Vec[T]{
		storage:   v.storage,
		capacity:  v.capacity,
		length:    v.length,
		ready:     true,
		elemSize:  v.elemSize,
		elemAlign: v.elemAlign,
		needsDrop: v.needsDrop,
		alloc:     v.alloc,
		logger:    v.logger,
		metrics:   v.metrics,
	}
	v.storage.Replace(nil)
	v.capacity = 0
	v.length = 0
	return owned
}
