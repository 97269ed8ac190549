package rawvec

import (
	"errors"
	"fmt"
)

var (
	// ErrAlloc is returned when the allocator cannot provide a block.
	ErrAlloc = errors.New("allocation failed")
	// ErrInvalidArgument is returned when an argument is out of its valid range.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotCopyable is returned when a bitwise copy is requested for an
	// element type that implements Dropper.
	ErrNotCopyable = errors.New("element type is not copyable")
	// ErrPointerElement is returned when the element type contains Go pointers.
	ErrPointerElement = errors.New("element type contains pointers")
)

// AllocError reports a failed capacity change.
//
// It matches ErrAlloc under errors.Is. The original underlying error (if
// any) can be accessed via errors.Unwrap.
type AllocError struct {
	Capacity int // requested capacity in elements
	Bytes    int // requested block size, 0 if it overflowed
	cause    error
}

func (e *AllocError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("allocation failed: capacity %d (%d bytes): %v", e.Capacity, e.Bytes, e.cause)
	}
	return fmt.Sprintf("allocation failed: capacity %d (%d bytes)", e.Capacity, e.Bytes)
}

func (e *AllocError) Is(target error) bool { return target == ErrAlloc }

func (e *AllocError) Unwrap() error { return e.cause }

// PushError is returned by Push when the vector cannot grow. Value holds the
// element that was not stored; ownership stays with the caller.
type PushError[T any] struct {
	Value T
	Err   error
}

func (e *PushError[T]) Error() string {
	return fmt.Sprintf("push: %v", e.Err)
}

func (e *PushError[T]) Unwrap() error { return e.Err }

// CloneError reports the element whose duplication failed.
type CloneError struct {
	Index int
	cause error
}

func (e *CloneError) Error() string {
	return fmt.Sprintf("clone element %d: %v", e.Index, e.cause)
}

func (e *CloneError) Unwrap() error { return e.cause }

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
