package rawvec

import (
	"fmt"
	"unsafe"

	"github.com/hupe1980/rawvec/alloc"
	"github.com/hupe1980/rawvec/internal/layout"
	"github.com/hupe1980/rawvec/internal/tagptr"
)

// MinCapacity is the smallest non-zero capacity of a Vec, in elements.
const MinCapacity = 64

// Dropper is implemented by element types that own a resource which must be
// released when the element is destroyed. Drop is called exactly once for
// every element that leaves a Vec without being moved out to the caller.
// Drop must not panic.
type Dropper interface {
	Drop()
}

// zstBase is the address handed out for zero-sized element types.
var zstBase struct{}

// noCopy may be embedded into structs which must not be copied after first
// use. See https://golang.org/issues/8005#issuecomment-190753527.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Vec is a growable array of T backed by a single block from an
// alloc.Allocator.
//
// Slots [0, Len()) hold live elements; slots [Len(), Cap()) are zero bytes.
// A Vec owns its block exclusively: call Free to destroy the live elements
// and release the block. The zero value is an empty Vec using alloc.Default.
//
// T must not contain Go pointers (pointers, strings, slices, maps, channels,
// funcs or interfaces): the block is invisible to the garbage collector.
//
// A Vec is not safe for concurrent use and must not be copied.
type Vec[T any] struct {
	_ noCopy

	storage  tagptr.Ptr
	capacity int
	length   int

	ready     bool
	elemSize  int
	elemAlign int
	needsDrop bool

	alloc   alloc.Allocator
	logger  *Logger
	metrics MetricsCollector
}

// New returns an empty Vec. It does not allocate.
//
// New panics with ErrPointerElement if T contains Go pointers.
func New[T any](optFns ...Option) *Vec[T] {
	v := &Vec[T]{}
	if err := v.setup(applyOptions(optFns)); err != nil {
		panic(fmt.Sprintf("rawvec: %v", err))
	}
	return v
}

// WithCapacity returns a Vec with room for at least capacity elements. The
// capacity is rounded by the same policy as growth (a power of two, at least
// MinCapacity). A capacity of 0 does not allocate.
func WithCapacity[T any](capacity int, optFns ...Option) (*Vec[T], error) {
	if capacity < 0 {
		return nil, invalidArgument("negative capacity %d", capacity)
	}

	v := &Vec[T]{}
	if err := v.setup(applyOptions(optFns)); err != nil {
		return nil, err
	}
	if capacity == 0 {
		return v, nil
	}
	if err := v.reserve(capacity); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Vec[T]) setup(o options) error {
	var zero T
	info := layout.Of[T]()
	if info.HasPointers {
		return fmt.Errorf("%w: %T", ErrPointerElement, zero)
	}

	_, needsDrop := any((*T)(nil)).(Dropper)

	v.ready = true
	v.elemSize = info.Size
	v.elemAlign = info.Align
	v.needsDrop = needsDrop
	v.alloc = o.allocator
	v.logger = o.logger.WithElemType(fmt.Sprintf("%T", zero))
	v.metrics = o.metricsCollector
	v.storage.SetFlag(o.zeroAlloc)
	return nil
}

// init prepares a zero-value Vec for first use.
func (v *Vec[T]) init() {
	if v.ready {
		return
	}
	flag := v.storage.Flag()
	if err := v.setup(applyOptions(nil)); err != nil {
		panic(fmt.Sprintf("rawvec: %v", err))
	}
	v.storage.SetFlag(flag)
}

// AllowZeroAlloc toggles zero-size allocation mode. In this mode a request
// for zero elements targets capacity 0 instead of MinCapacity, so Clear
// returns the block to the allocator.
func (v *Vec[T]) AllowZeroAlloc(enabled bool) {
	v.storage.SetFlag(enabled)
}

// ZeroAlloc reports whether zero-size allocation mode is enabled.
func (v *Vec[T]) ZeroAlloc() bool {
	return v.storage.Flag()
}

// Len returns the number of live elements.
func (v *Vec[T]) Len() int {
	return v.length
}

// Cap returns the number of slots backed by the current block.
func (v *Vec[T]) Cap() int {
	return v.capacity
}

// IsEmpty reports whether the Vec has no live elements.
func (v *Vec[T]) IsEmpty() bool {
	return v.length == 0
}

// AsPtr returns the address of slot 0, or nil if nothing is allocated.
// The address is invalidated by any operation that changes the capacity.
func (v *Vec[T]) AsPtr() unsafe.Pointer {
	return v.storage.Addr()
}

// Free destroys the live elements in index order, releases the block, and
// leaves v empty. The Vec may be reused afterwards. Free on an empty Vec is
// a no-op.
func (v *Vec[T]) Free() {
	if v.storage.IsNil() {
		v.length = 0
		return
	}
	dropped := v.length
	v.dropRange(0, v.length)
	v.length = 0
	v.releaseStorage()
	v.logger.LogRelease(v.capacity, dropped)
	v.capacity = 0
}

// slot returns the address of slot i. No bounds check.
func (v *Vec[T]) slot(i int) *T {
	return (*T)(unsafe.Add(v.storage.Addr(), i*v.elemSize)) //nolint:gosec // unsafe is required for raw element access
}

// dropRange destroys the elements in [from, to) in ascending order and
// zeroes their slots.
func (v *Vec[T]) dropRange(from, to int) {
	if from >= to {
		return
	}
	if v.needsDrop {
		for i := from; i < to; i++ {
			any(v.slot(i)).(Dropper).Drop()
		}
	}
	clear(unsafe.Slice(v.slot(from), to-from))
}

// releaseStorage returns the block to the allocator. The flag bit survives.
func (v *Vec[T]) releaseStorage() {
	p := v.storage.Addr()
	if p == nil {
		return
	}
	if v.elemSize != 0 {
		v.alloc.Release(p)
	}
	v.storage.Replace(nil)
	v.metrics.RecordRelease(v.capacity)
}
