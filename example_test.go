package rawvec_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/hupe1980/rawvec"
	"github.com/hupe1980/rawvec/alloc"
)

// Example demonstrates the capacity policy of a Vec.
func Example() {
	v := rawvec.New[int64]()
	defer v.Free()

	for i := int64(0); i < 64; i++ {
		if err := v.Push(i); err != nil {
			log.Fatal(err)
		}
	}
	fmt.Println(v.Len(), v.Cap())

	_ = v.Push(64)
	fmt.Println(v.Len(), v.Cap())

	v.Clear()
	fmt.Println(v.Len(), v.Cap())
	// Output:
	// 64 64
	// 65 128
	// 0 64
}

// Example_offHeap demonstrates a Vec backed by an off-heap slab allocator.
func Example_offHeap() {
	slab := alloc.NewSlab(0)
	defer slab.Free()

	v := rawvec.New[float32](rawvec.WithAllocator(slab))
	for i := 0; i < 1000; i++ {
		_ = v.Push(float32(i) / 2)
	}
	fmt.Println(v.At(999))

	v.Free()
	fmt.Println(slab.Stats().LiveBlocks)
	// Output:
	// 499.5
	// 0
}

// Example_memoryLimit demonstrates handling allocation failure.
func Example_memoryLimit() {
	limited := alloc.NewLimited(alloc.NewHeap(), alloc.LimitConfig{MaxBytes: 1024})

	v := rawvec.New[int64](rawvec.WithAllocator(limited))
	defer v.Free()

	var err error
	for i := int64(0); err == nil; i++ {
		err = v.Push(i)
	}

	var pushErr *rawvec.PushError[int64]
	if errors.As(err, &pushErr) {
		fmt.Println("rejected:", pushErr.Value)
	}
	fmt.Println(errors.Is(err, rawvec.ErrAlloc), v.Len(), v.Cap())
	// Output:
	// rejected: 128
	// true 0 0
}

// Example_iteration demonstrates borrowing and consuming iteration.
func Example_iteration() {
	v := rawvec.New[int32]()
	_ = v.ExtendFromSlice([]int32{1, 2, 3})

	for _, p := range v.IterMut() {
		*p *= 10
	}
	for i, x := range v.All() {
		fmt.Println(i, x)
	}

	sum := int32(0)
	for x := range v.IntoSeq() {
		sum += x
	}
	fmt.Println(sum, v.Len())
	// Output:
	// 0 10
	// 1 20
	// 2 30
	// 60 0
}

// Example_zeroAlloc demonstrates releasing the block on Clear.
func Example_zeroAlloc() {
	v := rawvec.New[uint16](rawvec.WithZeroAlloc(true))
	_ = v.Push(1)
	fmt.Println(v.Cap())

	v.Clear()
	fmt.Println(v.Cap(), v.AsPtr() == nil)
	// Output:
	// 64
	// 0 true
}
