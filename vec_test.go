package rawvec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rawvec/alloc"
	"github.com/hupe1980/rawvec/testutil"
)

type point struct {
	X, Y int32
}

func TestNew(t *testing.T) {
	heap := alloc.NewHeap()
	v := New[int64](WithAllocator(heap))

	assert.Equal(t, 0, v.Len())
	assert.Equal(t, 0, v.Cap())
	assert.True(t, v.IsEmpty())
	assert.Nil(t, v.AsPtr())
	assert.False(t, v.ZeroAlloc())
	assert.Equal(t, uint64(0), heap.Stats().Allocs)

	v.Free()
	assert.Equal(t, uint64(0), heap.Stats().Releases)
}

func TestWithCapacity(t *testing.T) {
	heap := alloc.NewHeap()

	t.Run("RoundsToPolicy", func(t *testing.T) {
		tests := []struct {
			request int
			want    int
		}{
			{0, 0},
			{1, 64},
			{64, 64},
			{65, 128},
			{100, 128},
			{1000, 1024},
		}
		for _, tt := range tests {
			v, err := WithCapacity[int64](tt.request, WithAllocator(heap))
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Cap(), "request %d", tt.request)
			assert.Equal(t, 0, v.Len())
			v.Free()
		}
		assert.Equal(t, int64(0), heap.Stats().LiveBlocks)
	})

	t.Run("Negative", func(t *testing.T) {
		_, err := WithCapacity[int64](-1, WithAllocator(heap))
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("ZeroFilled", func(t *testing.T) {
		v, err := WithCapacity[uint64](64, WithAllocator(heap))
		require.NoError(t, err)
		defer v.Free()

		require.NoError(t, v.Resize(64))
		for _, x := range v.SliceAll() {
			assert.Equal(t, uint64(0), x)
		}
	})

	t.Run("AllocFailure", func(t *testing.T) {
		fa := testutil.NewFailingAllocator(heap)
		fa.FailAfter(0)
		_, err := WithCapacity[int64](10, WithAllocator(fa))
		assert.ErrorIs(t, err, ErrAlloc)
	})
}

func TestPointerElement(t *testing.T) {
	assert.Panics(t, func() { New[*int]() })
	assert.Panics(t, func() { New[string]() })
	assert.Panics(t, func() { New[struct{ B []byte }]() })

	_, err := WithCapacity[map[int]int](1)
	assert.ErrorIs(t, err, ErrPointerElement)

	assert.NotPanics(t, func() { New[point]().Free() })
	assert.NotPanics(t, func() { New[[4]float32]().Free() })
}

func TestZeroValueVec(t *testing.T) {
	var v Vec[int32]
	assert.Equal(t, 0, v.Len())

	for i := int32(0); i < 100; i++ {
		require.NoError(t, v.Push(i))
	}
	assert.Equal(t, 100, v.Len())
	assert.Equal(t, 128, v.Cap())
	assert.Equal(t, int32(42), v.At(42))

	v.Free()
	assert.Equal(t, 0, v.Cap())

	require.NoError(t, v.Push(7))
	assert.Equal(t, int32(7), v.At(0))
	v.Free()
}

func TestZeroValueVecKeepsZeroAllocFlag(t *testing.T) {
	var v Vec[int32]
	v.AllowZeroAlloc(true)
	require.NoError(t, v.Push(1))
	assert.True(t, v.ZeroAlloc())

	v.Clear()
	assert.Equal(t, 0, v.Cap())
	assert.Nil(t, v.AsPtr())
}

func TestZeroSizedElements(t *testing.T) {
	heap := alloc.NewHeap()
	v := New[struct{}](WithAllocator(heap))

	for i := 0; i < 1000; i++ {
		require.NoError(t, v.Push(struct{}{}))
	}
	assert.Equal(t, 1000, v.Len())
	assert.Equal(t, 1024, v.Cap())
	assert.NotNil(t, v.AsPtr())
	assert.Len(t, v.SliceAll(), 1000)

	_, ok := v.Pop()
	assert.True(t, ok)
	assert.Equal(t, 999, v.Len())

	v.Clear()
	assert.Equal(t, 64, v.Cap())

	v.AllowZeroAlloc(true)
	v.Clear()
	assert.Equal(t, 0, v.Cap())

	v.Free()
	assert.Equal(t, uint64(0), heap.Stats().Allocs)
}

func TestFree(t *testing.T) {
	heap := alloc.NewHeap()
	tr := testutil.NewDropTracker()
	defer tr.Close()

	v := New[testutil.Tracked](WithAllocator(heap))
	items := make([]testutil.Tracked, 10)
	for i := range items {
		items[i] = tr.New(int64(i))
		require.NoError(t, v.Push(items[i]))
	}

	v.Free()
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, 0, v.Cap())
	assert.Nil(t, v.AsPtr())
	for _, it := range items {
		assert.Equal(t, 1, tr.Drops(it))
	}
	assert.Equal(t, 0, tr.Live())
	assert.Equal(t, int64(0), heap.Stats().LiveBlocks)

	// Free is idempotent and the Vec is reusable.
	v.Free()
	require.NoError(t, v.Push(tr.New(99)))
	v.Free()
	assert.Empty(t, tr.DoubleDrops())
}

// TestRandomOperations runs a random mix of operations against a Vec and a
// plain slice and compares them after every step.
func TestRandomOperations(t *testing.T) {
	for _, seed := range []int64{1, 4711, 90210} {
		rng := testutil.NewRNG(seed)
		heap := alloc.NewHeap()
		v := New[int64](WithAllocator(heap))
		var model []int64

		for step := 0; step < 2000; step++ {
			switch op := rng.Intn(10); {
			case op < 5:
				x := rng.Int64()
				require.NoError(t, v.Push(x))
				model = append(model, x)
			case op < 7:
				x, ok := v.Pop()
				if len(model) == 0 {
					assert.False(t, ok)
					continue
				}
				require.True(t, ok)
				assert.Equal(t, model[len(model)-1], x)
				model = model[:len(model)-1]
			case op < 8:
				n := 0
				if len(model) > 0 {
					n = rng.Intn(len(model) + 1)
				}
				require.NoError(t, v.Truncate(n))
				model = model[:n]
			case op < 9:
				src := rng.Int64s(rng.Intn(50))
				require.NoError(t, v.ExtendFromSlice(src))
				model = append(model, src...)
			default:
				if rng.Intn(20) == 0 {
					v.Clear()
					model = model[:0]
				}
			}

			require.Equal(t, len(model), v.Len())
			if v.Cap() > 0 {
				assert.GreaterOrEqual(t, v.Cap(), MinCapacity)
				assert.Zero(t, v.Cap()&(v.Cap()-1), "capacity %d is not a power of two", v.Cap())
			}
		}

		if len(model) > 0 {
			assert.Equal(t, model, v.SliceAll())
		}
		v.Free()
		assert.Equal(t, int64(0), heap.Stats().LiveBlocks)
	}
}
