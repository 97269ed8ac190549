package rawvec

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rawvec/alloc"
	"github.com/hupe1980/rawvec/testutil"
)

func TestPushPop(t *testing.T) {
	v := New[point](WithAllocator(alloc.NewHeap()))
	defer v.Free()

	for i := int32(0); i < 300; i++ {
		require.NoError(t, v.Push(point{X: i, Y: i * 2}))
	}
	assert.Equal(t, 300, v.Len())
	assert.Equal(t, 512, v.Cap())

	for i := int32(299); i >= 0; i-- {
		p, ok := v.Pop()
		require.True(t, ok)
		assert.Equal(t, point{X: i, Y: i * 2}, p)
	}

	_, ok := v.Pop()
	assert.False(t, ok)
	assert.Equal(t, 512, v.Cap())
}

func TestPopMovesOwnership(t *testing.T) {
	tr := testutil.NewDropTracker()
	defer tr.Close()

	v := New[testutil.Tracked](WithAllocator(alloc.NewHeap()))
	x := tr.New(1)
	require.NoError(t, v.Push(x))

	got, ok := v.Pop()
	require.True(t, ok)
	assert.Equal(t, x, got)

	v.Free()
	assert.Equal(t, 0, tr.Drops(x))
	got.Drop()
	assert.Equal(t, 1, tr.Drops(x))
}

func TestTruncate(t *testing.T) {
	t.Run("Shrinks", func(t *testing.T) {
		v := newInt64Vec(t, 100)
		require.NoError(t, v.Truncate(10))
		assert.Equal(t, 10, v.Len())
		assert.Equal(t, 128, v.Cap())
		assert.Equal(t, int64(9), v.At(9))
	})

	t.Run("SameLength", func(t *testing.T) {
		v := newInt64Vec(t, 5)
		require.NoError(t, v.Truncate(5))
		assert.Equal(t, 5, v.Len())
	})

	t.Run("TooLong", func(t *testing.T) {
		v := newInt64Vec(t, 5)
		err := v.Truncate(6)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Equal(t, 5, v.Len())
		assert.Equal(t, []int64{0, 1, 2, 3, 4}, v.SliceAll())

		assert.ErrorIs(t, v.Truncate(-1), ErrInvalidArgument)
	})

	t.Run("DropsTail", func(t *testing.T) {
		tr := testutil.NewDropTracker()
		defer tr.Close()

		v := New[testutil.Tracked](WithAllocator(alloc.NewHeap()))
		defer v.Free()

		items := make([]testutil.Tracked, 6)
		for i := range items {
			items[i] = tr.New(int64(i))
			require.NoError(t, v.Push(items[i]))
		}

		require.NoError(t, v.Truncate(2))
		for i, it := range items {
			want := 0
			if i >= 2 {
				want = 1
			}
			assert.Equal(t, want, tr.Drops(it), "item %d", i)
		}
	})
}

func TestExtendFromSlice(t *testing.T) {
	t.Run("Appends", func(t *testing.T) {
		v := newInt64Vec(t, 2)
		src := []int64{10, 11, 12}
		require.NoError(t, v.ExtendFromSlice(src))
		assert.Equal(t, []int64{0, 1, 10, 11, 12}, v.SliceAll())

		src[0] = -1
		assert.Equal(t, int64(10), v.At(2))
	})

	t.Run("Grows", func(t *testing.T) {
		v := newInt64Vec(t, 0)
		src := make([]int64, 100)
		for i := range src {
			src[i] = int64(i)
		}
		require.NoError(t, v.ExtendFromSlice(src))
		assert.Equal(t, 128, v.Cap())
		assert.Equal(t, src, v.SliceAll())

		require.NoError(t, v.ExtendFromSlice(nil))
		assert.Equal(t, 100, v.Len())
	})

	t.Run("Alias", func(t *testing.T) {
		v := newInt64Vec(t, 4)
		assert.Panics(t, func() { _ = v.ExtendFromSlice(v.Slice(0, 2)) })
		assert.Equal(t, 4, v.Len())
	})

	t.Run("NotCopyable", func(t *testing.T) {
		tr := testutil.NewDropTracker()
		defer tr.Close()

		v := New[testutil.Tracked]()
		err := v.ExtendFromSlice([]testutil.Tracked{tr.New(1)})
		assert.ErrorIs(t, err, ErrNotCopyable)
		assert.Equal(t, 0, v.Len())
	})
}

func TestExtend(t *testing.T) {
	a := newInt64Vec(t, 3)
	b := newInt64Vec(t, 2)

	require.NoError(t, a.Extend(b))
	assert.Equal(t, []int64{0, 1, 2, 0, 1}, a.SliceAll())
	assert.Equal(t, 2, b.Len())

	require.NoError(t, a.Extend(New[int64]()))
	assert.Equal(t, 5, a.Len())
}

func TestResize(t *testing.T) {
	t.Run("GrowExposesZeroValues", func(t *testing.T) {
		v := newInt64Vec(t, 3)
		require.NoError(t, v.Resize(100))
		assert.Equal(t, 100, v.Len())
		assert.Equal(t, 128, v.Cap())
		assert.Equal(t, int64(2), v.At(2))
		for i := 3; i < 100; i++ {
			assert.Equal(t, int64(0), v.At(i))
		}
	})

	t.Run("ZeroesAfterTruncate", func(t *testing.T) {
		v := newInt64Vec(t, 10)
		require.NoError(t, v.Resize(2))
		assert.Equal(t, 2, v.Len())

		require.NoError(t, v.Resize(10))
		assert.Equal(t, []int64{0, 1, 0, 0, 0, 0, 0, 0, 0, 0}, v.SliceAll())
	})

	t.Run("Invalid", func(t *testing.T) {
		v := newInt64Vec(t, 1)
		assert.ErrorIs(t, v.Resize(-1), ErrInvalidArgument)
	})

	t.Run("NotCopyable", func(t *testing.T) {
		v := New[testutil.Tracked]()
		assert.ErrorIs(t, v.Resize(1), ErrNotCopyable)
	})
}

func TestForceResize(t *testing.T) {
	v := newInt64Vec(t, 0)
	require.NoError(t, v.Reserve(4))

	base := (*[4]int64)(v.AsPtr())
	for i := range base {
		base[i] = int64(i * i)
	}
	require.NoError(t, v.ForceResize(4))
	assert.Equal(t, []int64{0, 1, 4, 9}, v.SliceAll())

	require.NoError(t, v.ForceResize(100))
	assert.Equal(t, 128, v.Cap())
	assert.Equal(t, int64(9), v.At(3))
	assert.Equal(t, int64(0), v.At(99))

	assert.ErrorIs(t, v.ForceResize(-1), ErrInvalidArgument)

	t.Run("AbandonsWithoutDrop", func(t *testing.T) {
		tr := testutil.NewDropTracker()
		defer tr.Close()

		tv := New[testutil.Tracked](WithAllocator(alloc.NewHeap()))
		x := tr.New(1)
		require.NoError(t, tv.Push(x))
		require.NoError(t, tv.ForceResize(0))
		tv.Free()
		assert.Equal(t, 0, tr.Drops(x))
	})
}

func TestSliceAddressStableWithinCapacity(t *testing.T) {
	v := newInt64Vec(t, 1)
	p := unsafe.Pointer(v.Ptr(0))
	for i := 1; i < v.Cap(); i++ {
		require.NoError(t, v.Push(int64(i)))
	}
	assert.Equal(t, p, unsafe.Pointer(v.Ptr(0)))
}
