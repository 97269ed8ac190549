package rawvec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rawvec/alloc"
	"github.com/hupe1980/rawvec/testutil"
)

func TestCloneBitwise(t *testing.T) {
	v := newInt64Vec(t, 100)

	c, err := v.Clone()
	require.NoError(t, err)
	defer c.Free()

	assert.Equal(t, v.Cap(), c.Cap())
	assert.True(t, Equal(v, c))
	assert.NotEqual(t, v.AsPtr(), c.AsPtr())

	c.Set(0, -1)
	require.NoError(t, c.Push(1000))
	assert.Equal(t, int64(0), v.At(0))
	assert.Equal(t, 100, v.Len())
	assert.False(t, Equal(v, c))

	t.Run("Empty", func(t *testing.T) {
		e := New[int64](WithZeroAlloc(true))
		c, err := e.Clone()
		require.NoError(t, err)
		assert.Equal(t, 0, c.Cap())
		assert.True(t, c.ZeroAlloc())
	})

	t.Run("NotCopyable", func(t *testing.T) {
		_, err := New[testutil.Tracked]().Clone()
		assert.ErrorIs(t, err, ErrNotCopyable)
	})
}

func TestCloneDeep(t *testing.T) {
	heap := alloc.NewHeap()
	tr := testutil.NewDropTracker()
	defer tr.Close()

	v, items := newTrackedVec(t, tr, heap, 10)

	c, err := Clone(v)
	require.NoError(t, err)
	assert.Equal(t, 10, tr.Clones())
	assert.Equal(t, v.Cap(), c.Cap())

	for i, x := range c.All() {
		assert.Equal(t, items[i].Value, x.Value)
		assert.NotEqual(t, items[i].Serial, x.Serial)
	}

	c.Free()
	assert.Equal(t, 10, tr.Dropped())
	for _, x := range items {
		assert.Equal(t, 0, tr.Drops(x))
	}

	v.Free()
	assert.Equal(t, 0, tr.Live())
	assert.Equal(t, int64(0), heap.Stats().LiveBlocks)
}

func TestCloneFailureRollsBack(t *testing.T) {
	heap := alloc.NewHeap()
	tr := testutil.NewDropTracker()
	defer tr.Close()

	v, items := newTrackedVec(t, tr, heap, 10)
	tr.RefuseClone(6)

	c, err := Clone(v)
	assert.Nil(t, c)
	require.Error(t, err)
	assert.ErrorIs(t, err, testutil.ErrCloneRefused)

	var cloneErr *CloneError
	require.ErrorAs(t, err, &cloneErr)
	assert.Equal(t, 6, cloneErr.Index)

	// The six copies made before the failure were destroyed, the source is intact.
	assert.Equal(t, 6, tr.Clones())
	assert.Equal(t, 6, tr.Dropped())
	assert.Equal(t, 10, tr.Live())
	assert.Equal(t, int64(1), heap.Stats().LiveBlocks)
	assert.Equal(t, items, slicesOf(v))

	v.Free()
	assert.Equal(t, 0, tr.Live())
	assert.Equal(t, int64(0), heap.Stats().LiveBlocks)
}

func TestTryCloneFunc(t *testing.T) {
	v := newInt64Vec(t, 5)

	doubled, err := v.TryCloneFunc(func(x *int64) (int64, error) {
		return *x * 2, nil
	})
	require.NoError(t, err)
	defer doubled.Free()
	assert.Equal(t, []int64{0, 2, 4, 6, 8}, doubled.SliceAll())

	errBoom := errors.New("boom")
	_, err = v.TryCloneFunc(func(x *int64) (int64, error) {
		if *x == 3 {
			return 0, errBoom
		}
		return *x, nil
	})
	assert.ErrorIs(t, err, errBoom)

	t.Run("AllocFailure", func(t *testing.T) {
		fa := testutil.NewFailingAllocator(alloc.NewHeap())
		w := New[int64](WithAllocator(fa))
		require.NoError(t, w.Push(1))
		defer w.Free()

		fa.FailAfter(0)
		_, err := w.Clone()
		assert.ErrorIs(t, err, ErrAlloc)
		assert.Equal(t, 1, w.Len())
	})
}

func TestEqual(t *testing.T) {
	a := newInt64Vec(t, 3)
	b := newInt64Vec(t, 3)
	assert.True(t, Equal(a, b))

	require.NoError(t, b.Reserve(500))
	assert.True(t, Equal(a, b), "capacity does not matter")

	b.Set(2, 9)
	assert.False(t, Equal(a, b))

	_, _ = b.Pop()
	assert.False(t, Equal(a, b))

	assert.True(t, Equal(New[int64](), New[int64]()))

	f := New[float64](WithAllocator(alloc.NewHeap()))
	defer f.Free()
	for _, x := range []float64{0, 1, 2} {
		require.NoError(t, f.Push(x))
	}
	assert.True(t, EqualFunc(a, f, func(x int64, y float64) bool { return float64(x) == y }))
}

func slicesOf[T any](v *Vec[T]) []T {
	out := make([]T, 0, v.Len())
	for x := range v.Values() {
		out = append(out, x)
	}
	return out
}
