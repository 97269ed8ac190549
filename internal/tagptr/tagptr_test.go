package tagptr

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestPtr(t *testing.T) {
	t.Run("null", func(t *testing.T) {
		p := Null()
		assert.True(t, p.IsNil())
		assert.False(t, p.Flag())
	})

	t.Run("flag survives replace", func(t *testing.T) {
		x := 7
		p := New(unsafe.Pointer(&x))
		assert.False(t, p.IsNil())

		p.SetFlag(true)
		p.Replace(nil)
		assert.True(t, p.IsNil())
		assert.True(t, p.Flag())

		p.Replace(unsafe.Pointer(&x))
		assert.Equal(t, unsafe.Pointer(&x), p.Addr())
		assert.True(t, p.Flag())

		p.SetFlag(false)
		assert.False(t, p.Flag())
	})
}
