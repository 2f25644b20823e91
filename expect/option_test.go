package expect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOption(t *testing.T) {
	t.Run("Some", func(t *testing.T) {
		o := Some(10)
		assert.True(t, o.IsDefined())
		assert.False(t, o.IsEmpty())
		assert.Equal(t, 10, o.Get())
		assert.Equal(t, 10, o.GetOrElse(20))
	})

	t.Run("None", func(t *testing.T) {
		o := None[int]()
		assert.False(t, o.IsDefined())
		assert.True(t, o.IsEmpty())
		assert.Panics(t, func() { o.Get() })
		assert.Equal(t, 20, o.GetOrElse(20))
	})

	t.Run("Equal", func(t *testing.T) {
		assert.True(t, Some(10).Equal(Some(10)))
		assert.False(t, Some(10).Equal(Some(20)))
		assert.False(t, Some(10).Equal(None[int]()))
		assert.True(t, None[int]().Equal(None[int]()))
	})

	t.Run("ZeroValueIsNone", func(t *testing.T) {
		var o Option[string]
		assert.True(t, o.IsEmpty())
		assert.True(t, o.Equal(None[string]()))
	})
}
