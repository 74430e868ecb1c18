package bencode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursor(t *testing.T) {
	c := NewCursor("12:日本x")

	digits := c.TakeWhile(isDigit)
	assert.Equal(t, "12", digits)
	assert.Equal(t, 2, c.Offset())

	b, ok := c.Peek()
	assert.True(t, ok)
	assert.Equal(t, byte(':'), b)
	assert.Equal(t, 2, c.Offset())

	b, ok = c.Next()
	assert.True(t, ok)
	assert.Equal(t, byte(':'), b)

	s, ok := c.TakeChars(2)
	assert.True(t, ok)
	assert.Equal(t, "日本", s)
	assert.Equal(t, 9, c.Offset())
	assert.Equal(t, 1, c.Remaining())

	_, ok = c.TakeBytes(2)
	assert.False(t, ok)
	assert.Equal(t, 9, c.Offset())

	s, ok = c.TakeBytes(1)
	assert.True(t, ok)
	assert.Equal(t, "x", s)
	assert.True(t, c.Done())

	_, ok = c.Next()
	assert.False(t, ok)
	_, ok = c.TakeChars(1)
	assert.False(t, ok)
	s, ok = c.TakeChars(0)
	assert.True(t, ok)
	assert.Empty(t, s)
}
