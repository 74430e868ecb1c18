package bencode

import "unicode/utf8"

// Cursor is a forward-only position over the input. Sibling values resume
// exactly where the previous one stopped.
type Cursor struct {
	input string
	pos   int
}

// NewCursor returns a cursor positioned at the start of input.
func NewCursor(input string) *Cursor {
	return &Cursor{input: input}
}

// Offset returns the byte offset of the next unread character.
func (c *Cursor) Offset() int {
	return c.pos
}

// Done reports whether all input has been consumed.
func (c *Cursor) Done() bool {
	return c.pos >= len(c.input)
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.input) - c.pos
}

// Peek returns the next byte without consuming it.
func (c *Cursor) Peek() (byte, bool) {
	if c.Done() {
		return 0, false
	}
	return c.input[c.pos], true
}

// Next consumes and returns the next byte.
func (c *Cursor) Next() (byte, bool) {
	b, ok := c.Peek()
	if ok {
		c.pos++
	}
	return b, ok
}

// TakeBytes consumes exactly n bytes.
func (c *Cursor) TakeBytes(n int) (string, bool) {
	if n < 0 || n > c.Remaining() {
		return "", false
	}
	s := c.input[c.pos : c.pos+n]
	c.pos += n
	return s, true
}

// TakeChars consumes exactly n UTF-8 characters. An invalid byte counts as
// one character. On failure the cursor is left at the end of input.
func (c *Cursor) TakeChars(n int) (string, bool) {
	start := c.pos
	for i := 0; i < n; i++ {
		if c.Done() {
			return "", false
		}
		_, size := utf8.DecodeRuneInString(c.input[c.pos:])
		c.pos += size
	}
	return c.input[start:c.pos], true
}

// TakeWhile consumes bytes while keep returns true and returns them.
func (c *Cursor) TakeWhile(keep func(byte) bool) string {
	start := c.pos
	for !c.Done() && keep(c.input[c.pos]) {
		c.pos++
	}
	return c.input[start:c.pos]
}
