package nmea

// Cursor is a read position over an immutable byte slice. All field and
// sentence decoders are built on it. Returned slices alias the input.
type Cursor struct {
	data  []byte
	index int
}

// NewCursor creates a cursor positioned at the start of data
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Offset returns the current read position
func (c *Cursor) Offset() int {
	return c.index
}

// Remaining returns the unread bytes
func (c *Cursor) Remaining() []byte {
	return c.data[c.index:]
}

// Done reports whether every byte has been consumed
func (c *Cursor) Done() bool {
	return c.index >= len(c.data)
}

// AssertEmpty fails with ErrRemainingData if unread bytes are left
func (c *Cursor) AssertEmpty() error {
	if !c.Done() {
		return ErrRemainingData
	}
	return nil
}

// Next consumes one byte
func (c *Cursor) Next() (byte, error) {
	if c.Done() {
		return 0, ErrIncorrectLength
	}
	b := c.data[c.index]
	c.index++
	return b, nil
}

// Peek returns the next byte without consuming it
func (c *Cursor) Peek() (byte, bool) {
	if c.Done() {
		return 0, false
	}
	return c.data[c.index], true
}

// NextN consumes exactly n bytes
func (c *Cursor) NextN(n int) ([]byte, error) {
	if n < 0 || c.index+n > len(c.data) {
		return nil, ErrIncorrectLength
	}
	out := c.data[c.index : c.index+n]
	c.index += n
	return out, nil
}

// Expect consumes one byte and fails if it is not b
func (c *Cursor) Expect(b byte) error {
	offset := c.index
	got, err := c.Next()
	if err != nil {
		return err
	}
	if got != b {
		return &UnexpectedCharError{Char: got, Offset: offset}
	}
	return nil
}

// ExpectSequence consumes len(seq) bytes and fails on the first mismatch
func (c *Cursor) ExpectSequence(seq []byte) error {
	for _, b := range seq {
		if err := c.Expect(b); err != nil {
			return err
		}
	}
	return nil
}

// SkipIf consumes the next byte only if it equals b
func (c *Cursor) SkipIf(b byte) bool {
	if next, ok := c.Peek(); ok && next == b {
		c.index++
		return true
	}
	return false
}

// SkipWhile consumes bytes while they equal b
func (c *Cursor) SkipWhile(b byte) {
	for c.SkipIf(b) {
	}
}

// TakeUntil returns the bytes up to, but not including, delim. The
// delimiter is left unconsumed. It fails if delim never appears, in which
// case the cursor does not move.
func (c *Cursor) TakeUntil(delim byte) ([]byte, error) {
	for i := c.index; i < len(c.data); i++ {
		if c.data[i] == delim {
			out := c.data[c.index:i]
			c.index = i
			return out, nil
		}
	}
	return nil, ErrIncorrectLength
}

// TakeUntilOrEnd is TakeUntil that also succeeds at end of input
func (c *Cursor) TakeUntilOrEnd(delim byte) []byte {
	out, err := c.TakeUntil(delim)
	if err != nil {
		out = c.data[c.index:]
		c.index = len(c.data)
	}
	return out
}

// TakeWhile returns the longest prefix whose bytes satisfy pred
func (c *Cursor) TakeWhile(pred func(byte) bool) []byte {
	start := c.index
	for c.index < len(c.data) && pred(c.data[c.index]) {
		c.index++
	}
	return c.data[start:c.index]
}
