package smf

// Cursor reads sequentially from an in-memory buffer. Every read is bounds
// checked up front, so a failed read leaves the position untouched.
type Cursor struct {
	buf  []byte
	pos  int
	base int // absolute offset of buf[0] in the outermost buffer
}

// NewCursor returns a cursor positioned at the start of buf. The buffer is
// not copied and must not be modified while the cursor is in use.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Pos returns the position relative to the start of this cursor's buffer.
func (c *Cursor) Pos() int {
	return c.pos
}

// Offset returns the absolute position in the outermost buffer.
func (c *Cursor) Offset() int {
	return c.base + c.pos
}

// Len returns the total size of the buffer.
func (c *Cursor) Len() int {
	return len(c.buf)
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// Seek moves to an absolute position within this cursor's buffer.
func (c *Cursor) Seek(pos int) error {
	if pos < 0 || pos > len(c.buf) {
		return decodeErrorf(c.Offset(), ErrTruncatedInput, "seek to %d outside buffer of %d byte(s)", pos, len(c.buf))
	}
	c.pos = pos
	return nil
}

// Rewind moves the position back by n bytes.
func (c *Cursor) Rewind(n int) error {
	if n < 0 || n > c.pos {
		return decodeErrorf(c.Offset(), ErrTruncatedInput, "cannot rewind %d byte(s) from position %d", n, c.pos)
	}
	c.pos -= n
	return nil
}

func (c *Cursor) need(n int) error {
	if n < 0 || c.pos+n > len(c.buf) {
		return truncated(c.Offset(), n, c.Remaining())
	}
	return nil
}

// Peek returns the next byte without consuming it.
func (c *Cursor) Peek() (byte, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	return c.buf[c.pos], nil
}

// ReadByte consumes one byte.
func (c *Cursor) ReadByte() (byte, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

// ReadBytes consumes n bytes and returns a copy of them.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, c.buf[c.pos:c.pos+n])
	c.pos += n
	return out, nil
}

// ReadUint consumes an n-byte big-endian unsigned integer, 1 <= n <= 4.
func (c *Cursor) ReadUint(n int) (uint32, error) {
	if n < 1 || n > 4 {
		return 0, decodeErrorf(c.Offset(), ErrInvalidFieldValue, "integer width %d not in [1,4]", n)
	}
	if err := c.need(n); err != nil {
		return 0, err
	}
	var v uint32
	for _, b := range c.buf[c.pos : c.pos+n] {
		v = v<<8 | uint32(b)
	}
	c.pos += n
	return v, nil
}

// ReadFixedString consumes n bytes as a string.
func (c *Cursor) ReadFixedString(n int) (string, error) {
	if err := c.need(n); err != nil {
		return "", err
	}
	s := string(c.buf[c.pos : c.pos+n])
	c.pos += n
	return s, nil
}

// Sub consumes the next n bytes and returns a cursor limited to them.
// Offsets reported by the child stay absolute.
func (c *Cursor) Sub(n int) (*Cursor, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	child := &Cursor{
		buf:  c.buf[c.pos : c.pos+n],
		base: c.Offset(),
	}
	c.pos += n
	return child, nil
}
