/*

Cursor definition and implementation.

*/

package bitcodec

import "fmt"

// BitSource is what a Deserializer reads from.
// It is implemented by *Cursor (in-memory, bounded) and by the stream Reader.
type BitSource interface {
	// ReadBool reads the next bit.
	ReadBool() (bool, error)

	// ReadBits reads n bits (n <= 64) and returns them the way
	// BitBuffer.PushBits took them.
	ReadBits(n int) (uint64, error)

	// ReadByte reads the next 8 bits as a byte.
	ReadByte() (byte, error)

	// Offset returns the number of bits consumed so far.
	Offset() int

	// Remaining returns the number of unread bits, or -1 if unknown.
	Remaining() int
}

// Cursor reads a borrowed BitBuffer from the front.
// The offset only moves forward. Reading past the end is an error of
// KindOutOfRange; nothing is zero-filled.
type Cursor struct {
	buf *BitBuffer
	off int
}

// NewCursor returns a cursor positioned at the first bit of b.
func NewCursor(b *BitBuffer) *Cursor {
	return &Cursor{buf: b}
}

// Layout returns the layout of the underlying buffer.
func (c *Cursor) Layout() Layout { return c.buf.layout }

// Offset implements BitSource.
func (c *Cursor) Offset() int { return c.off }

// Remaining implements BitSource.
func (c *Cursor) Remaining() int { return c.buf.n - c.off }

func (c *Cursor) need(n int) error {
	if n > c.buf.n-c.off {
		return newError(KindOutOfRange, c.off,
			fmt.Sprintf("need %d bits, %d remaining", n, c.buf.n-c.off))
	}
	return nil
}

// ReadBool implements BitSource.
func (c *Cursor) ReadBool() (bool, error) {
	if err := c.need(1); err != nil {
		return false, err
	}
	v := c.buf.bit(c.off)
	c.off++
	return v, nil
}

// ReadBits implements BitSource.
func (c *Cursor) ReadBits(n int) (uint64, error) {
	u, err := c.buf.Bits(c.off, n)
	if err != nil {
		return 0, err
	}
	c.off += n
	return u, nil
}

// ReadByte implements BitSource and io.ByteReader.
func (c *Cursor) ReadByte() (byte, error) {
	if err := c.need(8); err != nil {
		return 0, err
	}
	if c.off%8 == 0 && c.buf.layout.bytesVerbatim() {
		idx, _ := c.buf.layout.locate(c.off)
		c.off += 8
		return c.buf.data[idx], nil
	}
	u := c.buf.bits(c.off, 8)
	c.off += 8
	return byte(u), nil
}

// Read fills p with the next len(p) bytes. Unlike io.Reader it either fills
// p completely or reads nothing and returns an error.
func (c *Cursor) Read(p []byte) (n int, err error) {
	if err = c.need(len(p) * 8); err != nil {
		return 0, err
	}
	for n = range p {
		p[n], _ = c.ReadByte()
	}
	return len(p), nil
}

// Skip advances the cursor by n bits.
func (c *Cursor) Skip(n int) error {
	if err := c.need(n); err != nil {
		return err
	}
	c.off += n
	return nil
}
