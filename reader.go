/*

Reader type definition and implementation.

*/

package bitcodec

import (
	"bufio"
	"io"
)

// An io.Reader and io.ByteReader at the same time.
type readerAndByteReader interface {
	io.Reader
	io.ByteReader
}

// Reader is a bit reader that loads storage words of its Layout from an
// io.Reader and hands out their bits in stream order.
// It is the streaming counterpart of Cursor and implements BitSource.
type Reader struct {
	in     readerAndByteReader
	layout Layout
	cache  uint64 // the current word
	bits   int    // number of unread bits in cache
	count  int    // number of bits consumed

	// TryError holds the first error occurred in TryXXX() methods.
	TryError error
}

// NewReader returns a new Reader using the specified io.Reader as the input (source).
func NewReader(in io.Reader, layout Layout) *Reader {
	bin, ok := in.(readerAndByteReader)
	if !ok {
		bin = bufio.NewReader(in)
	}
	return &Reader{in: bin, layout: layout}
}

// Layout returns the layout the reader unpacks bits with.
func (r *Reader) Layout() Layout { return r.layout }

// Offset implements BitSource. Bits skipped by Align are counted.
func (r *Reader) Offset() int { return r.count }

// Remaining implements BitSource. The size of a stream is not known.
func (r *Reader) Remaining() int { return -1 }

// fill loads the next word. It returns io.EOF if the input ends exactly at a
// word boundary and io.ErrUnexpectedEOF if it ends inside a word.
func (r *Reader) fill() error {
	r.cache = 0
	for i := 0; i < r.layout.wordBytes(); i++ {
		b, err := r.in.ReadByte()
		if err != nil {
			if err == io.EOF && i > 0 {
				err = io.ErrUnexpectedEOF
			}
			return err
		}
		r.cache |= uint64(b) << (8 * uint(i))
	}
	r.bits = int(r.layout.Word)
	return nil
}

// atEOF reports whether the input is exhausted at a word boundary.
func (r *Reader) atEOF() (bool, error) {
	if r.bits > 0 {
		return false, nil
	}
	switch err := r.fill(); err {
	case nil:
		return false, nil
	case io.EOF:
		return true, nil
	default:
		return false, err
	}
}

// ReadBool reads the next bit, and returns true if it is 1.
// io.EOF is returned if the input ends at a word boundary.
func (r *Reader) ReadBool() (b bool, err error) {
	if r.bits == 0 {
		if err = r.fill(); err != nil {
			return
		}
	}
	p := int(r.layout.Word) - r.bits
	if r.layout.Order == MSBFirst {
		p = r.bits - 1
	}
	b = r.cache&(1<<uint(p)) != 0
	r.bits--
	r.count++
	return
}

// ReadBits reads n bits and returns them the way BitBuffer.PushBits took them.
func (r *Reader) ReadBits(n int) (u uint64, err error) {
	var b bool
	for i := 0; i < n; i++ {
		if b, err = r.ReadBool(); err != nil {
			return 0, err
		}
		if r.layout.Order == LSBFirst {
			if b {
				u |= 1 << uint(i)
			}
		} else {
			u <<= 1
			if b {
				u |= 1
			}
		}
	}
	return
}

// ReadByte implements io.ByteReader.
func (r *Reader) ReadByte() (b byte, err error) {
	if r.bits == 0 && r.layout.Word == Word8 {
		if b, err = r.in.ReadByte(); err == nil {
			r.count += 8
		}
		return
	}
	u, err := r.ReadBits(8)
	return byte(u), err
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (n int, err error) {
	if r.bits == 0 && r.layout.Word == Word8 {
		n, err = r.in.Read(p)
		r.count += n * 8
		return
	}

	for ; n < len(p); n++ {
		if p[n], err = r.ReadByte(); err != nil {
			return
		}
	}
	return
}

// Align aligns the bit stream to a word boundary,
// so next read will read/use data from the next word.
// Returns the number of unread / skipped bits.
func (r *Reader) Align() (skipped byte) {
	skipped = byte(r.bits)
	r.count += r.bits
	r.bits = 0 // no need to clear cache, will be overwritten on next read
	return
}

// TryReadBool tries to read the next bit.
// If there was a previous TryError, it does nothing. Else it calls ReadBool(),
// returns the data it provides and stores the error in the TryError field.
func (r *Reader) TryReadBool() (b bool) {
	if r.TryError == nil {
		b, r.TryError = r.ReadBool()
	}
	return
}

// TryReadBits tries to read n bits.
// If there was a previous TryError, it does nothing. Else it calls ReadBits(),
// returns the data it provides and stores the error in the TryError field.
func (r *Reader) TryReadBits(n int) (u uint64) {
	if r.TryError == nil {
		u, r.TryError = r.ReadBits(n)
	}
	return
}

// TryReadByte tries to read the next 8 bits.
// If there was a previous TryError, it does nothing. Else it calls ReadByte(),
// returns the data it provides and stores the error in the TryError field.
func (r *Reader) TryReadByte() (b byte) {
	if r.TryError == nil {
		b, r.TryError = r.ReadByte()
	}
	return
}
