/*

Writer type definition and implementation.

*/

package bitcodec

import (
	"bufio"
	"io"
)

// An io.Writer and io.ByteWriter at the same time.
type writerAndByteWriter interface {
	io.Writer
	io.ByteWriter
}

// Writer is a bit writer that packs bits into storage words of its Layout
// and writes the completed words to an io.Writer, little-endian byte first.
//
// Writer must be closed (or aligned) in order to flush cached bits.
// The bytes written for a sequence of bits are identical to BitBuffer.Bytes()
// of a buffer the same bits were pushed to.
type Writer struct {
	out       writerAndByteWriter
	wrapperbw *bufio.Writer // wrapper bufio.Writer if the target does not implement io.ByteWriter
	layout    Layout
	cache     uint64 // unwritten bits are stored here, at their final word position
	bits      int    // number of unwritten bits in cache
	count     int    // number of bits written, padding included

	// TryError holds the first error occurred in TryXXX() methods.
	TryError error
}

// NewWriter returns a new Writer using the specified io.Writer as the output.
func NewWriter(out io.Writer, layout Layout) *Writer {
	w := &Writer{layout: layout}
	var ok bool
	w.out, ok = out.(writerAndByteWriter)
	if !ok {
		w.wrapperbw = bufio.NewWriter(out)
		w.out = w.wrapperbw
	}
	return w
}

// Layout returns the layout the writer packs bits with.
func (w *Writer) Layout() Layout { return w.layout }

// Offset returns the number of bits written so far, alignment padding included.
func (w *Writer) Offset() int { return w.count }

// flushWord writes out the cache as a full word.
func (w *Writer) flushWord() error {
	for i := 0; i < w.layout.wordBytes(); i++ {
		if err := w.out.WriteByte(byte(w.cache >> (8 * uint(i)))); err != nil {
			return err
		}
	}
	w.cache, w.bits = 0, 0
	return nil
}

// WriteBool writes one bit: 1 if param is true, 0 otherwise.
func (w *Writer) WriteBool(b bool) error {
	if b {
		p := w.bits
		if w.layout.Order == MSBFirst {
			p = int(w.layout.Word) - 1 - p
		}
		w.cache |= 1 << uint(p)
	}
	w.bits++
	w.count++
	if w.bits == int(w.layout.Word) {
		return w.flushWord()
	}
	return nil
}

// WriteBits writes out the n lowest bits of r, in the order
// BitBuffer.PushBits uses. Higher bits of r are ignored.
func (w *Writer) WriteBits(r uint64, n byte) (err error) {
	if w.layout.Order == LSBFirst {
		for i := byte(0); i < n && err == nil; i++ {
			err = w.WriteBool(r&(1<<i) != 0)
		}
		return
	}
	for i := int(n) - 1; i >= 0 && err == nil; i-- {
		err = w.WriteBool(r&(1<<uint(i)) != 0)
	}
	return
}

// WriteByte implements io.ByteWriter.
func (w *Writer) WriteByte(b byte) error {
	if w.bits == 0 && w.layout.Word == Word8 {
		w.count += 8
		return w.out.WriteByte(b)
	}
	return w.WriteBits(uint64(b), 8)
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (n int, err error) {
	if w.bits == 0 && w.layout.Word == Word8 {
		n, err = w.out.Write(p)
		w.count += n * 8
		return
	}

	for i, b := range p {
		if err = w.WriteByte(b); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// WriteBuffer writes all bits of b, which must share the writer's layout.
func (w *Writer) WriteBuffer(b *BitBuffer) error {
	if b.layout != w.layout {
		return newError(KindMessage, w.count, "buffer layout "+b.layout.String()+" does not match writer layout "+w.layout.String())
	}
	i := 0
	if w.bits == 0 {
		// whole words are copied from storage as they are
		whole := b.n / int(w.layout.Word) * w.layout.wordBytes()
		if _, err := w.out.Write(b.data[:whole]); err != nil {
			return err
		}
		w.count += whole * 8
		i = whole * 8
	}
	for ; i < b.n; i++ {
		if err := w.WriteBool(b.bit(i)); err != nil {
			return err
		}
	}
	return nil
}

// Align aligns the bit stream to a word boundary,
// so next write will start/go into a new word.
// If there are cached bits, they are first written to the output.
// Returns the number of skipped (unset but still written) bits.
func (w *Writer) Align() (skipped byte, err error) {
	if w.bits > 0 {
		skipped = byte(int(w.layout.Word) - w.bits)
		if err = w.flushWord(); err != nil {
			return
		}
		w.count += int(skipped)
	}
	if w.wrapperbw != nil {
		err = w.wrapperbw.Flush()
	}
	return
}

// TryWriteBool tries to write a bool.
// If there was a previous TryError, it does nothing. Else it calls WriteBool(),
// and stores the error in the TryError field.
func (w *Writer) TryWriteBool(b bool) {
	if w.TryError == nil {
		w.TryError = w.WriteBool(b)
	}
}

// TryWriteBits tries to write out the n lowest bits of r.
// If there was a previous TryError, it does nothing. Else it calls WriteBits(),
// and stores the error in the TryError field.
func (w *Writer) TryWriteBits(r uint64, n byte) {
	if w.TryError == nil {
		w.TryError = w.WriteBits(r, n)
	}
}

// TryWriteByte tries to write 8 bits.
// If there was a previous TryError, it does nothing. Else it calls WriteByte(),
// and stores the error in the TryError field.
func (w *Writer) TryWriteByte(b byte) {
	if w.TryError == nil {
		w.TryError = w.WriteByte(b)
	}
}

// TryAlign tries to align the bit stream to a word boundary.
// If there was a previous TryError, it does nothing. Else it calls Align(),
// returns the data it returns and stores the error in the TryError field.
func (w *Writer) TryAlign() (skipped byte) {
	if w.TryError == nil {
		skipped, w.TryError = w.Align()
	}
	return
}

// Close closes the bit writer, writes out cached bits.
// It does not close the underlying io.Writer.
func (w *Writer) Close() (err error) {
	// Make sure cached bits are flushed:
	if _, err = w.Align(); err != nil {
		return
	}

	return nil
}
