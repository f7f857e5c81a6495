/*

Encoding strategy definition and implementations.

*/

package bitcodec

import (
	"encoding/binary"
	"fmt"
)

// Encoding is the strategy that lays out multi-byte primitives and length
// fields. It is stateless; a single serialize or deserialize call uses
// exactly one Encoding.
//
// Signed integers and floats are mapped onto the unsigned widths (two's
// complement and IEEE-754 bits), so every numeric type of a width shares
// one byte layout. Booleans and uint8 values never go through an Encoding.
type Encoding interface {
	// Name identifies the encoding in logs and errors.
	Name() string

	PutUint16(dst []byte, v uint16)
	PutUint32(dst []byte, v uint32)
	PutUint64(dst []byte, v uint64)
	Uint16(src []byte) uint16
	Uint32(src []byte) uint32
	Uint64(src []byte) uint64

	// LenBits returns the width of a length field in bits.
	LenBits() int

	// WriteLen appends a length field holding n.
	WriteLen(b *BitBuffer, n int) error

	// ReadLen consumes a length field.
	ReadLen(src BitSource) (int, error)
}

// EndianEncoding lays out primitives in a fixed byte order and writes
// length fields of Bits width.
//
// Length widths of 8, 16, 32 and 64 go through the byte order like any
// unsigned value of that width. Other widths (1..63) are raw bit fields
// written with BitBuffer.PushBits.
type EndianEncoding struct {
	Order binary.ByteOrder
	Bits  int
}

var (
	// LittleEndian is the reference encoding: little-endian primitives and
	// 32-bit length fields.
	LittleEndian Encoding = EndianEncoding{Order: binary.LittleEndian, Bits: 32}

	// BigEndian lays out primitives big-endian, with 32-bit length fields.
	BigEndian Encoding = EndianEncoding{Order: binary.BigEndian, Bits: 32}
)

// NewEndianEncoding returns an EndianEncoding after validating the length width.
func NewEndianEncoding(order binary.ByteOrder, lenBits int) (EndianEncoding, error) {
	e := EndianEncoding{Order: order, Bits: lenBits}
	if err := e.validate(); err != nil {
		return EndianEncoding{}, err
	}
	return e, nil
}

func (e EndianEncoding) validate() error {
	if e.Order == nil {
		return newError(KindMessage, -1, "nil byte order")
	}
	return validLenBits(e.Bits)
}

func validLenBits(n int) error {
	if n < 1 || n > 64 {
		return newError(KindMessage, -1, fmt.Sprintf("invalid length width %d", n))
	}
	return nil
}

// Name returns the byte order and the length width, e.g. "LittleEndian/len32".
func (e EndianEncoding) Name() string {
	return fmt.Sprintf("%s/len%d", e.Order, e.Bits)
}

// PutUint16 writes v into dst[:2] in Order.
func (e EndianEncoding) PutUint16(dst []byte, v uint16) { e.Order.PutUint16(dst, v) }

// PutUint32 writes v into dst[:4] in Order.
func (e EndianEncoding) PutUint32(dst []byte, v uint32) { e.Order.PutUint32(dst, v) }

// PutUint64 writes v into dst[:8] in Order.
func (e EndianEncoding) PutUint64(dst []byte, v uint64) { e.Order.PutUint64(dst, v) }

// Uint16 reads src[:2] in Order.
func (e EndianEncoding) Uint16(src []byte) uint16 { return e.Order.Uint16(src) }

// Uint32 reads src[:4] in Order.
func (e EndianEncoding) Uint32(src []byte) uint32 { return e.Order.Uint32(src) }

// Uint64 reads src[:8] in Order.
func (e EndianEncoding) Uint64(src []byte) uint64 { return e.Order.Uint64(src) }

// LenBits returns Bits.
func (e EndianEncoding) LenBits() int { return e.Bits }

// maxLen returns the largest length the field can hold.
func (e EndianEncoding) maxLen() uint64 {
	if e.Bits >= 64 {
		return 1<<63 - 1
	}
	return 1<<uint(e.Bits) - 1
}

// WriteLen appends n as a Bits wide field. It fails with ErrOutOfRange if
// n is negative or does not fit.
func (e EndianEncoding) WriteLen(b *BitBuffer, n int) error {
	if n < 0 || uint64(n) > e.maxLen() {
		return newError(KindOutOfRange, b.Len(),
			fmt.Sprintf("length %d does not fit a %d-bit length field", n, e.Bits))
	}
	var tmp [8]byte
	switch e.Bits {
	case 8:
		b.PushByte(byte(n))
	case 16:
		e.PutUint16(tmp[:2], uint16(n))
		b.PushBytes(tmp[:2])
	case 32:
		e.PutUint32(tmp[:4], uint32(n))
		b.PushBytes(tmp[:4])
	case 64:
		e.PutUint64(tmp[:8], uint64(n))
		b.PushBytes(tmp[:8])
	default:
		b.PushBits(uint64(n), e.Bits)
	}
	return nil
}

// ReadLen consumes a Bits wide field. Values that do not fit an int fail
// with ErrOutOfRange.
func (e EndianEncoding) ReadLen(src BitSource) (int, error) {
	var (
		tmp [8]byte
		u   uint64
	)
	switch e.Bits {
	case 8, 16, 32, 64:
		nb := e.Bits / 8
		if err := readBytes(src, tmp[:nb]); err != nil {
			return 0, err
		}
		switch nb {
		case 1:
			u = uint64(tmp[0])
		case 2:
			u = uint64(e.Uint16(tmp[:2]))
		case 4:
			u = uint64(e.Uint32(tmp[:4]))
		default:
			u = e.Uint64(tmp[:8])
		}
	default:
		var err error
		if u, err = src.ReadBits(e.Bits); err != nil {
			return 0, err
		}
	}
	if u > e.maxLen() {
		return 0, newError(KindOutOfRange, src.Offset(), fmt.Sprintf("decoded length %d overflows", u))
	}
	return int(u), nil
}

// readBytes fills p from src, one byte at a time in stream order.
func readBytes(src BitSource, p []byte) error {
	for i := range p {
		b, err := src.ReadByte()
		if err != nil {
			return err
		}
		p[i] = b
	}
	return nil
}
