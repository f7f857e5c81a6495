/*

Bit order and storage word layout.

*/

package bitcodec

import "fmt"

// BitOrder tells which end of a storage word holds the first bit.
type BitOrder uint8

const (
	// LSBFirst places bit 0 of the stream in the least significant bit of the word.
	LSBFirst BitOrder = iota
	// MSBFirst places bit 0 of the stream in the most significant bit of the word.
	MSBFirst
)

func (o BitOrder) String() string {
	switch o {
	case LSBFirst:
		return "lsb"
	case MSBFirst:
		return "msb"
	}
	return fmt.Sprintf("BitOrder(%d)", uint8(o))
}

// WordWidth is the width of the storage word in bits.
type WordWidth uint8

// Supported word widths.
const (
	Word8  WordWidth = 8
	Word16 WordWidth = 16
	Word32 WordWidth = 32
	Word64 WordWidth = 64
)

// Layout describes how a logical bit sequence is packed into memory.
// Words are stored as little-endian byte groups, so under LSBFirst bit i
// is always bit i%8 of byte i/8, regardless of the word width.
type Layout struct {
	Order BitOrder
	Word  WordWidth
}

// DefaultLayout is LSB-first with 8-bit words.
var DefaultLayout = Layout{Order: LSBFirst, Word: Word8}

// Validate checks that the layout names a known order and word width.
func (l Layout) Validate() error {
	if l.Order != LSBFirst && l.Order != MSBFirst {
		return newError(KindMessage, -1, fmt.Sprintf("invalid bit order %d", uint8(l.Order)))
	}
	switch l.Word {
	case Word8, Word16, Word32, Word64:
		return nil
	}
	return newError(KindMessage, -1, fmt.Sprintf("invalid word width %d", uint8(l.Word)))
}

func (l Layout) String() string {
	return fmt.Sprintf("%s/%d", l.Order, l.Word)
}

// wordBytes returns the number of bytes in a storage word.
func (l Layout) wordBytes() int {
	return int(l.Word) / 8
}

// locate returns the byte index and bit mask holding logical bit i.
func (l Layout) locate(i int) (int, byte) {
	w := int(l.Word)
	p := i % w
	if l.Order == MSBFirst {
		p = w - 1 - p
	}
	return (i/w)*(w/8) + p/8, 1 << uint(p%8)
}

// storageSize returns the number of bytes needed to hold n bits,
// rounded up to a whole word.
func (l Layout) storageSize(n int) int {
	w := int(l.Word)
	return (n + w - 1) / w * (w / 8)
}

// bytesVerbatim reports whether a byte pushed at a byte aligned offset
// lands unchanged in storage.
func (l Layout) bytesVerbatim() bool {
	return l.Word == Word8 || l.Order == LSBFirst
}
