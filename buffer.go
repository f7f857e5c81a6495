/*

BitBuffer definition and implementation.

*/

package bitcodec

import (
	"fmt"
	"strings"
)

// BitBuffer is an ordered sequence of bits packed into storage words
// according to a Layout.
//
// A buffer returned by New grows as bits are pushed. A buffer returned by View
// borrows the caller's storage; the codec only reads it.
type BitBuffer struct {
	layout Layout
	data   []byte // storage, always a whole number of words
	n      int    // number of bits
}

// New returns an empty, growable buffer with the given layout.
func New(layout Layout) *BitBuffer {
	return &BitBuffer{layout: layout}
}

// View returns a buffer over data without copying it.
// All bits of data are considered part of the buffer.
// If len(data) is not a multiple of the word size, the trailing partial word
// is ignored.
func View(data []byte, layout Layout) *BitBuffer {
	wb := layout.wordBytes()
	whole := len(data) / wb * wb
	return &BitBuffer{layout: layout, data: data[:whole:whole], n: whole * 8}
}

// FromBits returns a growable buffer holding the given bits in order.
func FromBits(layout Layout, bits ...bool) *BitBuffer {
	b := New(layout)
	for _, v := range bits {
		b.PushBit(v)
	}
	return b
}

// Layout returns the layout of the buffer.
func (b *BitBuffer) Layout() Layout { return b.layout }

// Len returns the number of bits in the buffer.
func (b *BitBuffer) Len() int { return b.n }

// Bytes returns the underlying storage, padded with zero bits to a whole word.
// The returned slice aliases the buffer.
func (b *BitBuffer) Bytes() []byte { return b.data }

// grow makes room for one more word if bit b.n is not yet backed by storage.
func (b *BitBuffer) grow() {
	if need := b.layout.storageSize(b.n + 1); need > len(b.data) {
		for i := len(b.data); i < need; i++ {
			b.data = append(b.data, 0)
		}
	}
}

// PushBit appends a single bit.
func (b *BitBuffer) PushBit(v bool) {
	b.grow()
	if v {
		idx, mask := b.layout.locate(b.n)
		b.data[idx] |= mask
	}
	b.n++
}

// PushBits appends the n lowest bits of v.
// Bits go least significant first under LSBFirst and most significant first
// under MSBFirst, so a byte pushed at a byte boundary of an 8-bit word layout
// is stored verbatim in both orders.
func (b *BitBuffer) PushBits(v uint64, n int) {
	if b.layout.Order == LSBFirst {
		for i := 0; i < n; i++ {
			b.PushBit(v&(1<<uint(i)) != 0)
		}
		return
	}
	for i := n - 1; i >= 0; i-- {
		b.PushBit(v&(1<<uint(i)) != 0)
	}
}

// PushByte appends the 8 bits of c.
func (b *BitBuffer) PushByte(c byte) {
	if b.n%8 == 0 && b.layout.bytesVerbatim() {
		b.grow()
		idx, _ := b.layout.locate(b.n)
		b.data[idx] = c
		b.n += 8
		return
	}
	b.PushBits(uint64(c), 8)
}

// PushBytes appends every byte of p.
func (b *BitBuffer) PushBytes(p []byte) {
	for _, c := range p {
		b.PushByte(c)
	}
}

// Append appends all bits of other, which must have the same layout.
func (b *BitBuffer) Append(other *BitBuffer) error {
	if other.layout != b.layout {
		return newError(KindMessage, b.n, fmt.Sprintf("layout mismatch: %s vs %s", b.layout, other.layout))
	}
	// other may be b itself
	n := other.n
	for i := 0; i < n; i++ {
		b.PushBit(other.bit(i))
	}
	return nil
}

func (b *BitBuffer) bit(i int) bool {
	idx, mask := b.layout.locate(i)
	return b.data[idx]&mask != 0
}

func (b *BitBuffer) checkRange(offset, count int) error {
	if offset < 0 || count < 0 || offset+count > b.n {
		return newError(KindOutOfRange, offset,
			fmt.Sprintf("range of %d bits exceeds buffer of %d bits", count, b.n))
	}
	return nil
}

// Bit returns bit i.
func (b *BitBuffer) Bit(i int) (bool, error) {
	if err := b.checkRange(i, 1); err != nil {
		return false, err
	}
	return b.bit(i), nil
}

// Bits returns n bits (n <= 64) starting at offset, as PushBits would have
// taken them.
func (b *BitBuffer) Bits(offset, n int) (uint64, error) {
	if n > 64 {
		return 0, newError(KindOutOfRange, offset, fmt.Sprintf("cannot read %d bits into a uint64", n))
	}
	if err := b.checkRange(offset, n); err != nil {
		return 0, err
	}
	return b.bits(offset, n), nil
}

func (b *BitBuffer) bits(offset, n int) (u uint64) {
	if b.layout.Order == LSBFirst {
		for i := 0; i < n; i++ {
			if b.bit(offset + i) {
				u |= 1 << uint(i)
			}
		}
		return
	}
	for i := 0; i < n; i++ {
		u <<= 1
		if b.bit(offset + i) {
			u |= 1
		}
	}
	return
}

// SetBits overwrites n bits starting at offset with the n lowest bits of v,
// in the order PushBits uses. The range must already exist.
func (b *BitBuffer) SetBits(offset int, v uint64, n int) error {
	if n > 64 {
		return newError(KindOutOfRange, offset, fmt.Sprintf("cannot write %d bits from a uint64", n))
	}
	if err := b.checkRange(offset, n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		shift := uint(i)
		if b.layout.Order == MSBFirst {
			shift = uint(n - 1 - i)
		}
		idx, mask := b.layout.locate(offset + i)
		if v&(1<<shift) != 0 {
			b.data[idx] |= mask
		} else {
			b.data[idx] &^= mask
		}
	}
	return nil
}

// Range returns a copy of count bits starting at offset.
func (b *BitBuffer) Range(offset, count int) (*BitBuffer, error) {
	if err := b.checkRange(offset, count); err != nil {
		return nil, err
	}
	r := New(b.layout)
	for i := 0; i < count; i++ {
		r.PushBit(b.bit(offset + i))
	}
	return r, nil
}

// Equal reports whether both buffers have the same layout and bits.
func (b *BitBuffer) Equal(other *BitBuffer) bool {
	if b.layout != other.layout || b.n != other.n {
		return false
	}
	for i := 0; i < b.n; i++ {
		if b.bit(i) != other.bit(i) {
			return false
		}
	}
	return true
}

// String returns the bits as '0' and '1' characters in stream order.
func (b *BitBuffer) String() string {
	var sb strings.Builder
	sb.Grow(b.n)
	for i := 0; i < b.n; i++ {
		if b.bit(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
