/*

Fixed width bit container.

*/

package bitcodec

import "fmt"

// Width declares the bit width of a Container. Implement it on an empty
// struct type:
//
//	type w7 struct{}
//
//	func (w7) Width() int { return 7 }
type Width interface {
	Width() int
}

// Predefined widths for containers up to a byte.
type (
	Width1 struct{}
	Width2 struct{}
	Width3 struct{}
	Width4 struct{}
	Width5 struct{}
	Width6 struct{}
	Width7 struct{}
	Width8 struct{}
)

func (Width1) Width() int { return 1 }
func (Width2) Width() int { return 2 }
func (Width3) Width() int { return 3 }
func (Width4) Width() int { return 4 }
func (Width5) Width() int { return 5 }
func (Width6) Width() int { return 6 }
func (Width7) Width() int { return 7 }
func (Width8) Width() int { return 8 }

// Container holds exactly N.Width() bits.
//
// On the wire it is a fixed-length sequence of booleans, one bit each, with
// no length prefix. The zero value holds N.Width() zero bits.
type Container[N Width] struct {
	bits []bool
}

func containerWidth[N Width]() int {
	var n N
	return n.Width()
}

// NewContainer returns a container holding the given bits, first bit first.
// It fails if the number of bits does not match the declared width.
func NewContainer[N Width](bits ...bool) (Container[N], error) {
	w := containerWidth[N]()
	if len(bits) != w {
		return Container[N]{}, newError(KindOutOfRange, -1,
			fmt.Sprintf("container of width %d given %d bits", w, len(bits)))
	}
	c := Container[N]{bits: make([]bool, w)}
	copy(c.bits, bits)
	return c, nil
}

// ContainerOf returns a container whose bit i is bit i of v.
// Bits of v above the declared width are ignored; widths above 64 leave
// the extra bits zero.
func ContainerOf[N Width](v uint64) Container[N] {
	w := containerWidth[N]()
	c := Container[N]{bits: make([]bool, w)}
	for i := 0; i < w && i < 64; i++ {
		c.bits[i] = v&(1<<uint(i)) != 0
	}
	return c
}

func (c *Container[N]) init() {
	if c.bits == nil {
		c.bits = make([]bool, containerWidth[N]())
	}
}

// Len returns the declared width.
func (c Container[N]) Len() int {
	return containerWidth[N]()
}

// Bit returns bit i. It panics if i is out of range.
func (c Container[N]) Bit(i int) bool {
	if i < 0 || i >= c.Len() {
		panic(fmt.Sprintf("bitcodec: container bit %d out of range [0,%d)", i, c.Len()))
	}
	if c.bits == nil {
		return false
	}
	return c.bits[i]
}

// Set sets bit i. It panics if i is out of range.
func (c *Container[N]) Set(i int, v bool) {
	if i < 0 || i >= c.Len() {
		panic(fmt.Sprintf("bitcodec: container bit %d out of range [0,%d)", i, c.Len()))
	}
	c.init()
	c.bits[i] = v
}

// Bools returns a copy of the bits.
func (c Container[N]) Bools() []bool {
	out := make([]bool, c.Len())
	copy(out, c.bits)
	return out
}

// AsByte returns the bits as a byte, bit 0 being the least significant.
// It fails if the declared width exceeds 8.
func (c Container[N]) AsByte() (byte, error) {
	if c.Len() > 8 {
		return 0, newError(KindOutOfRange, -1,
			fmt.Sprintf("container of %d bits does not fit a single byte", c.Len()))
	}
	var result byte
	for i, v := range c.bits {
		if v {
			result |= 1 << uint(i)
		}
	}
	return result, nil
}

// Uint64 returns the bits as an integer, bit 0 being the least significant.
// It fails if the declared width exceeds 64.
func (c Container[N]) Uint64() (uint64, error) {
	if c.Len() > 64 {
		return 0, newError(KindOutOfRange, -1,
			fmt.Sprintf("container of %d bits does not fit a uint64", c.Len()))
	}
	var result uint64
	for i, v := range c.bits {
		if v {
			result |= 1 << uint(i)
		}
	}
	return result, nil
}

// Equal reports whether both containers hold the same bits.
func (c Container[N]) Equal(other Container[N]) bool {
	for i := 0; i < c.Len(); i++ {
		if c.Bit(i) != other.Bit(i) {
			return false
		}
	}
	return true
}

func (c Container[N]) String() string {
	b := make([]byte, c.Len())
	for i := range b {
		b[i] = '0'
		if c.Bit(i) {
			b[i] = '1'
		}
	}
	return string(b)
}

// MarshalBits implements Marshaler.
func (c Container[N]) MarshalBits(s *Serializer) error {
	for i := 0; i < c.Len(); i++ {
		if err := s.Bool(c.Bit(i)); err != nil {
			return err
		}
	}
	return nil
}

// UnmarshalBits implements Unmarshaler.
func (c *Container[N]) UnmarshalBits(d *Deserializer) error {
	bits := make([]bool, c.Len())
	for i := range bits {
		v, err := d.Bool()
		if err != nil {
			return err
		}
		bits[i] = v
	}
	c.bits = bits
	return nil
}

// Value returns the container as a Value of kind Bits.
func (c Container[N]) Value() Value {
	return NewBits(c.Bools()...)
}

// Shape returns the shape of the container.
func (c Container[N]) Shape() Shape {
	return BitsOf(c.Len())
}
