package bitcodec

import (
	"errors"
	"testing"

	"github.com/icza/mighty"
)

type width12 struct{}

func (width12) Width() int { return 12 }

func TestContainerAsByte(t *testing.T) {
	eq, expEq := mighty.EqExpEq(t)

	c, err := NewContainer[Width7](true, true, false, false, false, true, false)
	eq(nil, err)
	eq(7, c.Len())
	expEq(byte(0x23))(c.AsByte())
	eq("1100010", c.String())
	eq(true, c.Equal(ContainerOf[Width7](0x23)))

	// Bits above the width are dropped.
	expEq(byte(0x7f))(ContainerOf[Width7](0xff).AsByte())

	var zero Container[Width3]
	expEq(byte(0))(zero.AsByte())
	eq("000", zero.String())
	eq(true, zero.Equal(ContainerOf[Width3](0)))
}

func TestContainerWide(t *testing.T) {
	eq, expEq := mighty.EqExpEq(t)

	c := ContainerOf[width12](0xabc)
	_, err := c.AsByte()
	eq(true, errors.Is(err, ErrOutOfRange))
	expEq(uint64(0xabc))(c.Uint64())

	// Per-bit encoding is unaffected by the width.
	b, err := Marshal(c)
	eq(nil, err)
	eq(12, b.Len())

	var got Container[width12]
	eq(nil, Default().Unmarshal(b, &got))
	eq(true, got.Equal(c))
}

func TestContainerNewWrongLength(t *testing.T) {
	eq := mighty.Eq(t)

	_, err := NewContainer[Width4](true, false)
	eq(true, errors.Is(err, ErrOutOfRange))
	_, err = NewContainer[Width1](true, false)
	eq(true, errors.Is(err, ErrOutOfRange))
}

func TestContainerSet(t *testing.T) {
	eq, deq := mighty.Eq(t), mighty.Deq(t)

	var c Container[Width5]
	c.Set(0, true)
	c.Set(4, true)
	eq(true, c.Bit(4))
	deq([]bool{true, false, false, false, true}, c.Bools())

	panics := func(f func()) (p bool) {
		defer func() { p = recover() != nil }()
		f()
		return
	}
	eq(true, panics(func() { c.Set(5, true) }))
	eq(true, panics(func() { c.Bit(-1) }))
}

func TestContainerValue(t *testing.T) {
	eq := mighty.Eq(t)

	c := ContainerOf[Width4](0x9)
	eq(true, c.Value().Equal(NewBits(true, false, false, true)))
	eq("bits<4>", c.Shape().String())

	b, err := Default().Encode(c.Value())
	eq(nil, err)
	m, err := Marshal(c)
	eq(nil, err)
	eq(true, b.Equal(m))
}
