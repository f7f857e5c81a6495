/*

Serializer: the producer side of the codec.

*/

package bitcodec

import (
	"fmt"
	"math"
)

// Marshaler is implemented by types that describe their own shape to a
// Serializer, field by field in declaration order.
type Marshaler interface {
	MarshalBits(s *Serializer) error
}

// Serializer appends the bits of each value it is handed to a BitBuffer.
//
// Tuples and records need no call of their own: a Marshaler writes its
// fields one after the other. Sequences are framed with Len, enums with
// Variant.
type Serializer struct {
	buf *BitBuffer
	enc Encoding
}

// NewSerializer returns a serializer writing to a new buffer of the given
// layout with the given encoding.
func NewSerializer(layout Layout, enc Encoding) *Serializer {
	return &Serializer{buf: New(layout), enc: enc}
}

// Buffer returns the buffer written so far.
func (s *Serializer) Buffer() *BitBuffer { return s.buf }

// Encoding returns the active encoding.
func (s *Serializer) Encoding() Encoding { return s.enc }

// Bool appends exactly 1 bit.
func (s *Serializer) Bool(v bool) error {
	s.buf.PushBit(v)
	return nil
}

// Uint8 appends the 8 bits of v verbatim.
func (s *Serializer) Uint8(v uint8) error {
	s.buf.PushByte(v)
	return nil
}

// Uint16 appends v in the byte order of the encoding.
func (s *Serializer) Uint16(v uint16) error {
	var tmp [2]byte
	s.enc.PutUint16(tmp[:], v)
	s.buf.PushBytes(tmp[:])
	return nil
}

// Uint32 appends v in the byte order of the encoding.
func (s *Serializer) Uint32(v uint32) error {
	var tmp [4]byte
	s.enc.PutUint32(tmp[:], v)
	s.buf.PushBytes(tmp[:])
	return nil
}

// Uint64 appends v in the byte order of the encoding.
func (s *Serializer) Uint64(v uint64) error {
	var tmp [8]byte
	s.enc.PutUint64(tmp[:], v)
	s.buf.PushBytes(tmp[:])
	return nil
}

// Int8 appends the single byte of v. There is no byte order to apply.
func (s *Serializer) Int8(v int8) error { return s.Uint8(uint8(v)) }

// Int16 appends the two's complement bits of v like Uint16.
func (s *Serializer) Int16(v int16) error { return s.Uint16(uint16(v)) }

// Int32 appends the two's complement bits of v like Uint32.
func (s *Serializer) Int32(v int32) error { return s.Uint32(uint32(v)) }

// Int64 appends the two's complement bits of v like Uint64.
func (s *Serializer) Int64(v int64) error { return s.Uint64(uint64(v)) }

// Float32 appends the IEEE-754 bits of v like Uint32.
func (s *Serializer) Float32(v float32) error { return s.Uint32(math.Float32bits(v)) }

// Float64 appends the IEEE-754 bits of v like Uint64.
func (s *Serializer) Float64(v float64) error { return s.Uint64(math.Float64bits(v)) }

// Bytes appends a length field and the raw bytes of p.
func (s *Serializer) Bytes(p []byte) error {
	if err := s.enc.WriteLen(s.buf, len(p)); err != nil {
		return err
	}
	s.buf.PushBytes(p)
	return nil
}

// Len appends the length field of a sequence. Exactly n elements must follow.
func (s *Serializer) Len(n int) error {
	return s.enc.WriteLen(s.buf, n)
}

// LenMark is a length field reserved by ReserveLen.
type LenMark struct {
	offset int
	bits   int
}

// ReserveLen reserves a length field for a sequence whose element count is
// only known once the elements are written. The field precedes the
// elements on the wire; FillLen writes its value.
func (s *Serializer) ReserveLen() (LenMark, error) {
	m := LenMark{offset: s.buf.Len()}
	if err := s.enc.WriteLen(s.buf, 0); err != nil {
		return LenMark{}, err
	}
	m.bits = s.buf.Len() - m.offset
	return m, nil
}

// FillLen writes n into a field reserved by ReserveLen.
// The field is encoded into a scratch buffer and copied over the reserved
// bits, so any Encoding works.
func (s *Serializer) FillLen(m LenMark, n int) error {
	tmp := New(s.buf.layout)
	if err := s.enc.WriteLen(tmp, n); err != nil {
		return err
	}
	if tmp.Len() != m.bits {
		return newError(KindMessage, m.offset,
			fmt.Sprintf("length field changed width: reserved %d bits, got %d", m.bits, tmp.Len()))
	}
	for i := 0; i < m.bits; {
		chunk := m.bits - i
		if chunk > 64 {
			chunk = 64
		}
		v, _ := tmp.Bits(i, chunk)
		if err := s.buf.SetBits(m.offset+i, v, chunk); err != nil {
			return err
		}
		i += chunk
	}
	return nil
}

// Variant appends the discriminant of an enum variant. The variant's
// payload fields follow like the fields of a tuple.
func (s *Serializer) Variant(index int) error {
	return s.enc.WriteLen(s.buf, index)
}

// Char is not supported.
func (s *Serializer) Char(rune) error { return s.unsupported(Char) }

// Str is not supported.
func (s *Serializer) Str(string) error { return s.unsupported(String) }

// Map is not supported.
func (s *Serializer) Map(int) error { return s.unsupported(Map) }

// Option is not supported.
func (s *Serializer) Option(bool) error { return s.unsupported(Option) }

func (s *Serializer) unsupported(t Type) error {
	return newError(KindUnsupported, s.buf.Len(), t.String())
}

// Marshal lets m write itself.
func (s *Serializer) Marshal(m Marshaler) error {
	return m.MarshalBits(s)
}

// Value appends the encoding of v.
func (s *Serializer) Value(v Value) error {
	switch v.Type {
	case Bool:
		return s.Bool(v.Bool)
	case Uint8:
		return s.Uint8(uint8(v.Uint))
	case Uint16:
		return s.Uint16(uint16(v.Uint))
	case Uint32:
		return s.Uint32(uint32(v.Uint))
	case Uint64:
		return s.Uint64(v.Uint)
	case Int8:
		return s.Int8(int8(v.Int))
	case Int16:
		return s.Int16(int16(v.Int))
	case Int32:
		return s.Int32(int32(v.Int))
	case Int64:
		return s.Int64(v.Int)
	case Float32:
		return s.Float32(float32(v.Float))
	case Float64:
		return s.Float64(v.Float)
	case Bytes:
		return s.Bytes(v.Data)
	case Bits:
		for _, b := range v.Bits {
			s.buf.PushBit(b)
		}
		return nil
	case Seq:
		if err := s.Len(len(v.Elems)); err != nil {
			return err
		}
		return s.values(v.Elems)
	case Enum:
		if err := s.Variant(v.Variant); err != nil {
			return err
		}
		return s.values(v.Elems)
	case Tuple:
		return s.values(v.Elems)
	case Invalid:
		return newError(KindMessage, s.buf.Len(), "invalid value")
	}
	return s.unsupported(v.Type)
}

func (s *Serializer) values(vs []Value) error {
	for _, v := range vs {
		if err := s.Value(v); err != nil {
			return err
		}
	}
	return nil
}
