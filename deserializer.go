/*

Deserializer: the consumer side of the codec.

*/

package bitcodec

import (
	"errors"
	"fmt"
	"io"
	"math"
)

// Unmarshaler is implemented by types that read their own fields from a
// Deserializer, in the order their Marshaler wrote them.
type Unmarshaler interface {
	UnmarshalBits(d *Deserializer) error
}

// Deserializer decodes values from a BitSource.
//
// Every read consumes exactly the bits the matching Serializer call
// appended. The first error invalidates the rest of the input: the source
// position is not restored and further reads are meaningless.
type Deserializer struct {
	src BitSource
	enc Encoding
}

// NewDeserializer returns a deserializer reading src with the given encoding.
func NewDeserializer(src BitSource, enc Encoding) *Deserializer {
	return &Deserializer{src: src, enc: enc}
}

// Offset returns the number of bits consumed so far.
func (d *Deserializer) Offset() int { return d.src.Offset() }

// Remaining returns the number of unread bits, -1 if the source is a stream.
func (d *Deserializer) Remaining() int { return d.src.Remaining() }

// Encoding returns the active encoding.
func (d *Deserializer) Encoding() Encoding { return d.enc }

// fail turns errors of the source into codec errors.
// Errors already of type *Error pass unchanged; others are I/O failures.
// A value cut short by the end of a stream is io.ErrUnexpectedEOF.
func (d *Deserializer) fail(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return wrapIO(d.src.Offset(), err)
}

// Bool consumes 1 bit.
func (d *Deserializer) Bool() (bool, error) {
	v, err := d.src.ReadBool()
	if err != nil {
		return false, d.fail(err)
	}
	return v, nil
}

// Uint8 consumes 8 raw bits.
func (d *Deserializer) Uint8() (uint8, error) {
	v, err := d.src.ReadByte()
	if err != nil {
		return 0, d.fail(err)
	}
	return v, nil
}

func (d *Deserializer) read(p []byte) error {
	if r := d.src.Remaining(); r >= 0 && r < len(p)*8 {
		return newError(KindOutOfRange, d.src.Offset(),
			fmt.Sprintf("need %d bits, %d remaining", len(p)*8, r))
	}
	if err := readBytes(d.src, p); err != nil {
		return d.fail(err)
	}
	return nil
}

// Uint16 reads 16 bits in the byte order of the encoding.
func (d *Deserializer) Uint16() (uint16, error) {
	var tmp [2]byte
	if err := d.read(tmp[:]); err != nil {
		return 0, err
	}
	return d.enc.Uint16(tmp[:]), nil
}

// Uint32 reads 32 bits in the byte order of the encoding.
func (d *Deserializer) Uint32() (uint32, error) {
	var tmp [4]byte
	if err := d.read(tmp[:]); err != nil {
		return 0, err
	}
	return d.enc.Uint32(tmp[:]), nil
}

// Uint64 reads 64 bits in the byte order of the encoding.
func (d *Deserializer) Uint64() (uint64, error) {
	var tmp [8]byte
	if err := d.read(tmp[:]); err != nil {
		return 0, err
	}
	return d.enc.Uint64(tmp[:]), nil
}

// Int8 reads a single byte as two's complement.
func (d *Deserializer) Int8() (int8, error) {
	v, err := d.Uint8()
	return int8(v), err
}

// Int16 reads a Uint16 as two's complement.
func (d *Deserializer) Int16() (int16, error) {
	v, err := d.Uint16()
	return int16(v), err
}

// Int32 reads a Uint32 as two's complement.
func (d *Deserializer) Int32() (int32, error) {
	v, err := d.Uint32()
	return int32(v), err
}

// Int64 reads a Uint64 as two's complement.
func (d *Deserializer) Int64() (int64, error) {
	v, err := d.Uint64()
	return int64(v), err
}

// Float32 reads a Uint32 as IEEE-754 bits.
func (d *Deserializer) Float32() (float32, error) {
	v, err := d.Uint32()
	return math.Float32frombits(v), err
}

// Float64 reads a Uint64 as IEEE-754 bits.
func (d *Deserializer) Float64() (float64, error) {
	v, err := d.Uint64()
	return math.Float64frombits(v), err
}

// Len consumes the length field of a sequence.
// Zero means the sequence is empty: no elements follow.
func (d *Deserializer) Len() (int, error) {
	n, err := d.enc.ReadLen(d.src)
	if err != nil {
		return 0, d.fail(err)
	}
	return n, nil
}

// Variant consumes the discriminant of an enum.
func (d *Deserializer) Variant() (int, error) {
	return d.Len()
}

// Bytes consumes a length field and that many raw bytes.
// It returns nil for an empty buffer.
func (d *Deserializer) Bytes() ([]byte, error) {
	n, err := d.Len()
	if err != nil || n == 0 {
		return nil, err
	}
	if r := d.src.Remaining(); r >= 0 && r/8 < n {
		return nil, newError(KindOutOfRange, d.src.Offset(),
			fmt.Sprintf("byte buffer of %d bytes exceeds %d remaining bits", n, r))
	}
	p := make([]byte, n)
	if err := d.read(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Char is not supported.
func (d *Deserializer) Char() (rune, error) { return 0, d.unsupported(Char) }

// Str is not supported.
func (d *Deserializer) Str() (string, error) { return "", d.unsupported(String) }

// Map is not supported.
func (d *Deserializer) Map() (int, error) { return 0, d.unsupported(Map) }

// Option is not supported.
func (d *Deserializer) Option() (bool, error) { return false, d.unsupported(Option) }

func (d *Deserializer) unsupported(t Type) error {
	return newError(KindUnsupported, d.src.Offset(), t.String())
}

// Unmarshal lets u read itself.
func (d *Deserializer) Unmarshal(u Unmarshaler) error {
	return u.UnmarshalBits(d)
}

// Value decodes a value of the given shape.
func (d *Deserializer) Value(s Shape) (Value, error) {
	switch s.Type {
	case Bool:
		v, err := d.Bool()
		return NewBool(v), err
	case Uint8:
		v, err := d.Uint8()
		return NewUint8(v), err
	case Uint16:
		v, err := d.Uint16()
		return NewUint16(v), err
	case Uint32:
		v, err := d.Uint32()
		return NewUint32(v), err
	case Uint64:
		v, err := d.Uint64()
		return NewUint64(v), err
	case Int8:
		v, err := d.Int8()
		return NewInt8(v), err
	case Int16:
		v, err := d.Int16()
		return NewInt16(v), err
	case Int32:
		v, err := d.Int32()
		return NewInt32(v), err
	case Int64:
		v, err := d.Int64()
		return NewInt64(v), err
	case Float32:
		v, err := d.Float32()
		return NewFloat32(v), err
	case Float64:
		v, err := d.Float64()
		return NewFloat64(v), err
	case Bytes:
		p, err := d.Bytes()
		if err != nil {
			return Value{}, err
		}
		return Value{Type: Bytes, Data: p}, nil
	case Bits:
		return d.bits(s)
	case Tuple:
		elems, err := d.values(s.Fields)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: Tuple, Elems: elems}, nil
	case Seq:
		return d.seq(s)
	case Enum:
		return d.enum(s)
	case Invalid:
		return Value{}, newError(KindMessage, d.src.Offset(), "invalid shape")
	}
	return Value{}, d.unsupported(s.Type)
}

func (d *Deserializer) bits(s Shape) (Value, error) {
	if r := d.src.Remaining(); r >= 0 && r < s.Width {
		return Value{}, newError(KindOutOfRange, d.src.Offset(),
			fmt.Sprintf("%s needs %d bits, %d remaining", s.label(), s.Width, r))
	}
	var bits []bool
	for i := 0; i < s.Width; i++ {
		b, err := d.Bool()
		if err != nil {
			return Value{}, err
		}
		bits = append(bits, b)
	}
	return Value{Type: Bits, Bits: bits}, nil
}

func (d *Deserializer) values(shapes []Shape) ([]Value, error) {
	var out []Value
	for _, f := range shapes {
		v, err := d.Value(f)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (d *Deserializer) seq(s Shape) (Value, error) {
	if s.Elem == nil {
		return Value{}, newError(KindMessage, d.src.Offset(), s.label()+": sequence without element shape")
	}
	n, err := d.Len()
	if err != nil {
		return Value{}, err
	}
	// An explicit length always wins; zero requests no elements.
	if n == 0 {
		return Value{Type: Seq}, nil
	}
	size := d.minBits(*s.Elem)
	if size == 0 && n > maxEmptyElems {
		return Value{}, newError(KindOutOfRange, d.src.Offset(),
			fmt.Sprintf("sequence of %d zero-bit %s elements exceeds limit of %d", n, s.Elem.label(), maxEmptyElems))
	}
	if r := d.src.Remaining(); size > 0 && r >= 0 && r/size < n {
		return Value{}, newError(KindOutOfRange, d.src.Offset(),
			fmt.Sprintf("sequence of %d %s exceeds %d remaining bits", n, s.Elem.label(), r))
	}
	elems := make([]Value, 0, min(n, 1024))
	for i := 0; i < n; i++ {
		v, err := d.Value(*s.Elem)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, v)
	}
	return Value{Type: Seq, Elems: elems}, nil
}

// maxEmptyElems bounds sequences whose elements encode to zero bits,
// since their length cannot be checked against the input.
const maxEmptyElems = 1 << 16

// minBits returns the fewest bits a value of shape s can encode to.
func (d *Deserializer) minBits(s Shape) int {
	switch s.Type {
	case Bytes, Seq:
		return d.enc.LenBits()
	case Bits:
		return s.Width
	case Tuple:
		n := 0
		for _, f := range s.Fields {
			n += d.minBits(f)
		}
		return n
	case Enum:
		payload := -1
		for _, v := range s.Variants {
			n := 0
			for _, f := range v.Fields {
				n += d.minBits(f)
			}
			if payload < 0 || n < payload {
				payload = n
			}
		}
		return d.enc.LenBits() + max(payload, 0)
	}
	return s.Type.bitSize()
}

func (d *Deserializer) enum(s Shape) (Value, error) {
	idx, err := d.Variant()
	if err != nil {
		return Value{}, err
	}
	if idx >= len(s.Variants) {
		return Value{}, newError(KindMessage, d.src.Offset(),
			fmt.Sprintf("%s: unknown variant %d of %d", s.label(), idx, len(s.Variants)))
	}
	payload, err := d.values(s.Variants[idx].Fields)
	if err != nil {
		return Value{}, err
	}
	return Value{Type: Enum, Variant: idx, Elems: payload}, nil
}
