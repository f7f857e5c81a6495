/*

Structured values for shape driven encoding.

*/

package bitcodec

import (
	"bytes"
	"fmt"
	"math"
)

// Value is a structured value of one of the modelled types.
// Only the fields relevant to Type are set; the constructors below keep the
// others zero so that decoded values compare equal to constructed ones.
type Value struct {
	Type Type

	Bool  bool    // Bool
	Uint  uint64  // Uint8..Uint64
	Int   int64   // Int8..Int64
	Float float64 // Float32, Float64
	Data  []byte  // Bytes

	// Elems are the fields of a Tuple, the elements of a Seq and the
	// payload fields of an Enum.
	Elems []Value

	// Variant is the discriminant of an Enum.
	Variant int

	// Bits are the bits of a Bits container.
	Bits []bool
}

// NewBool returns a Bool value.
func NewBool(v bool) Value { return Value{Type: Bool, Bool: v} }

// NewUint8 returns a Uint8 value.
func NewUint8(v uint8) Value { return Value{Type: Uint8, Uint: uint64(v)} }

// NewUint16 returns a Uint16 value.
func NewUint16(v uint16) Value { return Value{Type: Uint16, Uint: uint64(v)} }

// NewUint32 returns a Uint32 value.
func NewUint32(v uint32) Value { return Value{Type: Uint32, Uint: uint64(v)} }

// NewUint64 returns a Uint64 value.
func NewUint64(v uint64) Value { return Value{Type: Uint64, Uint: v} }

// NewInt8 returns an Int8 value.
func NewInt8(v int8) Value { return Value{Type: Int8, Int: int64(v)} }

// NewInt16 returns an Int16 value.
func NewInt16(v int16) Value { return Value{Type: Int16, Int: int64(v)} }

// NewInt32 returns an Int32 value.
func NewInt32(v int32) Value { return Value{Type: Int32, Int: int64(v)} }

// NewInt64 returns an Int64 value.
func NewInt64(v int64) Value { return Value{Type: Int64, Int: v} }

// NewFloat32 returns a Float32 value.
func NewFloat32(v float32) Value { return Value{Type: Float32, Float: float64(v)} }

// NewFloat64 returns a Float64 value.
func NewFloat64(v float64) Value { return Value{Type: Float64, Float: v} }

// NewTuple returns a Tuple of the given fields.
func NewTuple(fields ...Value) Value { return Value{Type: Tuple, Elems: nilIfEmpty(fields)} }

// NewSeq returns a Seq of the given elements.
func NewSeq(elems ...Value) Value { return Value{Type: Seq, Elems: nilIfEmpty(elems)} }

// NewBytes returns a Bytes value holding a copy of p.
func NewBytes(p []byte) Value {
	if len(p) == 0 {
		return Value{Type: Bytes}
	}
	return Value{Type: Bytes, Data: append([]byte(nil), p...)}
}

// NewEnum returns the variant with discriminant index and the given payload.
func NewEnum(index int, payload ...Value) Value {
	return Value{Type: Enum, Variant: index, Elems: nilIfEmpty(payload)}
}

// NewBits returns a Bits container value holding the given bits.
func NewBits(bits ...bool) Value {
	if len(bits) == 0 {
		return Value{Type: Bits}
	}
	return Value{Type: Bits, Bits: append([]bool(nil), bits...)}
}

func nilIfEmpty(v []Value) []Value {
	if len(v) == 0 {
		return nil
	}
	return v
}

// Equal reports whether two values are of the same type and hold the same
// data. Floats are compared by their bits, so NaN equals itself.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case Bool:
		return v.Bool == o.Bool
	case Uint8, Uint16, Uint32, Uint64:
		return v.Uint == o.Uint
	case Int8, Int16, Int32, Int64:
		return v.Int == o.Int
	case Float32:
		return math.Float32bits(float32(v.Float)) == math.Float32bits(float32(o.Float))
	case Float64:
		return math.Float64bits(v.Float) == math.Float64bits(o.Float)
	case Bytes:
		return bytes.Equal(v.Data, o.Data)
	case Bits:
		if len(v.Bits) != len(o.Bits) {
			return false
		}
		for i := range v.Bits {
			if v.Bits[i] != o.Bits[i] {
				return false
			}
		}
		return true
	case Enum:
		if v.Variant != o.Variant {
			return false
		}
	}
	if len(v.Elems) != len(o.Elems) {
		return false
	}
	for i := range v.Elems {
		if !v.Elems[i].Equal(o.Elems[i]) {
			return false
		}
	}
	return true
}

func (v Value) String() string {
	switch v.Type {
	case Bool:
		return fmt.Sprint(v.Bool)
	case Uint8, Uint16, Uint32, Uint64:
		return fmt.Sprintf("%d%s", v.Uint, v.Type)
	case Int8, Int16, Int32, Int64:
		return fmt.Sprintf("%d%s", v.Int, v.Type)
	case Float32, Float64:
		return fmt.Sprintf("%g%s", v.Float, v.Type)
	case Bytes:
		return fmt.Sprintf("bytes(%x)", v.Data)
	case Bits:
		b := make([]byte, len(v.Bits))
		for i, bit := range v.Bits {
			b[i] = '0'
			if bit {
				b[i] = '1'
			}
		}
		return "bits(" + string(b) + ")"
	case Tuple:
		return fmt.Sprintf("%v", v.Elems)
	case Seq:
		return fmt.Sprintf("seq%v", v.Elems)
	case Enum:
		return fmt.Sprintf("variant%d%v", v.Variant, v.Elems)
	}
	return v.Type.String()
}
