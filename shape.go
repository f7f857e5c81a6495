/*

Shape and value definitions: the closed set of shapes the codec models.

*/

package bitcodec

import (
	"fmt"
	"strings"
)

// Type is the kind of a Shape or Value.
type Type uint8

const (
	Invalid Type = iota
	Bool
	Uint8
	Uint16
	Uint32
	Uint64
	Int8
	Int16
	Int32
	Int64
	Float32
	Float64
	// Bytes is an opaque byte buffer with a length prefix.
	Bytes
	// Tuple is a fixed-arity record; fields have no framing.
	Tuple
	// Seq is a variable-length sequence with a length prefix.
	Seq
	// Enum is a discriminant followed by the payload of that variant.
	Enum
	// Bits is a fixed-width container of single bits, no length prefix.
	Bits

	// The following are recognized only to be rejected with KindUnsupported.

	Char
	String
	Map
	Option
)

var typeNames = [...]string{
	Invalid: "invalid",
	Bool:    "bool",
	Uint8:   "u8",
	Uint16:  "u16",
	Uint32:  "u32",
	Uint64:  "u64",
	Int8:    "i8",
	Int16:   "i16",
	Int32:   "i32",
	Int64:   "i64",
	Float32: "f32",
	Float64: "f64",
	Bytes:   "bytes",
	Tuple:   "tuple",
	Seq:     "seq",
	Enum:    "enum",
	Bits:    "bits",
	Char:    "char",
	String:  "string",
	Map:     "map",
	Option:  "option",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Supported reports whether the codec can encode values of type t.
func (t Type) Supported() bool {
	return t > Invalid && t <= Bits
}

// bitSize returns the encoded size of a fixed-width primitive, 0 otherwise.
func (t Type) bitSize() int {
	switch t {
	case Bool:
		return 1
	case Uint8, Int8:
		return 8
	case Uint16, Int16:
		return 16
	case Uint32, Int32, Float32:
		return 32
	case Uint64, Int64, Float64:
		return 64
	}
	return 0
}

// Shape describes the structure a Deserializer reconstructs.
type Shape struct {
	Type Type
	// Name is used in error messages only.
	Name string
	// Elem is the element shape of a Seq.
	Elem *Shape
	// Fields are the fields of a Tuple.
	Fields []Shape
	// Variants are the variants of an Enum, indexed by discriminant.
	Variants []Variant
	// Width is the number of bits of a Bits container.
	Width int
}

// Variant is one variant of an Enum shape.
// Zero fields is a unit variant, one field a newtype variant, more fields a
// tuple or struct variant.
type Variant struct {
	Name   string
	Fields []Shape
}

// Prim returns the shape of a primitive type.
func Prim(t Type) Shape { return Shape{Type: t} }

// TupleOf returns the shape of a fixed-arity record.
func TupleOf(fields ...Shape) Shape { return Shape{Type: Tuple, Fields: fields} }

// SeqOf returns the shape of a sequence of elem.
func SeqOf(elem Shape) Shape { return Shape{Type: Seq, Elem: &elem} }

// EnumOf returns the shape of an enum with the given variants.
func EnumOf(variants ...Variant) Shape { return Shape{Type: Enum, Variants: variants} }

// BitsOf returns the shape of a container of width bits.
func BitsOf(width int) Shape { return Shape{Type: Bits, Width: width} }

// Named returns a copy of s carrying a name for error messages.
func (s Shape) Named(name string) Shape {
	s.Name = name
	return s
}

// Validate checks that the shape is complete and only uses supported types.
func (s Shape) Validate() error {
	switch s.Type {
	case Tuple:
		for i, f := range s.Fields {
			if err := f.Validate(); err != nil {
				return fmt.Errorf("%s field %d: %w", s.label(), i, err)
			}
		}
	case Seq:
		if s.Elem == nil {
			return newError(KindMessage, -1, s.label()+": sequence without element shape")
		}
		return s.Elem.Validate()
	case Enum:
		if len(s.Variants) == 0 {
			return newError(KindMessage, -1, s.label()+": enum without variants")
		}
		for _, v := range s.Variants {
			for i, f := range v.Fields {
				if err := f.Validate(); err != nil {
					return fmt.Errorf("%s variant %s field %d: %w", s.label(), v.Name, i, err)
				}
			}
		}
	case Bits:
		if s.Width < 0 {
			return newError(KindMessage, -1, fmt.Sprintf("%s: negative width %d", s.label(), s.Width))
		}
	case Invalid:
		return newError(KindMessage, -1, "invalid shape")
	default:
		if !s.Type.Supported() {
			return newError(KindUnsupported, -1, s.label())
		}
	}
	return nil
}

func (s Shape) label() string {
	if s.Name != "" {
		return s.Name + " (" + s.Type.String() + ")"
	}
	return s.Type.String()
}

func (s Shape) String() string {
	var sb strings.Builder
	s.format(&sb)
	return sb.String()
}

func (s Shape) format(sb *strings.Builder) {
	switch s.Type {
	case Tuple:
		sb.WriteByte('(')
		for i, f := range s.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			f.format(sb)
		}
		sb.WriteByte(')')
	case Seq:
		sb.WriteByte('[')
		if s.Elem != nil {
			s.Elem.format(sb)
		}
		sb.WriteByte(']')
	case Enum:
		sb.WriteString("enum{")
		for i, v := range s.Variants {
			if i > 0 {
				sb.WriteString(" | ")
			}
			sb.WriteString(v.Name)
			if len(v.Fields) > 0 {
				TupleOf(v.Fields...).format(sb)
			}
		}
		sb.WriteByte('}')
	case Bits:
		fmt.Fprintf(sb, "bits<%d>", s.Width)
	default:
		sb.WriteString(s.Type.String())
	}
}
