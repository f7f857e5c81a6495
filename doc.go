/*

Package bitcodec is a bit-granular binary codec.

It converts structured values into a densely packed sequence of bits and back.
Fields may be narrower than a byte (a bool is exactly 1 bit, a Container[Width7]
is 7 bits), and every field is written right after the previous one, with no
padding.

Three things must match between the writer and the reader of the same bits:
the Layout (bit order and storage word width), the Encoding (byte order of
multi-byte numbers and the width of length fields) and the shape of the value.
Nothing about them is written to the output.

Wire format

With the reference configuration (DefaultConfig: LSB-first, 8-bit words,
little-endian, 32-bit lengths):

    bool            1 bit
    u8              8 bits, verbatim
    other numbers   W bytes in Encoding byte order
    bytes           length field + raw bytes
    tuple/record    fields in order, no framing
    sequence        length field + elements
    enum            discriminant (a length field) + payload fields
    Container[N]    N bits, no length field

For example eight booleans true, true, false, false, false, true, false, false
pack into the single byte 0x23:

    b, err := bitcodec.Default().Encode(bitcodec.NewTuple(
        bitcodec.NewBool(true), bitcodec.NewBool(true), bitcodec.NewBool(false), bitcodec.NewBool(false),
        bitcodec.NewBool(false), bitcodec.NewBool(true), bitcodec.NewBool(false), bitcodec.NewBool(false),
    ))
    // b.Bytes() is []byte{0x23}

Describing values

There is no reflection. A type either implements Marshaler and Unmarshaler and
calls the Serializer / Deserializer methods field by field, or it is expressed
as a Value and decoded against a Shape:

    type point struct {
        x, y int16
        on   bool
    }

    func (p point) MarshalBits(s *bitcodec.Serializer) error {
        if err := s.Int16(p.x); err != nil {
            return err
        }
        if err := s.Int16(p.y); err != nil {
            return err
        }
        return s.Bool(p.on)
    }

    func (p *point) UnmarshalBits(d *bitcodec.Deserializer) (err error) {
        if p.x, err = d.Int16(); err != nil {
            return
        }
        if p.y, err = d.Int16(); err != nil {
            return
        }
        p.on, err = d.Bool()
        return
    }

Sequences are written with Serializer.Len followed by the elements and read
with Deserializer.Len; enums with Serializer.Variant and Deserializer.Variant.
A length of zero means the sequence is empty.

Streams

Encoder and Decoder write and read a series of values on an io.Writer /
io.Reader, each value starting at a word boundary. Writer and Reader are the
underlying bit-level stream types; with MSBFirst and 8-bit words they produce
the common highest-bits-first bit stream.

*/
package bitcodec
