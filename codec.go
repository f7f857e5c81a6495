/*

Codec: configuration and top level entry points.

*/

package bitcodec

import (
	"io"

	"github.com/rs/zerolog"
)

// Config fixes everything both sides of an exchange must agree on.
type Config struct {
	Layout   Layout
	Encoding Encoding

	// Logger receives trace and debug events. Nil disables logging.
	Logger *zerolog.Logger
}

// DefaultConfig returns the reference configuration: LSB-first bits in
// 8-bit words, little-endian primitives and 32-bit length fields.
func DefaultConfig() Config {
	return Config{Layout: DefaultLayout, Encoding: LittleEndian}
}

// Codec serializes and deserializes values under a fixed Config.
// A Codec is immutable and safe for concurrent use.
type Codec struct {
	layout Layout
	enc    Encoding
	log    zerolog.Logger
}

// NewCodec validates cfg and returns a Codec for it.
func NewCodec(cfg Config) (*Codec, error) {
	if err := cfg.Layout.Validate(); err != nil {
		return nil, err
	}
	if err := validateEncoding(cfg.Encoding); err != nil {
		return nil, err
	}
	c := &Codec{layout: cfg.Layout, enc: cfg.Encoding, log: zerolog.Nop()}
	if cfg.Logger != nil {
		c.log = cfg.Logger.With().Str("layout", cfg.Layout.String()).Str("encoding", cfg.Encoding.Name()).Logger()
	}
	return c, nil
}

func validateEncoding(enc Encoding) error {
	switch e := enc.(type) {
	case nil:
		return newError(KindMessage, -1, "nil encoding")
	case EndianEncoding:
		return e.validate()
	case *EndianEncoding:
		if e == nil {
			return newError(KindMessage, -1, "nil encoding")
		}
		return e.validate()
	}
	return validLenBits(enc.LenBits())
}

var defaultCodec, _ = NewCodec(DefaultConfig())

// Default returns the codec of DefaultConfig.
func Default() *Codec { return defaultCodec }

// Layout returns the layout of the codec.
func (c *Codec) Layout() Layout { return c.layout }

// Encoding returns the encoding of the codec.
func (c *Codec) Encoding() Encoding { return c.enc }

// View returns a buffer over data in the codec's layout, without copying.
func (c *Codec) View(data []byte) *BitBuffer { return View(data, c.layout) }

func (c *Codec) checkLayout(b *BitBuffer) error {
	if b.layout != c.layout {
		return newError(KindMessage, 0, "buffer layout "+b.layout.String()+" does not match codec layout "+c.layout.String())
	}
	return nil
}

// Marshal serializes m into a new buffer.
// On error the partially written buffer is discarded.
func (c *Codec) Marshal(m Marshaler) (*BitBuffer, error) {
	s := NewSerializer(c.layout, c.enc)
	if err := s.Marshal(m); err != nil {
		c.log.Debug().Err(err).Int("offset", s.buf.Len()).Msg("marshal failed")
		return nil, err
	}
	c.log.Trace().Int("bits", s.buf.Len()).Msg("marshal")
	return s.buf, nil
}

// Unmarshal deserializes u from bits. Trailing bits are left unread.
func (c *Codec) Unmarshal(bits *BitBuffer, u Unmarshaler) error {
	if err := c.checkLayout(bits); err != nil {
		return err
	}
	cur := NewCursor(bits)
	if err := NewDeserializer(cur, c.enc).Unmarshal(u); err != nil {
		c.log.Debug().Err(err).Int("offset", cur.Offset()).Msg("unmarshal failed")
		return err
	}
	c.log.Trace().Int("bits", cur.Offset()).Int("remaining", cur.Remaining()).Msg("unmarshal")
	return nil
}

// UnmarshalBytes deserializes u from data viewed in the codec's layout.
func (c *Codec) UnmarshalBytes(data []byte, u Unmarshaler) error {
	return c.Unmarshal(c.View(data), u)
}

// Encode serializes v into a new buffer.
func (c *Codec) Encode(v Value) (*BitBuffer, error) {
	s := NewSerializer(c.layout, c.enc)
	if err := s.Value(v); err != nil {
		c.log.Debug().Err(err).Str("type", v.Type.String()).Msg("encode failed")
		return nil, err
	}
	c.log.Trace().Int("bits", s.buf.Len()).Str("type", v.Type.String()).Msg("encode")
	return s.buf, nil
}

// Decode deserializes a value of shape s from bits.
func (c *Codec) Decode(bits *BitBuffer, s Shape) (Value, error) {
	if err := c.checkLayout(bits); err != nil {
		return Value{}, err
	}
	if err := s.Validate(); err != nil {
		return Value{}, err
	}
	cur := NewCursor(bits)
	v, err := NewDeserializer(cur, c.enc).Value(s)
	if err != nil {
		c.log.Debug().Err(err).Int("offset", cur.Offset()).Str("shape", s.String()).Msg("decode failed")
		return Value{}, err
	}
	c.log.Trace().Int("bits", cur.Offset()).Str("shape", s.String()).Msg("decode")
	return v, nil
}

// Marshal serializes m with the default codec.
func Marshal(m Marshaler) (*BitBuffer, error) { return defaultCodec.Marshal(m) }

// Unmarshal deserializes u from data with the default codec.
func Unmarshal(data []byte, u Unmarshaler) error { return defaultCodec.UnmarshalBytes(data, u) }

// Encoder writes values to an output stream.
// Each value starts at a word boundary; the bits after its end up to the
// next boundary are zero. A value of zero bits leaves no trace in the stream.
type Encoder struct {
	c *Codec
	w *Writer
}

// NewEncoder returns an encoder writing to w.
func (c *Codec) NewEncoder(w io.Writer) *Encoder {
	return &Encoder{c: c, w: NewWriter(w, c.layout)}
}

func (e *Encoder) write(b *BitBuffer) error {
	if err := e.w.WriteBuffer(b); err != nil {
		return wrapIO(e.w.Offset(), err)
	}
	if _, err := e.w.Align(); err != nil {
		return wrapIO(e.w.Offset(), err)
	}
	return nil
}

// Encode writes m to the stream.
func (e *Encoder) Encode(m Marshaler) error {
	b, err := e.c.Marshal(m)
	if err != nil {
		return err
	}
	return e.write(b)
}

// EncodeValue writes v to the stream.
func (e *Encoder) EncodeValue(v Value) error {
	b, err := e.c.Encode(v)
	if err != nil {
		return err
	}
	return e.write(b)
}

// Decoder reads values from an input stream written by an Encoder.
type Decoder struct {
	c *Codec
	r *Reader
}

// NewDecoder returns a decoder reading from r.
func (c *Codec) NewDecoder(r io.Reader) *Decoder {
	return &Decoder{c: c, r: NewReader(r, c.layout)}
}

// begin reports io.EOF if the stream ends cleanly before the next value.
func (d *Decoder) begin() error {
	eof, err := d.r.atEOF()
	if err != nil {
		return wrapIO(d.r.Offset(), err)
	}
	if eof {
		return io.EOF
	}
	return nil
}

// Decode reads the next value into u.
// It returns io.EOF if there are no more values.
func (d *Decoder) Decode(u Unmarshaler) error {
	if err := d.begin(); err != nil {
		return err
	}
	start := d.r.Offset()
	if err := NewDeserializer(d.r, d.c.enc).Unmarshal(u); err != nil {
		d.c.log.Debug().Err(err).Int("offset", d.r.Offset()).Msg("stream decode failed")
		return err
	}
	bits := d.r.Offset() - start
	padding := d.r.Align()
	d.c.log.Trace().Int("bits", bits).Uint8("padding", padding).Msg("stream decode")
	return nil
}

// DecodeValue reads the next value of shape s.
// It returns io.EOF if there are no more values.
func (d *Decoder) DecodeValue(s Shape) (Value, error) {
	if err := s.Validate(); err != nil {
		return Value{}, err
	}
	if err := d.begin(); err != nil {
		return Value{}, err
	}
	v, err := NewDeserializer(d.r, d.c.enc).Value(s)
	if err != nil {
		d.c.log.Debug().Err(err).Int("offset", d.r.Offset()).Str("shape", s.String()).Msg("stream decode failed")
		return Value{}, err
	}
	d.r.Align()
	return v, nil
}
