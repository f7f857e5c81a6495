package bitcodec

import (
	"bytes"
	"math/rand"
	"testing"
	"time"
)

var msb8 = Layout{Order: MSBFirst, Word: Word8}

var allLayouts = []Layout{
	{LSBFirst, Word8}, {LSBFirst, Word16}, {LSBFirst, Word32}, {LSBFirst, Word64},
	{MSBFirst, Word8}, {MSBFirst, Word16}, {MSBFirst, Word32}, {MSBFirst, Word64},
}

func TestReader(t *testing.T) {
	data := []byte{3, 255, 0xcc, 0x1a, 0xbc, 0xde, 0x80, 0x01, 0x02, 0xf8, 0x08, 0xf0}

	r := NewReader(bytes.NewBuffer(data), msb8)

	if b, err := r.ReadByte(); b != 3 || err != nil {
		t.Errorf("Got %x, want %x, error: %v", b, 3, err)
	}
	if i, err := r.ReadBits(8); i != 255 || err != nil {
		t.Errorf("Got %x, want %x, error: %v", i, 255, err)
	}

	if i, err := r.ReadBits(4); i != 0xc || err != nil {
		t.Errorf("Got %x, want %x, error: %v", i, 0xc, err)
	}

	if i, err := r.ReadBits(8); i != 0xc1 || err != nil {
		t.Errorf("Got %x, want %x, error: %v", i, 0xc1, err)
	}

	if i, err := r.ReadBits(20); i != 0xabcde || err != nil {
		t.Errorf("Got %x, want %x, error: %v", i, 0xabcde, err)
	}

	if b, err := r.ReadBool(); !b || err != nil {
		t.Errorf("Got %v, want %v, error: %v", b, true, err)
	}
	if b, err := r.ReadBool(); b || err != nil {
		t.Errorf("Got %v, want %v, error: %v", b, false, err)
	}

	if n := r.Align(); n != 6 {
		t.Errorf("Got %v, want %v", n, 6)
	}

	s := make([]byte, 2)
	if n, err := r.Read(s); n != 2 || err != nil || !bytes.Equal(s, []byte{0x01, 0x02}) {
		t.Errorf("Got %v, want %v, error: %v", s, []byte{0x01, 0x02}, err)
	}

	if i, err := r.ReadBits(4); i != 0xf || err != nil {
		t.Errorf("Got %x, want %x, error: %v", i, 0xf, err)
	}

	if n, err := r.Read(s); n != 2 || err != nil || !bytes.Equal(s, []byte{0x80, 0x8f}) {
		t.Errorf("Got %v, want %v, error: %v", s, []byte{0x80, 0x8f}, err)
	}
}

func TestReaderLSB(t *testing.T) {
	// 0x8f = 10001111, 0x55 = 01010101
	r := NewReader(bytes.NewReader([]byte{0x8f, 0x55}), DefaultLayout)

	if i, err := r.ReadBits(4); i != 0xf || err != nil {
		t.Errorf("Got %x, want %x, error: %v", i, 0xf, err)
	}
	if i, err := r.ReadBits(8); i != 0x58 || err != nil {
		t.Errorf("Got %x, want %x, error: %v", i, 0x58, err)
	}
	if b, err := r.ReadBool(); !b || err != nil {
		t.Errorf("Got %v, want %v, error: %v", b, true, err)
	}
	if b, err := r.ReadBool(); b || err != nil {
		t.Errorf("Got %v, want %v, error: %v", b, false, err)
	}
}

func TestWriter(t *testing.T) {
	b := &bytes.Buffer{}

	w := NewWriter(b, msb8)

	expected := []byte{0xc1, 0x7f, 0xac, 0x89, 0x24, 0x78, 0x01, 0x02, 0xf8, 0x08, 0xf0}

	errs := []error{}
	errs = append(errs, w.WriteByte(0xc1))
	errs = append(errs, w.WriteBool(false))
	errs = append(errs, w.WriteBits(0x3f, 6))
	errs = append(errs, w.WriteBool(true))
	errs = append(errs, w.WriteByte(0xac))
	errs = append(errs, w.WriteBits(0x01, 1))
	errs = append(errs, w.WriteBits(0x1248f, 20))

	if n, err := w.Align(); n != 3 || err != nil {
		t.Errorf("Got %x, want %x, error: %v", n, 3, err)
	}

	if n, err := w.Write([]byte{0x01, 0x02}); n != 2 || err != nil {
		t.Errorf("Got %x, want %x, error: %v", n, 2, err)
	}

	errs = append(errs, w.WriteBits(0x0f, 4))

	if n, err := w.Write([]byte{0x80, 0x8f}); n != 2 || err != nil {
		t.Errorf("Got %x, want %x, error: %v", n, 2, err)
	}

	if n, err := w.Align(); n != 4 || err != nil {
		t.Errorf("Got %x, want %x, error: %v", n, 4, err)
	}
	if n, err := w.Align(); n != 0 || err != nil {
		t.Errorf("Got %x, want %x, error: %v", n, 0, err)
	}

	errs = append(errs, w.Close())

	for _, v := range errs {
		if v != nil {
			t.Error("Got error:", v)
		}
	}

	if !bytes.Equal(b.Bytes(), expected) {
		t.Errorf("Got: %x, want: %x", b.Bytes(), expected)
	}
}

func TestWriterWideWords(t *testing.T) {
	b := &bytes.Buffer{}
	w := NewWriter(b, Layout{Order: MSBFirst, Word: Word16})

	// First bit lands in bit 15 of the word, which is the high bit of byte 1.
	if err := w.WriteBool(true); err != nil {
		t.Error("Got error:", err)
	}
	if n, err := w.Align(); n != 15 || err != nil {
		t.Errorf("Got %d, want %d, error: %v", n, 15, err)
	}
	if exp := []byte{0x00, 0x80}; !bytes.Equal(b.Bytes(), exp) {
		t.Errorf("Got: %x, want: %x", b.Bytes(), exp)
	}
}

func TestChain(t *testing.T) {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, layout := range allLayouts {
		b := &bytes.Buffer{}
		w := NewWriter(b, layout)
		buf := New(layout)

		expected := make([]uint64, 10000)
		bits := make([]byte, len(expected))

		// Writing (generating)
		for i := range expected {
			expected[i] = uint64(rnd.Int63())
			bits[i] = byte(1 + rnd.Int31n(60))
			expected[i] &= uint64(1)<<bits[i] - 1
			w.WriteBits(expected[i], bits[i])
			buf.PushBits(expected[i], int(bits[i]))
		}
		if err := w.Close(); err != nil {
			t.Error("Got error:", err)
		}

		if !bytes.Equal(b.Bytes(), buf.Bytes()) {
			t.Errorf("Layout %s: stream and buffer storage differ", layout)
		}

		r := NewReader(bytes.NewBuffer(b.Bytes()), layout)
		c := NewCursor(buf)

		// Reading (verifying)
		for i, v := range expected {
			if u, err := r.ReadBits(int(bits[i])); u != v || err != nil {
				t.Errorf("Layout %s, Idx: %d, Got: %x, want: %x, bits: %d, error: %v", layout, i, u, v, bits[i], err)
				break
			}
			if u, err := c.ReadBits(int(bits[i])); u != v || err != nil {
				t.Errorf("Layout %s, Idx: %d, Got: %x, want: %x, bits: %d, error: %v", layout, i, u, v, bits[i], err)
				break
			}
		}
	}
}

func TestWriteBuffer(t *testing.T) {
	for _, layout := range allLayouts {
		buf := New(layout)
		buf.PushBits(0x2a5, 10)
		buf.PushBytes([]byte{0xde, 0xad, 0xbe, 0xef, 0x01, 0x02, 0x03, 0x04, 0x05})

		// aligned: whole words are copied
		b := &bytes.Buffer{}
		w := NewWriter(b, layout)
		if err := w.WriteBuffer(buf); err != nil {
			t.Error("Got error:", err)
		}
		if err := w.Close(); err != nil {
			t.Error("Got error:", err)
		}
		if !bytes.Equal(b.Bytes(), buf.Bytes()) {
			t.Errorf("Layout %s: Got: %x, want: %x", layout, b.Bytes(), buf.Bytes())
		}

		// unaligned: bit by bit after a leading bit
		b.Reset()
		w = NewWriter(b, layout)
		w.WriteBool(true)
		if err := w.WriteBuffer(buf); err != nil {
			t.Error("Got error:", err)
		}
		if err := w.Close(); err != nil {
			t.Error("Got error:", err)
		}
		exp := FromBits(layout, true)
		exp.Append(buf)
		if !bytes.Equal(b.Bytes(), exp.Bytes()) {
			t.Errorf("Layout %s: Got: %x, want: %x", layout, b.Bytes(), exp.Bytes())
		}
	}

	w := NewWriter(&bytes.Buffer{}, msb8)
	if err := w.WriteBuffer(New(DefaultLayout)); err == nil {
		t.Error("Expected layout mismatch error")
	}
}
