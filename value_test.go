package bitcodec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueRoundTrip(t *testing.T) {
	cases := []struct {
		v     Value
		shape Shape
		bits  int
	}{
		{NewBool(true), Prim(Bool), 1},
		{NewUint8(0xfe), Prim(Uint8), 8},
		{NewUint16(0xfeed), Prim(Uint16), 16},
		{NewUint32(0xdeadbeef), Prim(Uint32), 32},
		{NewUint64(math.MaxUint64), Prim(Uint64), 64},
		{NewInt8(-128), Prim(Int8), 8},
		{NewInt16(-2), Prim(Int16), 16},
		{NewInt32(math.MinInt32), Prim(Int32), 32},
		{NewInt64(-1234567890123), Prim(Int64), 64},
		{NewFloat32(-0.25), Prim(Float32), 32},
		{NewFloat64(math.Inf(-1)), Prim(Float64), 64},
		{NewFloat64(math.NaN()), Prim(Float64), 64},
		{NewBytes([]byte("hello")), Prim(Bytes), 32 + 40},
		{NewBits(true, true, false), BitsOf(3), 3},
		{NewBits(), BitsOf(0), 0},
		{NewTuple(), TupleOf(), 0},
		{
			NewTuple(NewBool(false), NewSeq(NewInt16(1), NewInt16(-1)), NewEnum(2)),
			TupleOf(Prim(Bool), SeqOf(Prim(Int16)), EnumOf(Variant{Name: "A"}, Variant{Name: "B"}, Variant{Name: "C"})),
			1 + 32 + 32 + 32,
		},
		{
			NewSeq(NewSeq(NewBytes(nil)), NewSeq()),
			SeqOf(SeqOf(Prim(Bytes))),
			32 + (32 + 32) + 32,
		},
	}

	for _, layout := range allLayouts {
		for _, enc := range []Encoding{LittleEndian, BigEndian} {
			c, err := NewCodec(Config{Layout: layout, Encoding: enc})
			require.NoError(t, err)

			for _, tc := range cases {
				b, err := c.Encode(tc.v)
				require.NoError(t, err, tc.v.String())
				require.Equal(t, tc.bits, b.Len(), tc.v.String())

				got, err := c.Decode(b, tc.shape)
				require.NoError(t, err, tc.v.String())
				require.True(t, got.Equal(tc.v), "%s %s: got %s, want %s", layout, enc.Name(), got, tc.v)
			}
		}
	}
}

func TestValueEqual(t *testing.T) {
	require.True(t, NewFloat64(math.NaN()).Equal(NewFloat64(math.NaN())))
	require.False(t, NewFloat64(0).Equal(NewFloat64(math.Copysign(0, -1))))
	require.False(t, NewUint8(1).Equal(NewUint16(1)))
	require.False(t, NewEnum(0).Equal(NewEnum(1)))
	require.False(t, NewSeq(NewBool(true)).Equal(NewSeq()))
	require.True(t, NewBytes([]byte{}).Equal(NewBytes(nil)))
	require.False(t, NewBits(true).Equal(NewBits(false)))
}

func TestValueString(t *testing.T) {
	require.Equal(t, "true", NewBool(true).String())
	require.Equal(t, "7u16", NewUint16(7).String())
	require.Equal(t, "-3i32", NewInt32(-3).String())
	require.Equal(t, "bits(101)", NewBits(true, false, true).String())
	require.Equal(t, "bytes(0102)", NewBytes([]byte{1, 2}).String())
	require.Equal(t, "variant1[5u8]", NewEnum(1, NewUint8(5)).String())
	require.Equal(t, "seq[true false]", NewSeq(NewBool(true), NewBool(false)).String())
}

func TestShapeString(t *testing.T) {
	s := TupleOf(
		Prim(Uint8),
		SeqOf(BitsOf(7)),
		EnumOf(Variant{Name: "Off"}, Variant{Name: "On", Fields: []Shape{Prim(Uint32), Prim(Bool)}}),
	)
	require.Equal(t, "(u8, [bits<7>], enum{Off | On(u32, bool)})", s.String())
	require.NoError(t, s.Validate())
}

func TestShapeValidate(t *testing.T) {
	require.ErrorIs(t, Shape{}.Validate(), ErrMessage)
	require.ErrorIs(t, Shape{Type: Seq}.Validate(), ErrMessage)
	require.ErrorIs(t, EnumOf().Validate(), ErrMessage)
	require.ErrorIs(t, BitsOf(-1).Validate(), ErrMessage)
	require.ErrorIs(t, TupleOf(Prim(Bool), Prim(String)).Validate(), ErrUnsupported)

	err := EnumOf(Variant{Name: "V", Fields: []Shape{Prim(Map)}}).Named("Mode").Validate()
	require.ErrorIs(t, err, ErrUnsupported)
	require.Contains(t, err.Error(), "Mode (enum) variant V field 0")

	require.True(t, Bits.Supported())
	require.False(t, Option.Supported())
	require.False(t, Invalid.Supported())
}
