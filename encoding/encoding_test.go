package encoding

import (
	"iter"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tsmodel/datatype"
	"github.com/arloliu/tsmodel/errs"
	"github.com/arloliu/tsmodel/format"
)

func collect[T any](seq iter.Seq[T]) []T {
	var out []T
	for v := range seq {
		out = append(out, v)
	}

	return out
}

func TestDeltaEncoder_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		values []int64
	}{
		{"starts at zero", []int64{0, 1, 2, 3, 4}},
		{"single", []int64{42}},
		{"regular interval", []int64{1000, 2000, 3000, 4000, 5000}},
		{"negative", []int64{-5, -10, 3, -100000, 7}},
		{"extremes", []int64{math.MinInt64, 0, math.MaxInt64, -1}},
		{"duplicates", []int64{7, 7, 7, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewDeltaEncoder()
			defer e.Finish()

			e.WriteSlice(tt.values)
			require.Equal(t, len(tt.values), e.Len())
			require.Equal(t, len(e.Bytes()), e.Size())

			got := collect(NewDeltaDecoder().All(e.Bytes(), len(tt.values)))
			require.Equal(t, tt.values, got)
		})
	}
}

func TestDeltaEncoder_RegularIntervalIsCompact(t *testing.T) {
	e := NewDeltaEncoder()
	defer e.Finish()

	for i := range 100 {
		e.Write(int64(i) * 10)
	}

	// one byte for the first value, one for the delta, then one per zero delta-of-delta
	require.Equal(t, 100, e.Size())
}

func TestDeltaEncoder_FinishResets(t *testing.T) {
	e := NewDeltaEncoder()
	e.WriteSlice([]int64{5, 6})
	e.Finish()

	e.WriteSlice([]int64{0, 100})
	defer e.Finish()

	require.Equal(t, 2, e.Len())
	require.Equal(t, []int64{0, 100}, collect(NewDeltaDecoder().All(e.Bytes(), 2)))
}

func TestDeltaDecoder_At(t *testing.T) {
	data := EncodeTimestamps([]int64{10, 20, 35, 50})
	d := NewDeltaDecoder()

	v, ok := d.At(data, 2, 4)
	require.True(t, ok)
	require.Equal(t, int64(35), v)

	_, ok = d.At(data, 4, 4)
	require.False(t, ok)
	_, ok = d.At(data, -1, 4)
	require.False(t, ok)
}

func TestDeltaDecoder_Truncated(t *testing.T) {
	data := EncodeTimestamps([]int64{1, 2, 3})
	got := collect(NewDeltaDecoder().All(data[:2], 3))
	require.Len(t, got, 2)
}

func TestIntPlain_Widths(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		values []int64
	}{
		{"bool", 1, []int64{0, 1, 1, 0}},
		{"int32", 4, []int64{math.MinInt32, -1, 0, math.MaxInt32}},
		{"int64", 8, []int64{math.MinInt64, -1, 0, math.MaxInt64}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewIntPlainEncoder(tt.width)
			require.NoError(t, err)
			defer e.Finish()

			e.WriteSlice(tt.values)
			require.Equal(t, tt.width*len(tt.values), e.Size())
			require.Equal(t, tt.values, collect(NewIntPlainDecoder(tt.width).All(e.Bytes(), len(tt.values))))
		})
	}

	_, err := NewIntPlainEncoder(2)
	require.Error(t, err)
}

func TestFloatPlain_Widths(t *testing.T) {
	e4, err := NewFloatPlainEncoder(4)
	require.NoError(t, err)
	defer e4.Finish()
	e4.WriteSlice([]float64{1.5, -2.25, float64(float32(0.1))})
	require.Equal(t, 12, e4.Size())
	require.Equal(t, []float64{1.5, -2.25, float64(float32(0.1))}, collect(NewFloatPlainDecoder(4).All(e4.Bytes(), 3)))

	e8, err := NewFloatPlainEncoder(8)
	require.NoError(t, err)
	defer e8.Finish()
	e8.WriteSlice([]float64{0.1, math.MaxFloat64, -math.SmallestNonzeroFloat64})
	require.Equal(t, []float64{0.1, math.MaxFloat64, -math.SmallestNonzeroFloat64}, collect(NewFloatPlainDecoder(8).All(e8.Bytes(), 3)))

	_, err = NewFloatPlainEncoder(2)
	require.Error(t, err)
}

func TestVarBinary_RoundTrip(t *testing.T) {
	e := NewVarBinaryEncoder()
	defer e.Finish()

	e.WriteSlice([]string{"hello", "", "世界"})
	e.WriteBytes([]byte{0x00, 0xff})
	require.Equal(t, 4, e.Len())

	got := collect((VarBinaryDecoder{}).AllBytes(e.Bytes(), 4))
	require.Equal(t, [][]byte{[]byte("hello"), {}, []byte("世界"), {0x00, 0xff}}, got)
}

func TestVarBinary_Truncated(t *testing.T) {
	e := NewVarBinaryEncoder()
	defer e.Finish()
	e.Write("abcdef")

	data := slices.Clone(e.Bytes())
	got := collect((VarBinaryDecoder{}).AllBytes(data[:4], 1))
	require.Empty(t, got)
}

func TestGorilla_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
	}{
		{"single", []float64{3.14}},
		{"constant", []float64{1, 1, 1, 1, 1}},
		{"slow drift", []float64{20.0, 20.1, 20.2, 20.2, 20.3, 19.9}},
		{"mixed", []float64{0, -1, math.MaxFloat64, math.SmallestNonzeroFloat64, 1e-300, 12345.678}},
		{"special", []float64{math.Inf(1), math.Inf(-1), 0, math.Copysign(0, -1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewGorillaEncoder()
			defer e.Finish()

			e.WriteSlice(tt.values)
			require.Equal(t, len(tt.values), e.Len())
			require.Len(t, e.Bytes(), e.Size())

			got := collect(NewGorillaDecoder().All(e.Bytes(), len(tt.values)))
			require.Len(t, got, len(tt.values))
			for i := range tt.values {
				require.Equal(t, math.Float64bits(tt.values[i]), math.Float64bits(got[i]), "index %d", i)
			}
		})
	}
}

func TestGorilla_NaN(t *testing.T) {
	e := NewGorillaEncoder()
	defer e.Finish()

	e.WriteSlice([]float64{1, math.NaN(), 2})
	got := collect(NewGorillaDecoder().All(e.Bytes(), 3))
	require.Len(t, got, 3)
	require.Equal(t, 1.0, got[0])
	require.True(t, math.IsNaN(got[1]))
	require.Equal(t, 2.0, got[2])
}

func TestGorilla_ConstantIsCompact(t *testing.T) {
	e := NewGorillaEncoder()
	defer e.Finish()

	for range 64 {
		e.Write(42.5)
	}

	// 64 bits for the first value plus one bit per repeat
	require.Equal(t, 8+8, e.Size())
}

func TestGorilla_BytesDoesNotMutate(t *testing.T) {
	e := NewGorillaEncoder()
	defer e.Finish()

	e.Write(1.0)
	e.Write(2.0)
	first := slices.Clone(e.Bytes())
	e.Write(3.0)

	got := collect(NewGorillaDecoder().All(e.Bytes(), 3))
	require.Equal(t, []float64{1, 2, 3}, got)
	require.Equal(t, []float64{1, 2}, collect(NewGorillaDecoder().All(first, 2)))
}

func TestSupports(t *testing.T) {
	tests := []struct {
		dt  datatype.DataType
		enc format.Encoding
		ok  bool
	}{
		{datatype.Boolean, format.EncodingPlain, true},
		{datatype.Text, format.EncodingPlain, true},
		{datatype.Int64, format.EncodingTS2Diff, true},
		{datatype.Date, format.EncodingTS2Diff, true},
		{datatype.Double, format.EncodingGorilla, true},
		{datatype.Float, format.EncodingGorilla, true},
		{datatype.Double, format.EncodingTS2Diff, false},
		{datatype.Int32, format.EncodingGorilla, false},
		{datatype.Boolean, format.EncodingTS2Diff, false},
		{datatype.Blob, format.EncodingGorilla, false},
		{datatype.None, format.EncodingPlain, false},
	}

	for _, tt := range tests {
		err := Supports(tt.dt, tt.enc)
		if tt.ok {
			require.NoError(t, err, "%s/%s", tt.dt, tt.enc)
		} else {
			require.ErrorIs(t, err, errs.ErrTypeNotSupported, "%s/%s", tt.dt, tt.enc)
		}
	}
}

func TestEncodeDecodeValues(t *testing.T) {
	tests := []struct {
		name   string
		dt     datatype.DataType
		enc    format.Encoding
		values []datatype.Value
	}{
		{"bool plain", datatype.Boolean, format.EncodingPlain, []datatype.Value{datatype.OfBool(true), datatype.OfBool(false)}},
		{"int32 plain", datatype.Int32, format.EncodingPlain, []datatype.Value{datatype.OfInt32(-7), datatype.OfInt32(math.MaxInt32)}},
		{"int32 diff", datatype.Int32, format.EncodingTS2Diff, []datatype.Value{datatype.OfInt32(0), datatype.OfInt32(math.MinInt32)}},
		{"int64 diff", datatype.Int64, format.EncodingTS2Diff, []datatype.Value{datatype.OfInt64(1 << 40), datatype.OfInt64(-3)}},
		{"timestamp plain", datatype.Timestamp, format.EncodingPlain, []datatype.Value{datatype.OfTimestamp(1700000000000)}},
		{"date plain", datatype.Date, format.EncodingPlain, []datatype.Value{datatype.OfDate(20240229)}},
		{"float plain", datatype.Float, format.EncodingPlain, []datatype.Value{datatype.OfFloat(1.25), datatype.OfFloat(-0.5)}},
		{"float gorilla", datatype.Float, format.EncodingGorilla, []datatype.Value{datatype.OfFloat(0.1), datatype.OfFloat(0.2)}},
		{"double gorilla", datatype.Double, format.EncodingGorilla, []datatype.Value{datatype.OfDouble(0.1), datatype.OfDouble(math.NaN())}},
		{"text plain", datatype.Text, format.EncodingPlain, []datatype.Value{datatype.OfBinary(datatype.Text, []byte("a")), datatype.OfBinary(datatype.Text, []byte(""))}},
		{"blob plain", datatype.Blob, format.EncodingPlain, []datatype.Value{datatype.OfBinary(datatype.Blob, []byte{0, 1, 2})}},
		{"empty", datatype.Int64, format.EncodingPlain, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeValues(tt.dt, tt.enc, tt.values)
			require.NoError(t, err)

			got, err := DecodeValues(tt.dt, tt.enc, data, len(tt.values))
			require.NoError(t, err)
			require.Len(t, got, len(tt.values))
			for i := range tt.values {
				require.True(t, tt.values[i].Equal(got[i]), "index %d: want %s got %s", i, tt.values[i], got[i])
			}
		})
	}
}

func TestEncodeValues_Rejects(t *testing.T) {
	_, err := EncodeValues(datatype.Int32, format.EncodingPlain, []datatype.Value{datatype.Null(datatype.Int32)})
	require.ErrorIs(t, err, errs.ErrTypeMismatch)

	_, err = EncodeValues(datatype.Int32, format.EncodingPlain, []datatype.Value{datatype.OfInt64(1)})
	require.ErrorIs(t, err, errs.ErrTypeMismatch)

	_, err = EncodeValues(datatype.Text, format.EncodingGorilla, nil)
	require.ErrorIs(t, err, errs.ErrTypeNotSupported)
}

func TestDecodeValues_PartialRead(t *testing.T) {
	data, err := EncodeValues(datatype.Int64, format.EncodingPlain, []datatype.Value{datatype.OfInt64(1)})
	require.NoError(t, err)

	_, err = DecodeValues(datatype.Int64, format.EncodingPlain, data, 2)
	require.ErrorIs(t, err, errs.ErrPartialRead)

	_, err = DecodeTimestamps(nil, 1)
	require.ErrorIs(t, err, errs.ErrPartialRead)
}

func TestDecodeValues_BinaryIsCopied(t *testing.T) {
	data, err := EncodeValues(datatype.Blob, format.EncodingPlain, []datatype.Value{datatype.OfBinary(datatype.Blob, []byte{9, 9})})
	require.NoError(t, err)

	got, err := DecodeValues(datatype.Blob, format.EncodingPlain, data, 1)
	require.NoError(t, err)

	data[1] = 0
	b, ok := got[0].Bytes()
	require.True(t, ok)
	require.Equal(t, []byte{9, 9}, b)
}
