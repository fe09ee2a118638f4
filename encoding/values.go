package encoding

import (
	"github.com/arloliu/tsmodel/datatype"
	"github.com/arloliu/tsmodel/errs"
	"github.com/arloliu/tsmodel/format"
)

// Supports reports whether enc can encode values of type dt.
//
// Returns:
//   - error: errs.ErrTypeNotSupported for an unknown type or an encoding that does not apply to it
func Supports(dt datatype.DataType, enc format.Encoding) error {
	if err := datatype.Check(dt); err != nil {
		return err
	}

	switch enc { //nolint:exhaustive
	case format.EncodingPlain:
		return nil
	case format.EncodingTS2Diff:
		switch dt { //nolint:exhaustive
		case datatype.Int32, datatype.Int64, datatype.Timestamp, datatype.Date:
			return nil
		}
	case format.EncodingGorilla:
		if dt == datatype.Float || dt == datatype.Double {
			return nil
		}
	}

	return errs.Newf(errs.KindTypeNotSupported, "encoding %s does not support %s", enc, dt)
}

func plainIntWidth(dt datatype.DataType) int {
	switch dt { //nolint:exhaustive
	case datatype.Boolean:
		return 1
	case datatype.Int32, datatype.Date:
		return 4
	default:
		return 8
	}
}

func detach[T comparable](e ColumnarEncoder[T]) []byte {
	out := append([]byte(nil), e.Bytes()...)
	e.Finish()

	return out
}

// EncodeTimestamps delta-of-delta encodes ts.
func EncodeTimestamps(ts []int64) []byte {
	e := NewDeltaEncoder()
	e.WriteSlice(ts)

	return detach[int64](e)
}

// DecodeTimestamps decodes count timestamps.
//
// Returns:
//   - error: errs.ErrPartialRead when data holds fewer than count values
func DecodeTimestamps(data []byte, count int) ([]int64, error) {
	out := make([]int64, 0, count)
	for v := range NewDeltaDecoder().All(data, count) {
		out = append(out, v)
	}
	if len(out) != count {
		return nil, errs.Newf(errs.KindPartialRead, "decoded %d of %d timestamps", len(out), count)
	}

	return out, nil
}

// EncodeValues encodes non-null values of type dt with enc.
//
// Parameters:
//   - dt: column type; every value must carry it
//   - enc: value encoding, see Supports
//   - values: non-null values in time order
//
// Returns:
//   - []byte: the encoded section, owned by the caller
//   - error: errs.ErrTypeNotSupported for an unsupported pair, errs.ErrTypeMismatch for a value of
//     another type or a null value
func EncodeValues(dt datatype.DataType, enc format.Encoding, values []datatype.Value) ([]byte, error) {
	if err := Supports(dt, enc); err != nil {
		return nil, err
	}
	for i, v := range values {
		if v.IsNull() || v.Type() != dt {
			return nil, errs.Newf(errs.KindTypeMismatch, "value %d: expected non-null %s got %s", i, dt, v.Type())
		}
	}

	switch {
	case dt.IsBinary():
		e := NewVarBinaryEncoder()
		for _, v := range values {
			b, _ := v.Bytes()
			e.WriteBytes(b)
		}

		return detach[string](e), nil
	case enc == format.EncodingGorilla:
		e := NewGorillaEncoder()
		for _, v := range values {
			e.Write(v.FloatBits())
		}

		return detach[float64](e), nil
	case enc == format.EncodingTS2Diff:
		e := NewDeltaEncoder()
		for _, v := range values {
			e.Write(v.IntBits())
		}

		return detach[int64](e), nil
	case dt == datatype.Float || dt == datatype.Double:
		e, err := NewFloatPlainEncoder(dt.Size())
		if err != nil {
			return nil, err
		}
		for _, v := range values {
			e.Write(v.FloatBits())
		}

		return detach[float64](e), nil
	default:
		e, err := NewIntPlainEncoder(plainIntWidth(dt))
		if err != nil {
			return nil, err
		}
		for _, v := range values {
			e.Write(v.IntBits())
		}

		return detach[int64](e), nil
	}
}

// DecodeValues decodes count values of type dt written by EncodeValues with enc.
// Binary values are copied out of data.
//
// Returns:
//   - error: errs.ErrTypeNotSupported for an unsupported pair, errs.ErrPartialRead when data
//     holds fewer than count values
func DecodeValues(dt datatype.DataType, enc format.Encoding, data []byte, count int) ([]datatype.Value, error) {
	if err := Supports(dt, enc); err != nil {
		return nil, err
	}

	out := make([]datatype.Value, 0, count)
	switch {
	case dt.IsBinary():
		for b := range (VarBinaryDecoder{}).AllBytes(data, count) {
			out = append(out, datatype.OfBinary(dt, append([]byte(nil), b...)))
		}
	case enc == format.EncodingGorilla:
		for f := range NewGorillaDecoder().All(data, count) {
			out = append(out, floatValue(dt, f))
		}
	case enc == format.EncodingTS2Diff:
		for i := range NewDeltaDecoder().All(data, count) {
			out = append(out, intValue(dt, i))
		}
	case dt == datatype.Float || dt == datatype.Double:
		for f := range NewFloatPlainDecoder(dt.Size()).All(data, count) {
			out = append(out, floatValue(dt, f))
		}
	default:
		for i := range NewIntPlainDecoder(plainIntWidth(dt)).All(data, count) {
			out = append(out, intValue(dt, i))
		}
	}

	if len(out) != count {
		return nil, errs.Newf(errs.KindPartialRead, "decoded %d of %d %s values", len(out), count, dt)
	}

	return out, nil
}

func floatValue(dt datatype.DataType, f float64) datatype.Value {
	if dt == datatype.Float {
		return datatype.OfFloat(float32(f))
	}

	return datatype.OfDouble(f)
}

func intValue(dt datatype.DataType, i int64) datatype.Value {
	switch dt { //nolint:exhaustive
	case datatype.Boolean:
		return datatype.OfBool(i != 0)
	case datatype.Int32:
		return datatype.OfInt32(int32(i)) //nolint:gosec
	case datatype.Date:
		return datatype.OfDate(int32(i)) //nolint:gosec
	case datatype.Timestamp:
		return datatype.OfTimestamp(i)
	default:
		return datatype.OfInt64(i)
	}
}
