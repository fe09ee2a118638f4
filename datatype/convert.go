package datatype

import (
	"math"
	"time"

	"github.com/arloliu/tsmodel/errs"
)

// Convert validates v against t and returns its canonical Value.
//
// A nil v yields a null Value of type t. Byte slices are copied so the caller may reuse its
// buffer after the call.
//
// Parameters:
//   - t: target type tag
//   - v: caller value (see the package documentation for accepted Go types)
//
// Returns:
//   - Value: the validated value
//   - error: errs.ErrTypeNotSupported for an unknown t, errs.ErrTypeMismatch when v's runtime
//     kind is not accepted by t, errs.ErrOutOfRange when v is outside t's range or infinite
func Convert(t DataType, v any) (Value, error) {
	if t != None {
		if err := Check(t); err != nil {
			return Value{}, err
		}
	}

	if v == nil {
		return Null(t), nil
	}

	if !Matches(t, v) {
		return Value{}, mismatch(t, v)
	}

	switch t { //nolint:exhaustive
	case Boolean:
		return OfBool(v.(bool)), nil //nolint:forcetypeassert
	case Int32, Int64, Timestamp:
		i, err := toInt64(t, v)
		if err != nil {
			return Value{}, err
		}
		if err := checkInt(t, i); err != nil {
			return Value{}, err
		}

		return Value{typ: t, valid: true, i: i}, nil
	case Date:
		return convertDate(v)
	case Float, Double:
		f := toFloat64(v)
		if err := checkFloat(t, f); err != nil {
			return Value{}, err
		}
		if t == Float {
			f = float64(float32(f))
		}

		return Value{typ: t, valid: true, f: f}, nil
	case Text, String, Blob:
		var b []byte
		switch x := v.(type) {
		case string:
			b = []byte(x)
		case []byte:
			b = append([]byte(nil), x...)
		}

		return OfBinary(t, b), nil
	default:
		return Value{}, mismatch(t, v)
	}
}

// MustConvert is like Convert but panics on error. Intended for tests and constant tables.
func MustConvert(t DataType, v any) Value {
	val, err := Convert(t, v)
	if err != nil {
		panic(err)
	}

	return val
}

func mismatch(t DataType, v any) error {
	return errs.Newf(errs.KindTypeMismatch, "expected %s got %T", t, v)
}

func toInt64(t DataType, v any) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint:
		return uintToInt64(t, uint64(x))
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		return uintToInt64(t, x)
	default:
		return 0, mismatch(t, v)
	}
}

func uintToInt64(t DataType, x uint64) (int64, error) {
	if x > math.MaxInt64 {
		return 0, errs.Newf(errs.KindOutOfRange, "data:%d out of range of %s", x, t)
	}

	return int64(x), nil
}

func toFloat64(v any) float64 {
	switch x := v.(type) {
	case float32:
		return float64(x)
	case float64:
		return x
	default:
		return math.NaN()
	}
}

func checkInt(t DataType, v int64) error {
	r := ranges[t]
	if !r.ContainsInt(v) {
		return errs.Newf(errs.KindOutOfRange, "data:%d out of range (%d, %d)", v, r.MinInt, r.MaxInt)
	}

	return nil
}

func checkFloat(t DataType, v float64) error {
	r := ranges[t]
	if math.IsInf(v, 0) {
		return errs.Newf(errs.KindOutOfRange, "%s not support inf", t)
	}
	if !r.ContainsFloat(v) {
		return errs.Newf(errs.KindOutOfRange, "data:%v out of range (%v, %v)", v, r.MinFloat, r.MaxFloat)
	}

	return nil
}

func convertDate(v any) (Value, error) {
	if tm, ok := v.(time.Time); ok {
		d := DateToInt(tm)
		if _, err := IntToDate(d); err != nil {
			return Value{}, err
		}

		return OfDate(d), nil
	}

	i, err := toInt64(Date, v)
	if err != nil {
		return Value{}, err
	}
	if i < int64(MinDate) || i > int64(MaxDate) {
		return Value{}, errs.Newf(errs.KindOutOfRange, "date %d out of range [%d, %d]", i, MinDate, MaxDate)
	}
	if _, err := IntToDate(int32(i)); err != nil { //nolint:gosec
		return Value{}, err
	}

	return OfDate(int32(i)), nil //nolint:gosec
}
