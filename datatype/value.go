package datatype

import (
	"bytes"
	"encoding/hex"
	"math"
	"strconv"
	"time"
)

// Value is a typed, nullable cell value.
//
// The payload lives in exactly one slot chosen by the type tag:
//   - BOOLEAN, INT32, INT64, TIMESTAMP, DATE: i (DATE as yyyymmdd)
//   - FLOAT, DOUBLE: f
//   - TEXT, STRING, BLOB: b
//
// The zero Value is a null value of type BOOLEAN; use Null to build a typed null.
type Value struct {
	b     []byte
	i     int64
	f     float64
	typ   DataType
	valid bool
}

// Null returns a null value of type t.
func Null(t DataType) Value {
	return Value{typ: t}
}

// OfBool returns a BOOLEAN value.
func OfBool(v bool) Value {
	var i int64
	if v {
		i = 1
	}

	return Value{typ: Boolean, valid: true, i: i}
}

// OfInt32 returns an INT32 value.
func OfInt32(v int32) Value {
	return Value{typ: Int32, valid: true, i: int64(v)}
}

// OfInt64 returns an INT64 value.
func OfInt64(v int64) Value {
	return Value{typ: Int64, valid: true, i: v}
}

// OfTimestamp returns a TIMESTAMP value.
func OfTimestamp(v int64) Value {
	return Value{typ: Timestamp, valid: true, i: v}
}

// OfDate returns a DATE value from its yyyymmdd form. The caller is responsible for passing a
// valid date; Convert validates untrusted input.
func OfDate(yyyymmdd int32) Value {
	return Value{typ: Date, valid: true, i: int64(yyyymmdd)}
}

// OfFloat returns a FLOAT value.
func OfFloat(v float32) Value {
	return Value{typ: Float, valid: true, f: float64(v)}
}

// OfDouble returns a DOUBLE value.
func OfDouble(v float64) Value {
	return Value{typ: Double, valid: true, f: v}
}

// OfBinary returns a TEXT, STRING or BLOB value holding v. The slice is not copied.
func OfBinary(t DataType, v []byte) Value {
	return Value{typ: t, valid: true, b: v}
}

// Type returns the type tag.
func (v Value) Type() DataType {
	return v.typ
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return !v.valid
}

// Bool returns the payload of a non-null BOOLEAN value.
func (v Value) Bool() (bool, bool) {
	if !v.valid || v.typ != Boolean {
		return false, false
	}

	return v.i != 0, true
}

// Int32 returns the payload of a non-null INT32 value, or the yyyymmdd form of a DATE.
func (v Value) Int32() (int32, bool) {
	if !v.valid || (v.typ != Int32 && v.typ != Date) {
		return 0, false
	}

	return int32(v.i), true //nolint:gosec
}

// Int64 returns the payload of a non-null INT64 or TIMESTAMP value.
func (v Value) Int64() (int64, bool) {
	if !v.valid || (v.typ != Int64 && v.typ != Timestamp) {
		return 0, false
	}

	return v.i, true
}

// Float32 returns the payload of a non-null FLOAT value.
func (v Value) Float32() (float32, bool) {
	if !v.valid || v.typ != Float {
		return 0, false
	}

	return float32(v.f), true
}

// Float64 returns the payload of a non-null DOUBLE value.
func (v Value) Float64() (float64, bool) {
	if !v.valid || v.typ != Double {
		return 0, false
	}

	return v.f, true
}

// Bytes returns the payload of a non-null TEXT, STRING or BLOB value.
// The returned slice must not be modified.
func (v Value) Bytes() ([]byte, bool) {
	if !v.valid || !v.typ.IsBinary() {
		return nil, false
	}

	return v.b, true
}

// Date returns the payload of a non-null DATE value as a UTC time.
func (v Value) Date() (time.Time, bool) {
	if !v.valid || v.typ != Date {
		return time.Time{}, false
	}

	t, err := IntToDate(int32(v.i)) //nolint:gosec
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// IntBits returns the integer slot regardless of type; used by encoders.
func (v Value) IntBits() int64 {
	return v.i
}

// FloatBits returns the float slot regardless of type; used by encoders.
func (v Value) FloatBits() float64 {
	return v.f
}

// Interface returns the payload as a Go value, nil for null:
// bool, int32, int64, float32, float64, string (TEXT/STRING), []byte (BLOB) or time.Time (DATE).
func (v Value) Interface() any {
	if !v.valid {
		return nil
	}

	switch v.typ { //nolint:exhaustive
	case Boolean:
		return v.i != 0
	case Int32:
		return int32(v.i) //nolint:gosec
	case Int64, Timestamp:
		return v.i
	case Float:
		return float32(v.f)
	case Double:
		return v.f
	case Text, String:
		return string(v.b)
	case Blob:
		return v.b
	case Date:
		t, _ := v.Date()
		return t
	default:
		return nil
	}
}

// Equal reports whether v and o have the same type, nullness and payload.
// NaN payloads compare equal to each other.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ || v.valid != o.valid {
		return false
	}
	if !v.valid {
		return true
	}

	switch v.typ { //nolint:exhaustive
	case Float, Double:
		if math.IsNaN(v.f) && math.IsNaN(o.f) {
			return true
		}

		return v.f == o.f
	case Text, String, Blob:
		return bytes.Equal(v.b, o.b)
	default:
		return v.i == o.i
	}
}

// String renders the value for display: "None" for null, text for TEXT/STRING, a 0x-prefixed
// lowercase hex literal with two digits per byte for BLOB ("0x" when empty), yyyy-mm-dd for DATE and strconv formatting otherwise.
func (v Value) String() string {
	if !v.valid {
		return "None"
	}

	switch v.typ { //nolint:exhaustive
	case Boolean:
		return strconv.FormatBool(v.i != 0)
	case Int32, Int64, Timestamp:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return strconv.FormatFloat(v.f, 'g', -1, 32)
	case Double:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case Text, String:
		return string(v.b)
	case Blob:
		return "0x" + hex.EncodeToString(v.b)
	case Date:
		if t, ok := v.Date(); ok {
			return t.Format(time.DateOnly)
		}

		return strconv.FormatInt(v.i, 10)
	default:
		return "None"
	}
}
