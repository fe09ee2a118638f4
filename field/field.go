// Package field provides Field, a single named, typed and nullable measurement value.
//
// A Field validates its value against its declared type on construction and on every setter
// call. Reads follow a two-tier policy:
//   - reading any value from a field whose type is datatype.None fails with errs.ErrNullField;
//   - reading through a getter that does not match the stored type, or reading a null value,
//     reports ok=false without an error, so callers must check ok before using the result.
//
// INT32, INT64 and TIMESTAMP are mutually readable through LongValue.
package field

import (
	"math"
	"time"

	"github.com/arloliu/tsmodel/datatype"
	"github.com/arloliu/tsmodel/errs"
)

// Field is a named, typed, nullable value.
//
// Note: Field is NOT safe for concurrent mutation.
type Field struct {
	name  string
	value datatype.Value
	dt    datatype.DataType
}

// New creates a field.
//
// Parameters:
//   - name: field (measurement) name
//   - dt: declared type; datatype.None creates a permanently null field
//   - value: initial value or nil
//
// Returns:
//   - *Field: the created field
//   - error: errs.ErrTypeMismatch when value's kind is not accepted by dt, errs.ErrOutOfRange when
//     value lies outside dt's range, errs.ErrTypeNotSupported for an unknown dt
func New(name string, dt datatype.DataType, value any) (*Field, error) {
	v, err := datatype.Convert(dt, value)
	if err != nil {
		return nil, err
	}

	return &Field{name: name, dt: dt, value: v}, nil
}

// NewOptional is like New but returns a nil Field when value is nil, the representation of an
// absent measurement in a record.
func NewOptional(name string, value any, dt datatype.DataType) (*Field, error) {
	if value == nil {
		return nil, nil //nolint:nilnil
	}

	return New(name, dt, value)
}

// FromValue wraps an already validated value, typically one decoded by a query.
func FromValue(name string, v datatype.Value) *Field {
	return &Field{name: name, dt: v.Type(), value: v}
}

// Name returns the field name.
func (f *Field) Name() string {
	return f.name
}

// DataType returns the declared type.
func (f *Field) DataType() datatype.DataType {
	return f.dt
}

// Value returns the underlying typed value.
func (f *Field) Value() datatype.Value {
	return f.value
}

// IsNull reports whether the field holds no value.
func (f *Field) IsNull() bool {
	return f.dt == datatype.None || f.value.IsNull()
}

// SetValue replaces the value after validating it against the declared type.
// The field is left unchanged on error.
func (f *Field) SetValue(value any) error {
	v, err := datatype.Convert(f.dt, value)
	if err != nil {
		return err
	}
	f.value = v

	return nil
}

// SetNull clears the value.
func (f *Field) SetNull() {
	f.value = datatype.Null(f.dt)
}

// SetBoolValue sets a BOOLEAN value.
func (f *Field) SetBoolValue(v bool) error {
	return f.SetValue(v)
}

// SetIntValue sets a 32-bit integer value. v must fit in int32 regardless of the declared type.
func (f *Field) SetIntValue(v int64) error {
	if err := checkRange(datatype.Int32, v); err != nil {
		return err
	}

	return f.SetValue(v)
}

// SetLongValue sets a 64-bit integer value, validated against the declared type's range.
func (f *Field) SetLongValue(v int64) error {
	return f.SetValue(v)
}

// SetFloatValue sets a single precision value. v must fit in float32 and be finite regardless of
// the declared type.
func (f *Field) SetFloatValue(v float64) error {
	if err := checkRange(datatype.Float, v); err != nil {
		return err
	}

	return f.SetValue(v)
}

// SetDoubleValue sets a double precision value. Infinities are rejected; NaN is stored.
func (f *Field) SetDoubleValue(v float64) error {
	return f.SetValue(v)
}

// SetBinaryValue sets a TEXT, STRING or BLOB value. The slice is copied.
func (f *Field) SetBinaryValue(v []byte) error {
	return f.SetValue(v)
}

// SetStringValue sets a TEXT or STRING value.
func (f *Field) SetStringValue(v string) error {
	return f.SetValue(v)
}

// SetDateValue sets a DATE value from the calendar date of v.
func (f *Field) SetDateValue(v time.Time) error {
	return f.SetValue(v)
}

func checkRange(dt datatype.DataType, v any) error {
	_, err := datatype.Convert(dt, v)
	if errs.KindOf(err) == errs.KindOutOfRange {
		return err
	}

	return nil
}

func (f *Field) checkNull() error {
	if f.dt == datatype.None {
		return errs.Newf(errs.KindNullField, "null field %q", f.name)
	}

	return nil
}

// BoolValue returns the value of a BOOLEAN field.
//
// Returns:
//   - bool: the value
//   - bool: false when the field is not BOOLEAN or the value is null
//   - error: errs.ErrNullField when the field has no type
func (f *Field) BoolValue() (bool, bool, error) {
	if err := f.checkNull(); err != nil {
		return false, false, err
	}
	v, ok := f.value.Bool()

	return v, ok, nil
}

// IntValue returns the value of an INT32 field, or the yyyymmdd form of a DATE field.
func (f *Field) IntValue() (int32, bool, error) {
	if err := f.checkNull(); err != nil {
		return 0, false, err
	}
	v, ok := f.value.Int32()

	return v, ok, nil
}

// LongValue returns the value of an INT64, TIMESTAMP or INT32 field as int64.
func (f *Field) LongValue() (int64, bool, error) {
	if err := f.checkNull(); err != nil {
		return 0, false, err
	}
	if f.value.IsNull() || !datatype.WideningRead(datatype.Int64, f.dt) {
		return 0, false, nil
	}

	return f.value.IntBits(), true, nil
}

// FloatValue returns the value of a FLOAT field.
func (f *Field) FloatValue() (float32, bool, error) {
	if err := f.checkNull(); err != nil {
		return 0, false, err
	}
	v, ok := f.value.Float32()

	return v, ok, nil
}

// DoubleValue returns the value of a DOUBLE field.
func (f *Field) DoubleValue() (float64, bool, error) {
	if err := f.checkNull(); err != nil {
		return 0, false, err
	}
	v, ok := f.value.Float64()

	return v, ok, nil
}

// BinaryValue returns the bytes of a TEXT, STRING or BLOB field. The slice must not be modified.
func (f *Field) BinaryValue() ([]byte, bool, error) {
	if err := f.checkNull(); err != nil {
		return nil, false, err
	}
	v, ok := f.value.Bytes()

	return v, ok, nil
}

// DateValue returns the value of a DATE field as a UTC midnight time.
func (f *Field) DateValue() (time.Time, bool, error) {
	if err := f.checkNull(); err != nil {
		return time.Time{}, false, err
	}
	v, ok := f.value.Date()

	return v, ok, nil
}

// ObjectValue returns the value converted to the Go type associated with dt, or nil when the
// field is null. Floats read as integers are truncated, integers read as floats are widened and
// integers read as DATE are parsed as yyyymmdd.
//
// Returns:
//   - any: bool, int32, int64, float32, float64, []byte or time.Time depending on dt
//   - error: errs.ErrTypeNotSupported for an unknown dt, errs.ErrTypeMismatch between binary and
//     non-binary types, errs.ErrOutOfRange for an integer that is not a valid date
func (f *Field) ObjectValue(dt datatype.DataType) (any, error) {
	if err := datatype.Check(dt); err != nil {
		return nil, err
	}
	if f.IsNull() {
		return nil, nil //nolint:nilnil
	}

	v := f.value
	stored := v.Type()
	if dt.IsBinary() != stored.IsBinary() {
		return nil, errs.Newf(errs.KindTypeMismatch, "field %s: cannot read %s as %s", f.name, stored, dt)
	}
	if dt.IsBinary() {
		b, _ := v.Bytes()
		return b, nil
	}

	isFloat := stored == datatype.Float || stored == datatype.Double
	asInt := v.IntBits()
	asFloat := float64(asInt)
	if isFloat {
		asFloat = v.FloatBits()
		asInt = int64(asFloat)
	}

	switch dt { //nolint:exhaustive
	case datatype.Boolean:
		if isFloat {
			return asFloat != 0, nil
		}

		return asInt != 0, nil
	case datatype.Int32:
		return int32(asInt), nil //nolint:gosec
	case datatype.Int64, datatype.Timestamp:
		return asInt, nil
	case datatype.Float:
		return float32(asFloat), nil
	case datatype.Double:
		return asFloat, nil
	default:
		if stored == datatype.Boolean {
			return nil, errs.Newf(errs.KindTypeMismatch, "field %s: cannot read %s as %s", f.name, stored, dt)
		}

		if asInt < math.MinInt32 || asInt > math.MaxInt32 {
			return nil, errs.Newf(errs.KindOutOfRange, "field %s: %d is not a date", f.name, asInt)
		}

		d, err := datatype.IntToDate(int32(asInt)) //nolint:gosec
		if err != nil {
			return nil, err
		}

		return d, nil
	}
}

// StringValue renders the value; it never fails and returns "None" for null fields.
func (f *Field) StringValue() string {
	if f.IsNull() {
		return "None"
	}

	return f.value.String()
}

// String implements fmt.Stringer.
func (f *Field) String() string {
	return f.StringValue()
}
