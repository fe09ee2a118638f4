package datatype

import (
	"math"
	"time"

	"github.com/arloliu/tsmodel/errs"
)

const (
	// MinDate is the smallest storable DATE in yyyymmdd form.
	MinDate int32 = 10000101
	// MaxDate is the largest storable DATE in yyyymmdd form.
	MaxDate int32 = 99991231
)

// Range is the inclusive representable range of a numeric type.
type Range struct {
	MinInt   int64
	MaxInt   int64
	MinFloat float64
	MaxFloat float64
	IsFloat  bool // bounds are MinFloat/MaxFloat instead of MinInt/MaxInt
	NoInf    bool // infinities are rejected even though they compare inside no bound
}

var ranges = map[DataType]Range{
	Int32:     {MinInt: math.MinInt32, MaxInt: math.MaxInt32},
	Int64:     {MinInt: math.MinInt64, MaxInt: math.MaxInt64},
	Timestamp: {MinInt: math.MinInt64, MaxInt: math.MaxInt64},
	Date:      {MinInt: int64(MinDate), MaxInt: int64(MaxDate)},
	Float:     {MinFloat: -math.MaxFloat32, MaxFloat: math.MaxFloat32, IsFloat: true, NoInf: true},
	Double:    {MinFloat: -math.MaxFloat64, MaxFloat: math.MaxFloat64, IsFloat: true, NoInf: true},
}

// RangeOf returns the numeric range of t.
//
// Returns:
//   - Range: the inclusive bounds, zero when t has no numeric range
//   - bool: false for BOOLEAN, TEXT, STRING and BLOB
//   - error: errs.ErrTypeNotSupported for tags outside the type domain
func RangeOf(t DataType) (Range, bool, error) {
	if err := Check(t); err != nil {
		return Range{}, false, err
	}

	r, ok := ranges[t]

	return r, ok, nil
}

// ContainsInt reports whether v lies in an integer range.
func (r Range) ContainsInt(v int64) bool {
	return v >= r.MinInt && v <= r.MaxInt
}

// ContainsFloat reports whether v lies in a float range. NaN is contained; infinities are not
// when NoInf is set.
func (r Range) ContainsFloat(v float64) bool {
	if math.IsInf(v, 0) {
		return !r.NoInf
	}
	if math.IsNaN(v) {
		return true
	}

	return v >= r.MinFloat && v <= r.MaxFloat
}

// DateToInt converts the calendar date of t to yyyymmdd.
func DateToInt(t time.Time) int32 {
	y, m, d := t.Date()
	return int32(y*10000 + int(m)*100 + d) //nolint:gosec
}

// IntToDate converts a yyyymmdd value to a UTC time.Time.
// It fails with errs.ErrOutOfRange when v is outside [MinDate, MaxDate] or not a calendar date.
func IntToDate(v int32) (time.Time, error) {
	if v < MinDate || v > MaxDate {
		return time.Time{}, errs.Newf(errs.KindOutOfRange, "date %d out of range [%d, %d]", v, MinDate, MaxDate)
	}

	y, m, d := int(v/10000), time.Month((v/100)%100), int(v%100)
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || t.Month() != m || t.Day() != d {
		return time.Time{}, errs.Newf(errs.KindOutOfRange, "invalid date %d", v)
	}

	return t, nil
}
