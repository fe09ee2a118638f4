// Package datatype defines the value kinds supported by the storage format and the rules that
// decide whether a Go value may be stored under a given kind.
//
// The package is the leaf of the data model: field, tablet and the storage engine all validate
// caller input through Convert, which either produces a canonical Value or fails with
// errs.ErrTypeMismatch / errs.ErrOutOfRange. All tables in this package are immutable.
//
// # Type domain
//
//	| DataType  | Code | Size | Accepted Go values                | Range                        |
//	|-----------|------|------|-----------------------------------|------------------------------|
//	| BOOLEAN   | 0    | 1    | bool                              | -                            |
//	| INT32     | 1    | 4    | any integer                       | [MinInt32, MaxInt32]         |
//	| INT64     | 2    | 8    | any integer                       | [MinInt64, MaxInt64]         |
//	| FLOAT     | 3    | 4    | float32, float64                  | ±MaxFloat32, no infinity     |
//	| DOUBLE    | 4    | 8    | float32, float64                  | ±MaxFloat64, no infinity     |
//	| TEXT      | 5    | var  | string, []byte                    | -                            |
//	| TIMESTAMP | 8    | 8    | any integer                       | [MinInt64, MaxInt64]         |
//	| DATE      | 9    | 4    | time.Time, integer yyyymmdd       | [10000101, 99991231], valid  |
//	| BLOB      | 10   | var  | []byte                            | -                            |
//	| STRING    | 11   | var  | string, []byte                    | -                            |
//
// NaN is accepted for FLOAT and DOUBLE and stored unchanged; only infinities are rejected.
package datatype

import (
	"strings"

	"github.com/arloliu/tsmodel/errs"
)

// DataType is the type tag of a column or field. Values match the storage engine's codes.
type DataType uint8

const (
	Boolean   DataType = 0  // Boolean stores true/false.
	Int32     DataType = 1  // Int32 stores 32-bit signed integers.
	Int64     DataType = 2  // Int64 stores 64-bit signed integers.
	Float     DataType = 3  // Float stores IEEE-754 single precision values.
	Double    DataType = 4  // Double stores IEEE-754 double precision values.
	Text      DataType = 5  // Text stores UTF-8 text.
	Timestamp DataType = 8  // Timestamp stores int64 epoch values.
	Date      DataType = 9  // Date stores a calendar date as yyyymmdd.
	Blob      DataType = 10 // Blob stores opaque bytes.
	String    DataType = 11 // String stores UTF-8 text.

	// None marks a field without a type; such a field is always null.
	None DataType = 0xFF
)

var typeNames = map[DataType]string{
	Boolean:   "BOOLEAN",
	Int32:     "INT32",
	Int64:     "INT64",
	Float:     "FLOAT",
	Double:    "DOUBLE",
	Text:      "TEXT",
	Timestamp: "TIMESTAMP",
	Date:      "DATE",
	Blob:      "BLOB",
	String:    "STRING",
	None:      "NONE",
}

// native sizes in bytes; 0 means variable length
var typeSizes = map[DataType]int{
	Boolean:   1,
	Int32:     4,
	Int64:     8,
	Float:     4,
	Double:    8,
	Text:      0,
	Timestamp: 8,
	Date:      4,
	Blob:      0,
	String:    0,
}

func (t DataType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}

	return "UNKNOWN"
}

// IsValid reports whether t is one of the storable types. None is not storable.
func (t DataType) IsValid() bool {
	_, ok := typeSizes[t]
	return ok
}

// Size returns the native representation size in bytes, 0 for variable-length types.
func (t DataType) Size() int {
	return typeSizes[t]
}

// IsNumeric reports whether t carries a numeric range.
func (t DataType) IsNumeric() bool {
	switch t { //nolint:exhaustive
	case Int32, Int64, Float, Double, Timestamp, Date:
		return true
	default:
		return false
	}
}

// IsBinary reports whether t stores a byte sequence.
func (t DataType) IsBinary() bool {
	return t == Text || t == String || t == Blob
}

// Check returns errs.ErrTypeNotSupported when t is not a storable type.
func Check(t DataType) error {
	if !t.IsValid() {
		return errs.Newf(errs.KindTypeNotSupported, "unsupported data type: %d", uint8(t))
	}

	return nil
}

// Parse resolves a type name such as "INT64" or "double" to its tag.
func Parse(name string) (DataType, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for t, n := range typeNames {
		if n == upper && t != None {
			return t, nil
		}
	}

	return None, errs.Newf(errs.KindTypeNotSupported, "unsupported data type: %q", name)
}
