package datatype

import "time"

// Kind is the runtime kind of a Go value handed in by a caller.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBytes
	KindTime
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// KindOf classifies v. All Go integer types map to KindInt, both float widths to KindFloat.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInt
	case float32, float64:
		return KindFloat
	case string:
		return KindString
	case []byte:
		return KindBytes
	case time.Time:
		return KindTime
	default:
		return KindUnknown
	}
}

// accepts lists the runtime kinds each type admits.
var accepts = map[DataType][]Kind{
	Boolean:   {KindBool},
	Int32:     {KindInt},
	Int64:     {KindInt},
	Timestamp: {KindInt},
	Date:      {KindTime, KindInt},
	Float:     {KindFloat},
	Double:    {KindFloat},
	Text:      {KindString, KindBytes},
	String:    {KindString, KindBytes},
	Blob:      {KindBytes},
}

// Matches reports whether v's runtime kind is acceptable for t. A nil value matches every
// storable type and None; a non-nil value never matches None.
func Matches(t DataType, v any) bool {
	kind := KindOf(v)
	if kind == KindNull {
		return t == None || t.IsValid()
	}

	for _, k := range accepts[t] {
		if k == kind {
			return true
		}
	}

	return false
}

// integer types readable through each other's getters
func isIntegral(t DataType) bool {
	return t == Int32 || t == Int64 || t == Timestamp
}

// WideningRead reports whether a value stored as stored may be read back as requested.
// INT32, INT64 and TIMESTAMP are mutually readable; all other types require an exact match.
func WideningRead(requested, stored DataType) bool {
	if requested == stored {
		return true
	}

	return isIntegral(requested) && isIntegral(stored)
}
