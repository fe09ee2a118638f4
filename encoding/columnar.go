package encoding

import "iter"

// ColumnarEncoder accumulates values of one column.
type ColumnarEncoder[T comparable] interface {
	// Bytes returns the encoded data. The slice is owned by the encoder until Finish.
	Bytes() []byte

	// Len returns the number of values written.
	Len() int

	// Size returns the encoded size in bytes.
	Size() int

	// Finish recycles the buffer and resets the encoder.
	Finish()

	Write(data T)

	WriteSlice(values []T)
}

// ColumnarDecoder decodes a column produced by the matching encoder.
type ColumnarDecoder[T comparable] interface {
	// All yields up to count values. It stops early on malformed data.
	All(data []byte, count int) iter.Seq[T]
}
