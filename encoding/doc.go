// Package encoding implements the value codecs used inside store chunks.
//
// A chunk stores a run of points of one series as two sections: timestamps, always delta-of-delta
// encoded, followed by values encoded according to the series' format.Encoding:
//
//	PLAIN     every type; fixed-width little-endian numbers, uvarint-prefixed binary
//	TS_2DIFF  INT32, INT64, TIMESTAMP, DATE; zigzag varint delta-of-delta
//	GORILLA   FLOAT, DOUBLE; XOR compression of IEEE 754 bits
//
// Encoders share the ColumnarEncoder shape: Write / WriteSlice accumulate values into a pooled
// buffer, Bytes exposes the encoded form and Finish recycles the buffer. Decoders are stateless
// and yield values through iter.Seq.
//
// EncodeValues and DecodeValues dispatch on datatype.DataType and format.Encoding and are what
// the store calls.
package encoding
