package encoding

import (
	"encoding/binary"
	"iter"

	"github.com/arloliu/tsmodel/internal/pool"
)

// DeltaEncoder encodes int64 sequences with delta-of-delta, zigzag and varint compression.
//
// Layout:
//   - first value: zigzag varint
//   - second value: zigzag varint of the delta from the first
//   - every later value: zigzag varint of the difference between consecutive deltas
//
// Regular intervals cost one byte per value. The same encoder backs the timestamp section of
// every chunk and TS_2DIFF integer values.
type DeltaEncoder struct {
	prev      int64
	prevDelta int64
	temp      [binary.MaxVarintLen64]byte
	buf       *pool.ByteBuffer
	count     int
}

var _ ColumnarEncoder[int64] = (*DeltaEncoder)(nil)

// NewDeltaEncoder creates an encoder backed by a pooled chunk buffer.
func NewDeltaEncoder() *DeltaEncoder {
	return &DeltaEncoder{buf: pool.GetChunkBuffer()}
}

// Write appends v.
func (e *DeltaEncoder) Write(v int64) {
	e.buf.Grow(binary.MaxVarintLen64)

	var out int64
	switch e.count {
	case 0:
		out = v
	case 1:
		out = v - e.prev
		e.prevDelta = out
	default:
		delta := v - e.prev
		out = delta - e.prevDelta
		e.prevDelta = delta
	}

	n := binary.PutVarint(e.temp[:], out)
	e.buf.MustWrite(e.temp[:n])
	e.prev = v
	e.count++
}

// WriteSlice appends values in order.
func (e *DeltaEncoder) WriteSlice(values []int64) {
	e.buf.Grow(len(values) * 2)
	for _, v := range values {
		e.Write(v)
	}
}

func (e *DeltaEncoder) Bytes() []byte {
	return e.buf.Bytes()
}

func (e *DeltaEncoder) Len() int {
	return e.count
}

func (e *DeltaEncoder) Size() int {
	return e.buf.Len()
}

func (e *DeltaEncoder) Finish() {
	pool.PutChunkBuffer(e.buf)
	e.buf = pool.GetChunkBuffer()
	e.prev = 0
	e.prevDelta = 0
	e.count = 0
}

// DeltaDecoder decodes DeltaEncoder output.
type DeltaDecoder struct{}

var _ ColumnarDecoder[int64] = DeltaDecoder{}

func NewDeltaDecoder() DeltaDecoder {
	return DeltaDecoder{}
}

// All yields up to count values. It stops at the first invalid varint or at the end of data.
func (d DeltaDecoder) All(data []byte, count int) iter.Seq[int64] {
	return func(yield func(int64) bool) {
		var cur, delta int64
		offset := 0

		for i := 0; i < count && offset < len(data); i++ {
			v, n := binary.Varint(data[offset:])
			if n <= 0 {
				return
			}
			offset += n

			switch i {
			case 0:
				cur = v
			case 1:
				delta = v
				cur += delta
			default:
				delta += v
				cur += delta
			}

			if !yield(cur) {
				return
			}
		}
	}
}

// At returns the value at index by decoding the prefix up to it.
func (d DeltaDecoder) At(data []byte, index int, count int) (int64, bool) {
	if index < 0 || index >= count {
		return 0, false
	}

	i := 0
	for v := range d.All(data, index+1) {
		if i == index {
			return v, true
		}
		i++
	}

	return 0, false
}
