package encoding

import (
	"encoding/binary"
	"fmt"
	"iter"
	"math"

	"github.com/arloliu/tsmodel/internal/pool"
)

// IntPlainEncoder writes integers as fixed-width little-endian values of 1, 4 or 8 bytes.
// Narrow widths keep the low bytes; the decoder sign-extends them.
type IntPlainEncoder struct {
	buf   *pool.ByteBuffer
	width int
	count int
}

var _ ColumnarEncoder[int64] = (*IntPlainEncoder)(nil)

// NewIntPlainEncoder creates an encoder for the given byte width.
func NewIntPlainEncoder(width int) (*IntPlainEncoder, error) {
	if width != 1 && width != 4 && width != 8 {
		return nil, fmt.Errorf("invalid plain integer width %d", width)
	}

	return &IntPlainEncoder{buf: pool.GetChunkBuffer(), width: width}, nil
}

func (e *IntPlainEncoder) Write(v int64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], uint64(v)) //nolint:gosec
	e.buf.MustWrite(tmp[:e.width])
	e.count++
}

func (e *IntPlainEncoder) WriteSlice(values []int64) {
	e.buf.Grow(len(values) * e.width)
	for _, v := range values {
		e.Write(v)
	}
}

func (e *IntPlainEncoder) Bytes() []byte { return e.buf.Bytes() }
func (e *IntPlainEncoder) Len() int      { return e.count }
func (e *IntPlainEncoder) Size() int     { return e.buf.Len() }

func (e *IntPlainEncoder) Finish() {
	pool.PutChunkBuffer(e.buf)
	e.buf = pool.GetChunkBuffer()
	e.count = 0
}

// IntPlainDecoder decodes IntPlainEncoder output of the same width.
type IntPlainDecoder struct {
	width int
}

var _ ColumnarDecoder[int64] = IntPlainDecoder{}

func NewIntPlainDecoder(width int) IntPlainDecoder {
	return IntPlainDecoder{width: width}
}

func (d IntPlainDecoder) All(data []byte, count int) iter.Seq[int64] {
	return func(yield func(int64) bool) {
		if d.width <= 0 {
			return
		}
		for i := 0; i < count; i++ {
			off := i * d.width
			if off+d.width > len(data) {
				return
			}
			if !yield(d.decode(data[off : off+d.width])) {
				return
			}
		}
	}
}

func (d IntPlainDecoder) decode(b []byte) int64 {
	switch d.width {
	case 1:
		return int64(int8(b[0])) //nolint:gosec
	case 4:
		return int64(int32(binary.LittleEndian.Uint32(b))) //nolint:gosec
	default:
		return int64(binary.LittleEndian.Uint64(b)) //nolint:gosec
	}
}

// FloatPlainEncoder writes IEEE 754 values as 4-byte (float32) or 8-byte (float64) little-endian.
type FloatPlainEncoder struct {
	buf   *pool.ByteBuffer
	width int
	count int
}

var _ ColumnarEncoder[float64] = (*FloatPlainEncoder)(nil)

// NewFloatPlainEncoder creates an encoder for width 4 or 8.
func NewFloatPlainEncoder(width int) (*FloatPlainEncoder, error) {
	if width != 4 && width != 8 {
		return nil, fmt.Errorf("invalid plain float width %d", width)
	}

	return &FloatPlainEncoder{buf: pool.GetChunkBuffer(), width: width}, nil
}

func (e *FloatPlainEncoder) Write(v float64) {
	var tmp [8]byte
	if e.width == 4 {
		binary.LittleEndian.PutUint32(tmp[:], math.Float32bits(float32(v)))
	} else {
		binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v))
	}
	e.buf.MustWrite(tmp[:e.width])
	e.count++
}

func (e *FloatPlainEncoder) WriteSlice(values []float64) {
	e.buf.Grow(len(values) * e.width)
	for _, v := range values {
		e.Write(v)
	}
}

func (e *FloatPlainEncoder) Bytes() []byte { return e.buf.Bytes() }
func (e *FloatPlainEncoder) Len() int      { return e.count }
func (e *FloatPlainEncoder) Size() int     { return e.buf.Len() }

func (e *FloatPlainEncoder) Finish() {
	pool.PutChunkBuffer(e.buf)
	e.buf = pool.GetChunkBuffer()
	e.count = 0
}

// FloatPlainDecoder decodes FloatPlainEncoder output of the same width.
type FloatPlainDecoder struct {
	width int
}

var _ ColumnarDecoder[float64] = FloatPlainDecoder{}

func NewFloatPlainDecoder(width int) FloatPlainDecoder {
	return FloatPlainDecoder{width: width}
}

func (d FloatPlainDecoder) All(data []byte, count int) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		if d.width != 4 && d.width != 8 {
			return
		}
		for i := 0; i < count; i++ {
			off := i * d.width
			if off+d.width > len(data) {
				return
			}

			var v float64
			if d.width == 4 {
				v = float64(math.Float32frombits(binary.LittleEndian.Uint32(data[off:])))
			} else {
				v = math.Float64frombits(binary.LittleEndian.Uint64(data[off:]))
			}
			if !yield(v) {
				return
			}
		}
	}
}
