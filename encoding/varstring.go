package encoding

import (
	"encoding/binary"
	"iter"

	"github.com/arloliu/tsmodel/internal/pool"
)

// VarBinaryEncoder encodes variable-length byte strings, each as a uvarint length followed by
// the raw bytes. It backs TEXT, STRING and BLOB columns.
type VarBinaryEncoder struct {
	temp  [binary.MaxVarintLen64]byte
	buf   *pool.ByteBuffer
	count int
}

var _ ColumnarEncoder[string] = (*VarBinaryEncoder)(nil)

func NewVarBinaryEncoder() *VarBinaryEncoder {
	return &VarBinaryEncoder{buf: pool.GetChunkBuffer()}
}

// WriteBytes appends b.
func (e *VarBinaryEncoder) WriteBytes(b []byte) {
	n := binary.PutUvarint(e.temp[:], uint64(len(b)))
	e.buf.Grow(n + len(b))
	e.buf.MustWrite(e.temp[:n])
	e.buf.MustWrite(b)
	e.count++
}

// Write appends s.
func (e *VarBinaryEncoder) Write(s string) {
	e.WriteBytes([]byte(s))
}

func (e *VarBinaryEncoder) WriteSlice(values []string) {
	total := 0
	for _, s := range values {
		total += binary.MaxVarintLen32 + len(s)
	}
	e.buf.Grow(total)

	for _, s := range values {
		e.Write(s)
	}
}

func (e *VarBinaryEncoder) Bytes() []byte { return e.buf.Bytes() }
func (e *VarBinaryEncoder) Len() int      { return e.count }
func (e *VarBinaryEncoder) Size() int     { return e.buf.Len() }

func (e *VarBinaryEncoder) Finish() {
	pool.PutChunkBuffer(e.buf)
	e.buf = pool.GetChunkBuffer()
	e.count = 0
}

// VarBinaryDecoder decodes VarBinaryEncoder output.
type VarBinaryDecoder struct{}

// AllBytes yields up to count byte strings. Yielded slices alias data.
func (d VarBinaryDecoder) AllBytes(data []byte, count int) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		offset := 0
		for i := 0; i < count && offset < len(data); i++ {
			size, n := binary.Uvarint(data[offset:])
			if n <= 0 {
				return
			}
			offset += n
			if size > uint64(len(data)-offset) {
				return
			}

			end := offset + int(size) //nolint:gosec
			if !yield(data[offset:end:end]) {
				return
			}
			offset = end
		}
	}
}
