package encoding

import (
	"encoding/binary"
	"iter"
	"math"
	"math/bits"

	"github.com/arloliu/tsmodel/internal/pool"
)

// GorillaEncoder compresses float64 values with the Gorilla XOR scheme.
//
// The first value is stored as 64 raw bits. Each later value is XORed with its predecessor:
//   - '0': identical value
//   - '10' + meaningful bits: the XOR fits in the previous leading/trailing zero window
//   - '11' + 5 bits leading zeros + 6 bits (length-1) + meaningful bits: new window
//
// FLOAT columns are widened to float64 before encoding, which is exact.
//
// See https://www.vldb.org/pvldb/vol8/p1816-teller.pdf.
type GorillaEncoder struct {
	bitBuf       uint64
	prev         uint64
	bitCount     int
	count        int
	prevLeading  int
	prevTrailing int
	buf          *pool.ByteBuffer
}

var _ ColumnarEncoder[float64] = (*GorillaEncoder)(nil)

func NewGorillaEncoder() *GorillaEncoder {
	return &GorillaEncoder{buf: pool.GetChunkBuffer(), prevLeading: -1}
}

func (e *GorillaEncoder) Write(v float64) {
	valBits := math.Float64bits(v)
	e.count++

	if e.count == 1 {
		e.prev = valBits
		e.writeBits(valBits, 64)

		return
	}

	xor := valBits ^ e.prev
	e.prev = valBits

	if xor == 0 {
		e.writeBits(0, 1)
		return
	}

	leading := bits.LeadingZeros64(xor)
	trailing := bits.TrailingZeros64(xor)
	if leading > 31 {
		leading = 31
	}

	if e.prevLeading >= 0 && leading >= e.prevLeading && trailing >= e.prevTrailing {
		size := 64 - e.prevLeading - e.prevTrailing
		e.writeBits(0b10, 2)
		e.writeBits(xor>>e.prevTrailing, size)

		return
	}

	size := 64 - leading - trailing
	e.writeBits(0b11, 2)
	e.writeBits(uint64(leading), 5) //nolint:gosec
	e.writeBits(uint64(size-1), 6)  //nolint:gosec
	e.writeBits(xor>>trailing, size)
	e.prevLeading = leading
	e.prevTrailing = trailing
}

func (e *GorillaEncoder) WriteSlice(values []float64) {
	e.buf.Grow(len(values) * 2)
	for _, v := range values {
		e.Write(v)
	}
}

// writeBits appends the low numBits of value, most significant first.
func (e *GorillaEncoder) writeBits(value uint64, numBits int) {
	if numBits < 64 {
		value &= (1 << numBits) - 1
	}

	available := 64 - e.bitCount
	if numBits <= available {
		if numBits == 64 {
			e.bitBuf = value
		} else {
			e.bitBuf = (e.bitBuf << numBits) | value
		}
		e.bitCount += numBits
		if e.bitCount == 64 {
			e.flushWord()
		}

		return
	}

	rest := numBits - available
	e.bitBuf = (e.bitBuf << available) | (value >> rest)
	e.bitCount = 64
	e.flushWord()

	e.bitBuf = value & ((1 << rest) - 1)
	e.bitCount = rest
}

func (e *GorillaEncoder) flushWord() {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], e.bitBuf)
	e.buf.MustWrite(tmp[:])
	e.bitBuf = 0
	e.bitCount = 0
}

// Bytes returns the encoded stream including any partially filled trailing byte.
func (e *GorillaEncoder) Bytes() []byte {
	if e.bitCount == 0 {
		return e.buf.Bytes()
	}

	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], e.bitBuf<<(64-e.bitCount))
	out := make([]byte, e.buf.Len(), e.buf.Len()+8)
	copy(out, e.buf.Bytes())

	return append(out, tmp[:(e.bitCount+7)/8]...)
}

func (e *GorillaEncoder) Len() int {
	return e.count
}

func (e *GorillaEncoder) Size() int {
	return e.buf.Len() + (e.bitCount+7)/8
}

func (e *GorillaEncoder) Finish() {
	pool.PutChunkBuffer(e.buf)
	e.buf = pool.GetChunkBuffer()
	e.bitBuf = 0
	e.bitCount = 0
	e.prev = 0
	e.count = 0
	e.prevLeading = -1
	e.prevTrailing = 0
}

// GorillaDecoder decodes GorillaEncoder output.
type GorillaDecoder struct{}

var _ ColumnarDecoder[float64] = GorillaDecoder{}

func NewGorillaDecoder() GorillaDecoder {
	return GorillaDecoder{}
}

func (d GorillaDecoder) All(data []byte, count int) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		if len(data) == 0 || count <= 0 {
			return
		}

		br := bitReader{data: data}
		prev, ok := br.readBits(64)
		if !ok || !yield(math.Float64frombits(prev)) {
			return
		}

		trailing, size := 0, 0
		for i := 1; i < count; i++ {
			ctrl, ok := br.readBits(1)
			if !ok {
				return
			}

			if ctrl == 1 {
				reuse, ok := br.readBits(1)
				if !ok {
					return
				}
				if reuse == 1 {
					leading, ok1 := br.readBits(5)
					sz, ok2 := br.readBits(6)
					if !ok1 || !ok2 {
						return
					}
					size = int(sz) + 1                  //nolint:gosec
					trailing = 64 - int(leading) - size //nolint:gosec
					if trailing < 0 {
						return
					}
				} else if size == 0 {
					return
				}

				meaningful, ok := br.readBits(size)
				if !ok {
					return
				}
				prev ^= meaningful << trailing
			}

			if !yield(math.Float64frombits(prev)) {
				return
			}
		}
	}
}

// bitReader reads big-endian bit fields from a byte slice.
type bitReader struct {
	data     []byte
	pos      int
	bitBuf   uint64
	bitCount int
}

func (br *bitReader) fill() bool {
	if br.pos >= len(br.data) {
		return false
	}

	n := len(br.data) - br.pos
	if n >= 8 {
		br.bitBuf = binary.BigEndian.Uint64(br.data[br.pos:])
		br.pos += 8
		br.bitCount = 64

		return true
	}

	br.bitBuf = 0
	for i := 0; i < n; i++ {
		br.bitBuf = (br.bitBuf << 8) | uint64(br.data[br.pos])
		br.pos++
	}
	br.bitBuf <<= (8 - n) * 8
	br.bitCount = n * 8

	return true
}

// readBits reads numBits (1-64) bits right-aligned.
func (br *bitReader) readBits(numBits int) (uint64, bool) {
	var result uint64
	for numBits > 0 {
		if br.bitCount == 0 && !br.fill() {
			return 0, false
		}

		take := min(numBits, br.bitCount)
		chunk := br.bitBuf >> (64 - take)
		if take == 64 {
			result = chunk
			br.bitBuf = 0
		} else {
			result = (result << take) | chunk
			br.bitBuf <<= take
		}
		br.bitCount -= take
		numBits -= take
	}

	return result, true
}
