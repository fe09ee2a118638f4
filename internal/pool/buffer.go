// Package pool provides pooled byte buffers for chunk and footer encoding.
package pool

import (
	"io"
	"sync"
)

const (
	ChunkBufferDefaultSize   = 1024 * 16       // 16KiB
	ChunkBufferMaxThreshold  = 1024 * 256      // 256KiB
	FooterBufferDefaultSize  = 1024 * 64       // 64KiB
	FooterBufferMaxThreshold = 1024 * 1024 * 4 // 4MiB
)

// ByteBuffer is an append-only byte slice wrapper.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates an empty buffer with the given capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, defaultSize)}
}

// Bytes returns the underlying slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer and keeps its memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// MustWrite appends data.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// WriteByte appends one byte. It never fails.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.B = append(bb.B, c)
	return nil
}

// Grow ensures room for requiredBytes more bytes.
//
// Small buffers grow by ChunkBufferDefaultSize; buffers above four times that grow by 25% of
// their capacity.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	if cap(bb.B)-len(bb.B) >= requiredBytes {
		return
	}

	growBy := ChunkBufferDefaultSize
	if cap(bb.B) > 4*ChunkBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write implements io.Writer.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo implements io.WriterTo.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool pools ByteBuffers and drops buffers that grew beyond maxThreshold.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	chunkPool  = NewByteBufferPool(ChunkBufferDefaultSize, ChunkBufferMaxThreshold)
	footerPool = NewByteBufferPool(FooterBufferDefaultSize, FooterBufferMaxThreshold)
)

// GetChunkBuffer returns a buffer for encoding one series chunk.
func GetChunkBuffer() *ByteBuffer {
	return chunkPool.Get()
}

func PutChunkBuffer(bb *ByteBuffer) {
	chunkPool.Put(bb)
}

// GetFooterBuffer returns a buffer for assembling a file footer.
func GetFooterBuffer() *ByteBuffer {
	return footerPool.Get()
}

func PutFooterBuffer(bb *ByteBuffer) {
	footerPool.Put(bb)
}
