package compress

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"
)

var gzipWriterPool = sync.Pool{
	New: func() any {
		return gzip.NewWriter(nil)
	},
}

// GzipCompressor backs the GZIP tag.
type GzipCompressor struct{}

var _ Codec = (*GzipCompressor)(nil)

func NewGzipCompressor() GzipCompressor {
	return GzipCompressor{}
}

// Compress writes a single gzip member using a pooled writer.
func (c GzipCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	w, _ := gzipWriterPool.Get().(*gzip.Writer)
	defer gzipWriterPool.Put(w)
	w.Reset(&buf)

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("gzip compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gzip compression failed: %w", err)
	}

	return buf.Bytes(), nil
}

func (c GzipCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip decompression failed: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gzip decompression failed: %w", err)
	}

	return out, nil
}
