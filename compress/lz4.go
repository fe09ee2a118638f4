package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

const (
	lz4Stored byte = 0x00
	lz4Block  byte = 0x01

	lz4MaxSize = 128 * 1024 * 1024
)

var errLZ4Corrupt = errors.New("lz4: corrupted payload")

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor backs the LZ4 tag.
//
// Payload layout: one flag byte, the uvarint original length, then either an LZ4 block or, for
// input LZ4 cannot shrink, the original bytes.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, 1+binary.MaxVarintLen64+lz4.CompressBlockBound(len(data)))
	hdr := 1 + binary.PutUvarint(dst[1:], uint64(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[hdr:])
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}

	// CompressBlock reports 0 for incompressible input
	if n == 0 || n >= len(data) {
		dst[0] = lz4Stored
		return append(dst[:hdr], data...), nil
	}
	dst[0] = lz4Block

	return dst[:hdr+n], nil
}

func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	size, n := binary.Uvarint(data[1:])
	if n <= 0 || size > lz4MaxSize {
		return nil, errLZ4Corrupt
	}
	body := data[1+n:]

	switch data[0] {
	case lz4Stored:
		if uint64(len(body)) != size {
			return nil, errLZ4Corrupt
		}

		return append([]byte(nil), body...), nil
	case lz4Block:
		buf := make([]byte, size)
		got, err := lz4.UncompressBlock(body, buf)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompression failed: %w", err)
		}
		if uint64(got) != size {
			return nil, errLZ4Corrupt
		}

		return buf, nil
	default:
		return nil, errLZ4Corrupt
	}
}
