package compress

import "github.com/golang/snappy"

// SnappyCompressor backs the SNAPPY tag using the block format.
type SnappyCompressor struct{}

var _ Codec = (*SnappyCompressor)(nil)

func NewSnappyCompressor() SnappyCompressor {
	return SnappyCompressor{}
}

func (c SnappyCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return snappy.Encode(nil, data), nil
}

func (c SnappyCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return snappy.Decode(nil, data)
}
