package compress

// NoOpCompressor passes data through unchanged. It backs the UNCOMPRESSED tag.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns data itself; the result shares memory with the input.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data itself; the result shares memory with the input.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
