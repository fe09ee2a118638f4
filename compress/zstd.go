package compress

// ZstdCompressor backs the ZSTD tag.
//
// The default build uses github.com/klauspost/compress/zstd with pooled encoders and decoders.
// Building with the gozstd tag and cgo enabled switches to github.com/valyala/gozstd; both produce
// standard zstd frames and read each other's output.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
