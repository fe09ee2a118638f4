// Package compress provides the chunk payload codecs of the reference store.
//
// Each format.Compressor tag that the store accepts maps to one Codec:
//
//	UNCOMPRESSED  NoOpCompressor
//	SNAPPY        SnappyCompressor (github.com/golang/snappy)
//	GZIP          GzipCompressor   (github.com/klauspost/compress/gzip)
//	LZ4           LZ4Compressor    (github.com/pierrec/lz4/v4)
//	ZSTD          ZstdCompressor   (github.com/klauspost/compress/zstd, or valyala/gozstd
//	              when built with the gozstd tag and cgo)
//
// S2Compressor has no tag of its own; the store uses it for the file footer.
//
// Every codec is stateless from the caller's point of view and safe for concurrent use. Encoders
// and decoders with warm-up cost are pooled internally.
//
// Usage:
//
//	codec, err := compress.GetCodec(format.CompressorZstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(payload)
package compress
