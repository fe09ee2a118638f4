package compress

import (
	"github.com/arloliu/tsmodel/errs"
	"github.com/arloliu/tsmodel/format"
)

// Compressor compresses an encoded chunk payload.
//
// Memory management:
//   - Returned slice is owned by the caller
//   - Input slice is not modified
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor.
//
// Decompress returns an error if the input is corrupted or was produced by a different
// algorithm.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// Stats describes one compression call.
type Stats struct {
	Algorithm      format.Compressor
	OriginalSize   int64
	CompressedSize int64
}

// Ratio returns compressed size / original size, 0 for empty input.
func (s Stats) Ratio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the saved space as a percentage.
func (s Stats) SpaceSavings() float64 {
	return (1.0 - s.Ratio()) * 100.0
}

var builtinCodecs = map[format.Compressor]Codec{
	format.CompressorUncompressed: NewNoOpCompressor(),
	format.CompressorSnappy:       NewSnappyCompressor(),
	format.CompressorGzip:         NewGzipCompressor(),
	format.CompressorLZ4:          NewLZ4Compressor(),
	format.CompressorZstd:         NewZstdCompressor(),
}

// Supported reports whether c has a built-in codec.
func Supported(c format.Compressor) bool {
	_, ok := builtinCodecs[c]
	return ok
}

// GetCodec returns the built-in Codec for c.
//
// Returns:
//   - Codec: shared codec instance, safe for concurrent use
//   - error: errs.ErrInvalidArgument for tags without a codec (LZO, SDT, PAA, PLA, LZMA2)
func GetCodec(c format.Compressor) (Codec, error) {
	if codec, ok := builtinCodecs[c]; ok {
		return codec, nil
	}

	return nil, errs.Newf(errs.KindInvalidArgument, "unsupported compressor: %s", c)
}

// Compress compresses data with the codec for c and reports the sizes.
func Compress(c format.Compressor, data []byte) ([]byte, Stats, error) {
	codec, err := GetCodec(c)
	if err != nil {
		return nil, Stats{}, err
	}

	out, err := codec.Compress(data)
	if err != nil {
		return nil, Stats{}, err
	}

	return out, Stats{Algorithm: c, OriginalSize: int64(len(data)), CompressedSize: int64(len(out))}, nil
}
