// Package format defines the per-series encoding and compression tags and the column category
// used by table schemas. Tag values match the storage engine's codes.
package format

import (
	"fmt"
	"strings"
)

type (
	Encoding   uint8
	Compressor uint8
	Category   uint8
)

const (
	EncodingPlain      Encoding = 0  // EncodingPlain stores values as-is.
	EncodingDictionary Encoding = 1  // EncodingDictionary stores text through a dictionary.
	EncodingRLE        Encoding = 2  // EncodingRLE represents run-length encoding.
	EncodingDiff       Encoding = 3  // EncodingDiff represents delta encoding.
	EncodingTS2Diff    Encoding = 4  // EncodingTS2Diff represents delta-of-delta encoding.
	EncodingBitmap     Encoding = 5  // EncodingBitmap represents bitmap encoding.
	EncodingGorillaV1  Encoding = 6  // EncodingGorillaV1 represents the first Gorilla revision.
	EncodingRegular    Encoding = 7  // EncodingRegular represents regular-interval encoding.
	EncodingGorilla    Encoding = 8  // EncodingGorilla represents Gorilla XOR encoding.
	EncodingZigzag     Encoding = 9  // EncodingZigzag represents zigzag encoding.
	EncodingChimp      Encoding = 11 // EncodingChimp represents Chimp encoding.
	EncodingSprintz    Encoding = 12 // EncodingSprintz represents Sprintz encoding.
	EncodingRLBE       Encoding = 13 // EncodingRLBE represents run-length bit-packing encoding.

	CompressorUncompressed Compressor = 0 // CompressorUncompressed represents no compression.
	CompressorSnappy       Compressor = 1 // CompressorSnappy represents Snappy compression.
	CompressorGzip         Compressor = 2 // CompressorGzip represents Gzip compression.
	CompressorLZO          Compressor = 3 // CompressorLZO represents LZO compression.
	CompressorSDT          Compressor = 4 // CompressorSDT represents swinging-door trending.
	CompressorPAA          Compressor = 5 // CompressorPAA represents piecewise aggregate approximation.
	CompressorPLA          Compressor = 6 // CompressorPLA represents piecewise linear approximation.
	CompressorLZ4          Compressor = 7 // CompressorLZ4 represents LZ4 compression.
	CompressorZstd         Compressor = 8 // CompressorZstd represents Zstandard compression.
	CompressorLZMA2        Compressor = 9 // CompressorLZMA2 represents LZMA2 compression.

	CategoryTag   Category = 0 // CategoryTag marks an identifying column of a table.
	CategoryField Category = 1 // CategoryField marks a measured column of a table.
)

var encodingNames = map[Encoding]string{
	EncodingPlain:      "PLAIN",
	EncodingDictionary: "DICTIONARY",
	EncodingRLE:        "RLE",
	EncodingDiff:       "DIFF",
	EncodingTS2Diff:    "TS_2DIFF",
	EncodingBitmap:     "BITMAP",
	EncodingGorillaV1:  "GORILLA_V1",
	EncodingRegular:    "REGULAR",
	EncodingGorilla:    "GORILLA",
	EncodingZigzag:     "ZIGZAG",
	EncodingChimp:      "CHIMP",
	EncodingSprintz:    "SPRINTZ",
	EncodingRLBE:       "RLBE",
}

var compressorNames = map[Compressor]string{
	CompressorUncompressed: "UNCOMPRESSED",
	CompressorSnappy:       "SNAPPY",
	CompressorGzip:         "GZIP",
	CompressorLZO:          "LZO",
	CompressorSDT:          "SDT",
	CompressorPAA:          "PAA",
	CompressorPLA:          "PLA",
	CompressorLZ4:          "LZ4",
	CompressorZstd:         "ZSTD",
	CompressorLZMA2:        "LZMA2",
}

func (e Encoding) String() string {
	if name, ok := encodingNames[e]; ok {
		return name
	}

	return "Unknown"
}

// IsValid reports whether e is a known encoding tag.
func (e Encoding) IsValid() bool {
	_, ok := encodingNames[e]
	return ok
}

func (c Compressor) String() string {
	if name, ok := compressorNames[c]; ok {
		return name
	}

	return "Unknown"
}

// IsValid reports whether c is a known compressor tag.
func (c Compressor) IsValid() bool {
	_, ok := compressorNames[c]
	return ok
}

func (c Category) String() string {
	switch c {
	case CategoryTag:
		return "TAG"
	case CategoryField:
		return "FIELD"
	default:
		return "Unknown"
	}
}

// ParseCompressor resolves a compressor name such as "zstd" or "UNCOMPRESSED".
func ParseCompressor(name string) (Compressor, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for c, n := range compressorNames {
		if n == upper {
			return c, nil
		}
	}

	return 0, fmt.Errorf("unknown compressor: %q", name)
}

// ParseEncoding resolves an encoding name such as "ts_2diff" or "PLAIN".
func ParseEncoding(name string) (Encoding, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for e, n := range encodingNames {
		if n == upper {
			return e, nil
		}
	}

	return 0, fmt.Errorf("unknown encoding: %q", name)
}
