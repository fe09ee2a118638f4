package section

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/tsmodel/datatype"
	"github.com/arloliu/tsmodel/endian"
	"github.com/arloliu/tsmodel/errs"
	"github.com/arloliu/tsmodel/format"
)

func TestFileHeader_RoundTrip(t *testing.T) {
	for _, big := range []bool{false, true} {
		h := NewFileHeader(big)
		require.NotEqual(t, uuid.Nil, h.FileID)
		require.Equal(t, big, h.IsBigEndian())
		require.Equal(t, big, endian.IsBig(h.Engine()))

		data := h.Bytes()
		require.Len(t, data, FileHeaderSize)
		require.Equal(t, Magic[:], data[0:4])

		parsed, err := ParseFileHeader(data)
		require.NoError(t, err)
		require.Equal(t, h, parsed)
	}
}

func TestParseFileHeader_Errors(t *testing.T) {
	_, err := ParseFileHeader([]byte("TSMD"))
	require.ErrorIs(t, err, errs.ErrPartialRead)

	data := NewFileHeader(false).Bytes()
	data[0] = 'X'
	_, err = ParseFileHeader(data)
	require.ErrorIs(t, err, errs.ErrMetadataInconsistency)

	data = NewFileHeader(false).Bytes()
	data[4] = Version + 1
	_, err = ParseFileHeader(data)
	require.ErrorIs(t, err, errs.ErrMetadataInconsistency)
}

func sampleChunkHeader() ChunkHeader {
	return ChunkHeader{
		SeriesID:   0xDEADBEEFCAFEF00D,
		DataType:   datatype.Double,
		Encoding:   format.EncodingGorilla,
		Compressor: format.CompressorZstd,
		Flags:      ChunkFlagTable,
		Count:      3,
		MinTime:    -10,
		MaxTime:    1700000000000,
		TSLen:      12,
	}
}

func TestChunkHeader_RoundTrip(t *testing.T) {
	payload := []byte("compressed payload")

	for _, engine := range []endian.Engine{endian.Little(), endian.Big()} {
		h := sampleChunkHeader()
		h.Seal(payload)
		require.Equal(t, uint32(len(payload)), h.PayloadLen)

		data := h.Bytes(engine)
		require.Len(t, data, ChunkHeaderSize)

		var parsed ChunkHeader
		require.NoError(t, parsed.Parse(data, engine))
		require.Equal(t, h, parsed)
		require.True(t, parsed.IsTable())
		require.NoError(t, parsed.Verify(payload))
	}
}

func TestChunkHeader_Verify(t *testing.T) {
	h := sampleChunkHeader()
	h.Seal([]byte{1, 2, 3})

	require.ErrorIs(t, h.Verify([]byte{1, 2}), errs.ErrMetadataInconsistency)
	require.ErrorIs(t, h.Verify([]byte{1, 2, 4}), errs.ErrMetadataInconsistency)
}

func TestChunkHeader_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(h *ChunkHeader)
		kind   errs.Kind
	}{
		{"bad type", func(h *ChunkHeader) { h.DataType = datatype.None }, errs.KindTypeNotSupported},
		{"bad encoding", func(h *ChunkHeader) { h.Encoding = 200 }, errs.KindMetadataInconsistency},
		{"bad compressor", func(h *ChunkHeader) { h.Compressor = 200 }, errs.KindMetadataInconsistency},
		{"empty", func(h *ChunkHeader) { h.Count = 0 }, errs.KindMetadataInconsistency},
		{"inverted bounds", func(h *ChunkHeader) { h.MinTime, h.MaxTime = 5, 4 }, errs.KindMetadataInconsistency},
		{"huge payload", func(h *ChunkHeader) { h.PayloadLen = MaxChunkPayload + 1 }, errs.KindMetadataInconsistency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := sampleChunkHeader()
			tt.mutate(&h)
			require.Equal(t, tt.kind, errs.KindOf(h.Validate()))
		})
	}

	var h ChunkHeader
	require.ErrorIs(t, h.Parse(make([]byte, ChunkHeaderSize-1), endian.Little()), errs.ErrPartialRead)
}

func TestTrailer_RoundTrip(t *testing.T) {
	footer := []byte("footer bytes")
	offset := int64(FileHeaderSize + 100)
	fileSize := offset + int64(len(footer)) + TrailerSize

	for _, engine := range []endian.Engine{endian.Little(), endian.Big()} {
		tr := NewTrailer(offset, footer)
		data := tr.Bytes(engine)
		require.Len(t, data, TrailerSize)

		parsed, err := ParseTrailer(data, engine, fileSize)
		require.NoError(t, err)
		require.Equal(t, tr, parsed)
		require.NoError(t, parsed.Verify(footer))
		require.ErrorIs(t, parsed.Verify([]byte("footer bytez")), errs.ErrMetadataInconsistency)
	}
}

func TestParseTrailer_Errors(t *testing.T) {
	engine := endian.Little()
	footer := []byte("footer")
	offset := int64(FileHeaderSize)
	fileSize := offset + int64(len(footer)) + TrailerSize

	_, err := ParseTrailer(make([]byte, TrailerSize-1), engine, fileSize)
	require.ErrorIs(t, err, errs.ErrPartialRead)

	data := NewTrailer(offset, footer).Bytes(engine)
	data[TrailerSize-1] = 0
	_, err = ParseTrailer(data, engine, fileSize)
	require.ErrorIs(t, err, errs.ErrMetadataInconsistency)

	data = NewTrailer(offset, footer).Bytes(engine)
	_, err = ParseTrailer(data, engine, fileSize-1)
	require.ErrorIs(t, err, errs.ErrMetadataInconsistency)

	data = NewTrailer(0, footer).Bytes(engine)
	_, err = ParseTrailer(data, engine, fileSize)
	require.ErrorIs(t, err, errs.ErrMetadataInconsistency)
}
