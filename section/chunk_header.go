package section

import (
	"hash/crc32"

	"github.com/arloliu/tsmodel/datatype"
	"github.com/arloliu/tsmodel/endian"
	"github.com/arloliu/tsmodel/errs"
	"github.com/arloliu/tsmodel/format"
)

// ChunkHeader precedes every chunk payload.
type ChunkHeader struct {
	SeriesID   uint64
	MinTime    int64
	MaxTime    int64
	Count      uint32
	TSLen      uint32
	PayloadLen uint32
	CRC        uint32
	DataType   datatype.DataType
	Encoding   format.Encoding
	Compressor format.Compressor
	Flags      uint8
}

// IsTable reports whether the chunk holds a table column.
func (h *ChunkHeader) IsTable() bool {
	return h.Flags&ChunkFlagTable != 0
}

// Seal sets PayloadLen and CRC from the compressed payload.
func (h *ChunkHeader) Seal(payload []byte) {
	h.PayloadLen = uint32(len(payload)) //nolint:gosec
	h.CRC = crc32.ChecksumIEEE(payload)
}

// Verify checks payload against PayloadLen and CRC.
//
// Returns:
//   - error: errs.ErrMetadataInconsistency on a length or checksum mismatch
func (h *ChunkHeader) Verify(payload []byte) error {
	if uint32(len(payload)) != h.PayloadLen { //nolint:gosec
		return errs.Newf(errs.KindMetadataInconsistency, "chunk %016x: payload length %d, header says %d", h.SeriesID, len(payload), h.PayloadLen)
	}
	if crc := crc32.ChecksumIEEE(payload); crc != h.CRC {
		return errs.Newf(errs.KindMetadataInconsistency, "chunk %016x: checksum mismatch", h.SeriesID)
	}

	return nil
}

// Validate checks the enum fields and the time bounds.
func (h *ChunkHeader) Validate() error {
	if err := datatype.Check(h.DataType); err != nil {
		return err
	}
	if !h.Encoding.IsValid() {
		return errs.Newf(errs.KindMetadataInconsistency, "chunk %016x: invalid encoding %d", h.SeriesID, uint8(h.Encoding))
	}
	if !h.Compressor.IsValid() {
		return errs.Newf(errs.KindMetadataInconsistency, "chunk %016x: invalid compressor %d", h.SeriesID, uint8(h.Compressor))
	}
	if h.Count == 0 || h.MinTime > h.MaxTime {
		return errs.Newf(errs.KindMetadataInconsistency, "chunk %016x: invalid bounds count=%d [%d, %d]", h.SeriesID, h.Count, h.MinTime, h.MaxTime)
	}
	if h.PayloadLen > MaxChunkPayload {
		return errs.Newf(errs.KindMetadataInconsistency, "chunk %016x: payload length %d exceeds limit", h.SeriesID, h.PayloadLen)
	}

	return nil
}

// Bytes serializes the header with engine.
func (h *ChunkHeader) Bytes(engine endian.Engine) []byte {
	b := make([]byte, 0, ChunkHeaderSize)
	b = engine.AppendUint64(b, h.SeriesID)
	b = append(b, uint8(h.DataType), uint8(h.Encoding), uint8(h.Compressor), h.Flags)
	b = engine.AppendUint32(b, h.Count)
	b = engine.AppendUint64(b, uint64(h.MinTime)) //nolint:gosec
	b = engine.AppendUint64(b, uint64(h.MaxTime)) //nolint:gosec
	b = engine.AppendUint32(b, h.TSLen)
	b = engine.AppendUint32(b, h.PayloadLen)
	b = engine.AppendUint32(b, h.CRC)

	return b
}

// Parse parses the header from data with engine and validates it.
//
// Parameters:
//   - data: at least ChunkHeaderSize bytes
//   - engine: byte order recorded in the file header
//
// Returns:
//   - error: errs.ErrPartialRead for short data, or a Validate error
func (h *ChunkHeader) Parse(data []byte, engine endian.Engine) error {
	if len(data) < ChunkHeaderSize {
		return errs.Newf(errs.KindPartialRead, "chunk header needs %d bytes, got %d", ChunkHeaderSize, len(data))
	}

	h.SeriesID = engine.Uint64(data[0:8])
	h.DataType = datatype.DataType(data[8])
	h.Encoding = format.Encoding(data[9])
	h.Compressor = format.Compressor(data[10])
	h.Flags = data[11]
	h.Count = engine.Uint32(data[12:16])
	h.MinTime = int64(engine.Uint64(data[16:24])) //nolint:gosec
	h.MaxTime = int64(engine.Uint64(data[24:32])) //nolint:gosec
	h.TSLen = engine.Uint32(data[32:36])
	h.PayloadLen = engine.Uint32(data[36:40])
	h.CRC = engine.Uint32(data[40:44])

	return h.Validate()
}
