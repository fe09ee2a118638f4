package section

import (
	"bytes"
	"hash/crc32"

	"github.com/arloliu/tsmodel/endian"
	"github.com/arloliu/tsmodel/errs"
)

// Trailer closes a store file and locates the footer.
type Trailer struct {
	FooterOffset uint64
	FooterLen    uint32
	CRC          uint32 // CRC-32 (IEEE) of the footer bytes
}

// NewTrailer builds the trailer for a footer written at offset.
func NewTrailer(offset int64, footer []byte) Trailer {
	return Trailer{
		FooterOffset: uint64(offset),      //nolint:gosec
		FooterLen:    uint32(len(footer)), //nolint:gosec
		CRC:          crc32.ChecksumIEEE(footer),
	}
}

// Bytes serializes the trailer with engine.
func (t Trailer) Bytes(engine endian.Engine) []byte {
	b := make([]byte, 0, TrailerSize)
	b = engine.AppendUint64(b, t.FooterOffset)
	b = engine.AppendUint32(b, t.FooterLen)
	b = engine.AppendUint32(b, t.CRC)

	return append(b, Magic[:]...)
}

// Verify checks footer against FooterLen and CRC.
func (t Trailer) Verify(footer []byte) error {
	if uint32(len(footer)) != t.FooterLen || crc32.ChecksumIEEE(footer) != t.CRC { //nolint:gosec
		return errs.New(errs.KindMetadataInconsistency, "footer checksum mismatch")
	}

	return nil
}

// ParseTrailer parses the last TrailerSize bytes of a file.
//
// Parameters:
//   - data: exactly the trailing TrailerSize bytes
//   - engine: byte order recorded in the file header
//   - fileSize: total file size, used to bound the footer location
//
// Returns:
//   - error: errs.ErrPartialRead for short data, errs.ErrMetadataInconsistency for a missing magic
//     (typically a file that was never closed) or an out-of-bounds footer
func ParseTrailer(data []byte, engine endian.Engine, fileSize int64) (Trailer, error) {
	if len(data) != TrailerSize {
		return Trailer{}, errs.Newf(errs.KindPartialRead, "trailer needs %d bytes, got %d", TrailerSize, len(data))
	}
	if !bytes.Equal(data[16:20], Magic[:]) {
		return Trailer{}, errs.New(errs.KindMetadataInconsistency, "missing trailer magic: file not closed")
	}

	t := Trailer{
		FooterOffset: engine.Uint64(data[0:8]),
		FooterLen:    engine.Uint32(data[8:12]),
		CRC:          engine.Uint32(data[12:16]),
	}

	end := t.FooterOffset + uint64(t.FooterLen)
	if t.FooterOffset < FileHeaderSize || end > uint64(fileSize-TrailerSize) { //nolint:gosec
		return Trailer{}, errs.Newf(errs.KindMetadataInconsistency, "footer [%d, %d) out of file bounds", t.FooterOffset, end)
	}

	return t, nil
}
