package section

import (
	"bytes"

	"github.com/google/uuid"

	"github.com/arloliu/tsmodel/endian"
	"github.com/arloliu/tsmodel/errs"
)

// FileHeader is the fixed-size section at offset 0 of a store file.
type FileHeader struct {
	// FileID identifies the file; the footer repeats it so a reader can detect a footer that
	// belongs to another file.
	FileID  uuid.UUID
	Version uint8
	Flags   uint8
}

// NewFileHeader creates a header with a fresh random file id.
func NewFileHeader(bigEndian bool) FileHeader {
	h := FileHeader{FileID: uuid.New(), Version: Version}
	if bigEndian {
		h.Flags |= FlagBigEndian
	}

	return h
}

// IsBigEndian reports whether the file's sections are big-endian.
func (h FileHeader) IsBigEndian() bool {
	return h.Flags&FlagBigEndian != 0
}

// Engine returns the byte order engine for the file's sections.
func (h FileHeader) Engine() endian.Engine {
	return endian.ForFlag(h.IsBigEndian())
}

// Bytes serializes the header.
func (h FileHeader) Bytes() []byte {
	b := make([]byte, FileHeaderSize)
	copy(b[0:4], Magic[:])
	b[4] = h.Version
	b[5] = h.Flags
	copy(b[8:24], h.FileID[:])

	return b
}

// ParseFileHeader parses a FileHeader from the start of data.
//
// Returns:
//   - error: errs.ErrPartialRead if data is shorter than FileHeaderSize,
//     errs.ErrMetadataInconsistency for a bad magic or an unknown version
func ParseFileHeader(data []byte) (FileHeader, error) {
	if len(data) < FileHeaderSize {
		return FileHeader{}, errs.Newf(errs.KindPartialRead, "file header needs %d bytes, got %d", FileHeaderSize, len(data))
	}
	if !bytes.Equal(data[0:4], Magic[:]) {
		return FileHeader{}, errs.New(errs.KindMetadataInconsistency, "not a store file: bad magic")
	}

	h := FileHeader{Version: data[4], Flags: data[5]}
	if h.Version == 0 || h.Version > Version {
		return FileHeader{}, errs.Newf(errs.KindMetadataInconsistency, "unsupported file version %d", h.Version)
	}
	copy(h.FileID[:], data[8:24])

	return h, nil
}
