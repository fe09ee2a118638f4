package section

// Magic identifies a store file. It opens the file header and closes the trailer.
var Magic = [4]byte{'T', 'S', 'M', 'D'}

const (
	// Version is the current store file version.
	Version uint8 = 1

	FileHeaderSize  = 24 // magic(4) version(1) flags(1) reserved(2) file id(16)
	ChunkHeaderSize = 44
	TrailerSize     = 20 // footer offset(8) footer length(4) crc(4) magic(4)
)

// File header flags.
const (
	FlagBigEndian uint8 = 0x01
)

// Chunk header flags.
const (
	ChunkFlagTable uint8 = 0x01 // chunk holds a table column rather than a device measurement
)

// MaxChunkPayload bounds the payload length a reader accepts for a single chunk.
const MaxChunkPayload = 256 << 20
