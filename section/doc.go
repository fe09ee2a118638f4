// Package section defines the fixed-size binary structures of a store file.
//
// A store file is laid out as:
//
//	┌──────────────────────────────────────────────┐
//	│ FileHeader (24 bytes)                        │
//	│  - magic "TSMD", version, flags, file id     │
//	├──────────────────────────────────────────────┤
//	│ Chunk 0: ChunkHeader (44 bytes) + payload    │
//	│ Chunk 1: ChunkHeader (44 bytes) + payload    │
//	│ ...                                          │
//	├──────────────────────────────────────────────┤
//	│ Footer (variable)                            │
//	│  - catalog of schemas and chunk offsets      │
//	├──────────────────────────────────────────────┤
//	│ Trailer (20 bytes)                           │
//	│  - footer offset, footer length, crc, magic  │
//	└──────────────────────────────────────────────┘
//
// The header flags select the byte order of every later fixed-size section. The magic and the
// file id are raw bytes and read the same in either order.
//
// # Chunk Header
//
//	Bytes  | Field       | Type   | Description
//	-------|-------------|--------|------------------------------------------
//	0-7    | SeriesID    | uint64 | xxHash64 of "device.measurement"
//	8      | DataType    | uint8  | stored column type
//	9      | Encoding    | uint8  | value encoding
//	10     | Compressor  | uint8  | payload compressor
//	11     | Flags       | uint8  | ChunkFlagTable for table columns
//	12-15  | Count       | uint32 | number of points
//	16-23  | MinTime     | int64  | first timestamp
//	24-31  | MaxTime     | int64  | last timestamp
//	32-35  | TSLen       | uint32 | uncompressed timestamp section length
//	36-39  | PayloadLen  | uint32 | compressed payload length
//	40-43  | CRC         | uint32 | CRC-32 (IEEE) of the compressed payload
//
// The payload is the compressed concatenation of the timestamp section and the value section.
package section
