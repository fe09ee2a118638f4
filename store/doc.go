// Package store is a file-backed storage engine implementing engine.Native.
//
// A Store is opened either for writing (Create) or for reading (Open). In write mode points are
// buffered per series and flushed as self-describing chunks: a fixed-size section.ChunkHeader
// followed by the compressed concatenation of the delta-encoded timestamps and the encoded
// values. Chunks of different series are encoded concurrently on flush and written in
// registration order. Close appends the footer, an s2-compressed msgpack catalog of schemas and
// chunk locations, and the trailer that locates it.
//
// Chunks store only non-null points. A query merges the chunks and buffered points of every
// requested column, keeps the last write for a repeated timestamp and fills missing points with
// null values.
//
// All methods are safe for concurrent use.
package store
