package store

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/tsmodel/compress"
	"github.com/arloliu/tsmodel/datatype"
	"github.com/arloliu/tsmodel/encoding"
	"github.com/arloliu/tsmodel/endian"
	"github.com/arloliu/tsmodel/errs"
	"github.com/arloliu/tsmodel/section"
)

type chunkBlob struct {
	data   []byte
	header section.ChunkHeader
}

// normalize sorts points by timestamp and keeps the last write of each timestamp.
func normalize(points []point) []point {
	out := slices.Clone(points)
	slices.SortStableFunc(out, func(a, b point) int {
		return cmp.Compare(a.ts, b.ts)
	})

	n := 0
	for i := range out {
		if n > 0 && out[n-1].ts == out[i].ts {
			out[n-1] = out[i]
			continue
		}
		out[n] = out[i]
		n++
	}

	return out[:n]
}

// encodeChunk encodes the pending points of c. It only reads c.
func encodeChunk(c *series, engine endian.Engine) (chunkBlob, error) {
	points := normalize(c.pending)

	timestamps := make([]int64, len(points))
	values := make([]datatype.Value, len(points))
	for i, p := range points {
		timestamps[i] = p.ts
		values[i] = p.v
	}

	raw := encoding.EncodeTimestamps(timestamps)
	tsLen := len(raw)

	valueBytes, err := encoding.EncodeValues(c.dt, c.enc, values)
	if err != nil {
		return chunkBlob{}, err
	}
	raw = append(raw, valueBytes...)

	payload, _, err := compress.Compress(c.comp, raw)
	if err != nil {
		if errs.KindOf(err) == errs.KindInvalidArgument {
			return chunkBlob{}, err
		}

		return chunkBlob{}, errs.Newf(errs.KindCompressionFailure, "compress %s: %v", c.comp, err)
	}

	h := section.ChunkHeader{
		SeriesID:   c.id,
		DataType:   c.dt,
		Encoding:   c.enc,
		Compressor: c.comp,
		Count:      uint32(len(points)), //nolint:gosec
		MinTime:    points[0].ts,
		MaxTime:    points[len(points)-1].ts,
		TSLen:      uint32(tsLen), //nolint:gosec
	}
	if c.table {
		h.Flags |= section.ChunkFlagTable
	}
	h.Seal(payload)

	data := make([]byte, 0, section.ChunkHeaderSize+len(payload))
	data = append(data, h.Bytes(engine)...)
	data = append(data, payload...)

	return chunkBlob{header: h, data: data}, nil
}

func (s *Store) pendingSeries() []*series {
	var out []*series
	for _, name := range s.order {
		for _, c := range s.targets[name].columns {
			if len(c.pending) > 0 {
				out = append(out, c)
			}
		}
	}

	return out
}

// flushLocked encodes pending series concurrently and appends their chunks in registration
// order. The caller holds the write lock.
func (s *Store) flushLocked() error {
	pending := s.pendingSeries()
	if len(pending) == 0 {
		return nil
	}

	started := time.Now()
	blobs := make([]chunkBlob, len(pending))

	var g errgroup.Group
	g.SetLimit(s.cfg.FlushWorkers)
	for i, c := range pending {
		g.Go(func() error {
			blob, err := encodeChunk(c, s.engine)
			if err != nil {
				return fmt.Errorf("encode chunk %s: %w", c.path, err)
			}
			blobs[i] = blob

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	written := 0
	for i, c := range pending {
		blob := blobs[i]
		if _, err := s.file.WriteAt(blob.data, s.offset); err != nil {
			return errs.Newf(errs.KindFileWrite, "write chunk %s: %v", c.path, err)
		}

		c.chunks = append(c.chunks, chunkRef{
			Offset:  s.offset,
			MinTime: blob.header.MinTime,
			MaxTime: blob.header.MaxTime,
			Count:   blob.header.Count,
		})
		c.pending = nil
		s.offset += int64(len(blob.data))
		written += len(blob.data)
	}

	if s.cfg.SyncOnFlush {
		if err := s.file.Sync(); err != nil {
			return errs.Newf(errs.KindFileSync, "sync %s: %v", s.path, err)
		}
	}

	s.logger.Debug().
		Int("chunks", len(pending)).
		Int("bytes", written).
		Dur("elapsed", time.Since(started)).
		Msg("flushed")

	return nil
}

// maybeFlushLocked flushes once any series reaches the chunk point threshold.
func (s *Store) maybeFlushLocked() error {
	for _, name := range s.order {
		for _, c := range s.targets[name].columns {
			if len(c.pending) >= s.cfg.ChunkPointThreshold {
				return s.flushLocked()
			}
		}
	}

	return nil
}

// readChunk loads and decodes the chunk at ref.
func (s *Store) readChunk(c *series, ref chunkRef) ([]int64, []datatype.Value, error) {
	hb, err := s.readAt(section.ChunkHeaderSize, ref.Offset)
	if err != nil {
		return nil, nil, err
	}

	var h section.ChunkHeader
	if err := h.Parse(hb, s.engine); err != nil {
		return nil, nil, err
	}
	if h.SeriesID != c.id || h.DataType != c.dt || h.Count != ref.Count {
		return nil, nil, errs.Newf(errs.KindMetadataInconsistency, "chunk at %d does not belong to %s", ref.Offset, c.path)
	}

	payload, err := s.readAt(int(h.PayloadLen), ref.Offset+section.ChunkHeaderSize)
	if err != nil {
		return nil, nil, err
	}
	if err := h.Verify(payload); err != nil {
		return nil, nil, err
	}

	codec, err := compress.GetCodec(h.Compressor)
	if err != nil {
		return nil, nil, err
	}
	raw, err := codec.Decompress(payload)
	if err != nil {
		return nil, nil, errs.Newf(errs.KindCompressionFailure, "decompress chunk %s: %v", c.path, err)
	}
	if int(h.TSLen) > len(raw) {
		return nil, nil, errs.Newf(errs.KindMetadataInconsistency, "chunk %s: timestamp section exceeds payload", c.path)
	}

	count := int(h.Count)
	timestamps, err := encoding.DecodeTimestamps(raw[:h.TSLen], count)
	if err != nil {
		return nil, nil, err
	}
	values, err := encoding.DecodeValues(h.DataType, h.Encoding, raw[h.TSLen:], count)
	if err != nil {
		return nil, nil, err
	}

	return timestamps, values, nil
}
