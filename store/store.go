package store

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/arloliu/tsmodel/compress"
	"github.com/arloliu/tsmodel/config"
	"github.com/arloliu/tsmodel/datatype"
	"github.com/arloliu/tsmodel/endian"
	"github.com/arloliu/tsmodel/engine"
	"github.com/arloliu/tsmodel/errs"
	"github.com/arloliu/tsmodel/format"
	"github.com/arloliu/tsmodel/internal/collision"
	"github.com/arloliu/tsmodel/internal/options"
	"github.com/arloliu/tsmodel/internal/pool"
	"github.com/arloliu/tsmodel/section"
)

// Store is a file-backed engine.Native.
type Store struct {
	file     *os.File
	engine   endian.Engine
	tracker  *collision.Tracker
	targets  map[string]*target
	logger   zerolog.Logger
	path     string
	order    []string
	cfg      config.StoreConfig
	header   section.FileHeader
	offset   int64
	mu       sync.RWMutex
	readOnly bool
	closed   bool
}

var _ engine.Native = (*Store)(nil)

func newStore(path string, opts []Option) (*Store, error) {
	s := &Store{
		path:    path,
		cfg:     config.Default().Store,
		logger:  zerolog.Nop(),
		tracker: collision.NewTracker(),
		targets: make(map[string]*target),
	}
	if err := options.Apply(s, opts...); err != nil {
		return nil, err
	}

	return s, nil
}

// Create creates a new store file for writing. The file must not exist.
//
// Parameters:
//   - path: file path
//   - opts: store options
//
// Returns:
//   - *Store: store in write mode
//   - error: errs.ErrAlreadyExists when path exists, errs.ErrFileOpen / errs.ErrFileWrite on I/O
//     failure, or an option error
func Create(path string, opts ...Option) (*Store, error) {
	s, err := newStore(path, opts)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, errs.Newf(errs.KindAlreadyExists, "store file %s already exists", path)
		}

		return nil, errs.Newf(errs.KindFileOpen, "create %s: %v", path, err)
	}

	s.file = f
	s.header = section.NewFileHeader(s.cfg.BigEndian)
	s.engine = s.header.Engine()

	if _, err := f.WriteAt(s.header.Bytes(), 0); err != nil {
		_ = f.Close()
		return nil, errs.Newf(errs.KindFileWrite, "write file header: %v", err)
	}
	s.offset = section.FileHeaderSize

	s.logger.Info().
		Str("path", path).
		Str("file_id", s.header.FileID.String()).
		Bool("big_endian", s.cfg.BigEndian).
		Msg("store created")

	return s, nil
}

// Open opens a closed store file for reading.
//
// Returns:
//   - *Store: store in read mode
//   - error: errs.ErrNotExists for a missing file, errs.ErrMetadataInconsistency for a damaged or
//     unclosed file, errs.ErrFileOpen / errs.ErrFileRead on I/O failure
func Open(path string, opts ...Option) (*Store, error) {
	s, err := newStore(path, opts)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Newf(errs.KindNotExists, "store file %s does not exist", path)
		}

		return nil, errs.Newf(errs.KindFileOpen, "open %s: %v", path, err)
	}

	s.file = f
	s.readOnly = true

	if err := s.load(); err != nil {
		_ = f.Close()
		return nil, err
	}

	s.logger.Info().
		Str("path", path).
		Str("file_id", s.header.FileID.String()).
		Int("series", s.tracker.Count()).
		Msg("store opened")

	return s, nil
}

func (s *Store) readAt(size int, off int64) ([]byte, error) {
	buf := make([]byte, size)
	if _, err := s.file.ReadAt(buf, off); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errs.Newf(errs.KindPartialRead, "read %d bytes at %d: unexpected end of file", size, off)
		}

		return nil, errs.Newf(errs.KindFileRead, "read %d bytes at %d: %v", size, off, err)
	}

	return buf, nil
}

func (s *Store) load() error {
	info, err := s.file.Stat()
	if err != nil {
		return errs.Newf(errs.KindFileRead, "stat %s: %v", s.path, err)
	}
	size := info.Size()
	if size < section.FileHeaderSize+section.TrailerSize {
		return errs.Newf(errs.KindMetadataInconsistency, "%s is too small to be a store file", s.path)
	}

	hb, err := s.readAt(section.FileHeaderSize, 0)
	if err != nil {
		return err
	}
	if s.header, err = section.ParseFileHeader(hb); err != nil {
		return err
	}
	s.engine = s.header.Engine()

	tb, err := s.readAt(section.TrailerSize, size-section.TrailerSize)
	if err != nil {
		return err
	}
	trailer, err := section.ParseTrailer(tb, s.engine, size)
	if err != nil {
		return err
	}

	footer, err := s.readAt(int(trailer.FooterLen), int64(trailer.FooterOffset)) //nolint:gosec
	if err != nil {
		return err
	}
	if err := trailer.Verify(footer); err != nil {
		return err
	}

	raw, err := compress.NewS2Compressor().Decompress(footer)
	if err != nil {
		return errs.Newf(errs.KindCompressionFailure, "decompress footer: %v", err)
	}

	var cat catalog
	if err := msgpack.Unmarshal(raw, &cat); err != nil {
		return errs.Newf(errs.KindMetadataInconsistency, "decode footer: %v", err)
	}

	return s.restore(cat)
}

func (s *Store) restore(cat catalog) error {
	id, err := uuid.Parse(cat.FileID)
	if err != nil || id != s.header.FileID {
		return errs.Newf(errs.KindMetadataInconsistency, "footer file id %q does not match header %s", cat.FileID, s.header.FileID)
	}

	for _, tm := range cat.Targets {
		if _, dup := s.targets[tm.Name]; dup || tm.Name == "" {
			return errs.Newf(errs.KindMetadataInconsistency, "duplicate or empty target %q in footer", tm.Name)
		}

		t := newTarget(tm.Name, tm.Table)
		for _, sm := range tm.Series {
			c := newSeries(tm.Name, sm.Name,
				datatype.DataType(sm.DataType), format.Encoding(sm.Encoding), format.Compressor(sm.Compressor))
			c.category = format.Category(sm.Category)
			c.chunks = sm.Chunks

			if err := datatype.Check(c.dt); err != nil {
				return errs.Newf(errs.KindMetadataInconsistency, "series %s: %v", c.path, err)
			}
			if err := s.tracker.Track(c.path, c.id); err != nil {
				return errs.Newf(errs.KindMetadataInconsistency, "series %s: %v", c.path, err)
			}
			t.add(c)
		}

		s.targets[t.name] = t
		s.order = append(s.order, t.name)
	}

	return nil
}

// status logs err and converts it to a status code.
func (s *Store) status(op string, err error) int {
	if err == nil {
		return errs.CodeOK
	}

	s.logger.Error().Err(err).Str("op", op).Str("path", s.path).Msg("store operation failed")

	return errs.CodeOf(err)
}

func (s *Store) checkWritable() error {
	if s.closed {
		return errs.New(errs.KindFileWrite, "store is closed")
	}
	if s.readOnly {
		return errs.New(errs.KindFileWrite, "store is opened read-only")
	}

	return nil
}

func (s *Store) checkReadable() error {
	if s.closed {
		return errs.New(errs.KindFileRead, "store is closed")
	}

	return nil
}

// Path returns the file path.
func (s *Store) Path() string {
	return s.path
}

// FileID returns the identity stamped into the file header.
func (s *Store) FileID() uuid.UUID {
	return s.header.FileID
}

// Flush encodes and writes every buffered point.
func (s *Store) Flush() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkWritable(); err != nil {
		return s.status("flush", err)
	}

	return s.status("flush", s.flushLocked())
}

// Close flushes, writes the footer and closes the file in write mode, or just closes the file
// in read mode. Closing twice is a no-op.
func (s *Store) Close() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errs.CodeOK
	}
	s.closed = true

	var err error
	if !s.readOnly {
		err = s.finish()
	}

	if cerr := s.file.Close(); cerr != nil && err == nil {
		err = errs.Newf(errs.KindFileClose, "close %s: %v", s.path, cerr)
	}

	if err == nil {
		s.logger.Info().Str("path", s.path).Msg("store closed")
	}

	return s.status("close", err)
}

func (s *Store) catalog() catalog {
	cat := catalog{FileID: s.header.FileID.String(), Targets: make([]targetMeta, 0, len(s.order))}
	for _, name := range s.order {
		cat.Targets = append(cat.Targets, s.targets[name].meta())
	}

	return cat
}

// finish flushes and writes the footer and the trailer.
func (s *Store) finish() error {
	if err := s.flushLocked(); err != nil {
		return err
	}

	buf := pool.GetFooterBuffer()
	defer pool.PutFooterBuffer(buf)

	enc := msgpack.NewEncoder(buf)
	if err := enc.Encode(s.catalog()); err != nil {
		return errs.Newf(errs.KindMetadataInconsistency, "encode footer: %v", err)
	}

	footer, err := compress.NewS2Compressor().Compress(buf.Bytes())
	if err != nil {
		return errs.Newf(errs.KindCompressionFailure, "compress footer: %v", err)
	}

	trailer := section.NewTrailer(s.offset, footer)
	if _, err := s.file.WriteAt(footer, s.offset); err != nil {
		return errs.Newf(errs.KindFileWrite, "write footer: %v", err)
	}
	if _, err := s.file.WriteAt(trailer.Bytes(s.engine), s.offset+int64(len(footer))); err != nil {
		return errs.Newf(errs.KindFileWrite, "write trailer: %v", err)
	}
	s.offset += int64(len(footer)) + section.TrailerSize

	if err := s.file.Sync(); err != nil {
		return errs.Newf(errs.KindFileSync, "sync %s: %v", s.path, err)
	}

	return nil
}
