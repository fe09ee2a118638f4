package store

import (
	"github.com/rs/zerolog"

	"github.com/arloliu/tsmodel/compress"
	"github.com/arloliu/tsmodel/config"
	"github.com/arloliu/tsmodel/errs"
	"github.com/arloliu/tsmodel/format"
	"github.com/arloliu/tsmodel/internal/options"
)

// Option configures a Store before its file is created or opened.
type Option = options.Option[*Store]

// WithLogger sets the logger. The default discards all output.
func WithLogger(logger zerolog.Logger) Option {
	return options.NoError(func(s *Store) {
		s.logger = logger.With().Str("component", "store").Logger()
	})
}

// WithConfig applies every store setting of cfg.
func WithConfig(cfg config.StoreConfig) Option {
	return func(s *Store) error {
		for _, opt := range []Option{
			WithChunkPointThreshold(cfg.ChunkPointThreshold),
			WithFlushWorkers(cfg.FlushWorkers),
			WithDefaultCompressor(cfg.DefaultCompressor),
			WithSyncOnFlush(cfg.SyncOnFlush),
			WithBigEndian(cfg.BigEndian),
		} {
			if err := opt(s); err != nil {
				return err
			}
		}

		return nil
	}
}

// WithChunkPointThreshold flushes automatically once a series buffers n points.
func WithChunkPointThreshold(n int) Option {
	return func(s *Store) error {
		if n <= 0 {
			return errs.Newf(errs.KindInvalidArgument, "chunk point threshold must be positive, got %d", n)
		}
		s.cfg.ChunkPointThreshold = n

		return nil
	}
}

// WithFlushWorkers bounds the number of series encoded concurrently on flush.
func WithFlushWorkers(n int) Option {
	return func(s *Store) error {
		if n <= 0 {
			return errs.Newf(errs.KindInvalidArgument, "flush workers must be positive, got %d", n)
		}
		s.cfg.FlushWorkers = n

		return nil
	}
}

// WithDefaultCompressor sets the compressor of table columns.
func WithDefaultCompressor(c format.Compressor) Option {
	return func(s *Store) error {
		if !compress.Supported(c) {
			return errs.Newf(errs.KindInvalidArgument, "unsupported compressor: %s", c)
		}
		s.cfg.DefaultCompressor = c

		return nil
	}
}

// WithSyncOnFlush fsyncs the file after every flush.
func WithSyncOnFlush(enabled bool) Option {
	return options.NoError(func(s *Store) {
		s.cfg.SyncOnFlush = enabled
	})
}

// WithBigEndian writes fixed-size sections big-endian. Ignored by Open, which follows the file.
func WithBigEndian(enabled bool) Option {
	return options.NoError(func(s *Store) {
		s.cfg.BigEndian = enabled
	})
}
