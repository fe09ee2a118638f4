// Package tsmodel is a typed client data model for time-series storage.
//
// Values are validated against their declared data type when they enter a Field, a RowRecord or
// a Tablet, handed to a storage engine through a status-code boundary, and read back through a
// typed ResultSet. Engine status codes are translated into *errs.Error values that keep both a
// kind and the raw code.
//
// # Core Features
//
//   - Typed values with range checks for every data type (datatype, field)
//   - Columnar batch buffer with explicit presence per cell (tablet)
//   - Device and table schemas (schema)
//   - One error taxonomy for local and engine failures (errs)
//   - A file-backed reference engine with TS_2DIFF, GORILLA and PLAIN encodings and
//     SNAPPY, GZIP, LZ4 and ZSTD compression (store)
//
// # Basic Usage
//
// Writing:
//
//	w, err := tsmodel.OpenWriter("plant.tsm")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	_ = w.RegisterTimeseries("root.plant.unit1", schema.NewTimeseries("power", datatype.Int64))
//
//	r := record.New("root.plant.unit1", time.Now().UnixMilli())
//	_ = r.AddFieldValue("power", int64(1200), datatype.Int64)
//	_ = w.WriteRecord(r)
//
// Reading:
//
//	rd, _ := tsmodel.OpenReader("plant.tsm")
//	defer rd.Close()
//
//	rs, _ := rd.QueryTimeseries("root.plant.unit1", []string{"power"}, start, end)
//	defer rs.Close()
//	for rs.Next() {
//	    ts, _ := rs.Timestamp()
//	    v, _ := rs.ValueByName("power")
//	    fmt.Println(ts, v)
//	}
//
// # Package Structure
//
// This package only wires the engine package to the store package. Use engine.NewWriter and
// engine.NewReader directly to put the typed model in front of another engine.Native.
package tsmodel

import (
	"github.com/rs/zerolog"

	"github.com/arloliu/tsmodel/config"
	"github.com/arloliu/tsmodel/engine"
	"github.com/arloliu/tsmodel/internal/hash"
	"github.com/arloliu/tsmodel/internal/options"
	"github.com/arloliu/tsmodel/store"
)

type openConfig struct {
	storeOpts []store.Option
	logger    *zerolog.Logger
}

// Option configures OpenWriter and OpenReader.
type Option = options.Option[*openConfig]

// WithConfig applies the store settings of cfg and logs through cfg.Logger().
func WithConfig(cfg *config.Config) Option {
	return func(c *openConfig) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger := cfg.Logger()
		c.logger = &logger
		c.storeOpts = append(c.storeOpts, store.WithConfig(cfg.Store))

		return nil
	}
}

// WithLogger sets the logger of both the store and the writer or reader.
func WithLogger(logger zerolog.Logger) Option {
	return options.NoError(func(c *openConfig) {
		c.logger = &logger
	})
}

// WithStoreOptions passes store options through.
func WithStoreOptions(opts ...store.Option) Option {
	return options.NoError(func(c *openConfig) {
		c.storeOpts = append(c.storeOpts, opts...)
	})
}

func resolveOptions(opts []Option) ([]store.Option, []engine.Option, error) {
	c := &openConfig{}
	if err := options.Apply(c, opts...); err != nil {
		return nil, nil, err
	}

	storeOpts := c.storeOpts
	var engineOpts []engine.Option
	if c.logger != nil {
		storeOpts = append([]store.Option{store.WithLogger(*c.logger)}, storeOpts...)
		engineOpts = append(engineOpts, engine.WithLogger(*c.logger))
	}

	return storeOpts, engineOpts, nil
}

// OpenWriter creates a new store file and returns a Writer over it.
//
// Parameters:
//   - path: file to create; it must not exist
//   - opts: optional configuration (WithConfig, WithLogger, WithStoreOptions)
//
// Returns:
//   - *engine.Writer: writer owning the store; Close finalizes the file
//   - error: errs.ErrAlreadyExists when path exists, or an option or I/O error
//
// Example:
//
//	cfg, _ := config.Load(".")
//	w, err := tsmodel.OpenWriter("plant.tsm", tsmodel.WithConfig(cfg))
func OpenWriter(path string, opts ...Option) (*engine.Writer, error) {
	storeOpts, engineOpts, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}

	s, err := store.Create(path, storeOpts...)
	if err != nil {
		return nil, err
	}

	w, err := engine.NewWriter(s, engineOpts...)
	if err != nil {
		s.Close()
		return nil, err
	}

	return w, nil
}

// OpenReader opens a closed store file and returns a Reader over it.
//
// Returns:
//   - *engine.Reader: reader owning the store
//   - error: errs.ErrNotExists for a missing file, errs.ErrMetadataInconsistency for a damaged or
//     unfinished file
func OpenReader(path string, opts ...Option) (*engine.Reader, error) {
	storeOpts, engineOpts, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}

	s, err := store.Open(path, storeOpts...)
	if err != nil {
		return nil, err
	}

	r, err := engine.NewReader(s, engineOpts...)
	if err != nil {
		s.Close()
		return nil, err
	}

	return r, nil
}

// SeriesID returns the 64-bit id the store stamps into the chunks of device.measurement.
func SeriesID(device, measurement string) uint64 {
	return hash.SeriesID(device, measurement)
}
