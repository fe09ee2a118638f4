// Package config loads store and logging settings from defaults, an optional tsmodel config file
// and TSMODEL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/arloliu/tsmodel/errs"
	"github.com/arloliu/tsmodel/format"
)

// EnvPrefix prefixes every environment override, e.g. TSMODEL_STORE_SYNC_ON_FLUSH=true.
const EnvPrefix = "TSMODEL"

// Config holds all settings.
type Config struct {
	Store StoreConfig
	Log   LogConfig
}

// StoreConfig holds the file store settings.
type StoreConfig struct {
	// ChunkPointThreshold triggers an automatic flush once a series buffers this many points.
	ChunkPointThreshold int
	// FlushWorkers bounds the number of series encoded concurrently on flush.
	FlushWorkers int
	// DefaultCompressor compresses table columns, which carry no per-column compressor.
	DefaultCompressor format.Compressor
	// SyncOnFlush fsyncs the file after every flush.
	SyncOnFlush bool
	// BigEndian writes the fixed-size file sections big-endian.
	BigEndian bool
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json or console
}

// Default returns the built-in settings, ignoring the environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	cfg, err := fromViper(v)
	if err != nil {
		// defaults are constants and always parse
		panic(err)
	}

	return cfg
}

// Load reads tsmodel.{toml,yaml,json} from the first of dirs containing one, then applies
// TSMODEL_* environment overrides. A missing config file is not an error.
//
// Parameters:
//   - dirs: directories to search; "." when empty
//
// Returns:
//   - *Config: the merged settings
//   - error: a malformed config file or an invalid value
func Load(dirs ...string) (*Config, error) {
	v := newViper()

	v.SetConfigName("tsmodel")
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: failed to read config: %w", errs.ErrInvalidArgument, err)
		}
	}

	return fromViper(v)
}

// LoadFile reads settings from the given file, then applies environment overrides.
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: failed to read config %s: %w", errs.ErrInvalidArgument, path, err)
	}

	return fromViper(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.chunk_point_threshold", 4096)
	v.SetDefault("store.flush_workers", runtime.NumCPU())
	v.SetDefault("store.default_compressor", "uncompressed")
	v.SetDefault("store.sync_on_flush", false)
	v.SetDefault("store.big_endian", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

func fromViper(v *viper.Viper) (*Config, error) {
	compressor, err := format.ParseCompressor(v.GetString("store.default_compressor"))
	if err != nil {
		return nil, errs.Newf(errs.KindInvalidArgument, "invalid store.default_compressor: %v", err)
	}

	cfg := &Config{
		Store: StoreConfig{
			ChunkPointThreshold: v.GetInt("store.chunk_point_threshold"),
			FlushWorkers:        v.GetInt("store.flush_workers"),
			DefaultCompressor:   compressor,
			SyncOnFlush:         v.GetBool("store.sync_on_flush"),
			BigEndian:           v.GetBool("store.big_endian"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Store.ChunkPointThreshold <= 0 {
		return errs.Newf(errs.KindInvalidArgument, "store.chunk_point_threshold must be positive, got %d", c.Store.ChunkPointThreshold)
	}
	if c.Store.FlushWorkers <= 0 {
		return errs.Newf(errs.KindInvalidArgument, "store.flush_workers must be positive, got %d", c.Store.FlushWorkers)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return errs.Newf(errs.KindInvalidArgument, "log.format must be json or console, got %q", c.Log.Format)
	}

	return nil
}

// Logger builds a logger writing to stderr.
func (c *Config) Logger() zerolog.Logger {
	return c.LoggerTo(os.Stderr)
}

// LoggerTo builds a logger writing to w with the configured level and format.
func (c *Config) LoggerTo(w io.Writer) zerolog.Logger {
	if strings.ToLower(c.Log.Format) == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).
		Level(ParseLevel(c.Log.Level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel converts a level name to a zerolog level, info for unknown names.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
