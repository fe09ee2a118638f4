package config

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/tsmodel/errs"
	"github.com/arloliu/tsmodel/format"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.Equal(t, 4096, cfg.Store.ChunkPointThreshold)
	require.Equal(t, runtime.NumCPU(), cfg.Store.FlushWorkers)
	require.Equal(t, format.CompressorUncompressed, cfg.Store.DefaultCompressor)
	require.False(t, cfg.Store.SyncOnFlush)
	require.False(t, cfg.Store.BigEndian)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, 4096, cfg.Store.ChunkPointThreshold)
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	content := `
[store]
chunk_point_threshold = 128
default_compressor = "zstd"
sync_on_flush = true

[log]
level = "debug"
format = "console"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tsmodel.toml"), []byte(content), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, 128, cfg.Store.ChunkPointThreshold)
	require.Equal(t, format.CompressorZstd, cfg.Store.DefaultCompressor)
	require.True(t, cfg.Store.SyncOnFlush)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := "store:\n  big_endian: true\n  default_compressor: lz4\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.True(t, cfg.Store.BigEndian)
	require.Equal(t, format.CompressorLZ4, cfg.Store.DefaultCompressor)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tsmodel.toml"), []byte("[store\nbroken"), 0o600))

	_, err := Load(dir)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	require.Equal(t, errs.CodeInvalidArgument, errs.CodeOf(err))
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TSMODEL_STORE_CHUNK_POINT_THRESHOLD", "64")
	t.Setenv("TSMODEL_STORE_DEFAULT_COMPRESSOR", "snappy")
	t.Setenv("TSMODEL_LOG_LEVEL", "warn")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, 64, cfg.Store.ChunkPointThreshold)
	require.Equal(t, format.CompressorSnappy, cfg.Store.DefaultCompressor)
	require.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("compressor", func(t *testing.T) {
		t.Setenv("TSMODEL_STORE_DEFAULT_COMPRESSOR", "brotli")
		_, err := Load(t.TempDir())
		require.ErrorContains(t, err, "store.default_compressor")
		require.ErrorIs(t, err, errs.ErrInvalidArgument)
		require.Equal(t, errs.CodeInvalidArgument, errs.CodeOf(err))
	})

	t.Run("threshold", func(t *testing.T) {
		t.Setenv("TSMODEL_STORE_CHUNK_POINT_THRESHOLD", "0")
		_, err := Load(t.TempDir())
		require.ErrorContains(t, err, "chunk_point_threshold")
		require.ErrorIs(t, err, errs.ErrInvalidArgument)
		require.Equal(t, errs.CodeInvalidArgument, errs.CodeOf(err))
	})

	t.Run("workers", func(t *testing.T) {
		cfg := Default()
		cfg.Store.FlushWorkers = 0
		require.ErrorIs(t, cfg.Validate(), errs.ErrInvalidArgument)
	})

	t.Run("log format", func(t *testing.T) {
		t.Setenv("TSMODEL_LOG_FORMAT", "xml")
		_, err := Load(t.TempDir())
		require.ErrorContains(t, err, "log.format")
		require.ErrorIs(t, err, errs.ErrInvalidArgument)
		require.Equal(t, errs.CodeInvalidArgument, errs.CodeOf(err))
	})
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	require.Equal(t, zerolog.WarnLevel, ParseLevel("warning"))
	require.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	require.Equal(t, zerolog.Disabled, ParseLevel("off"))
	require.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestLoggerTo(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.Log.Level = "warn"

	logger := cfg.LoggerTo(&buf)
	logger.Info().Msg("hidden")
	logger.Warn().Str("component", "store").Msg("shown")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, `"component":"store"`)
	require.Contains(t, out, `"message":"shown"`)
}
