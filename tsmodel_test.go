package tsmodel

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/tsmodel/config"
	"github.com/arloliu/tsmodel/datatype"
	"github.com/arloliu/tsmodel/errs"
	"github.com/arloliu/tsmodel/format"
	"github.com/arloliu/tsmodel/record"
	"github.com/arloliu/tsmodel/schema"
	"github.com/arloliu/tsmodel/store"
	"github.com/arloliu/tsmodel/tablet"
)

func TestOpenWriterReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plant.tsm")

	w, err := OpenWriter(path, WithStoreOptions(store.WithChunkPointThreshold(2)))
	require.NoError(t, err)

	ds := schema.NewDevice("root.plant.unit1",
		schema.NewTimeseries("status", datatype.Text).WithCompressor(format.CompressorGzip),
		schema.NewTimeseries("day", datatype.Date).WithEncoding(format.EncodingTS2Diff),
	)
	require.NoError(t, w.RegisterDevice(ds))

	tab, err := tablet.FromDeviceSchema(ds, tablet.WithMaxRowNum(3))
	require.NoError(t, err)
	require.NoError(t, tab.SetTimestamps([]int64{30, 10, 20}))
	for i, status := range []string{"c", "a", "b"} {
		require.NoError(t, tab.AddValueByName("status", i, status))
		require.NoError(t, tab.AddValueByName("day", i, 20240101+i))
	}
	require.NoError(t, w.WriteTablet(tab))
	require.NoError(t, w.Close())

	_, err = OpenWriter(path)
	require.ErrorIs(t, err, errs.ErrAlreadyExists)

	r, err := OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	rs, err := r.QueryTimeseries("root.plant.unit1", []string{"status", "day"}, 0, 100)
	require.NoError(t, err)
	defer rs.Close()

	var got []string
	for rs.Next() {
		rec, err := rs.Record()
		require.NoError(t, err)
		got = append(got, rec.String())
	}
	require.Equal(t, []string{
		"10\t\ta\t\t2024-01-02",
		"20\t\tb\t\t2024-01-03",
		"30\t\tc\t\t2024-01-01",
	}, got)
}

func TestOpenWithConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Store.BigEndian = true
	cfg.Store.DefaultCompressor = format.CompressorLZ4

	path := filepath.Join(t.TempDir(), "cfg.tsm")
	w, err := OpenWriter(path, WithConfig(cfg))
	require.NoError(t, err)
	require.NoError(t, w.RegisterTable(schema.NewTable("meters", schema.NewColumn("kwh", datatype.Float, format.CategoryField))))

	r := record.New("meters", 1)
	require.NoError(t, r.AddFieldValue("kwh", float32(1.5), datatype.Float))
	require.NoError(t, w.WriteRecord(r))
	require.NoError(t, w.Close())

	var buf bytes.Buffer
	rd, err := OpenReader(path, WithLogger(zerolog.New(&buf)))
	require.NoError(t, err)
	defer rd.Close()
	require.Contains(t, buf.String(), `"message":"store opened"`)

	rs, err := rd.QueryTable("meters", []string{"kwh"}, 0, 10)
	require.NoError(t, err)
	require.True(t, rs.Next())
	v, err := rs.ValueByName("kwh")
	require.NoError(t, err)
	require.True(t, datatype.OfFloat(1.5).Equal(v))
	require.NoError(t, rs.Close())

	bad := config.Default()
	bad.Log.Format = "xml"
	_, err = OpenWriter(filepath.Join(t.TempDir(), "bad.tsm"), WithConfig(bad))
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	require.Equal(t, errs.CodeInvalidArgument, errs.CodeOf(err))
}

func TestOpenReaderMissing(t *testing.T) {
	_, err := OpenReader(filepath.Join(t.TempDir(), "missing.tsm"))
	require.ErrorIs(t, err, errs.ErrNotExists)
}

func TestSeriesID(t *testing.T) {
	require.Equal(t, SeriesID("root.a", "b"), SeriesID("root.a", "b"))
	require.NotEqual(t, SeriesID("root.a", "b"), SeriesID("root.a", "c"))
}
