package engine_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/tsmodel/datatype"
	"github.com/arloliu/tsmodel/engine"
	"github.com/arloliu/tsmodel/errs"
	"github.com/arloliu/tsmodel/field"
	"github.com/arloliu/tsmodel/format"
	"github.com/arloliu/tsmodel/record"
	"github.com/arloliu/tsmodel/schema"
	"github.com/arloliu/tsmodel/store"
	"github.com/arloliu/tsmodel/tablet"
)

const device = "root.plant.unit1"

func newWriter(t *testing.T, opts ...store.Option) (*engine.Writer, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "engine.tsm")
	s, err := store.Create(path, opts...)
	require.NoError(t, err)

	w, err := engine.NewWriter(s)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	return w, path
}

func newReader(t *testing.T, path string) *engine.Reader {
	t.Helper()

	s, err := store.Open(path)
	require.NoError(t, err)

	r, err := engine.NewReader(s)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	return r
}

func registerPlant(t *testing.T, w *engine.Writer) {
	t.Helper()
	require.NoError(t, w.RegisterDevice(schema.NewDevice(device,
		schema.NewTimeseries("power", datatype.Int64).WithEncoding(format.EncodingTS2Diff),
		schema.NewTimeseries("temp", datatype.Double).WithEncoding(format.EncodingGorilla).WithCompressor(format.CompressorSnappy),
		schema.NewTimeseries("online", datatype.Boolean),
	)))
}

func TestWriteRecordsAndQueryRange(t *testing.T) {
	w, path := newWriter(t, store.WithChunkPointThreshold(128))
	registerPlant(t, w)

	for ts := range int64(1000) {
		r := record.New(device, ts)
		require.NoError(t, r.AddFieldValue("power", ts*10, datatype.Int64))
		require.NoError(t, r.AddFieldValue("temp", float64(ts)/4, datatype.Double))
		require.NoError(t, r.AddFieldValue("online", ts%3 == 0, datatype.Boolean))
		require.NoError(t, w.WriteRecord(r))
	}
	require.NoError(t, w.Close())

	reader := newReader(t, path)
	rs, err := reader.QueryTimeseries(device, []string{"power", "temp", "online"}, 10, 100)
	require.NoError(t, err)
	defer rs.Close()

	want := int64(10)
	for rs.Next() {
		ts, err := rs.Timestamp()
		require.NoError(t, err)
		require.Equal(t, want, ts)

		power, err := rs.ValueByIndex(0)
		require.NoError(t, err)
		require.Equal(t, ts*10, power.IntBits())

		temp, err := rs.ValueByName("temp")
		require.NoError(t, err)
		require.InDelta(t, float64(ts)/4, temp.FloatBits(), 0)

		online, err := rs.Field(2)
		require.NoError(t, err)
		b, ok, err := online.BoolValue()
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, ts%3 == 0, b)

		want++
	}
	require.Equal(t, int64(100), want)
}

func TestWriteTabletAndResultSet(t *testing.T) {
	w, path := newWriter(t)
	registerPlant(t, w)

	tab, err := tablet.New(device, []string{"power", "temp"}, []datatype.DataType{datatype.Int64, datatype.Double}, tablet.WithMaxRowNum(4))
	require.NoError(t, err)
	require.NoError(t, tab.SetTimestamps([]int64{100, 200, 300}))
	require.NoError(t, tab.AddValueByName("power", 0, int64(1)))
	require.NoError(t, tab.AddValueByName("power", 1, int64(2)))
	require.NoError(t, tab.AddValueByName("temp", 1, 20.5))
	require.NoError(t, tab.AddValueByName("power", 2, int64(3)))
	require.NoError(t, tab.AddValueByName("power", 3, int64(4))) // no timestamp
	require.NoError(t, w.WriteTablet(tab))
	require.NoError(t, w.Flush())
	require.NoError(t, w.Close())

	reader := newReader(t, path)
	rs, err := reader.QueryTimeseries(device, []string{"temp", "power"}, 0, 1000)
	require.NoError(t, err)

	meta := rs.Metadata()
	require.Equal(t, device, meta.DeviceName())
	require.Equal(t, []string{device + ".temp", device + ".power"}, meta.ColumnList())

	_, err = rs.ValueByIndex(0)
	require.ErrorIs(t, err, errs.ErrInvalidQuery)
	_, err = rs.Timestamp()
	require.ErrorIs(t, err, errs.ErrInvalidQuery)
	_, err = rs.Record()
	require.ErrorIs(t, err, errs.ErrInvalidQuery)

	require.True(t, rs.Next())
	isNull, err := rs.IsNullByName("temp")
	require.NoError(t, err)
	require.True(t, isNull)

	rec, err := rs.Record()
	require.NoError(t, err)
	require.Equal(t, device, rec.DeviceID())
	require.Equal(t, int64(100), rec.Timestamp())
	require.Nil(t, rec.Fields()[0])
	require.Equal(t, device+".power", rec.Fields()[1].Name())

	_, err = rs.ValueByIndex(2)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
	_, err = rs.ValueByIndex(-1)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
	_, err = rs.ValueByName("missing")
	require.ErrorIs(t, err, errs.ErrColumnNotFound)
	_, err = rs.IsNullByIndex(5)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)

	require.True(t, rs.Next())
	isNull, err = rs.IsNullByIndex(0)
	require.NoError(t, err)
	require.False(t, isNull)
	f, err := rs.Field(0)
	require.NoError(t, err)
	d, ok, err := f.DoubleValue()
	require.NoError(t, err)
	require.True(t, ok)
	require.InDelta(t, 20.5, d, 0)

	require.True(t, rs.Next())
	require.False(t, rs.Next())
	require.False(t, rs.Next())

	require.NoError(t, rs.Close())
	require.NoError(t, rs.Close())
	require.False(t, rs.Next())
}

func TestUnregisteredNames(t *testing.T) {
	w, _ := newWriter(t)
	registerPlant(t, w)

	err := w.WriteRecord(record.New("root.nowhere", 1, mustField(t, "power", datatype.Int64, int64(1))))
	require.ErrorIs(t, err, errs.ErrDeviceNotExist)
	require.Equal(t, errs.CodeDeviceNotExist, errs.CodeOf(err))

	err = w.WriteRecord(record.New(device, 1, mustField(t, "voltage", datatype.Int64, int64(1))))
	require.ErrorIs(t, err, errs.ErrMeasurementNotExist)
	require.Contains(t, err.Error(), "write record "+device+"@1")

	err = w.WriteRecord(record.New(device, 1, mustField(t, "power", datatype.Int32, int32(1))))
	require.ErrorIs(t, err, errs.ErrTypeMismatch)

	err = w.RegisterTimeseries(device, schema.NewTimeseries("power", datatype.Int64))
	require.ErrorIs(t, err, errs.ErrAlreadyExists)

	err = w.RegisterTimeseries(device, schema.NewTimeseries("bad", datatype.Text).WithEncoding(format.EncodingGorilla))
	require.ErrorIs(t, err, errs.ErrTypeNotSupported)
}

func TestReaderQueryErrors(t *testing.T) {
	w, path := newWriter(t)
	registerPlant(t, w)
	require.NoError(t, w.RegisterTable(schema.NewTable("meters",
		schema.NewColumn("site", datatype.String, format.CategoryTag),
		schema.NewColumn("kwh", datatype.Double, format.CategoryField),
	)))
	require.NoError(t, w.Close())

	reader := newReader(t, path)

	_, err := reader.QueryTimeseries("root.nowhere", []string{"power"}, 0, 10)
	require.ErrorIs(t, err, errs.ErrDeviceNotExist)
	_, err = reader.QueryTimeseries(device, []string{"voltage"}, 0, 10)
	require.ErrorIs(t, err, errs.ErrMeasurementNotExist)
	_, err = reader.QueryTimeseries(device, nil, 0, 10)
	require.ErrorIs(t, err, errs.ErrInvalidQuery)
	_, err = reader.QueryTimeseries(device, []string{"power"}, 10, 0)
	require.ErrorIs(t, err, errs.ErrInvalidQuery)
	_, err = reader.QueryTimeseries("", []string{"power"}, 0, 10)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	_, err = reader.QueryTable("nope", []string{"kwh"}, 0, 10)
	require.ErrorIs(t, err, errs.ErrTableNotExist)

	rs, err := reader.QueryTable("meters", []string{"kwh", "site"}, 0, 10)
	require.NoError(t, err)
	require.False(t, rs.Next())
	require.NoError(t, rs.Close())

	ts, err := reader.TableSchema("meters")
	require.NoError(t, err)
	require.Equal(t, []string{"site", "kwh"}, ts.ColumnNames())

	_, err = reader.TableSchema("nope")
	require.ErrorIs(t, err, errs.ErrTableNotExist)

	all, err := reader.AllTableSchemas()
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, reader.Close())
	require.NoError(t, reader.Close())
	_, err = reader.QueryTimeseries(device, []string{"power"}, 0, 10)
	require.ErrorIs(t, err, errs.ErrFileRead)
}

func TestWriterLocalValidation(t *testing.T) {
	native := &fakeNative{}
	w, err := engine.NewWriter(native)
	require.NoError(t, err)

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"empty device", func() error { return w.RegisterTimeseries("", schema.NewTimeseries("a", datatype.Int64)) }, errs.ErrInvalidArgument},
		{"empty measurement", func() error { return w.RegisterTimeseries(device, schema.NewTimeseries("", datatype.Int64)) }, errs.ErrInvalidArgument},
		{"duplicate measurement", func() error {
			return w.RegisterDevice(schema.NewDevice(device, schema.NewTimeseries("a", datatype.Int64), schema.NewTimeseries("a", datatype.Int64)))
		}, errs.ErrAlreadyExists},
		{"empty table", func() error { return w.RegisterTable(schema.NewTable("")) }, errs.ErrInvalidArgument},
		{"nil tablet", func() error { return w.WriteTablet(nil) }, errs.ErrInvalidArgument},
		{"nil record", func() error { return w.WriteRecord(nil) }, errs.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.call(), tt.want)
		})
	}
	require.Zero(t, native.calls)

	_, err = engine.NewWriter(nil)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	_, err = engine.NewReader(nil)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestUnmappedNativeCode(t *testing.T) {
	var buf bytes.Buffer
	native := &fakeNative{code: 9999}
	w, err := engine.NewWriter(native, engine.WithLogger(zerolog.New(&buf)))
	require.NoError(t, err)

	err = w.Flush()
	require.ErrorIs(t, err, errs.ErrUnknown)
	require.Equal(t, 9999, errs.CodeOf(err))
	require.Equal(t, errs.KindUnknown, errs.KindOf(err))
	require.Contains(t, err.Error(), "flush")

	var e *errs.Error
	require.True(t, errors.As(err, &e))
	require.Equal(t, 9999, e.Code)

	require.Contains(t, buf.String(), `"component":"writer"`)
	require.Contains(t, buf.String(), `"code":9999`)
}

func TestWriterClose(t *testing.T) {
	native := &fakeNative{}
	w, err := engine.NewWriter(native)
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	require.Equal(t, 1, native.calls)

	require.ErrorIs(t, w.Flush(), errs.ErrFileWrite)
	require.ErrorIs(t, w.WriteRecord(record.New(device, 1)), errs.ErrFileWrite)
	require.Equal(t, 1, native.calls)
}

func TestResultSetFromNative(t *testing.T) {
	res := newFakeResult(
		[]datatype.DataType{datatype.Int32, datatype.Text},
		[]int64{7},
		[]datatype.Value{datatype.OfInt32(42), datatype.Null(datatype.Text)},
	)
	reader, err := engine.NewReader(&fakeNative{result: res})
	require.NoError(t, err)

	rs, err := reader.QueryTimeseries(device, []string{"a", "b"}, 0, 10)
	require.NoError(t, err)
	require.True(t, rs.Next())

	f, err := rs.Field(1)
	require.NoError(t, err)
	require.True(t, f.IsNull())
	require.Equal(t, datatype.Text, f.DataType())

	v, err := rs.ValueByName("a")
	require.NoError(t, err)
	require.Equal(t, "42", v.String())

	res.closeCode = errs.CodeFileRead
	require.ErrorIs(t, rs.Close(), errs.ErrFileRead)
	require.True(t, res.closed)

	// the engine reports fewer types than requested columns
	short := newFakeResult([]datatype.DataType{datatype.Int32}, nil)
	reader, err = engine.NewReader(&fakeNative{result: short})
	require.NoError(t, err)
	_, err = reader.QueryTimeseries(device, []string{"a", "b"}, 0, 10)
	require.ErrorIs(t, err, errs.ErrMetadataInconsistency)
	require.True(t, short.closed)
}

func mustField(t *testing.T, name string, dt datatype.DataType, v any) *field.Field {
	t.Helper()
	f, err := field.New(name, dt, v)
	require.NoError(t, err)

	return f
}
