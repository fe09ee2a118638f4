package engine

import (
	"github.com/arloliu/tsmodel/datatype"
	"github.com/arloliu/tsmodel/record"
	"github.com/arloliu/tsmodel/schema"
	"github.com/arloliu/tsmodel/tablet"
)

// Native is the status-code call boundary of a storage engine. Every method returns
// errs.CodeOK on success and another errs.Code* value on failure.
//
// Schemas must be registered before a tablet or record that references them is written;
// writing an unknown device or table reports errs.CodeDeviceNotExist and an unknown column
// errs.CodeMeasurementNotExist.
type Native interface {
	RegisterTimeseries(device string, ts schema.TimeseriesSchema) int
	RegisterDevice(ds schema.DeviceSchema) int
	RegisterTable(ts schema.TableSchema) int

	WriteTablet(t *tablet.Tablet) int
	WriteRecord(r *record.RowRecord) int
	Flush() int
	Close() int

	// Query returns the rows of the given device columns with timestamps in [start, end).
	Query(device string, columns []string, start, end int64) (NativeResult, int)
	// QueryTable returns the rows of the given table columns with timestamps in [start, end).
	QueryTable(table string, columns []string, start, end int64) (NativeResult, int)

	TableSchema(name string) (schema.TableSchema, int)
	AllTableSchemas() ([]schema.TableSchema, int)
}

// NativeResult is a positional row cursor returned by a native query.
type NativeResult interface {
	// Next advances to the next row and reports whether one exists.
	Next() bool
	// Timestamp returns the timestamp of the current row.
	Timestamp() int64
	// Value returns column i of the current row; a null Value marks a missing point.
	Value(i int) datatype.Value
	// DataTypes returns the column types in query order.
	DataTypes() []datatype.DataType
	Close() int
}
