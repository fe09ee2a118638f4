// Package schema declares the shape of devices, tables and query results.
//
// Schema values are built by the caller before any write or query and are treated as immutable
// afterwards. Constructors copy their slice arguments.
package schema

import (
	"github.com/arloliu/tsmodel/datatype"
	"github.com/arloliu/tsmodel/errs"
	"github.com/arloliu/tsmodel/format"
)

// TimeseriesSchema declares one measurement of a device.
type TimeseriesSchema struct {
	Name       string
	DataType   datatype.DataType
	Encoding   format.Encoding
	Compressor format.Compressor
}

// NewTimeseries returns a TimeseriesSchema with PLAIN encoding and no compression.
func NewTimeseries(name string, dt datatype.DataType) TimeseriesSchema {
	return TimeseriesSchema{
		Name:       name,
		DataType:   dt,
		Encoding:   format.EncodingPlain,
		Compressor: format.CompressorUncompressed,
	}
}

// WithEncoding returns a copy of s using enc.
func (s TimeseriesSchema) WithEncoding(enc format.Encoding) TimeseriesSchema {
	s.Encoding = enc
	return s
}

// WithCompressor returns a copy of s using c.
func (s TimeseriesSchema) WithCompressor(c format.Compressor) TimeseriesSchema {
	s.Compressor = c
	return s
}

// Validate checks the name, the type and the enum tags.
func (s TimeseriesSchema) Validate() error {
	if s.Name == "" {
		return errs.New(errs.KindInvalidArgument, "timeseries name is empty")
	}
	if err := datatype.Check(s.DataType); err != nil {
		return err
	}
	if !s.Encoding.IsValid() {
		return errs.Newf(errs.KindTypeNotSupported, "timeseries %q: unknown encoding %d", s.Name, s.Encoding)
	}
	if !s.Compressor.IsValid() {
		return errs.Newf(errs.KindInvalidArgument, "timeseries %q: unknown compressor %d", s.Name, s.Compressor)
	}

	return nil
}

// DeviceSchema declares a device and its ordered measurements.
type DeviceSchema struct {
	DeviceName string
	Timeseries []TimeseriesSchema
}

// NewDevice returns a DeviceSchema holding a copy of timeseries.
func NewDevice(deviceName string, timeseries ...TimeseriesSchema) DeviceSchema {
	return DeviceSchema{DeviceName: deviceName, Timeseries: append([]TimeseriesSchema(nil), timeseries...)}
}

// Validate checks every measurement and rejects duplicate names.
func (d DeviceSchema) Validate() error {
	if d.DeviceName == "" {
		return errs.New(errs.KindInvalidArgument, "device name is empty")
	}

	seen := make(map[string]struct{}, len(d.Timeseries))
	for _, ts := range d.Timeseries {
		if err := ts.Validate(); err != nil {
			return err
		}
		if _, dup := seen[ts.Name]; dup {
			return errs.Newf(errs.KindAlreadyExists, "device %q: duplicate measurement %q", d.DeviceName, ts.Name)
		}
		seen[ts.Name] = struct{}{}
	}

	return nil
}

// Lookup returns the measurement named name.
func (d DeviceSchema) Lookup(name string) (TimeseriesSchema, bool) {
	for _, ts := range d.Timeseries {
		if ts.Name == name {
			return ts, true
		}
	}

	return TimeseriesSchema{}, false
}

// ColumnSchema declares one column of a table.
type ColumnSchema struct {
	Name     string
	DataType datatype.DataType
	Category format.Category
}

// NewColumn returns a ColumnSchema.
func NewColumn(name string, dt datatype.DataType, category format.Category) ColumnSchema {
	return ColumnSchema{Name: name, DataType: dt, Category: category}
}

// TableSchema declares a table and its ordered columns.
type TableSchema struct {
	TableName string
	Columns   []ColumnSchema
}

// NewTable returns a TableSchema holding a copy of columns.
func NewTable(tableName string, columns ...ColumnSchema) TableSchema {
	return TableSchema{TableName: tableName, Columns: append([]ColumnSchema(nil), columns...)}
}

// Validate checks the table name, each column and rejects duplicate column names.
func (t TableSchema) Validate() error {
	if t.TableName == "" {
		return errs.New(errs.KindInvalidArgument, "table name is empty")
	}
	if len(t.Columns) == 0 {
		return errs.Newf(errs.KindInvalidArgument, "table %q has no columns", t.TableName)
	}

	seen := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name == "" {
			return errs.Newf(errs.KindInvalidArgument, "table %q: empty column name", t.TableName)
		}
		if err := datatype.Check(c.DataType); err != nil {
			return err
		}
		if c.Category != format.CategoryTag && c.Category != format.CategoryField {
			return errs.Newf(errs.KindInvalidArgument, "table %q: column %q has unknown category", t.TableName, c.Name)
		}
		if _, dup := seen[c.Name]; dup {
			return errs.Newf(errs.KindAlreadyExists, "table %q: duplicate column %q", t.TableName, c.Name)
		}
		seen[c.Name] = struct{}{}
	}

	return nil
}

// ColumnNames returns the column names in declaration order.
func (t TableSchema) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}

	return names
}

// DataTypes returns the column types in declaration order.
func (t TableSchema) DataTypes() []datatype.DataType {
	types := make([]datatype.DataType, len(t.Columns))
	for i, c := range t.Columns {
		types[i] = c.DataType
	}

	return types
}
