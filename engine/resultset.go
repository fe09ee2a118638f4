package engine

import (
	"github.com/rs/zerolog"

	"github.com/arloliu/tsmodel/datatype"
	"github.com/arloliu/tsmodel/errs"
	"github.com/arloliu/tsmodel/field"
	"github.com/arloliu/tsmodel/internal/hash"
	"github.com/arloliu/tsmodel/record"
	"github.com/arloliu/tsmodel/schema"
)

// ResultSet is a forward-only cursor over query rows.
//
// Call Next before reading the first row. Column i is the i-th queried column; columns are also
// addressable by their bare name.
//
// Note: ResultSet is NOT safe for concurrent use.
type ResultSet struct {
	native NativeResult
	meta   *schema.ResultSetMetaData
	logger zerolog.Logger
	onRow  bool
	closed bool
}

func newResultSet(target string, columns []string, res NativeResult, logger zerolog.Logger) (*ResultSet, error) {
	types := res.DataTypes()
	if len(types) != len(columns) {
		return nil, errs.Newf(errs.KindMetadataInconsistency, "engine returned %d column types for %d columns", len(types), len(columns))
	}

	paths := make([]string, len(columns))
	for i, c := range columns {
		paths[i] = hash.SeriesPath(target, c)
	}

	meta, err := schema.NewResultSetMetaData(target, paths, types)
	if err != nil {
		return nil, err
	}

	return &ResultSet{native: res, meta: meta, logger: logger}, nil
}

// Next advances to the next row and reports whether one exists.
func (rs *ResultSet) Next() bool {
	if rs.closed {
		return false
	}
	rs.onRow = rs.native.Next()

	return rs.onRow
}

func (rs *ResultSet) checkRow() error {
	if !rs.onRow {
		return errs.New(errs.KindInvalidQuery, "result set is not positioned on a row")
	}

	return nil
}

// Metadata describes the result columns.
func (rs *ResultSet) Metadata() *schema.ResultSetMetaData {
	return rs.meta
}

// Timestamp returns the timestamp of the current row.
func (rs *ResultSet) Timestamp() (int64, error) {
	if err := rs.checkRow(); err != nil {
		return 0, err
	}

	return rs.native.Timestamp(), nil
}

// ValueByIndex returns column i of the current row. A missing point is a null Value.
//
// Returns:
//   - error: errs.ErrIndexOutOfRange for a bad index, errs.ErrInvalidQuery when not on a row
func (rs *ResultSet) ValueByIndex(i int) (datatype.Value, error) {
	if _, err := rs.meta.DataType(i); err != nil {
		return datatype.Value{}, err
	}
	if err := rs.checkRow(); err != nil {
		return datatype.Value{}, err
	}

	return rs.native.Value(i), nil
}

// ValueByName returns the named column of the current row.
//
// Returns:
//   - error: errs.ErrColumnNotFound for a name that was not queried
func (rs *ResultSet) ValueByName(name string) (datatype.Value, error) {
	i, err := rs.meta.ColumnIndex(name)
	if err != nil {
		return datatype.Value{}, err
	}

	return rs.ValueByIndex(i)
}

// IsNullByIndex reports whether column i of the current row holds no value.
func (rs *ResultSet) IsNullByIndex(i int) (bool, error) {
	v, err := rs.ValueByIndex(i)
	if err != nil {
		return false, err
	}

	return v.IsNull(), nil
}

// IsNullByName reports whether the named column of the current row holds no value.
func (rs *ResultSet) IsNullByName(name string) (bool, error) {
	v, err := rs.ValueByName(name)
	if err != nil {
		return false, err
	}

	return v.IsNull(), nil
}

// Field returns column i of the current row as a Field named by its column path.
func (rs *ResultSet) Field(i int) (*field.Field, error) {
	v, err := rs.ValueByIndex(i)
	if err != nil {
		return nil, err
	}
	name, _ := rs.meta.ColumnName(i)

	return field.FromValue(name, v), nil
}

// Record returns the current row as a RowRecord. Null columns become nil fields.
func (rs *ResultSet) Record() (*record.RowRecord, error) {
	if err := rs.checkRow(); err != nil {
		return nil, err
	}

	n := rs.meta.ColumnNum()
	fields := make([]*field.Field, n)
	for i := range n {
		v := rs.native.Value(i)
		if v.IsNull() {
			continue
		}
		name, _ := rs.meta.ColumnName(i)
		fields[i] = field.FromValue(name, v)
	}

	return record.New(rs.meta.DeviceName(), rs.native.Timestamp(), fields...), nil
}

// Close releases the cursor. Closing twice is a no-op.
func (rs *ResultSet) Close() error {
	if rs.closed {
		return nil
	}
	rs.closed = true
	rs.onRow = false

	err := resolve(rs.native.Close(), "close result set")
	logFailure(rs.logger, err, "close result set")

	return err
}
