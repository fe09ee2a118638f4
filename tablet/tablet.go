// Package tablet provides Tablet, a pre-sized columnar batch buffer for one device or table.
//
// A Tablet holds one timestamp column and N value columns, each max_row_num cells long. Every
// cell is in one of three states: unset (never written), explicit null (written with nil) or a
// value validated against the column type. Unset and null cells both read back as a null
// datatype.Value; IsSet tells them apart.
//
// Rows whose timestamp was never set are not part of the batch and are skipped by Rows and by
// the write path.
//
// Note: Tablet is NOT safe for concurrent mutation. Build one Tablet per batch and hand it to the
// writer once it is filled.
package tablet

import (
	"iter"

	"github.com/arloliu/tsmodel/datatype"
	"github.com/arloliu/tsmodel/errs"
	"github.com/arloliu/tsmodel/internal/options"
	"github.com/arloliu/tsmodel/schema"
)

// DefaultMaxRowNum is the capacity used when WithMaxRowNum is not given.
const DefaultMaxRowNum = 1024

type column struct {
	values  []datatype.Value
	present bitmap
	name    string
	dt      datatype.DataType
}

// Tablet is a columnar batch buffer.
type Tablet struct {
	index      map[string]int
	deviceID   string
	columns    []*column
	timestamps []int64
	tsPresent  bitmap
	maxRowNum  int
}

// Option configures a Tablet at construction.
type Option = options.Option[*Tablet]

// WithMaxRowNum sets the row capacity. n must be positive.
func WithMaxRowNum(n int) Option {
	return func(t *Tablet) error {
		if n <= 0 {
			return errs.Newf(errs.KindInvalidArgument, "max row num must be positive, got %d", n)
		}
		t.maxRowNum = n

		return nil
	}
}

// New creates an empty Tablet.
//
// Parameters:
//   - deviceID: device path or table name the batch belongs to
//   - names: unique, non-empty column names
//   - types: column types, same length as names
//   - opts: WithMaxRowNum
//
// Returns:
//   - *Tablet: a tablet with every cell unset
//   - error: errs.ErrInvalidArgument on length mismatch, empty or duplicate names or a bad
//     capacity; errs.ErrTypeNotSupported on an unknown type
func New(deviceID string, names []string, types []datatype.DataType, opts ...Option) (*Tablet, error) {
	if len(names) != len(types) {
		return nil, errs.Newf(errs.KindInvalidArgument, "%d column names but %d data types", len(names), len(types))
	}

	t := &Tablet{
		deviceID:  deviceID,
		maxRowNum: DefaultMaxRowNum,
	}
	if err := options.Apply(t, opts...); err != nil {
		return nil, err
	}

	t.timestamps = make([]int64, t.maxRowNum)
	t.tsPresent = newBitmap(t.maxRowNum)
	t.columns = make([]*column, 0, len(names))
	t.index = make(map[string]int, len(names))

	for i, name := range names {
		if err := t.appendColumn(name, types[i]); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// FromDeviceSchema creates a Tablet with one column per measurement of ds.
func FromDeviceSchema(ds schema.DeviceSchema, opts ...Option) (*Tablet, error) {
	names := make([]string, len(ds.Timeseries))
	types := make([]datatype.DataType, len(ds.Timeseries))
	for i, ts := range ds.Timeseries {
		names[i] = ts.Name
		types[i] = ts.DataType
	}

	return New(ds.DeviceName, names, types, opts...)
}

// FromTableSchema creates a Tablet with one column per column of ts, device id set to the table
// name.
func FromTableSchema(ts schema.TableSchema, opts ...Option) (*Tablet, error) {
	return New(ts.TableName, ts.ColumnNames(), ts.DataTypes(), opts...)
}

func (t *Tablet) appendColumn(name string, dt datatype.DataType) error {
	if name == "" {
		return errs.New(errs.KindInvalidArgument, "column name is empty")
	}
	if err := datatype.Check(dt); err != nil {
		return err
	}
	if _, dup := t.index[name]; dup {
		return errs.Newf(errs.KindInvalidArgument, "duplicate column name %q", name)
	}

	values := make([]datatype.Value, t.maxRowNum)
	for i := range values {
		values[i] = datatype.Null(dt)
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, &column{
		name:    name,
		dt:      dt,
		values:  values,
		present: newBitmap(t.maxRowNum),
	})

	return nil
}

// DeviceID returns the device the batch belongs to.
func (t *Tablet) DeviceID() string {
	return t.deviceID
}

// MaxRowNum returns the row capacity.
func (t *Tablet) MaxRowNum() int {
	return t.maxRowNum
}

// ColumnCount returns the number of value columns.
func (t *Tablet) ColumnCount() int {
	return len(t.columns)
}

// ColumnNames returns the column names in order.
func (t *Tablet) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}

	return names
}

// DataTypes returns the column types in order.
func (t *Tablet) DataTypes() []datatype.DataType {
	types := make([]datatype.DataType, len(t.columns))
	for i, c := range t.columns {
		types[i] = c.dt
	}

	return types
}

// ColumnIndex resolves a column name.
func (t *Tablet) ColumnIndex(name string) (int, error) {
	i, ok := t.index[name]
	if !ok {
		return -1, errs.Newf(errs.KindColumnNotFound, "Illegal column name: %s", name)
	}

	return i, nil
}

func (t *Tablet) checkRow(row int) error {
	if row < 0 || row >= t.maxRowNum {
		return errs.Newf(errs.KindIndexOutOfRange, "row index %d out of range [0, %d]", row, t.maxRowNum-1)
	}

	return nil
}

func (t *Tablet) checkColumn(col int) error {
	if col < 0 || col >= len(t.columns) {
		return errs.Newf(errs.KindIndexOutOfRange, "column index %d out of range [0, %d]", col, len(t.columns)-1)
	}

	return nil
}

// AddTimestamp sets the timestamp of row.
func (t *Tablet) AddTimestamp(row int, ts int64) error {
	if err := t.checkRow(row); err != nil {
		return err
	}
	t.timestamps[row] = ts
	t.tsPresent.set(row)

	return nil
}

// SetTimestamps replaces the timestamp column with ts, marking rows [0, len(ts)) as set and
// every later row as unset.
func (t *Tablet) SetTimestamps(ts []int64) error {
	if len(ts) > t.maxRowNum {
		return errs.Newf(errs.KindIndexOutOfRange, "%d timestamps exceed max row num %d", len(ts), t.maxRowNum)
	}

	t.tsPresent.clear()
	clear(t.timestamps)
	copy(t.timestamps, ts)
	for i := range ts {
		t.tsPresent.set(i)
	}

	return nil
}

// Timestamp returns the timestamp of row and whether it was set.
func (t *Tablet) Timestamp(row int) (int64, bool, error) {
	if err := t.checkRow(row); err != nil {
		return 0, false, err
	}
	if !t.tsPresent.has(row) {
		return 0, false, nil
	}

	return t.timestamps[row], true, nil
}

// AddValueByIndex writes v into cell (col, row). A nil v writes an explicit null.
//
// Returns:
//   - error: errs.ErrIndexOutOfRange for a bad col or row, errs.ErrTypeMismatch or
//     errs.ErrOutOfRange when v does not satisfy the column type; the cell is unchanged on error
func (t *Tablet) AddValueByIndex(col, row int, v any) error {
	if err := t.checkColumn(col); err != nil {
		return err
	}
	if err := t.checkRow(row); err != nil {
		return err
	}

	return t.put(t.columns[col], row, v)
}

// AddValueByName writes v into the cell of the named column at row.
func (t *Tablet) AddValueByName(name string, row int, v any) error {
	col, err := t.ColumnIndex(name)
	if err != nil {
		return err
	}
	if err := t.checkRow(row); err != nil {
		return err
	}

	return t.put(t.columns[col], row, v)
}

func (t *Tablet) put(c *column, row int, v any) error {
	val, err := datatype.Convert(c.dt, v)
	if err != nil {
		return err
	}
	c.values[row] = val
	c.present.set(row)

	return nil
}

// ValueByIndex returns cell (col, row). Unset cells read as null.
func (t *Tablet) ValueByIndex(col, row int) (datatype.Value, error) {
	if err := t.checkColumn(col); err != nil {
		return datatype.Value{}, err
	}
	if err := t.checkRow(row); err != nil {
		return datatype.Value{}, err
	}

	return t.columns[col].values[row], nil
}

// ValueByName returns the cell of the named column at row.
func (t *Tablet) ValueByName(name string, row int) (datatype.Value, error) {
	col, err := t.ColumnIndex(name)
	if err != nil {
		return datatype.Value{}, err
	}

	return t.ValueByIndex(col, row)
}

// IsSet reports whether cell (col, row) was ever written, null writes included.
func (t *Tablet) IsSet(col, row int) (bool, error) {
	if err := t.checkColumn(col); err != nil {
		return false, err
	}
	if err := t.checkRow(row); err != nil {
		return false, err
	}

	return t.columns[col].present.has(row), nil
}

// ValueListByName returns a copy of the named column, max_row_num cells long.
func (t *Tablet) ValueListByName(name string) ([]datatype.Value, error) {
	col, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}

	return append([]datatype.Value(nil), t.columns[col].values...), nil
}

// AddColumn appends an unset column.
func (t *Tablet) AddColumn(name string, dt datatype.DataType) error {
	if _, dup := t.index[name]; dup {
		return errs.Newf(errs.KindAlreadyExists, "column %q already exists", name)
	}

	return t.appendColumn(name, dt)
}

// RemoveColumn drops the named column together with its data and reindexes the columns after it.
func (t *Tablet) RemoveColumn(name string) error {
	col, err := t.ColumnIndex(name)
	if err != nil {
		return err
	}

	t.columns = append(t.columns[:col], t.columns[col+1:]...)
	delete(t.index, name)
	for i := col; i < len(t.columns); i++ {
		t.index[t.columns[i].name] = i
	}

	return nil
}

// RowCount returns the number of rows with a timestamp.
func (t *Tablet) RowCount() int {
	n := 0
	for i := 0; i < t.maxRowNum; i++ {
		if t.tsPresent.has(i) {
			n++
		}
	}

	return n
}

// Row is a read-only view of one timestamped row.
type Row struct {
	t         *Tablet
	Index     int
	Timestamp int64
}

// Value returns the cell of column col in this row.
func (r Row) Value(col int) datatype.Value {
	return r.t.columns[col].values[r.Index]
}

// IsSet reports whether the cell of column col in this row was written.
func (r Row) IsSet(col int) bool {
	return r.t.columns[col].present.has(r.Index)
}

// Rows iterates the rows with a timestamp in row index order.
func (t *Tablet) Rows() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for i := 0; i < t.maxRowNum; i++ {
			if !t.tsPresent.has(i) {
				continue
			}
			if !yield(Row{t: t, Index: i, Timestamp: t.timestamps[i]}) {
				return
			}
		}
	}
}
