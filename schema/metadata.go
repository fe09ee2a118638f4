package schema

import (
	"github.com/arloliu/tsmodel/datatype"
	"github.com/arloliu/tsmodel/errs"
)

// ResultSetMetaData describes the columns of a query result.
//
// Column paths are "device.column"; ColumnIndex resolves a bare column name against the device
// name through a map built at construction.
type ResultSetMetaData struct {
	index      map[string]int
	deviceName string
	columns    []string
	dataTypes  []datatype.DataType
}

// NewResultSetMetaData builds metadata for the given column paths and types.
//
// Parameters:
//   - deviceName: device or table the paths are prefixed with
//   - columns: column paths in result order
//   - dataTypes: column types, same length as columns
//
// Returns:
//   - *ResultSetMetaData: the metadata
//   - error: errs.ErrInvalidArgument when the lengths differ
func NewResultSetMetaData(deviceName string, columns []string, dataTypes []datatype.DataType) (*ResultSetMetaData, error) {
	if len(columns) != len(dataTypes) {
		return nil, errs.Newf(errs.KindInvalidArgument, "%d columns but %d data types", len(columns), len(dataTypes))
	}

	m := &ResultSetMetaData{
		deviceName: deviceName,
		columns:    append([]string(nil), columns...),
		dataTypes:  append([]datatype.DataType(nil), dataTypes...),
		index:      make(map[string]int, len(columns)),
	}
	for i, c := range m.columns {
		if _, ok := m.index[c]; !ok {
			m.index[c] = i
		}
	}

	return m, nil
}

// DeviceName returns the device the column paths belong to.
func (m *ResultSetMetaData) DeviceName() string {
	return m.deviceName
}

// ColumnNum returns the number of columns.
func (m *ResultSetMetaData) ColumnNum() int {
	return len(m.columns)
}

// ColumnList returns a copy of the column paths.
func (m *ResultSetMetaData) ColumnList() []string {
	return append([]string(nil), m.columns...)
}

// ColumnName returns the path of column i.
func (m *ResultSetMetaData) ColumnName(i int) (string, error) {
	if err := m.checkIndex(i); err != nil {
		return "", err
	}

	return m.columns[i], nil
}

// DataType returns the type of column i.
func (m *ResultSetMetaData) DataType(i int) (datatype.DataType, error) {
	if err := m.checkIndex(i); err != nil {
		return datatype.None, err
	}

	return m.dataTypes[i], nil
}

// ColumnIndex resolves a bare column name to its position, looking up deviceName + "." + name.
func (m *ResultSetMetaData) ColumnIndex(name string) (int, error) {
	i, ok := m.index[m.deviceName+"."+name]
	if !ok {
		return -1, errs.Newf(errs.KindColumnNotFound, "Illegal column name: %s", name)
	}

	return i, nil
}

func (m *ResultSetMetaData) checkIndex(i int) error {
	if i < 0 || i >= len(m.columns) {
		return errs.Newf(errs.KindIndexOutOfRange, "column index %d out of range [0, %d)", i, len(m.columns))
	}

	return nil
}
