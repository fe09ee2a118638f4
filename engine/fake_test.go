package engine_test

import (
	"github.com/arloliu/tsmodel/datatype"
	"github.com/arloliu/tsmodel/engine"
	"github.com/arloliu/tsmodel/errs"
	"github.com/arloliu/tsmodel/record"
	"github.com/arloliu/tsmodel/schema"
	"github.com/arloliu/tsmodel/tablet"
)

// fakeNative returns scripted status codes and counts the calls that reach it.
type fakeNative struct {
	result engine.NativeResult
	code   int
	calls  int
}

var _ engine.Native = (*fakeNative)(nil)

func (f *fakeNative) status() int {
	f.calls++
	return f.code
}

func (f *fakeNative) RegisterTimeseries(string, schema.TimeseriesSchema) int { return f.status() }
func (f *fakeNative) RegisterDevice(schema.DeviceSchema) int                 { return f.status() }
func (f *fakeNative) RegisterTable(schema.TableSchema) int                   { return f.status() }
func (f *fakeNative) WriteTablet(*tablet.Tablet) int                         { return f.status() }
func (f *fakeNative) WriteRecord(*record.RowRecord) int                      { return f.status() }
func (f *fakeNative) Flush() int                                             { return f.status() }
func (f *fakeNative) Close() int                                             { return f.status() }

func (f *fakeNative) Query(string, []string, int64, int64) (engine.NativeResult, int) {
	return f.result, f.status()
}

func (f *fakeNative) QueryTable(string, []string, int64, int64) (engine.NativeResult, int) {
	return f.result, f.status()
}

func (f *fakeNative) TableSchema(string) (schema.TableSchema, int) {
	return schema.TableSchema{}, f.status()
}

func (f *fakeNative) AllTableSchemas() ([]schema.TableSchema, int) {
	return nil, f.status()
}

// fakeResult yields fixed rows.
type fakeResult struct {
	types      []datatype.DataType
	timestamps []int64
	rows       [][]datatype.Value
	pos        int
	closeCode  int
	closed     bool
}

func newFakeResult(types []datatype.DataType, timestamps []int64, rows ...[]datatype.Value) *fakeResult {
	return &fakeResult{types: types, timestamps: timestamps, rows: rows, pos: -1}
}

func (r *fakeResult) Next() bool {
	if r.pos < len(r.timestamps) {
		r.pos++
	}

	return r.pos < len(r.timestamps)
}

func (r *fakeResult) Timestamp() int64               { return r.timestamps[r.pos] }
func (r *fakeResult) Value(i int) datatype.Value     { return r.rows[r.pos][i] }
func (r *fakeResult) DataTypes() []datatype.DataType { return r.types }

func (r *fakeResult) Close() int {
	r.closed = true
	if r.closeCode != 0 {
		return r.closeCode
	}

	return errs.CodeOK
}
