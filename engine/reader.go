package engine

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arloliu/tsmodel/errs"
	"github.com/arloliu/tsmodel/internal/options"
	"github.com/arloliu/tsmodel/schema"
)

// Reader is the error-returning query boundary over a Native engine.
type Reader struct {
	native Native
	logger zerolog.Logger
	closed bool
}

// NewReader wraps native.
func NewReader(native Native, opts ...Option) (*Reader, error) {
	if native == nil {
		return nil, errs.New(errs.KindInvalidArgument, "native engine is nil")
	}

	s := newSettings()
	if err := options.Apply(s, opts...); err != nil {
		return nil, err
	}

	return &Reader{
		native: native,
		logger: s.logger.With().Str("component", "reader").Logger(),
	}, nil
}

func checkQuery(target string, columns []string, start, end int64) error {
	if target == "" {
		return errs.New(errs.KindInvalidArgument, "query target is empty")
	}
	if len(columns) == 0 {
		return errs.New(errs.KindInvalidQuery, "no columns selected")
	}
	if start > end {
		return errs.Newf(errs.KindInvalidQuery, "invalid time range [%d, %d)", start, end)
	}

	return nil
}

// QueryTimeseries returns the rows of device's columns with timestamps in [start, end), in
// ascending timestamp order.
//
// Parameters:
//   - device: registered device
//   - columns: measurement names; result index i refers to columns[i]
//   - start: inclusive lower bound
//   - end: exclusive upper bound
//
// Returns:
//   - *ResultSet: cursor positioned before the first row
//   - error: errs.ErrInvalidQuery for an empty column list or start > end,
//     errs.ErrDeviceNotExist / errs.ErrMeasurementNotExist for unknown names
func (r *Reader) QueryTimeseries(device string, columns []string, start, end int64) (*ResultSet, error) {
	if err := checkQuery(device, columns, start, end); err != nil {
		return nil, err
	}

	return r.query(device, columns, fmt.Sprintf("query %s [%d, %d)", device, start, end), func() (NativeResult, int) {
		return r.native.Query(device, columns, start, end)
	})
}

// QueryTable is QueryTimeseries for a registered table.
func (r *Reader) QueryTable(table string, columns []string, start, end int64) (*ResultSet, error) {
	if err := checkQuery(table, columns, start, end); err != nil {
		return nil, err
	}

	return r.query(table, columns, fmt.Sprintf("query table %s [%d, %d)", table, start, end), func() (NativeResult, int) {
		return r.native.QueryTable(table, columns, start, end)
	})
}

func (r *Reader) query(target string, columns []string, op string, fn func() (NativeResult, int)) (*ResultSet, error) {
	if r.closed {
		return nil, errs.Newf(errs.KindFileRead, "%s: reader is closed", op)
	}

	res, code := fn()
	if err := resolve(code, op); err != nil {
		logFailure(r.logger, err, op)
		return nil, err
	}

	rs, err := newResultSet(target, columns, res, r.logger)
	if err != nil {
		res.Close()
		logFailure(r.logger, err, op)

		return nil, err
	}

	return rs, nil
}

// TableSchema returns the schema of a registered table.
//
// Returns:
//   - error: errs.ErrTableNotExist for an unknown table
func (r *Reader) TableSchema(name string) (schema.TableSchema, error) {
	ts, code := r.native.TableSchema(name)
	if err := resolve(code, "table schema "+name); err != nil {
		logFailure(r.logger, err, "table schema")
		return schema.TableSchema{}, err
	}

	return ts, nil
}

// AllTableSchemas returns every registered table schema in registration order.
func (r *Reader) AllTableSchemas() ([]schema.TableSchema, error) {
	all, code := r.native.AllTableSchemas()
	if err := resolve(code, "all table schemas"); err != nil {
		logFailure(r.logger, err, "all table schemas")
		return nil, err
	}

	return all, nil
}

// Close closes the engine. Closing twice is a no-op.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	err := resolve(r.native.Close(), "close")
	logFailure(r.logger, err, "close")

	return err
}
