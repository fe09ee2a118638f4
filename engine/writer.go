package engine

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arloliu/tsmodel/errs"
	"github.com/arloliu/tsmodel/internal/options"
	"github.com/arloliu/tsmodel/record"
	"github.com/arloliu/tsmodel/schema"
	"github.com/arloliu/tsmodel/tablet"
)

// Writer is the error-returning write boundary over a Native engine.
//
// Note: Writer is NOT safe for concurrent use unless the underlying Native is.
type Writer struct {
	native Native
	logger zerolog.Logger
	closed bool
}

// NewWriter wraps native.
//
// Returns:
//   - *Writer: the writer
//   - error: errs.ErrInvalidArgument for a nil native, or an option error
func NewWriter(native Native, opts ...Option) (*Writer, error) {
	if native == nil {
		return nil, errs.New(errs.KindInvalidArgument, "native engine is nil")
	}

	s := newSettings()
	if err := options.Apply(s, opts...); err != nil {
		return nil, err
	}

	return &Writer{
		native: native,
		logger: s.logger.With().Str("component", "writer").Logger(),
	}, nil
}

func (w *Writer) call(op string, fn func() int) error {
	if w.closed {
		return errs.Newf(errs.KindFileWrite, "%s: writer is closed", op)
	}

	err := resolve(fn(), op)
	logFailure(w.logger, err, op)

	return err
}

// RegisterTimeseries registers one measurement of device, creating the device if needed.
//
// Returns:
//   - error: local schema validation errors, or the translated native status
//     (errs.ErrAlreadyExists for a measurement registered twice)
func (w *Writer) RegisterTimeseries(device string, ts schema.TimeseriesSchema) error {
	if device == "" {
		return errs.New(errs.KindInvalidArgument, "device name is empty")
	}
	if err := ts.Validate(); err != nil {
		return err
	}

	return w.call(fmt.Sprintf("register timeseries %s.%s", device, ts.Name), func() int {
		return w.native.RegisterTimeseries(device, ts)
	})
}

// RegisterDevice registers a device with all its measurements.
func (w *Writer) RegisterDevice(ds schema.DeviceSchema) error {
	if err := ds.Validate(); err != nil {
		return err
	}

	return w.call("register device "+ds.DeviceName, func() int {
		return w.native.RegisterDevice(ds)
	})
}

// RegisterTable registers a table schema.
func (w *Writer) RegisterTable(ts schema.TableSchema) error {
	if err := ts.Validate(); err != nil {
		return err
	}

	return w.call("register table "+ts.TableName, func() int {
		return w.native.RegisterTable(ts)
	})
}

// WriteTablet hands a filled tablet to the engine. Rows without a timestamp are skipped and
// unset or null cells are not stored.
//
// Returns:
//   - error: errs.ErrDeviceNotExist for an unregistered device or table,
//     errs.ErrMeasurementNotExist for an unregistered column, errs.ErrTypeMismatch when a column
//     type differs from its registered type
func (w *Writer) WriteTablet(t *tablet.Tablet) error {
	if t == nil {
		return errs.New(errs.KindInvalidArgument, "tablet is nil")
	}

	err := w.call("write tablet "+t.DeviceID(), func() int {
		return w.native.WriteTablet(t)
	})
	if err == nil {
		w.logger.Debug().Str("device", t.DeviceID()).Int("rows", t.RowCount()).Msg("tablet written")
	}

	return err
}

// WriteRecord hands one row to the engine. Nil and null fields are skipped.
func (w *Writer) WriteRecord(r *record.RowRecord) error {
	if r == nil {
		return errs.New(errs.KindInvalidArgument, "record is nil")
	}

	return w.call(fmt.Sprintf("write record %s@%d", r.DeviceID(), r.Timestamp()), func() int {
		return w.native.WriteRecord(r)
	})
}

// Flush persists buffered points.
func (w *Writer) Flush() error {
	return w.call("flush", w.native.Flush)
}

// Close flushes and closes the engine. Closing twice is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}

	err := w.call("close", w.native.Close)
	w.closed = true

	return err
}
