// Package engine is the boundary between the typed data model and a storage engine.
//
// The storage engine is reached through Native, a call interface that reports failures as
// integer status codes. Writer and Reader wrap a Native, validate input locally before any
// native call and translate every non-zero status code into an *errs.Error through errs.Resolve:
//
//	w := engine.NewWriter(native)
//	if err := w.RegisterDevice(schema.NewDevice("root.d1", schema.NewTimeseries("s1", datatype.Int64))); err != nil {
//	    return err
//	}
//	if err := w.WriteTablet(tab); errors.Is(err, errs.ErrMeasurementNotExist) {
//	    // a column of tab was never registered
//	}
//
// Queries return a ResultSet cursor over the half-open time range [start, end). Result columns
// are addressed by their 0-based position in the queried column list or by bare column name.
package engine
