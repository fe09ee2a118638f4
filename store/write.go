package store

import (
	"github.com/arloliu/tsmodel/errs"
	"github.com/arloliu/tsmodel/record"
	"github.com/arloliu/tsmodel/tablet"
)

func (s *Store) lookupTarget(name string) (*target, error) {
	t, ok := s.targets[name]
	if !ok {
		return nil, errs.Newf(errs.KindDeviceNotExist, "device %s is not registered", name)
	}

	return t, nil
}

func (t *target) lookupColumn(name string) (*series, error) {
	c, ok := t.byName[name]
	if !ok {
		return nil, errs.Newf(errs.KindMeasurementNotExist, "measurement %s.%s is not registered", t.name, name)
	}

	return c, nil
}

// WriteTablet buffers every set, non-null cell of the tablet's timestamped rows. The tablet is
// validated as a whole before any point is buffered.
func (s *Store) WriteTablet(tab *tablet.Tablet) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status("write tablet", s.writeTablet(tab))
}

func (s *Store) writeTablet(tab *tablet.Tablet) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	if tab == nil {
		return errs.New(errs.KindInvalidArgument, "tablet is nil")
	}

	t, err := s.lookupTarget(tab.DeviceID())
	if err != nil {
		return err
	}

	names := tab.ColumnNames()
	types := tab.DataTypes()
	cols := make([]*series, len(names))
	for i, name := range names {
		c, err := t.lookupColumn(name)
		if err != nil {
			return err
		}
		if c.dt != types[i] {
			return errs.Newf(errs.KindTypeMismatch, "column %s is %s, registered as %s", c.path, types[i], c.dt)
		}
		cols[i] = c
	}

	for row := range tab.Rows() {
		for i, c := range cols {
			if !row.IsSet(i) {
				continue
			}
			v := row.Value(i)
			if v.IsNull() {
				continue
			}
			c.pending = append(c.pending, point{ts: row.Timestamp, v: v})
		}
	}

	return s.maybeFlushLocked()
}

// WriteRecord buffers the non-null fields of one row. Nil fields are skipped.
func (s *Store) WriteRecord(r *record.RowRecord) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status("write record", s.writeRecord(r))
}

func (s *Store) writeRecord(r *record.RowRecord) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	if r == nil {
		return errs.New(errs.KindInvalidArgument, "record is nil")
	}

	t, err := s.lookupTarget(r.DeviceID())
	if err != nil {
		return err
	}

	fields := r.Fields()
	cols := make([]*series, len(fields))
	for i, f := range fields {
		if f == nil {
			continue
		}
		c, err := t.lookupColumn(f.Name())
		if err != nil {
			return err
		}
		if f.IsNull() {
			continue
		}
		if f.DataType() != c.dt {
			return errs.Newf(errs.KindTypeMismatch, "field %s is %s, registered as %s", c.path, f.DataType(), c.dt)
		}
		cols[i] = c
	}

	for i, c := range cols {
		if c == nil {
			continue
		}
		c.pending = append(c.pending, point{ts: r.Timestamp(), v: fields[i].Value()})
	}

	return s.maybeFlushLocked()
}
