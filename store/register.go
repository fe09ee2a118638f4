package store

import (
	"github.com/arloliu/tsmodel/compress"
	"github.com/arloliu/tsmodel/encoding"
	"github.com/arloliu/tsmodel/errs"
	"github.com/arloliu/tsmodel/format"
	"github.com/arloliu/tsmodel/schema"
)

func checkTimeseries(ts schema.TimeseriesSchema) error {
	if err := ts.Validate(); err != nil {
		return err
	}
	if err := encoding.Supports(ts.DataType, ts.Encoding); err != nil {
		return err
	}
	if !compress.Supported(ts.Compressor) {
		return errs.Newf(errs.KindInvalidArgument, "unsupported compressor: %s", ts.Compressor)
	}

	return nil
}

// checkNew rejects series whose path or id is already tracked, including collisions within
// the candidates themselves.
func (s *Store) checkNew(candidates []*series) error {
	seen := make(map[uint64]string, len(candidates))
	for _, c := range candidates {
		if owner, ok := s.tracker.Lookup(c.id); ok {
			if owner == c.path {
				return errs.Newf(errs.KindAlreadyExists, "series %q already registered", c.path)
			}

			return errs.Newf(errs.KindMetadataInconsistency, "series %q collides with %q", c.path, owner)
		}
		if owner, ok := seen[c.id]; ok {
			return errs.Newf(errs.KindMetadataInconsistency, "series %q collides with %q", c.path, owner)
		}
		seen[c.id] = c.path
	}

	return nil
}

// attach tracks candidates and adds them to t, registering t when it is new.
func (s *Store) attach(t *target, candidates []*series) error {
	for _, c := range candidates {
		if err := s.tracker.Track(c.path, c.id); err != nil {
			return err
		}
		t.add(c)
	}

	if _, ok := s.targets[t.name]; !ok {
		s.targets[t.name] = t
		s.order = append(s.order, t.name)
	}

	return nil
}

// RegisterTimeseries registers one measurement, creating the device on first use.
func (s *Store) RegisterTimeseries(device string, ts schema.TimeseriesSchema) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status("register timeseries", s.registerTimeseries(device, ts))
}

func (s *Store) registerTimeseries(device string, ts schema.TimeseriesSchema) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	if device == "" {
		return errs.New(errs.KindInvalidArgument, "device name is empty")
	}
	if err := checkTimeseries(ts); err != nil {
		return err
	}

	t, ok := s.targets[device]
	if !ok {
		t = newTarget(device, false)
	} else if t.table {
		return errs.Newf(errs.KindAlreadyExists, "%s is registered as a table", device)
	}
	if _, dup := t.byName[ts.Name]; dup {
		return errs.Newf(errs.KindAlreadyExists, "measurement %s.%s already registered", device, ts.Name)
	}

	c := []*series{newSeries(device, ts.Name, ts.DataType, ts.Encoding, ts.Compressor)}
	if err := s.checkNew(c); err != nil {
		return err
	}

	return s.attach(t, c)
}

// RegisterDevice registers a new device with all its measurements.
func (s *Store) RegisterDevice(ds schema.DeviceSchema) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status("register device", s.registerDevice(ds))
}

func (s *Store) registerDevice(ds schema.DeviceSchema) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	if err := ds.Validate(); err != nil {
		return err
	}
	if _, ok := s.targets[ds.DeviceName]; ok {
		return errs.Newf(errs.KindAlreadyExists, "device %s already registered", ds.DeviceName)
	}

	candidates := make([]*series, 0, len(ds.Timeseries))
	for _, ts := range ds.Timeseries {
		if err := checkTimeseries(ts); err != nil {
			return err
		}
		candidates = append(candidates, newSeries(ds.DeviceName, ts.Name, ts.DataType, ts.Encoding, ts.Compressor))
	}
	if err := s.checkNew(candidates); err != nil {
		return err
	}

	return s.attach(newTarget(ds.DeviceName, false), candidates)
}

// RegisterTable registers a table. Columns are stored PLAIN with the default compressor.
func (s *Store) RegisterTable(ts schema.TableSchema) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status("register table", s.registerTable(ts))
}

func (s *Store) registerTable(ts schema.TableSchema) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	if err := ts.Validate(); err != nil {
		return err
	}
	if _, ok := s.targets[ts.TableName]; ok {
		return errs.Newf(errs.KindAlreadyExists, "table %s already registered", ts.TableName)
	}

	candidates := make([]*series, 0, len(ts.Columns))
	for _, col := range ts.Columns {
		c := newSeries(ts.TableName, col.Name, col.DataType, format.EncodingPlain, s.cfg.DefaultCompressor)
		c.category = col.Category
		candidates = append(candidates, c)
	}
	if err := s.checkNew(candidates); err != nil {
		return err
	}

	return s.attach(newTarget(ts.TableName, true), candidates)
}

// TableSchema returns the schema of a registered table.
func (s *Store) TableSchema(name string) (schema.TableSchema, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkReadable(); err != nil {
		return schema.TableSchema{}, s.status("table schema", err)
	}

	t, ok := s.targets[name]
	if !ok || !t.table {
		return schema.TableSchema{}, s.status("table schema", errs.Newf(errs.KindTableNotExist, "table %s is not registered", name))
	}

	return t.tableSchema(), errs.CodeOK
}

// AllTableSchemas returns every table schema in registration order.
func (s *Store) AllTableSchemas() ([]schema.TableSchema, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkReadable(); err != nil {
		return nil, s.status("all table schemas", err)
	}

	out := make([]schema.TableSchema, 0)
	for _, name := range s.order {
		if t := s.targets[name]; t.table {
			out = append(out, t.tableSchema())
		}
	}

	return out, errs.CodeOK
}
