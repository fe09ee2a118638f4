package store

import (
	"slices"

	"github.com/arloliu/tsmodel/datatype"
	"github.com/arloliu/tsmodel/engine"
	"github.com/arloliu/tsmodel/errs"
)

// result is a materialized engine.NativeResult.
type result struct {
	timestamps []int64
	rows       [][]datatype.Value
	types      []datatype.DataType
	pos        int
}

var _ engine.NativeResult = (*result)(nil)

func (r *result) Next() bool {
	if r.pos < len(r.timestamps) {
		r.pos++
	}

	return r.pos < len(r.timestamps)
}

func (r *result) Timestamp() int64 {
	return r.timestamps[r.pos]
}

func (r *result) Value(i int) datatype.Value {
	return r.rows[r.pos][i]
}

func (r *result) DataTypes() []datatype.DataType {
	return r.types
}

func (r *result) Close() int {
	r.pos = len(r.timestamps)
	return errs.CodeOK
}

// Query returns device rows with timestamps in [start, end).
func (s *Store) Query(device string, columns []string, start, end int64) (engine.NativeResult, int) {
	res, err := s.query(device, false, columns, start, end)
	if err != nil {
		return nil, s.status("query", err)
	}

	return res, errs.CodeOK
}

// QueryTable returns table rows with timestamps in [start, end).
func (s *Store) QueryTable(table string, columns []string, start, end int64) (engine.NativeResult, int) {
	res, err := s.query(table, true, columns, start, end)
	if err != nil {
		return nil, s.status("query table", err)
	}

	return res, errs.CodeOK
}

func (s *Store) query(name string, table bool, columns []string, start, end int64) (*result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkReadable(); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, errs.New(errs.KindInvalidQuery, "no columns selected")
	}
	if start > end {
		return nil, errs.Newf(errs.KindInvalidQuery, "invalid time range [%d, %d)", start, end)
	}

	t, ok := s.targets[name]
	if !ok || t.table != table {
		if table {
			return nil, errs.Newf(errs.KindTableNotExist, "table %s is not registered", name)
		}

		return nil, errs.Newf(errs.KindDeviceNotExist, "device %s is not registered", name)
	}

	cols := make([]*series, len(columns))
	types := make([]datatype.DataType, len(columns))
	for i, col := range columns {
		c, err := t.lookupColumn(col)
		if err != nil {
			return nil, err
		}
		cols[i] = c
		types[i] = c.dt
	}

	merged := make(map[*series]map[int64]datatype.Value, len(cols))
	seen := make(map[int64]struct{})
	for _, c := range cols {
		if _, done := merged[c]; done {
			continue
		}

		points, err := s.collect(c, start, end)
		if err != nil {
			return nil, err
		}
		merged[c] = points
		for ts := range points {
			seen[ts] = struct{}{}
		}
	}

	timestamps := make([]int64, 0, len(seen))
	for ts := range seen {
		timestamps = append(timestamps, ts)
	}
	slices.Sort(timestamps)

	rows := make([][]datatype.Value, len(timestamps))
	for r, ts := range timestamps {
		row := make([]datatype.Value, len(cols))
		for i, c := range cols {
			v, ok := merged[c][ts]
			if !ok {
				v = datatype.Null(c.dt)
			}
			row[i] = v
		}
		rows[r] = row
	}

	return &result{timestamps: timestamps, rows: rows, types: types, pos: -1}, nil
}

// collect merges the flushed chunks and the buffered points of c within [start, end). Later
// writes replace earlier ones.
func (s *Store) collect(c *series, start, end int64) (map[int64]datatype.Value, error) {
	points := make(map[int64]datatype.Value)

	for _, ref := range c.chunks {
		if !ref.overlaps(start, end) {
			continue
		}

		timestamps, values, err := s.readChunk(c, ref)
		if err != nil {
			return nil, err
		}
		for i, ts := range timestamps {
			if ts >= start && ts < end {
				points[ts] = values[i]
			}
		}
	}

	for _, p := range c.pending {
		if p.ts >= start && p.ts < end {
			points[p.ts] = p.v
		}
	}

	return points, nil
}
