package store

import (
	"github.com/arloliu/tsmodel/datatype"
	"github.com/arloliu/tsmodel/format"
	"github.com/arloliu/tsmodel/internal/hash"
	"github.com/arloliu/tsmodel/schema"
)

// catalog is the footer content.
type catalog struct {
	FileID  string       `msgpack:"file_id"`
	Targets []targetMeta `msgpack:"targets"`
}

type targetMeta struct {
	Name   string       `msgpack:"name"`
	Series []seriesMeta `msgpack:"series"`
	Table  bool         `msgpack:"table"`
}

type seriesMeta struct {
	Name       string     `msgpack:"name"`
	Chunks     []chunkRef `msgpack:"chunks"`
	DataType   uint8      `msgpack:"data_type"`
	Encoding   uint8      `msgpack:"encoding"`
	Compressor uint8      `msgpack:"compressor"`
	Category   uint8      `msgpack:"category"`
}

type chunkRef struct {
	Offset  int64  `msgpack:"offset"`
	MinTime int64  `msgpack:"min_time"`
	MaxTime int64  `msgpack:"max_time"`
	Count   uint32 `msgpack:"count"`
}

func (r chunkRef) overlaps(start, end int64) bool {
	return r.MaxTime >= start && r.MinTime < end
}

type point struct {
	v  datatype.Value
	ts int64
}

// series is one device measurement or one table column.
type series struct {
	name     string
	path     string
	chunks   []chunkRef
	pending  []point
	id       uint64
	dt       datatype.DataType
	enc      format.Encoding
	comp     format.Compressor
	category format.Category
	table    bool
}

func newSeries(target, name string, dt datatype.DataType, enc format.Encoding, comp format.Compressor) *series {
	return &series{
		name: name,
		path: hash.SeriesPath(target, name),
		id:   hash.SeriesID(target, name),
		dt:   dt,
		enc:  enc,
		comp: comp,
	}
}

func (c *series) meta() seriesMeta {
	return seriesMeta{
		Name:       c.name,
		Chunks:     c.chunks,
		DataType:   uint8(c.dt),
		Encoding:   uint8(c.enc),
		Compressor: uint8(c.comp),
		Category:   uint8(c.category),
	}
}

// target is a registered device or table.
type target struct {
	byName  map[string]*series
	name    string
	columns []*series
	table   bool
}

func newTarget(name string, table bool) *target {
	return &target{name: name, table: table, byName: make(map[string]*series)}
}

func (t *target) add(c *series) {
	c.table = t.table
	t.columns = append(t.columns, c)
	t.byName[c.name] = c
}

func (t *target) tableSchema() schema.TableSchema {
	cols := make([]schema.ColumnSchema, len(t.columns))
	for i, c := range t.columns {
		cols[i] = schema.NewColumn(c.name, c.dt, c.category)
	}

	return schema.NewTable(t.name, cols...)
}

func (t *target) meta() targetMeta {
	m := targetMeta{Name: t.name, Table: t.table, Series: make([]seriesMeta, len(t.columns))}
	for i, c := range t.columns {
		m.Series[i] = c.meta()
	}

	return m
}
