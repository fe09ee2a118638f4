// Package collision detects series id collisions in a store catalog.
package collision

import (
	"github.com/arloliu/tsmodel/errs"
)

// Tracker maps series ids to the series paths that produced them.
//
// Chunk headers identify their series by id only, so two paths sharing an id would make chunk
// ownership ambiguous. Tracker rejects such a path instead of silently merging the series.
type Tracker struct {
	paths map[uint64]string
	order []string
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		paths: make(map[uint64]string),
		order: make([]string, 0),
	}
}

// Track records path under id.
//
// Returns:
//   - error: errs.ErrInvalidArgument for an empty path, errs.ErrAlreadyExists when path was
//     tracked before, errs.ErrMetadataInconsistency when a different path already owns id
func (t *Tracker) Track(path string, id uint64) error {
	if path == "" {
		return errs.New(errs.KindInvalidArgument, "series path is empty")
	}

	if existing, ok := t.paths[id]; ok {
		if existing == path {
			return errs.Newf(errs.KindAlreadyExists, "series %q already registered", path)
		}

		return errs.Newf(errs.KindMetadataInconsistency, "series %q collides with %q (id %#016x)", path, existing, id)
	}

	t.paths[id] = path
	t.order = append(t.order, path)

	return nil
}

// Lookup returns the path owning id.
func (t *Tracker) Lookup(id uint64) (string, bool) {
	p, ok := t.paths[id]
	return p, ok
}

// Paths returns the tracked paths in registration order.
func (t *Tracker) Paths() []string {
	return t.order
}

// Count returns the number of tracked series.
func (t *Tracker) Count() int {
	return len(t.order)
}

// Reset clears all tracked series.
func (t *Tracker) Reset() {
	clear(t.paths)
	t.order = t.order[:0]
}
