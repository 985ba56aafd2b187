package snapshot

import (
	"maps"
	"slices"

	"pns-snapshot/core/harvest"
)

// Entity is a parent record with its qualifying children, keyed by child name.
// The value is the child's creation timestamp, nil when the service did not report one.
type Entity struct {
	ID       string
	Children map[string]*int64
}

// ChildCount is always derived from the children, never stored.
func (e Entity) ChildCount() int {
	return len(e.Children)
}

// Names returns the child names in ascending order.
func (e Entity) Names() []string {
	return slices.Sorted(maps.Keys(e.Children))
}

// Records returns the children as records ordered by name.
func (e Entity) Records() []harvest.ChildRecord {
	out := make([]harvest.ChildRecord, 0, len(e.Children))
	for _, name := range e.Names() {
		r := harvest.ChildRecord{Name: name}
		if ts := e.Children[name]; ts != nil {
			r.CreatedAt, r.HasCreatedAt = *ts, true
		}
		out = append(out, r)
	}
	return out
}

// NewEntity builds an entity from a list of names with unknown timestamps.
func NewEntity(id string, names ...string) Entity {
	children := make(map[string]*int64, len(names))
	for _, name := range names {
		children[name] = nil
	}
	return Entity{ID: id, Children: children}
}

// Timestamp returns a pointer to ts for building entity children.
func Timestamp(ts int64) *int64 {
	return &ts
}
