package snapshot

import (
	"maps"
	"slices"
	"time"
)

// Snapshot is an immutable set of entities captured at one instant.
type Snapshot struct {
	TakenAt  time.Time
	entities map[string]Entity
}

// New builds a snapshot from entities. Later entities replace earlier ones with the same id.
func New(takenAt time.Time, entities ...Entity) *Snapshot {
	s := &Snapshot{TakenAt: takenAt, entities: make(map[string]Entity, len(entities))}
	for _, e := range entities {
		s.entities[e.ID] = e
	}
	return s
}

// Len returns the entity count.
func (s *Snapshot) Len() int {
	return len(s.entities)
}

// Get returns the entity with the given id.
func (s *Snapshot) Get(id string) (Entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}

// Has reports whether an entity with the given id exists.
func (s *Snapshot) Has(id string) bool {
	_, ok := s.entities[id]
	return ok
}

// IDs returns all entity ids in ascending order.
func (s *Snapshot) IDs() []string {
	return slices.Sorted(maps.Keys(s.entities))
}

// Entities returns all entities ordered by id.
func (s *Snapshot) Entities() []Entity {
	out := make([]Entity, 0, len(s.entities))
	for _, id := range s.IDs() {
		out = append(out, s.entities[id])
	}
	return out
}

// ChildTotal returns the sum of all child counts.
func (s *Snapshot) ChildTotal() int {
	n := 0
	for _, e := range s.entities {
		n += e.ChildCount()
	}
	return n
}
