package snapshot

import (
	"sync"
	"time"
)

// Builder accumulates entities from concurrent harvest workers.
type Builder struct {
	mu       sync.Mutex
	entities map[string]Entity
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{entities: make(map[string]Entity)}
}

// Put stores e, replacing any entity with the same id.
func (b *Builder) Put(e Entity) {
	b.mu.Lock()
	b.entities[e.ID] = e
	b.mu.Unlock()
}

// Len returns the number of distinct ids collected so far.
func (b *Builder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entities)
}

// Build returns an immutable snapshot of the collected entities.
func (b *Builder) Build(takenAt time.Time) *Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := &Snapshot{TakenAt: takenAt, entities: make(map[string]Entity, len(b.entities))}
	for id, e := range b.entities {
		s.entities[id] = e
	}
	return s
}
