package reconcile

import (
	"context"
	"time"

	"pns-snapshot/core/snapshot"
)

// Result is the presence of one entity id across the two snapshots.
type Result struct {
	// ID is the normalised entity identifier.
	ID string `json:"id"`

	// BeforePresent indicates the id exists in the earlier snapshot.
	BeforePresent bool `json:"before_present"`

	// AfterPresent indicates the id exists in the later snapshot.
	AfterPresent bool `json:"after_present"`

	// ChildCount is the child count of the surviving side, or the later
	// snapshot's when present in both.
	ChildCount int `json:"child_count"`
}

// Surplus reports whether the id exists in exactly one snapshot.
func (r Result) Surplus() bool {
	return r.BeforePresent != r.AfterPresent
}

// Report is the outcome of a diff between two snapshots.
type Report struct {
	// Results contains one entry per id in the union, ordered by id.
	Results []Result `json:"results"`

	// Surplus holds the entities present in exactly one snapshot, ordered by id.
	Surplus []snapshot.Entity `json:"-"`

	// Toggled is the toggle aggregation of all surplus children, sorted.
	Toggled []string `json:"toggled"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`
}

// Summary provides aggregate statistics for a report.
type Summary struct {
	// BeforeEntities is the entity count of the earlier snapshot.
	BeforeEntities int `json:"before_entities"`

	// AfterEntities is the entity count of the later snapshot.
	AfterEntities int `json:"after_entities"`

	// Union is the number of distinct ids across both snapshots.
	Union int `json:"union"`

	// OnlyBefore counts ids that disappeared.
	OnlyBefore int `json:"only_before"`

	// OnlyAfter counts ids that appeared.
	OnlyAfter int `json:"only_after"`

	// Surplus is OnlyBefore + OnlyAfter.
	Surplus int `json:"surplus"`

	// Toggled is the size of the toggled set.
	Toggled int `json:"toggled"`
}

// Source loads a snapshot by reference, typically an artifact name.
type Source interface {
	// Name identifies the source in cache keys.
	Name() string
	// Load returns the snapshot stored under ref.
	Load(ctx context.Context, ref string) (*snapshot.Snapshot, error)
}

// Spec defines the configuration for a reconciliation between stored snapshots.
type Spec struct {
	// Source resolves snapshot references.
	Source Source

	// CacheTTL is the time-to-live for loaded snapshots.
	// If zero, caching is disabled.
	CacheTTL time.Duration
}

// CacheKey returns the cache key for a snapshot reference under this spec.
func (s *Spec) CacheKey(ref string) string {
	return s.Source.Name() + "|" + ref
}
