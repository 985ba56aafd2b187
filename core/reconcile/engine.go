package reconcile

import (
	"context"
	"fmt"
	"sort"

	"pns-snapshot/core/snapshot"
)

// Diff reconciles two snapshots by entity id.
func Diff(before, after *snapshot.Snapshot) *Report {
	union := buildUnion(before, after)

	results := make([]Result, 0, len(union))
	for id := range union {
		results = append(results, buildResult(id, before, after))
	}

	// Sort results by id for deterministic output
	sort.Slice(results, func(i, j int) bool {
		return results[i].ID < results[j].ID
	})

	report := &Report{
		Results: results,
		Summary: Summary{
			BeforeEntities: before.Len(),
			AfterEntities:  after.Len(),
			Union:          len(union),
		},
	}

	for _, r := range results {
		switch {
		case r.BeforePresent && !r.AfterPresent:
			e, _ := before.Get(r.ID)
			report.Surplus = append(report.Surplus, e)
			report.Summary.OnlyBefore++
		case r.AfterPresent && !r.BeforePresent:
			e, _ := after.Get(r.ID)
			report.Surplus = append(report.Surplus, e)
			report.Summary.OnlyAfter++
		}
	}
	report.Summary.Surplus = len(report.Surplus)

	report.Toggled = Toggle(report.Surplus)
	report.Summary.Toggled = len(report.Toggled)
	return report
}

// Toggle folds the children of entities into one set: every occurrence of a
// name flips its membership. The result is sorted.
func Toggle(entities []snapshot.Entity) []string {
	set := make(map[string]struct{})
	for _, e := range entities {
		for name := range e.Children {
			if _, ok := set[name]; ok {
				delete(set, name)
			} else {
				set[name] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ReconcileRefs loads two snapshots through spec.Source and diffs them.
// Loaded snapshots are cached when spec.CacheTTL is positive.
func ReconcileRefs(ctx context.Context, spec *Spec, beforeRef, afterRef string) (*Report, error) {
	before, err := loadSnapshot(ctx, spec, beforeRef)
	if err != nil {
		return nil, fmt.Errorf("failed to load before snapshot %s: %w", beforeRef, err)
	}
	after, err := loadSnapshot(ctx, spec, afterRef)
	if err != nil {
		return nil, fmt.Errorf("failed to load after snapshot %s: %w", afterRef, err)
	}
	return Diff(before, after), nil
}

func loadSnapshot(ctx context.Context, spec *Spec, ref string) (*snapshot.Snapshot, error) {
	if spec.CacheTTL > 0 {
		return GetOrLoad(ctx, spec, ref)
	}
	return spec.Source.Load(ctx, ref)
}

// buildUnion creates a set of all ids from both snapshots.
func buildUnion(before, after *snapshot.Snapshot) map[string]struct{} {
	union := make(map[string]struct{}, before.Len()+after.Len())

	for _, id := range before.IDs() {
		union[id] = struct{}{}
	}
	for _, id := range after.IDs() {
		union[id] = struct{}{}
	}

	return union
}

// buildResult creates a Result for a single id.
func buildResult(id string, before, after *snapshot.Snapshot) Result {
	b, beforePresent := before.Get(id)
	a, afterPresent := after.Get(id)

	result := Result{
		ID:            id,
		BeforePresent: beforePresent,
		AfterPresent:  afterPresent,
	}
	if afterPresent {
		result.ChildCount = a.ChildCount()
	} else {
		result.ChildCount = b.ChildCount()
	}
	return result
}
