package accounts

import (
	"context"
	"fmt"

	"pns-snapshot/core/snapshot"
)

// Source loads all_accounts artifacts as snapshots for the reconciler.
type Source struct {
	store snapshot.Store
}

// NewSource creates a source backed by store.
func NewSource(store snapshot.Store) *Source {
	return &Source{store: store}
}

// Name implements reconcile.Source.
func (s *Source) Name() string {
	return KindAll
}

// Load implements reconcile.Source. Ref is an artifact name.
func (s *Source) Load(ctx context.Context, ref string) (*snapshot.Snapshot, error) {
	kind, takenAt, err := snapshot.ParseName(ref)
	if err != nil {
		return nil, err
	}
	if kind != KindAll {
		return nil, fmt.Errorf("artifact %s is a %s snapshot, want %s", ref, kind, KindAll)
	}
	var doc AllAccounts
	if err := s.store.Load(ctx, ref, &doc); err != nil {
		return nil, err
	}
	return doc.Snapshot(takenAt), nil
}

// LatestPair returns the names of the two newest all_accounts artifacts, older first.
func LatestPair(ctx context.Context, store snapshot.Store) (string, string, error) {
	list, err := store.List(ctx, KindAll)
	if err != nil {
		return "", "", err
	}
	if len(list) < 2 {
		return "", "", fmt.Errorf("%w: need two %s artifacts, found %d", snapshot.ErrNotFound, KindAll, len(list))
	}
	return list[len(list)-2].Name, list[len(list)-1].Name, nil
}
