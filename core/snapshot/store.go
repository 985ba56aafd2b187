package snapshot

import (
	"context"
	"time"
)

// Store persists snapshot documents as named artifacts.
type Store interface {
	// Save writes v as the artifact for kind captured at takenAt. Nothing is
	// visible under the final name unless the whole document was written.
	Save(ctx context.Context, kind string, takenAt time.Time, v any) (Artifact, error)
	// Load decodes the named artifact into v.
	Load(ctx context.Context, name string, v any) error
	// List returns the artifacts of kind, oldest first. An empty kind lists everything.
	List(ctx context.Context, kind string) ([]Artifact, error)
	// Latest returns the newest artifact of kind.
	Latest(ctx context.Context, kind string) (Artifact, error)
	// Delete removes the named artifact.
	Delete(ctx context.Context, name string) error
}

// Prune deletes all but the newest keep artifacts of kind and returns the deleted names.
func Prune(ctx context.Context, store Store, kind string, keep int) ([]string, error) {
	list, err := store.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	if keep < 0 {
		keep = 0
	}
	if len(list) <= keep {
		return nil, nil
	}

	var deleted []string
	for _, art := range list[:len(list)-keep] {
		if err := store.Delete(ctx, art.Name); err != nil {
			return deleted, err
		}
		deleted = append(deleted, art.Name)
	}
	return deleted, nil
}
