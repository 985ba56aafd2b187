// Package snapshot folds harvested parents and their filtered children into
// point-in-time snapshots and persists them as immutable JSON artifacts.
//
// # Entities
//
// An Entity is keyed by its normalised identifier. Two entities with the same
// id are the same entity regardless of their children: the Builder collapses
// duplicates last-write-wins and the Snapshot exposes them through a map keyed
// by id, so identity never depends on child contents.
//
// # Artifacts
//
// Artifacts are named "<kind><unix>.json" and written pretty-printed. A Store
// saves and loads them either on the local filesystem (FileStore) or in an
// S3-compatible bucket (ObjectStore, backed by core/storage).
//
//	store := snapshot.NewFileStore("./artifacts")
//	art, err := store.Save(ctx, "all_accounts", time.Now(), doc)
package snapshot
