// Package storage wraps the MinIO Go client for the S3-compatible artifact backend.
//
// The Client interface lists only the calls snapshot.ObjectStore makes, which
// keeps the testify mock in core/storage/mocks small.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	store := snapshot.NewObjectStore(client, cfg.Storage.Bucket, cfg.Storage.Prefix)
package storage
