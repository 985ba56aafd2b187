package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"pns-snapshot/core/storage"

	"github.com/minio/minio-go/v7"
)

// ObjectStore keeps artifacts in an S3-compatible bucket under a prefix.
type ObjectStore struct {
	client storage.Client
	bucket string
	prefix string
}

// NewObjectStore creates a bucket-backed store. Object keys are prefix + artifact name.
func NewObjectStore(client storage.Client, bucket, prefix string) *ObjectStore {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &ObjectStore{client: client, bucket: bucket, prefix: prefix}
}

// EnsureBucket creates the bucket if it does not exist.
func (s *ObjectStore) EnsureBucket(ctx context.Context, region string) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Save uploads the encoded document in a single PUT, so it is either fully visible or absent.
func (s *ObjectStore) Save(ctx context.Context, kind string, takenAt time.Time, v any) (Artifact, error) {
	data, err := Encode(v)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to encode %s artifact: %w", kind, err)
	}

	name := FileName(kind, takenAt)
	_, err = s.client.PutObject(ctx, s.bucket, s.prefix+name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return Artifact{Name: name, Kind: kind, TakenAt: time.Unix(takenAt.Unix(), 0).UTC(), Size: int64(len(data))}, nil
}

// Load downloads and decodes the named artifact.
func (s *ObjectStore) Load(ctx context.Context, name string, v any) error {
	if _, _, err := ParseName(name); err != nil {
		return err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, s.prefix+name, minio.GetObjectOptions{})
	if err != nil {
		return s.mapErr(name, err)
	}
	defer obj.Close()

	if err := json.NewDecoder(obj).Decode(v); err != nil {
		return s.mapErr(name, err)
	}
	return nil
}

// List returns the artifacts of kind in the bucket, oldest first.
func (s *ObjectStore) List(ctx context.Context, kind string) ([]Artifact, error) {
	var list []Artifact
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: s.prefix + kind, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", s.bucket, obj.Err)
		}
		name := path.Base(obj.Key)
		if s.prefix+name != obj.Key {
			continue
		}
		k, at, err := ParseName(name)
		if err != nil || (kind != "" && k != kind) {
			continue
		}
		list = append(list, Artifact{Name: name, Kind: k, TakenAt: at, Size: obj.Size})
	}
	sortArtifacts(list)
	return list, nil
}

// Latest returns the newest artifact of kind.
func (s *ObjectStore) Latest(ctx context.Context, kind string) (Artifact, error) {
	list, err := s.List(ctx, kind)
	if err != nil {
		return Artifact{}, err
	}
	return latest(list, kind)
}

// Delete removes the named artifact.
func (s *ObjectStore) Delete(ctx context.Context, name string) error {
	if _, _, err := ParseName(name); err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, s.prefix+name, minio.RemoveObjectOptions{}); err != nil {
		return s.mapErr(name, err)
	}
	return nil
}

func (s *ObjectStore) mapErr(name string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return fmt.Errorf("object %s: %w", name, err)
}
