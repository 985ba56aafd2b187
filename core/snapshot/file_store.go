package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileStore keeps artifacts in a local directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir. The directory is created on first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the root directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Save writes to a temporary file in the same directory and renames it into place.
func (s *FileStore) Save(ctx context.Context, kind string, takenAt time.Time, v any) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}
	data, err := Encode(v)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to encode %s artifact: %w", kind, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Artifact{}, fmt.Errorf("failed to create artifact dir: %w", err)
	}

	name := FileName(kind, takenAt)
	tmp, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return Artifact{}, fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return Artifact{}, fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		return Artifact{}, fmt.Errorf("failed to publish %s: %w", name, err)
	}

	return Artifact{Name: name, Kind: kind, TakenAt: time.Unix(takenAt.Unix(), 0).UTC(), Size: int64(len(data))}, nil
}

// Load decodes the named artifact into v.
func (s *FileStore) Load(ctx context.Context, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, _, err := ParseName(name); err != nil {
		return err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

// List returns the artifacts of kind in the directory, oldest first.
func (s *FileStore) List(ctx context.Context, kind string) ([]Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.dir, err)
	}

	var list []Artifact
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		k, at, err := ParseName(entry.Name())
		if err != nil || (kind != "" && k != kind) {
			continue
		}
		art := Artifact{Name: entry.Name(), Kind: k, TakenAt: at}
		if info, err := entry.Info(); err == nil {
			art.Size = info.Size()
		}
		list = append(list, art)
	}
	sortArtifacts(list)
	return list, nil
}

// Latest returns the newest artifact of kind.
func (s *FileStore) Latest(ctx context.Context, kind string) (Artifact, error) {
	list, err := s.List(ctx, kind)
	if err != nil {
		return Artifact{}, err
	}
	return latest(list, kind)
}

// Delete removes the named artifact.
func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, _, err := ParseName(name); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return err
}
