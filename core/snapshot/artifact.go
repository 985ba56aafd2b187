package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound indicates no artifact matched the request.
var ErrNotFound = errors.New("snapshot: artifact not found")

// ErrInvalidName indicates an artifact name that is not "<kind><unix>.json".
var ErrInvalidName = errors.New("snapshot: invalid artifact name")

const extension = ".json"

// Artifact describes one persisted snapshot document.
type Artifact struct {
	Name    string    `json:"name"`
	Kind    string    `json:"kind"`
	TakenAt time.Time `json:"taken_at"`
	Size    int64     `json:"size"`
}

// FileName returns the artifact name for kind captured at at.
func FileName(kind string, at time.Time) string {
	return kind + strconv.FormatInt(at.Unix(), 10) + extension
}

// ParseName splits an artifact name into its kind and capture time.
func ParseName(name string) (string, time.Time, error) {
	base, ok := strings.CutSuffix(name, extension)
	if !ok || strings.ContainsAny(base, `/\`) {
		return "", time.Time{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	i := len(base)
	for i > 0 && base[i-1] >= '0' && base[i-1] <= '9' {
		i--
	}
	if i == 0 || i == len(base) {
		return "", time.Time{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	unix, err := strconv.ParseInt(base[i:], 10, 64)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidName, name, err)
	}
	return base[:i], time.Unix(unix, 0).UTC(), nil
}

// Encode renders a document the way artifacts are written: two-space indented JSON.
func Encode(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// sortArtifacts orders artifacts oldest first, breaking ties by name.
func sortArtifacts(list []Artifact) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].TakenAt.Equal(list[j].TakenAt) {
			return list[i].TakenAt.Before(list[j].TakenAt)
		}
		return list[i].Name < list[j].Name
	})
}

func latest(list []Artifact, kind string) (Artifact, error) {
	if len(list) == 0 {
		return Artifact{}, fmt.Errorf("%w: no %s artifacts", ErrNotFound, kind)
	}
	return list[len(list)-1], nil
}
