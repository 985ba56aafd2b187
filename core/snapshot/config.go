package snapshot

import "time"

const (
	BackendFile = "file"
	BackendS3   = "s3"
)

// Config selects where artifacts are kept.
type Config struct {
	// Backend is file or s3.
	Backend string `mapstructure:"backend" default:"file"`
	// Dir is the artifact directory of the file backend.
	Dir string `mapstructure:"dir" default:"./artifacts"`
	// CacheTTLSeconds controls how long decoded snapshots are reused by the API.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"300"`
}

// IsValidBackend checks if the configured backend is supported.
func (c Config) IsValidBackend() bool {
	switch c.Backend {
	case BackendFile, BackendS3:
		return true
	default:
		return false
	}
}

// CacheTTL returns the snapshot cache lifetime.
func (c Config) CacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
