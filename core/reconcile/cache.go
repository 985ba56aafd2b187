package reconcile

import (
	"context"
	"sync"
	"time"

	"pns-snapshot/core/snapshot"

	"golang.org/x/sync/singleflight"
)

// CachedSnapshot holds a loaded snapshot and when it was loaded.
type CachedSnapshot struct {
	// Snapshot is the decoded snapshot.
	Snapshot *snapshot.Snapshot

	// Built is the timestamp when this entry was loaded.
	Built time.Time

	// TTL is the time-to-live for this entry.
	TTL time.Duration
}

// IsExpired returns true if this entry has expired based on its TTL.
func (c *CachedSnapshot) IsExpired() bool {
	if c.TTL == 0 {
		return true // No caching
	}
	return time.Since(c.Built) > c.TTL
}

// cacheStore holds loaded snapshots keyed by spec cache key.
type cacheStore struct {
	mu     sync.RWMutex
	caches map[string]*CachedSnapshot
	sf     singleflight.Group
}

// globalCacheStore is the singleton cache store for all reconcile operations.
var globalCacheStore = &cacheStore{
	caches: make(map[string]*CachedSnapshot),
}

// GetOrLoad retrieves a snapshot from the cache, or loads it through the
// spec's source if it is missing or expired. Uses singleflight to prevent
// cache stampedes.
func GetOrLoad(ctx context.Context, spec *Spec, ref string) (*snapshot.Snapshot, error) {
	cacheKey := spec.CacheKey(ref)

	// Fast path: check if cache exists and is fresh
	globalCacheStore.mu.RLock()
	cache, exists := globalCacheStore.caches[cacheKey]
	globalCacheStore.mu.RUnlock()

	if exists && !cache.IsExpired() {
		return cache.Snapshot, nil
	}

	result, err, _ := globalCacheStore.sf.Do(cacheKey, func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		globalCacheStore.mu.RLock()
		cache, exists := globalCacheStore.caches[cacheKey]
		globalCacheStore.mu.RUnlock()

		if exists && !cache.IsExpired() {
			return cache.Snapshot, nil
		}

		snap, err := spec.Source.Load(ctx, ref)
		if err != nil {
			return nil, err
		}

		globalCacheStore.mu.Lock()
		globalCacheStore.caches[cacheKey] = &CachedSnapshot{Snapshot: snap, Built: time.Now(), TTL: spec.CacheTTL}
		globalCacheStore.mu.Unlock()

		return snap, nil
	})

	if err != nil {
		return nil, err
	}

	return result.(*snapshot.Snapshot), nil
}

// InvalidateCache removes the cached snapshot for ref.
// This is useful for testing or forcing a reload.
func InvalidateCache(spec *Spec, ref string) {
	cacheKey := spec.CacheKey(ref)
	globalCacheStore.mu.Lock()
	delete(globalCacheStore.caches, cacheKey)
	globalCacheStore.mu.Unlock()
}
