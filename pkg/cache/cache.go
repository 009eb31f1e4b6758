// Package cache provides a small byte cache for expensive editor results.
//
// The editor caches background-removal responses so that running the same
// image through the external service twice costs one network call. Keys are
// derived from content hashes ([Key]); values are opaque bytes with an
// optional TTL.
//
// Two implementations are provided:
//   - [FileCache]: entries stored as JSON files under a directory, for the CLI
//   - [NullCache]: stores nothing, for tests or when caching is disabled
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache stores byte values by key.
type Cache interface {
	// Get returns the value for key. ok is false on a miss or expired entry.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// DefaultDir returns the per-user cache directory for cropkit.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "cropkit"), nil
}
