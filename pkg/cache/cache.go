// Package cache stores intermediate pipeline results: vocabularies, layouts
// and rendered artifacts.
//
// Backends implement [Cache]:
//   - [FileCache]: one JSON file per key under a directory, used by the CLI
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: caching disabled
//
// Keys come from a [Keyer] so that every stage hashes exactly the inputs
// that affect its output.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the cached value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs per stage.
const (
	TTLVocabulary = 7 * 24 * time.Hour
	TTLLayout     = 7 * 24 * time.Hour
	TTLArtifact   = 30 * 24 * time.Hour
)
