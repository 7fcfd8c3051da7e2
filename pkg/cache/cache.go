// Package cache provides the caching layer behind the analysis pipeline.
//
// Welded graphs, analysis reports and rendered artifacts are all derived
// deterministically from their inputs, so they are cached under content-hash
// keys built by a [Keyer]. Three backends implement [Cache]:
//
//   - [FileCache]: local directory, used by the CLI
//   - [RedisCache]: shared Redis instance, used by the API server
//   - [NullCache]: disables caching (--no-cache)
package cache

import (
	"context"
	"time"
)

// TTLs for each cached stage. Entries never go stale because keys are
// content hashes; TTLs only bound disk and memory use.
const (
	TTLGraph    = 7 * 24 * time.Hour
	TTLAnalysis = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// NullCache is a no-op cache that never stores anything.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get always returns a cache miss.
func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set does nothing.
func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete does nothing.
func (c *NullCache) Delete(context.Context, string) error { return nil }

// Close does nothing.
func (c *NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
