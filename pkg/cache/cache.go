// Package cache provides artifact caching for the index build pipeline.
//
// Building the full index from the crates.io CSV dumps takes a while; when
// neither the input files nor the build options changed there is no reason to
// recompute. The Runner caches the finished artifact keyed by the content
// hashes of both CSV files plus the options that shape the output.
//
// Backends:
//   - FileCache: directory of JSON entries with TTL, for CLI usage
//   - RedisCache: shared cache for CI runners building the same dumps
//   - NullCache: caching disabled
package cache

import (
	"context"
	"time"
)

// TTLs for cached values.
const (
	// TTLArtifact is how long a built index artifact stays valid. The cache
	// key already includes the input hashes, so entries never go stale in
	// the correctness sense; the TTL only bounds disk usage.
	TTLArtifact = 30 * 24 * time.Hour
)

// Cache is the interface for cache backends.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// IndexKeyOpts are the build options that affect the artifact bytes.
// Two builds with identical inputs but different opts must not share a key.
type IndexKeyOpts struct {
	MaxCrates int
}

// Keyer generates cache keys for pipeline artifacts.
type Keyer interface {
	// IndexKey generates a key for a built index artifact from the content
	// hashes of the crates and versions tables.
	IndexKey(cratesHash, versionsHash string, opts IndexKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// IndexKey generates a key for a built index artifact.
func (k *DefaultKeyer) IndexKey(cratesHash, versionsHash string, opts IndexKeyOpts) string {
	return hashKey("index", cratesHash, versionsHash, opts)
}
