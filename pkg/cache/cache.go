// Package cache stores computed tables and rendered artifacts.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for servers
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// Keys come from a [Keyer]. [DefaultKeyer] derives them from content
// hashes, so an entry is reused exactly when the store, the table query and
// the render options all match. [ScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"time"
)

// Default time-to-live per entry kind.
const (
	// TTLSource bounds how long a snapshot loaded from a remote source is
	// reused before it is loaded again.
	TTLSource = 10 * time.Minute
	// TTLTable applies to computed tables. They are keyed by the store's
	// content hash, so they never go stale; the TTL only bounds disk use.
	TTLTable = 7 * 24 * time.Hour
	// TTLArtifact applies to rendered output.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend.
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}
