// Package cache stores fetched graph snapshots so that revisiting a module
// does not hit the backend again.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry under ~/.cache/visunn/ (CLI default)
//   - [RedisCache]: shared cache for several viewers pointed at one backend
//   - [NullCache]: caching disabled (--no-cache)
//
// Keys are produced by a [Keyer] so that entries for different backends or
// route prefixes never collide.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// DefaultTTL is how long a cached snapshot stays fresh.
const DefaultTTL = 24 * time.Hour

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the cached bytes for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// SnapshotKey is the key of the snapshot served by server under
	// route prefix for the given wire tag.
	SnapshotKey(server, prefix, wire string) string
}

// DefaultKeyer builds readable keys of the form
// snapshot:<prefix>:<wire>@<server digest>. The server URL is digested so
// keys stay short and free of URL punctuation.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SnapshotKey implements Keyer.
func (DefaultKeyer) SnapshotKey(server, prefix, wire string) string {
	return "snapshot:" + prefix + ":" + wire + "@" + digest(server)[:16]
}

// digest returns the hex SHA-256 of s.
func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// NullCache disables caching: every Get misses and Set discards the data.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return NullCache{} }

// Get always misses.
func (NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards data.
func (NullCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

// Delete is a no-op.
func (NullCache) Delete(context.Context, string) error { return nil }

// Close is a no-op.
func (NullCache) Close() error { return nil }
