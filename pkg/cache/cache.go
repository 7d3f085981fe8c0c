// Package cache stores rendered artifacts so repeated renders of an
// unchanged recipe are served without redrawing.
//
// Only output bytes (SVG, JSON, PDF, PNG, DOT) are cached. Links and ribbon
// geometry are cheap to compute and are always rebuilt.
//
// Backends:
//
//   - [FileCache]: JSON entry files under a local directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, used with --no-cache
//
// Keys come from a [Keyer]. The default keyer hashes the recipe fingerprint
// together with every render option, so any change in the recipe, the
// analyzer config or the output options yields a new key.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored bytes and whether the key was present and
	// unexpired. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// ArtifactTTL is how long rendered output stays cached.
const ArtifactTTL = 7 * 24 * time.Hour
