// Package cache stores computed layouts and rendered artifacts.
//
// Computing a sunburst is cheap, but rendering PNG or PDF shells out to
// rsvg-convert and the API server renders the same charts repeatedly. The
// pipeline therefore caches two things:
//
//   - layouts: the serialized chart for a row set and layout options
//   - artifacts: rendered output for a layout and render options
//
// # Backends
//
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for API deployments
//   - [NullCache]: disables caching
//
// # Keys
//
// Keys are built by a [Keyer] from content hashes, so identical inputs map
// to the same entry regardless of where they came from:
//
//	k := cache.NewDefaultKeyer()
//	lk := k.LayoutKey(cache.Hash(rowsJSON), cache.LayoutKeyOpts{VizType: "sunburst"})
//	ak := k.ArtifactKey(cache.Hash(layoutJSON), cache.ArtifactKeyOpts{Format: "svg"})
//
// Wrap a keyer in a [ScopedKeyer] to give a tenant its own namespace.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value cache with expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs.
const (
	// LayoutTTL is how long computed layouts are kept.
	LayoutTTL = 7 * 24 * time.Hour

	// ArtifactTTL is how long rendered outputs are kept.
	ArtifactTTL = 30 * 24 * time.Hour
)
