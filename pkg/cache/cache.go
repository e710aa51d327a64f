// Package cache provides the caching layer shared by the CLI and the API:
// a storage interface with file, memory, Redis and null backends, and the
// key scheme for arranged placements and rendered artifacts.
package cache

import (
	"context"
	"time"
)

// Cache TTLs. Placements and artifacts are keyed by content hashes, so a
// stale entry can never be served for changed input; the TTLs only bound
// how long unused entries occupy the backend.
const (
	TTLPlacement = 7 * 24 * time.Hour
	TTLArtifact  = 7 * 24 * time.Hour
)

// Cache stores opaque bytes under string keys. Implementations must be
// safe for concurrent use. Get reports a miss with hit == false and a nil
// error; errors are reserved for backend failures, which callers usually
// treat as a miss and recompute.
type Cache interface {
	// Get retrieves a value. hit is false when the key is absent or expired.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores a value. A non-positive ttl stores it without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// PlacementKeyOpts captures everything besides the set itself that changes
// an arranged result: overrides applied on top of the set's own separation
// and limits. Nil pointer fields mean "use the set's value".
type PlacementKeyOpts struct {
	Separation *int `json:"separation"`
	Min        *int `json:"min"`
	Max        *int `json:"max"`

	// Unbounded drops the set's limits entirely instead of overriding them.
	Unbounded bool `json:"unbounded"`
}

// ArtifactKeyOpts captures everything besides the arranged result that
// changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format  string  `json:"format"`
	Theme   string  `json:"theme"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Title   string  `json:"title"`
	Leaders bool    `json:"leaders"`
}

// Keyer generates cache keys. Implementations must be deterministic: the
// same inputs always give the same key, and any input that changes the
// output must change the key.
type Keyer interface {
	// PlacementKey keys an arranged result by the set content hash and the
	// placement options.
	PlacementKey(setHash string, opts PlacementKeyOpts) string

	// ArtifactKey keys a rendered artifact by the result content hash and
	// the render options.
	ArtifactKey(resultHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes options into namespaced keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// PlacementKey generates a key for an arranged result.
func (k *DefaultKeyer) PlacementKey(setHash string, opts PlacementKeyOpts) string {
	return hashKey("placement", setHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", resultHash, opts)
}
