// Package cache provides caching for planarity check results and rendered
// artifacts.
//
// Two concerns are separated: the Cache interface stores opaque bytes under
// string keys with optional TTLs, and the Keyer interface derives those keys
// deterministically from a graph document's content hash and the options of
// the operation whose result is cached.
//
// Backends: FileCache for CLI usage, RedisCache for the server, NullCache to
// disable caching.
package cache

import (
	"context"
	"time"
)

// Default expirations per cached value kind. Check results are pure functions
// of the document and can live long; artifacts are larger and cheaper to
// recompute.
const (
	TTLCheck    = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is the storage interface all backends implement.
type Cache interface {
	// Get retrieves a value. The second return reports a hit; a miss is not
	// an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// CheckKeyOpts are the options that influence a planarity check result.
type CheckKeyOpts struct {
	// Embed indicates the result includes the embedding round trip
	// (boundaries, faces), not just the verdict.
	Embed bool

	// Augmentation indicates augmentation pairs were recorded.
	Augmentation bool
}

// ArtifactKeyOpts are the options that influence a rendered artifact.
type ArtifactKeyOpts struct {
	// Format is the artifact format: "json", "dot", or "svg".
	Format string

	// Embed and Augmentation mirror CheckKeyOpts: the JSON report artifact
	// embeds the check result, so its content varies with them.
	Embed        bool
	Augmentation bool
}

// Keyer derives cache keys. docHash is the content hash of the canonical
// graph document (see Hash), so any change to the input graph or its
// clusters changes every derived key.
type Keyer interface {
	// CheckKey generates a key for a planarity check result.
	CheckKey(docHash string, opts CheckKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key derivation.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// CheckKey generates a key for a planarity check result.
func (k *DefaultKeyer) CheckKey(docHash string, opts CheckKeyOpts) string {
	return hashKey("check", docHash, opts.Embed, opts.Augmentation)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts.Format, opts.Embed, opts.Augmentation)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
