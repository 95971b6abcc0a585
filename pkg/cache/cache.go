// Package cache provides the caches used by blastgrid.
//
// Two kinds of cache live here:
//
//   - [Bounded]: an in-memory, size-limited map with first-in eviction. Every
//     renderer (grid, ruler) owns its own instance; there is no process-wide
//     render cache.
//   - [Cache]: a byte-oriented artifact cache for rendered outputs (SVG, PNG,
//     exports), implemented by [FileCache] for the CLI and [NullCache] when
//     caching is disabled.
//
// Artifact keys are produced by a [Keyer] so that callers never hand-build
// key strings.
package cache

import (
	"context"
	"time"
)

// Cache stores rendered artifacts keyed by string.
type Cache interface {
	// Get returns the cached data and whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}

// RenderKeyOpts are the options that influence a 2D render artifact.
type RenderKeyOpts struct {
	Format  string  `json:"format"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Scale   float64 `json:"scale"`
	PanX    float64 `json:"pan_x"`
	PanY    float64 `json:"pan_y"`
	Precise bool    `json:"precise"`
	Rulers  bool    `json:"rulers"`
	Legend  bool    `json:"legend"`
	Title   string  `json:"title,omitempty"`
	Select  string  `json:"select,omitempty"`
}

// SceneKeyOpts are the options that influence a 3D scene artifact.
type SceneKeyOpts struct {
	Format    string  `json:"format"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	UnitScale float64 `json:"unit_scale"`
}

// ExportKeyOpts are the options that influence an interchange export.
type ExportKeyOpts struct {
	Format string `json:"format"`
}

// Keyer generates artifact cache keys.
type Keyer interface {
	RenderKey(projectHash string, opts RenderKeyOpts) string
	SceneKey(projectHash string, opts SceneKeyOpts) string
	ExportKey(projectHash string, opts ExportKeyOpts) string
}

// DefaultKeyer hashes the project hash and options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RenderKey returns the key for a 2D render artifact.
func (DefaultKeyer) RenderKey(projectHash string, opts RenderKeyOpts) string {
	return hashKey("render", projectHash, opts)
}

// SceneKey returns the key for a 3D scene artifact.
func (DefaultKeyer) SceneKey(projectHash string, opts SceneKeyOpts) string {
	return hashKey("scene", projectHash, opts)
}

// ExportKey returns the key for an export artifact.
func (DefaultKeyer) ExportKey(projectHash string, opts ExportKeyOpts) string {
	return hashKey("export", projectHash, opts)
}
