// Package observability provides hooks for metrics, tracing, and logging.
//
// The render engine is a library; it never decides where diagnostics go.
// Instead it reports events to hook interfaces that default to no-ops.
// Consumers register implementations at startup to receive events about
// render passes, cache behaviour and point placement.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRenderHooks(&myRenderHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Cache().OnCacheHit("grid")
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from 2D render passes and 3D projection.
type RenderHooks interface {
	// 2D editor surface
	OnRenderStart(ctx context.Context, layers []string)
	OnRenderComplete(ctx context.Context, layers []string, duration time.Duration, err error)

	// OnLayerFailed records a layer that was skipped because its renderer failed.
	OnLayerFailed(ctx context.Context, layer string, err error)

	// 3D scene projection
	OnProjectComplete(ctx context.Context, holes, skipped int, duration time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from the per-renderer bounded caches.
// Renderers are synchronous and carry no context, so neither do these hooks.
type CacheHooks interface {
	// OnCacheHit records a reuse of a cached group.
	OnCacheHit(layer string)

	// OnCacheMiss records a recomputation.
	OnCacheMiss(layer string)

	// OnCacheEvict records removal of the oldest entry.
	OnCacheEvict(layer string)
}

// =============================================================================
// Placement Hooks
// =============================================================================

// PlacementHooks receives point placement outcomes.
type PlacementHooks interface {
	// OnPlacement records a validation outcome ("accepted", "duplicate",
	// "too_close", "out_of_bounds").
	OnPlacement(outcome string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopRenderHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}
func (NoopRenderHooks) OnLayerFailed(context.Context, string, error)                     {}
func (NoopRenderHooks) OnProjectComplete(context.Context, int, int, time.Duration)       {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(string)   {}
func (NoopCacheHooks) OnCacheMiss(string)  {}
func (NoopCacheHooks) OnCacheEvict(string) {}

// NoopPlacementHooks is a no-op implementation of PlacementHooks.
type NoopPlacementHooks struct{}

func (NoopPlacementHooks) OnPlacement(string) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	renderHooks    RenderHooks    = NoopRenderHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	placementHooks PlacementHooks = NoopPlacementHooks{}
	hooksMu        sync.RWMutex
)

// SetRenderHooks registers custom render hooks.
// This should be called once at application startup before any rendering.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetPlacementHooks registers custom placement hooks.
func SetPlacementHooks(h PlacementHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		placementHooks = h
	}
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Placement returns the registered placement hooks.
func Placement() PlacementHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return placementHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	renderHooks = NoopRenderHooks{}
	cacheHooks = NoopCacheHooks{}
	placementHooks = NoopPlacementHooks{}
}
