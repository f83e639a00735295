// Package observability provides hooks for instrumenting the index build.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about pipeline stages and cache operations.
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
//	    observability.SetBuildHooks(&myBuildHooks{})
//	    // ... run application
//	}
//
// The pipeline calls hooks to emit events:
//
//	observability.Build().OnLoadStart(ctx, path)
//	// ... load ...
//	observability.Build().OnLoadComplete(ctx, path, rows, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// BuildHooks receives events from the index build pipeline.
type BuildHooks interface {
	// Load events, fired once per input table.
	OnLoadStart(ctx context.Context, path string)
	OnLoadComplete(ctx context.Context, path string, rows int, duration time.Duration, err error)

	// OnRankComplete fires after ranking and truncation.
	OnRankComplete(ctx context.Context, kept int, duration time.Duration, err error)

	// OnResolveComplete fires after latest-version resolution.
	OnResolveComplete(ctx context.Context, resolved int, duration time.Duration)

	// OnMinifyComplete fires after the substitution dictionary is built.
	OnMinifyComplete(ctx context.Context, corpusSize, dictSize int, duration time.Duration)

	// OnWriteComplete fires after the artifact is written (or fails).
	OnWriteComplete(ctx context.Context, path string, bytes int, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// NoopBuildHooks is a no-op implementation of BuildHooks.
type NoopBuildHooks struct{}

func (NoopBuildHooks) OnLoadStart(context.Context, string)                                {}
func (NoopBuildHooks) OnLoadComplete(context.Context, string, int, time.Duration, error)  {}
func (NoopBuildHooks) OnRankComplete(context.Context, int, time.Duration, error)          {}
func (NoopBuildHooks) OnResolveComplete(context.Context, int, time.Duration)              {}
func (NoopBuildHooks) OnMinifyComplete(context.Context, int, int, time.Duration)          {}
func (NoopBuildHooks) OnWriteComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	mu         sync.RWMutex
	buildHooks BuildHooks = NoopBuildHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
)

// SetBuildHooks registers pipeline hooks. Call once at startup.
func SetBuildHooks(h BuildHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopBuildHooks{}
	}
	buildHooks = h
}

// Build returns the registered pipeline hooks.
func Build() BuildHooks {
	mu.RLock()
	defer mu.RUnlock()
	return buildHooks
}

// SetCacheHooks registers cache hooks. Call once at startup.
func SetCacheHooks(h CacheHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopCacheHooks{}
	}
	cacheHooks = h
}

// CacheEvents returns the registered cache hooks.
func CacheEvents() CacheHooks {
	mu.RLock()
	defer mu.RUnlock()
	return cacheHooks
}
