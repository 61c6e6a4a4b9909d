// Package observability provides hooks for metrics and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup
// to receive events about graph rebuilds, selection gestures, and API calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the core packages
// never import a metrics backend. The prom subpackage implements the hooks
// with Prometheus collectors.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    m := prom.New(prometheus.DefaultRegisterer)
//	    observability.SetRebuildHooks(m)
//	    observability.SetSelectionHooks(m)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Rebuild().OnRebuildStart(ctx, "tree")
//	// ... tear down and rebuild ...
//	observability.Rebuild().OnRebuildComplete(ctx, "tree", nodes, conns, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Rebuild Hooks
// =============================================================================

// RebuildHooks receives events from the tree synchronization engine.
type RebuildHooks interface {
	OnRebuildStart(ctx context.Context, mode string)
	OnRebuildComplete(ctx context.Context, mode string, nodes, connections int, duration time.Duration, err error)
}

// =============================================================================
// Selection Hooks
// =============================================================================

// SelectionHooks receives events from selection gestures.
type SelectionHooks interface {
	// OnGestureComplete records a finished gesture and the number of nodes
	// it hit. Empty gestures report zero hits.
	OnGestureComplete(ctx context.Context, mode string, hits int, duration time.Duration)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the editor API server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRebuildHooks is a no-op implementation of RebuildHooks.
type NoopRebuildHooks struct{}

func (NoopRebuildHooks) OnRebuildStart(context.Context, string) {}
func (NoopRebuildHooks) OnRebuildComplete(context.Context, string, int, int, time.Duration, error) {
}

// NoopSelectionHooks is a no-op implementation of SelectionHooks.
type NoopSelectionHooks struct{}

func (NoopSelectionHooks) OnGestureComplete(context.Context, string, int, time.Duration) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	rebuildHooks   RebuildHooks   = NoopRebuildHooks{}
	selectionHooks SelectionHooks = NoopSelectionHooks{}
	httpHooks      HTTPHooks      = NoopHTTPHooks{}
	hooksMu        sync.RWMutex
)

// SetRebuildHooks registers custom rebuild hooks.
// This should be called once at application startup before any rebuild.
func SetRebuildHooks(h RebuildHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		rebuildHooks = h
	}
}

// SetSelectionHooks registers custom selection hooks.
func SetSelectionHooks(h SelectionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		selectionHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before serving requests.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Rebuild returns the registered rebuild hooks.
func Rebuild() RebuildHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return rebuildHooks
}

// Selection returns the registered selection hooks.
func Selection() SelectionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return selectionHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	rebuildHooks = NoopRebuildHooks{}
	selectionHooks = NoopSelectionHooks{}
	httpHooks = NoopHTTPHooks{}
}
