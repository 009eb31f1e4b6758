// Package observability lets applications watch the editor, the result cache
// and outgoing HTTP calls without those packages depending on a logging or
// metrics backend.
//
// Hooks are process-wide and default to no-ops. The CLI installs
// [LogHooks] when run with --verbose:
//
//	observability.NewLogHooks(logger).Install()
//
// Instrumented code reports through the accessor for its area:
//
//	start := time.Now()
//	img, err := load(ref)
//	observability.Editor().OnLoad(ctx, ref, w, h, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Editor Hooks
// =============================================================================

// EditorHooks receives events from the image editor.
type EditorHooks interface {
	// OnLoad records a base image load attempt.
	OnLoad(ctx context.Context, source string, width, height int, duration time.Duration, err error)

	// OnCropApplied records a crop baked into a new base image.
	OnCropApplied(ctx context.Context, width, height int)

	// Background removal events
	OnBackgroundRemovalStart(ctx context.Context)
	OnBackgroundRemovalComplete(ctx context.Context, duration time.Duration, err error)

	// OnConfirm records the final output.
	OnConfirm(ctx context.Context, size, bytes int)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives lookups and writes of the background-removal cache.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives the requests of [integrations.Client].
//
// [integrations.Client]: github.com/matzehuels/cropkit/pkg/integrations.Client
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records a request that produced no response.
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEditorHooks discards editor events.
type NoopEditorHooks struct{}

func (NoopEditorHooks) OnLoad(context.Context, string, int, int, time.Duration, error)    {}
func (NoopEditorHooks) OnCropApplied(context.Context, int, int)                           {}
func (NoopEditorHooks) OnBackgroundRemovalStart(context.Context)                          {}
func (NoopEditorHooks) OnBackgroundRemovalComplete(context.Context, time.Duration, error) {}
func (NoopEditorHooks) OnConfirm(context.Context, int, int)                               {}

// NoopCacheHooks discards cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks discards HTTP events.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Registry
// =============================================================================

// slot holds one registered hook implementation.
type slot[T any] struct {
	mu  sync.RWMutex
	cur T
	def T
}

func newSlot[T any](def T) *slot[T] {
	return &slot[T]{cur: def, def: def}
}

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// set installs h; a nil h is ignored.
func (s *slot[T]) set(h T) {
	if any(h) == nil {
		return
	}
	s.mu.Lock()
	s.cur = h
	s.mu.Unlock()
}

func (s *slot[T]) reset() {
	s.mu.Lock()
	s.cur = s.def
	s.mu.Unlock()
}

var (
	editorSlot = newSlot[EditorHooks](NoopEditorHooks{})
	cacheSlot  = newSlot[CacheHooks](NoopCacheHooks{})
	httpSlot   = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// SetEditorHooks installs h for all editors in the process.
func SetEditorHooks(h EditorHooks) { editorSlot.set(h) }

// SetCacheHooks installs h for all caches in the process.
func SetCacheHooks(h CacheHooks) { cacheSlot.set(h) }

// SetHTTPHooks installs h for all HTTP clients in the process.
func SetHTTPHooks(h HTTPHooks) { httpSlot.set(h) }

// Editor returns the installed editor hooks.
func Editor() EditorHooks { return editorSlot.get() }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return cacheSlot.get() }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return httpSlot.get() }

// Reset reinstalls the no-op hooks.
func Reset() {
	editorSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
