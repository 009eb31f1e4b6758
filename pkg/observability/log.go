package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a charmbracelet logger at debug level.
// Failures are logged at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log through logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger.WithPrefix("obs")}
}

// Install registers h for every hook category.
func (h *LogHooks) Install() {
	SetEditorHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnLoad(_ context.Context, source string, width, height int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("image load failed", "source", truncate(source), "duration", d, "err", err)
		return
	}
	h.logger.Debug("image loaded", "source", truncate(source), "width", width, "height", height, "duration", d)
}

func (h *LogHooks) OnCropApplied(_ context.Context, width, height int) {
	h.logger.Debug("crop applied", "width", width, "height", height)
}

func (h *LogHooks) OnBackgroundRemovalStart(context.Context) {
	h.logger.Debug("background removal started")
}

func (h *LogHooks) OnBackgroundRemovalComplete(_ context.Context, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("background removal failed", "duration", d, "err", err)
		return
	}
	h.logger.Debug("background removal finished", "duration", d)
}

func (h *LogHooks) OnConfirm(_ context.Context, size, bytes int) {
	h.logger.Debug("output confirmed", "size", size, "bytes", bytes)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("http error", "method", method, "host", host, "path", path, "err", err)
}

// truncate shortens data URLs, which can be megabytes long.
func truncate(s string) string {
	const limit = 64
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
