// Package cli implements the cropkit command-line interface.
//
// Every command loads an image, drives it through the editor package and
// writes the result:
//   - crop: apply a crop rectangle given in image pixels
//   - fit: fit an image into the fixed-size output square
//   - preview: render the crop-mode canvas (mask, border, handles)
//   - remove-bg: run the configured background-removal service
//   - replay: feed a recorded pointer script through the editor
//   - edit: interactive terminal editor
//   - cache, config: manage the result cache and the settings file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// routes the observability hooks to the logger. Loggers are passed through
// context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the elapsed time of one step when it completes.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Cropped 450x290 (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached with withLogger, or
// log.Default() so commands always have one.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
