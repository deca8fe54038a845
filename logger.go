package wsi

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called while a platform goroutine is logging.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for wsi and all its sub-packages.
// By default, wsi produces no log output.
//
// Pass nil to restore the silent default.
//
// Log levels used by wsi:
//   - [slog.LevelDebug]: swapchain rebuilds, command recording, recovery traces
//   - [slog.LevelInfo]: lifecycle (platform initialized, window created, surface resolved)
//   - [slog.LevelWarn]: ignored options and present mode fallbacks
//   - [slog.LevelError]: errors that stop the event loop
//
// Example:
//
//	wsi.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by wsi.
// Platform and GPU sub-packages call this to share one configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
