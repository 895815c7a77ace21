// Package logging builds the slog handler shared by the api and worker
// binaries. Both log JSON to stdout with a fixed service attribute, so one
// collector can separate the two streams.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// NewJSONLogger returns the process-wide logger. The result is meant to be
// installed with slog.SetDefault in main, before any component logs.
func NewJSONLogger(service, level string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler).With("service", service)
}

// parseLevel accepts debug, info, warn, warning and error, case-insensitive.
// Unknown values mean info, never a startup failure: a typo in LOG_LEVEL
// should not take the document pipeline down.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
