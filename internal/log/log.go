// Package log configures the operational logger for the catalogue pipeline.
//
// Logging here is auxiliary: per-SKU fetch and normalize outcomes are logged
// for operators, but the functional contract is carried by the reports.
package log

import (
	"io"
	"log/slog"
)

// New returns a timestamped text logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// Level maps the CLI verbosity flags to a slog level.
// quiet wins over verbose when both are set.
func Level(verbose, quiet bool) slog.Level {
	switch {
	case quiet:
		return slog.LevelError
	case verbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops everything. Used by library defaults
// and tests so callers never have to nil-check.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
