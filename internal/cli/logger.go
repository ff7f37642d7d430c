package cli

import (
	"io"
	"log/slog"
)

// NewLogger returns the diagnostic logger. Debug records are only emitted when verbose.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
