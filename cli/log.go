package cli

import (
	"io"
	"log/slog"
)

// newLogger returns the diagnostics logger. Without verbose only warnings
// and errors get through.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
