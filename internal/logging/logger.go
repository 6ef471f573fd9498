// Package logging configures slog and the Postgres sink for error records.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs a JSON handler on stdout as the default logger.
func Setup() {
	slog.SetDefault(slog.New(NewJSONHandler(os.Stdout)))
}

func NewJSONHandler(w io.Writer) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
}

// WithSink fans the default output out to sink as well.
func WithSink(w io.Writer, sink slog.Handler) {
	slog.SetDefault(slog.New(NewMultiHandler(NewJSONHandler(w), sink)))
}
