package appdesc

import (
	"context"
	"io"
	"log/slog"

	"github.com/go-logr/logr"
)

// NewLogger returns a logr.Logger backed by a slog text handler writing to w.
// Higher verbosity lowers the level, starting at slog.LevelError, so that one
// -V shows warnings, two show info and three show debug logs.
func NewLogger(w io.Writer, verbosity int) logr.Logger {
	return logr.FromSlogHandler(
		slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.Level(int(slog.LevelError) - 4*verbosity),
		}),
	)
}

// WithLogger returns a copy of ctx carrying log.
func WithLogger(ctx context.Context, log logr.Logger) context.Context {
	return logr.NewContext(ctx, log)
}

// LoggerFrom returns the logr.Logger carried by ctx, or a logger that discards.
func LoggerFrom(ctx context.Context) logr.Logger {
	return logr.FromContextOrDiscard(ctx)
}
