package logging

import (
	"context"
	"log/slog"
	"os"
)

// LevelTrace is below Debug and enabled by -vvv. It is used for per-field
// decoding detail while loading a config file.
const LevelTrace = slog.Level(-8)

// LevelFromVerbosity maps the count of -v flags to a level. Without flags
// only warnings and errors are shown.
func LevelFromVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelWarn
	case v == 1:
		return slog.LevelInfo
	case v == 2:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

// VerbosityFromEnv reads UIMPIT_DEBUG and returns the verbosity it implies:
// "1" or "true" selects Debug and "2" selects Trace. Anything else is 0.
func VerbosityFromEnv() int {
	switch os.Getenv("UIMPIT_DEBUG") {
	case "1", "true":
		return 2
	case "2":
		return 3
	}
	return 0
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default when there
// is none.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return slog.Default()
}
