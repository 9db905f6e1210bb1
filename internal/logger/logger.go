package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New creates a structured logger for the given level and environment.
// Production environments log JSON, everything else logs human-readable text.
func New(level, env string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: parseLevel(level) == slog.LevelDebug,
	}

	var handler slog.Handler
	if env == "prod" || env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler).With("service", "admin-gateway")
}

// WithComponent scopes a logger to a named component.
func WithComponent(log *slog.Logger, component string) *slog.Logger {
	return log.With("component", component)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
