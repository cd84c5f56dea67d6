package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates a JSON logger writing to stdout at the given minimum level.
func New(level slog.Level, extractors ...ContextExtractor) *slog.Logger {
	return NewWithWriter(os.Stdout, level, extractors...)
}

// NewWithWriter is New with an explicit destination. Tests use it to capture output.
func NewWithWriter(w io.Writer, level slog.Level, extractors ...ContextExtractor) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewLogHandlerDecorator(h, extractors...))
}

// ParseLevel maps a case-insensitive level name to a slog.Level.
// Unknown names fall back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
