package logging

import (
	"io"
	"log/slog"
	"strings"
)

// New creates a console slog.Logger writing to w with the given level.
func New(w io.Writer, level string) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: LevelFromString(level),
	})
	return slog.New(handler)
}

// Level maps the verbose flag to a level name
func Level(verbose bool) string {
	if verbose {
		return "debug"
	}
	return "info"
}

// LevelFromString parses a level name. Unknown names mean info.
func LevelFromString(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "debug":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
