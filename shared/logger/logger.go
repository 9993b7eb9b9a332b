package logger

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
)

var Log *slog.Logger

func init() {
	// safe defaults for tests; main re-initializes from config
	Initialize("info", false)
}

// Initialize sets up the global logger with the specified level and format
func Initialize(level string, useJSON bool) {
	initialize(os.Stdout, level, useJSON)
}

// Discard silences the global logger. Used by tests that exercise error paths.
func Discard() {
	initialize(io.Discard, "error", false)
}

func initialize(w io.Writer, level string, useJSON bool) {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: true,
	}

	var handler slog.Handler
	if useJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
}

// ForRequest returns the global logger annotated with the request line.
func ForRequest(r *http.Request) *slog.Logger {
	return Log.With("method", r.Method, "path", r.URL.Path)
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
