// Package logx sets up the process logger on top of log/slog.
package logx

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelOff silences every record.
const LevelOff = slog.Level(100)

// ParseLevel maps debug|info|warn|error|off to a slog level. Unknown or
// empty input means info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "off", "none", "silent":
		return LevelOff
	default:
		return slog.LevelInfo
	}
}

// New builds a logger writing text (default) or json records to w.
func New(w io.Writer, level, format string) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// Init installs a new logger as the slog default and returns it.
func Init(w io.Writer, level, format string) *slog.Logger {
	l := New(w, level, format)
	slog.SetDefault(l)
	return l
}
