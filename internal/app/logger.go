package app

import (
	"io"
	"log/slog"
)

// newLogger builds the app's isolated logger from the already-validated CLI
// values. It never sets the global logger. The level string is decoded by
// slog itself; an unrecognized value falls back to info instead of failing
// startup.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if formatStr == "text" {
		return slog.New(slog.NewTextHandler(outW, opts))
	}
	return slog.New(slog.NewJSONHandler(outW, opts))
}
