// Package logging configures structured logging with tint.
//
// Usage:
//
//	logging.SetupHandler("json", slog.LevelInfo)
//	logging.SetupHandler(cfg.LogFormat, logging.ParseLevel(cfg.LogLevel))
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// SetupHandler installs the default logger. "json" writes one JSON object per
// line to stdout; anything else writes colored text to stderr.
func SetupHandler(format string, level slog.Level) {
	slog.SetDefault(slog.New(NewHandler(os.Stdout, os.Stderr, format, level)))
}

// NewHandler builds the handler SetupHandler installs, writing JSON to jsonOut
// or colored text to textOut.
func NewHandler(jsonOut, textOut io.Writer, format string, level slog.Level) slog.Handler {
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(jsonOut, &slog.HandlerOptions{Level: level})
	}
	return tint.NewHandler(textOut, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
	})
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
