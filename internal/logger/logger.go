// Package logger configures the application-wide structured logger.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// NewLogger creates a slog.Logger writing to stderr. Level is one of
// debug, info, warn, error; json selects JSON or text output.
func NewLogger(level string, json bool) (*slog.Logger, error) {
	var lvl slog.Level

	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level %q", level)
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger, nil
}
