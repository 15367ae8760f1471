// Package logging configures the process-wide zerolog logger.
// Diagnostics go to stderr so they never mix with rendered changelogs on stdout.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to w at the given level.
// Unknown levels fall back to warn.
func New(w io.Writer, level string, noColor bool) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}
	return zerolog.New(out).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// ParseLevel converts a config level name to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.WarnLevel
	}
}

// Printf adapts a logger to the printf-style debug hooks used by packages
// that do not import zerolog directly.
func Printf(logger zerolog.Logger) func(format string, args ...any) {
	return func(format string, args ...any) {
		logger.Debug().Msg(fmt.Sprintf(format, args...))
	}
}
