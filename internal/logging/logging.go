// Package logging builds the diagnostic logger for the garden CLI.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLevel keeps the terminal quiet unless something needs attention.
const DefaultLevel = zerolog.WarnLevel

// New returns a console logger writing to w at the named level.
// An empty or unknown level falls back to DefaultLevel; unknown levels
// are reported on w.
func New(level string, w io.Writer, color bool) zerolog.Logger {
	lvl, err := ParseLevel(level)
	if err != nil {
		_, _ = fmt.Fprintf(w, "invalid log level %q, defaulting to %s\n", level, DefaultLevel)
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    !color,
	}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// ParseLevel maps a level name to a zerolog level.
// Returns DefaultLevel for the empty string.
func ParseLevel(level string) (zerolog.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return DefaultLevel, nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return DefaultLevel, fmt.Errorf("parsing log level: %w", err)
	}
	return lvl, nil
}
