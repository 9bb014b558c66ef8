// Package logger configures the zerolog loggers used across Mindwell.
// Diagnostics go to stderr so CLI output on stdout stays clean and
// machine-consumable.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New constructs a logger for the given role label (e.g. "cli", "mcp").
// Output is JSON on stderr with a timestamp on every entry. Verbose drops
// the level floor to debug.
func New(role string, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(os.Stderr).
		Level(level).
		With().
		Str("role", role).
		Timestamp().
		Logger()
}

// Nop returns a logger that discards everything. For tests.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
