// ABOUTME: Structured logger construction.
// ABOUTME: Human-readable console output by default, JSON on request.

package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New builds a logger writing to w (stderr when nil). Unknown levels fall back to warn.
func New(w io.Writer, level, format string) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(lvl)
}
