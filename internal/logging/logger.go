// Package logging builds the zerolog logger used by commands and the backend.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to w. Without debug the logger is disabled so
// stderr stays reserved for "error: ..." lines.
func New(w io.Writer, debug bool) zerolog.Logger {
	if !debug {
		return zerolog.Nop()
	}

	consoleWriter := zerolog.NewConsoleWriter()
	consoleWriter.Out = w
	consoleWriter.TimeFormat = time.TimeOnly
	consoleWriter.NoColor = true

	return zerolog.New(consoleWriter).
		Level(zerolog.DebugLevel).
		With().
		Timestamp().
		Logger()
}
