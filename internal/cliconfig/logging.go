package cliconfig

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Logger returns the CLI's human readable logger writing to w.
func Logger(w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}
