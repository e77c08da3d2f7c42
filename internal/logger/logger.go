// Package logger sets up the application logger. The TUI owns the terminal,
// so logs go to a file in the data directory instead of stderr.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New opens the log file and returns a logger writing to it. The returned
// closer flushes the file on shutdown. When the file cannot be opened the
// logger discards everything rather than fight the TUI for the terminal.
func New(path string, debug bool) (zerolog.Logger, io.Closer) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return zerolog.New(io.Discard), io.NopCloser(nil)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: f, NoColor: true}).
		Level(level).
		With().Timestamp().Logger()
	return log, f
}
