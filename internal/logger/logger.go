package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the application logger. LOG_FORMAT=console switches to the
// human-readable writer for local development; the default is JSON.
func New(service string) zerolog.Logger {
	var out = zerolog.New(os.Stdout)

	if os.Getenv("LOG_FORMAT") == "console" {
		out = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	return out.With().
		Timestamp().
		Str("service", service).
		Logger()
}
