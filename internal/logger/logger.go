package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process-wide logger. Development gets a human console
// writer, everything else structured JSON on stdout.
func New(environment string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if environment == "development" {
		writer := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(writer).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
