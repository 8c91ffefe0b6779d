package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config controls the root logger's verbosity and output format.
type Config struct {
	Level  string // debug, info, warn or error; anything else falls back to info
	Pretty bool   // human-readable console output instead of JSON
}

// New builds the root logger that every component and client derives its
// sub-loggers from. JSON to stdout by default; Pretty switches to the console
// writer for local development.
func New(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var output io.Writer = os.Stdout
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		}
	}

	return zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Logger()
}

// SetGlobalLogger installs l as the zerolog package-level logger, so code
// using log.Info() directly shares the same output and level.
func SetGlobalLogger(l zerolog.Logger) {
	log.Logger = l
}
