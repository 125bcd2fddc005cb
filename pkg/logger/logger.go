package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/knowledge-base-server/internal/config"
	"github.com/rs/zerolog"
)

// ServiceName is attached to every log line
const ServiceName = "knowledge-base-server"

// New creates a zerolog logger writing to out, or to stderr when out is
// nil. Stdout is left alone because the stdio transport owns it.
func New(cfg config.LogConfig, out io.Writer) zerolog.Logger {
	// Configure zerolog
	zerolog.TimeFieldFormat = time.RFC3339

	if out == nil {
		out = os.Stderr
	}

	// Use pretty console output in development
	if strings.EqualFold(cfg.Format, "pretty") {
		return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: out != os.Stderr}).
			Level(ParseLevel(cfg.Level)).
			With().
			Timestamp().
			Caller().
			Str("service", ServiceName).
			Logger()
	}

	// JSON output for production
	return zerolog.New(out).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", ServiceName).
		Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
