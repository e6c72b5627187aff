// Package observability provides the structured logger and Prometheus
// metrics shared by the CLI, the pipeline and the HTTP server.
package observability

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/papergenie/pkg/types"
)

// DefaultLogConfig returns info-level console logging.
func DefaultLogConfig() types.LogConfig {
	return types.LogConfig{Level: "info", Format: "console"}
}

// NewLogger creates a zerolog logger writing to out (stderr when nil).
// Format "console" or "pretty" selects the human-readable writer; anything
// else emits JSON lines.
func NewLogger(cfg types.LogConfig, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}

	switch strings.ToLower(cfg.Format) {
	case "console", "pretty":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}

	return zerolog.New(out).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel converts a level name to zerolog.Level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// WithQueryContext adds the query being processed to a logger.
func WithQueryContext(logger zerolog.Logger, query string, count int) zerolog.Logger {
	return logger.With().
		Str("query", query).
		Int("count", count).
		Logger()
}

// WithPaperContext adds paper identity fields to a logger.
func WithPaperContext(logger zerolog.Logger, paperID, title string) zerolog.Logger {
	return logger.With().
		Str("paper_id", paperID).
		Str("title", title).
		Logger()
}
