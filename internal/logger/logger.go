// Package logger builds the zerolog logger shared by the server and the CLI.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/ironsheep/image-analysis-mcp/internal/config"
)

// New returns a logger writing to stderr. Stdout is reserved for MCP
// protocol traffic and CLI results.
func New(cfg *config.Config) zerolog.Logger {
	return NewWithWriter(os.Stderr, cfg)
}

// NewWithWriter returns a timestamped logger writing to w in the configured
// format and level. An unparsable level falls back to info.
func NewWithWriter(w io.Writer, cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	out := w
	if cfg.LogFormat != config.FormatJSON {
		out = zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "2006-01-02 15:04:05"}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "image-analysis-mcp").
		Logger()
}
