// Package config loads the server and CLI settings from the environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ironsheep/image-analysis-mcp/internal/imaging"
)

// Environment variables read by LoadFromEnv.
const (
	EnvLogLevel  = "IMAGE_MCP_LOG_LEVEL"
	EnvLogFormat = "IMAGE_MCP_LOG_FORMAT"
	EnvPalette   = "IMAGE_MCP_PALETTE"
)

// Log output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Config holds the process settings.
type Config struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string

	// LogFormat is FormatConsole or FormatJSON.
	LogFormat string

	// Palette is the default palette for color renderings of mono and
	// binary images. See imaging.PaletteNames.
	Palette string
}

// Default returns the settings used when no variable is set.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: FormatConsole,
		Palette:   "gray",
	}
}

// LoadFromEnv reads the configuration from the environment and validates it.
// Values are trimmed and lowercased.
func LoadFromEnv() (*Config, error) {
	def := Default()
	cfg := &Config{
		LogLevel:  normalized(getEnvOrDefault(EnvLogLevel, def.LogLevel)),
		LogFormat: normalized(getEnvOrDefault(EnvLogFormat, def.LogFormat)),
		Palette:   normalized(getEnvOrDefault(EnvPalette, def.Palette)),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its accepted values.
func (c *Config) Validate() error {
	if !contains(logLevels, c.LogLevel) {
		return fmt.Errorf("invalid %s: %q (want one of %v)", EnvLogLevel, c.LogLevel, logLevels)
	}
	if c.LogFormat != FormatConsole && c.LogFormat != FormatJSON {
		return fmt.Errorf("invalid %s: %q (want %s or %s)", EnvLogFormat, c.LogFormat, FormatConsole, FormatJSON)
	}
	if !contains(imaging.PaletteNames(), c.Palette) {
		return fmt.Errorf("invalid %s: %q (want one of %v)", EnvPalette, c.Palette, imaging.PaletteNames())
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); strings.TrimSpace(value) != "" {
		return value
	}
	return defaultValue
}

func normalized(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
