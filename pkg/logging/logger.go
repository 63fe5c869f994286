// Package logging configures zerolog for the marketplace client and
// provides the field conventions shared by all packages.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Field names used across packages.
const (
	FieldComponent = "component"
	FieldAccount   = "account"
	FieldOperation = "operation"
	FieldMark      = "mark"
	FieldCall      = "call"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel `mapstructure:"level"`

	// Pretty enables human-readable console output instead of JSON.
	Pretty bool `mapstructure:"pretty"`

	// Account is attached to every entry when set.
	Account string `mapstructure:"-"`

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer `mapstructure:"-"`
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger and returns it.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}

	ctx := zerolog.New(output).With().Timestamp()
	if cfg.Account != "" {
		ctx = ctx.Str(FieldAccount, cfg.Account)
	}
	logger := ctx.Logger()

	log.Logger = logger

	return logger
}

// ParseLevel converts a level name to zerolog.Level. Unknown names map to
// info.
func ParseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(string(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str(FieldComponent, component).Logger()
}

// WithMark derives a logger that tags entries with an operation and its
// correlation mark.
func WithMark(logger zerolog.Logger, operation, mark string) zerolog.Logger {
	return logger.With().Str(FieldOperation, operation).Str(FieldMark, mark).Logger()
}

// Log Level Guidelines:
//
// Debug: per-call detail
//   - Transport calls, pages and windows fetched
//   - Cache hits and misses
//
// Info: operation boundaries
//   - Operation start and completion with item counts
//   - Server startup/shutdown
//
// Warn: degraded but continuing
//   - Quota throttling, retry attempts
//   - Cache faults (call proceeds uncached)
//
// Error: an operation failed
//   - Transport faults after retries, aggregated API errors
//   - Quota blocks, configuration errors
