// Package logging builds the zerolog logger used by the CLI and the journal.
package logging

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logging configuration.
type Config struct {
	Level      string `yaml:"level" json:"level"`
	Console    bool   `yaml:"console" json:"console"`
	File       string `yaml:"file,omitempty" json:"file,omitempty"`
	MaxSize    int    `yaml:"max_size,omitempty" json:"max_size,omitempty"` // megabytes
	MaxBackups int    `yaml:"max_backups,omitempty" json:"max_backups,omitempty"`
	MaxAge     int    `yaml:"max_age,omitempty" json:"max_age,omitempty"` // days
}

// Default logs info and above to the console only.
func Default() Config {
	return Config{
		Level:      "info",
		Console:    true,
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     30,
	}
}

// ConsoleOut is where the console writer goes. Reports own stdout.
var ConsoleOut io.Writer = os.Stderr

// NewLogger creates a logger from cfg. With neither console nor file output
// it returns a disabled logger.
func NewLogger(cfg Config) zerolog.Logger {
	var writers []io.Writer

	if cfg.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        ConsoleOut,
			TimeFormat: time.RFC3339,
		})
	}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err == nil {
			writers = append(writers, &lumberjack.Logger{
				Filename:   cfg.File,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   true,
			})
		}
	}

	var w io.Writer
	switch len(writers) {
	case 0:
		return zerolog.Nop()
	case 1:
		w = writers[0]
	default:
		w = zerolog.MultiLevelWriter(writers...)
	}

	return zerolog.New(w).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
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

type ctxKey struct{}

// WithContext attaches logger to ctx.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext retrieves the logger from ctx, or a disabled logger.
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}

// WithTrade tags logger with a trade id.
func WithTrade(logger zerolog.Logger, id string) zerolog.Logger {
	return logger.With().Str("trade_id", id).Logger()
}
