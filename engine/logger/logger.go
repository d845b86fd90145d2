// Package logger builds the logrus loggers shared by the engine packages.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config describes how a logger is built.
type Config struct {
	// Level is a logrus level name ("trace", "debug", "info", "warn", "error"). Empty means "info".
	Level string
	// Format is "text" (default) or "json".
	Format string
	// Output is where log lines go. Nil means os.Stderr.
	Output io.Writer
}

// New creates a logrus logger from cfg.
//
// Parameters:
//   - cfg: level, format and output settings
//
// Returns:
//   - *logrus.Logger: the configured logger
//   - error: error if the level or format is not recognized
func New(cfg Config) (*logrus.Logger, error) {
	lg := logrus.New()

	level := logrus.InfoLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		level = parsed
	}
	lg.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		lg.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	case "json":
		lg.Formatter = &logrus.JSONFormatter{}
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	if cfg.Output != nil {
		lg.SetOutput(cfg.Output)
	} else {
		lg.SetOutput(os.Stderr)
	}
	return lg, nil
}

// Discard returns a logger that drops everything. Packages use it when no logger was supplied.
//
// Returns:
//   - logrus.FieldLogger: a silent logger
func Discard() logrus.FieldLogger {
	lg := logrus.New()
	lg.SetOutput(io.Discard)
	lg.SetLevel(logrus.PanicLevel)
	return lg
}
