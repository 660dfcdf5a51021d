// Package logging builds the logrus logger shared by the CLI and libraries.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"lsmeta/internal/config"
	apperrors "lsmeta/internal/errors"
)

// New creates a logger writing to out (stderr when nil) at the configured
// level and format.
func New(cfg config.LogConfig, out io.Writer) (*logrus.Logger, error) {
	if out == nil {
		out = os.Stderr
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, apperrors.NewConfigError("logging", "invalid log level", err)
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
		})
	default:
		return nil, apperrors.NewConfigError("logging", "unknown log format "+cfg.Format, nil)
	}
	return logger, nil
}

// Install makes logger's settings the ones used by package-level logrus
// calls.
func Install(logger *logrus.Logger) {
	std := logrus.StandardLogger()
	std.SetOutput(logger.Out)
	std.SetLevel(logger.GetLevel())
	std.SetFormatter(logger.Formatter)
}
