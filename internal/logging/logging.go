// Package logging builds the logrus logger shared by every command.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options selects where and how much to log
type Options struct {
	Level string
	// File receives the log when set; otherwise Output is used
	File   string
	Output io.Writer
	// Format is "text" or "json"
	Format string
}

// New builds a logger. The returned closer releases the log file, if any.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()

	if opts.Level != "" {
		level, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("could not parse level: %w", err)
		}
		logger.SetLevel(level)
	}

	if strings.ToLower(opts.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	var closer io.Closer = nopCloser{}
	switch {
	case opts.File != "":
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, nil, fmt.Errorf("error creating log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("error opening log file: %w", err)
		}
		logger.SetOutput(f)
		closer = f
	case opts.Output != nil:
		logger.SetOutput(opts.Output)
	default:
		logger.SetOutput(os.Stderr)
	}

	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
