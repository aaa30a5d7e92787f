package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the subset of logrus the editor logs through.
type Logger interface {
	Debugf(string, ...interface{})
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
	Errorf(string, ...interface{})
	WithField(string, interface{}) *logrus.Entry
}

// discardLogger drops everything. It backs components built without a logger.
func discardLogger() Logger {
	l := logrus.New()
	l.Out = io.Discard
	return l.WithField("component", "discard")
}

// NewLogger builds the logger described by cfg. The returned closer releases
// the log file, if one was opened.
func NewLogger(cfg LogConfig, out io.Writer) (Logger, io.Closer, error) {
	l := logrus.New()

	switch strings.ToLower(cfg.Format) {
	case "json":
		l.Formatter = &logrus.JSONFormatter{}
	default:
		l.Formatter = &logrus.TextFormatter{DisableColors: out == nil, FullTimestamp: true}
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.Level = level

	var closer io.Closer = nopCloser{}
	switch {
	case out != nil:
		l.Out = out
	case cfg.File == "" || cfg.File == "-":
		l.Out = io.Discard
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		l.Out = f
		closer = f
	}

	return l.WithField("app", appName), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
