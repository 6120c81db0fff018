// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for the optional log file.
const (
	maxSizeMB  = 5
	maxBackups = 3
	maxAgeDays = 28
)

// Options selects where log records go and how verbose they are.
type Options struct {
	// Level is a logrus level name. Empty means "info".
	Level string

	// Debug forces the debug level regardless of Level.
	Debug bool

	// File, when set, receives every record in JSON form via a rotating
	// writer. The terminal still gets human-readable text.
	File string

	// Out is the terminal stream. Defaults to os.Stderr.
	Out io.Writer
}

// New returns a logger configured from opts. The returned closer flushes
// the log file, if any; it is never nil.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
		level = parsed
	}
	if opts.Debug {
		level = logrus.DebugLevel
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: !opts.Debug,
		PadLevelText:     true,
	})

	if opts.File == "" {
		return log, nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("log directory: %w", err)
	}
	file := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}
	log.AddHook(&fileHook{w: file, formatter: &logrus.JSONFormatter{}})
	return log, file, nil
}

// fileHook writes every record the logger emits to w in its own format.
type fileHook struct {
	w         io.Writer
	formatter logrus.Formatter
}

func (h *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *fileHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.w.Write(line)
	return err
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
