// Package logging builds the zerolog logger used across the client. The TUI
// owns the terminal, so logs go to a file unless "-" asks for stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

const Stderr = "-"

// Logger pairs a zerolog.Logger with the file it writes to.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// New opens path for appending and returns a logger at the given level.
func New(path, level string) (*Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var w io.Writer
	var file *os.File
	switch path {
	case "":
		w = io.Discard
	case Stderr:
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	default:
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = file
	}

	return &Logger{
		Logger: zerolog.New(w).Level(lvl).With().Timestamp().Logger(),
		file:   file,
	}, nil
}

func (l *Logger) Component(name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
