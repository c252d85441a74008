// Package logging wraps log/slog the way the teacher's daemon logger does,
// adding optional file rotation via lumberjack for long-running collator runs.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the structured logging interface predicates, workers, and the
// collator depend on. Matches the teacher's daemonLogger shape.
type Logger struct {
	slog *slog.Logger
}

// New builds a Logger writing to stderr, and additionally to a rotating file
// at path if path is non-empty.
func New(path string, verbose bool) *Logger {
	var w io.Writer = os.Stderr
	if path != "" {
		w = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{slog: slog.New(handler)}
}

// NewDiscard returns a Logger that drops everything, for tests.
func NewDiscard() *Logger {
	return &Logger{slog: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func (l *Logger) Debug(msg string, keysAndValues ...any) { l.slog.Debug(msg, keysAndValues...) }
func (l *Logger) Info(msg string, keysAndValues ...any)  { l.slog.Info(msg, keysAndValues...) }
func (l *Logger) Warn(msg string, keysAndValues ...any)  { l.slog.Warn(msg, keysAndValues...) }
func (l *Logger) Error(msg string, keysAndValues ...any) { l.slog.Error(msg, keysAndValues...) }
