package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

type implLogger struct {
	logger *slog.Logger
}

// New creates a Logger writing text records to stderr. When file is set,
// JSON records are also appended to it. The returned cleanup closes the file.
func New(level, file string) (Logger, func() error) {
	return newWithWriter(os.Stderr, level, file)
}

// Discard returns a Logger that drops everything.
func Discard() Logger {
	return &implLogger{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func newWithWriter(w io.Writer, level, file string) (Logger, func() error) {
	lvl := ParseLevel(level)
	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	noop := func() error { return nil }

	if file == "" {
		return &implLogger{logger: slog.New(textHandler)}, noop
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		l := slog.New(textHandler)
		l.Error("failed to open log file, using stderr only", "error", err, "file", file)
		return &implLogger{logger: l}, noop
	}

	jsonHandler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: lvl})
	return &implLogger{logger: slog.New(slogmulti.Fanout(textHandler, jsonHandler))}, f.Close
}

// ParseLevel maps debug|info|warn|error to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *implLogger) shouldLog(ctx context.Context, level slog.Level) bool {
	return l.logger.Enabled(ctx, level)
}

func (l *implLogger) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if !l.shouldLog(ctx, level) {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	l.logger.Log(ctx, level, msg)
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelDebug, msg, args...)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelInfo, msg, args...)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelWarn, msg, args...)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelError, msg, args...)
}

func (l *implLogger) With(args ...any) Logger {
	return &implLogger{logger: l.logger.With(args...)}
}
