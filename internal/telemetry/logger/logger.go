// Package logger provides structured logging for the capsule server.
//
// It wraps log/slog with a small Logger interface, a process-wide level
// that the config watcher can change at runtime, per-connection tagging
// and redaction of request queries and secret-looking fields.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Logger is the application logger interface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// Format selects the log encoding.
type Format string

// Supported formats. "console" is accepted as an alias of text.
const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config holds logger configuration. Zero values mean info level, JSON
// and stderr.
type Config struct {
	Level  string
	Format string
	Output io.Writer
}

// level is shared by every logger created by New, so SetLevel applies
// to loggers already handed out to components.
var level = new(slog.LevelVar)

// ParseLevel parses debug, info, warn (or warning) and error in any case.
// An empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	if strings.EqualFold(s, "warning") {
		s = "warn"
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}

// ParseFormat parses json, text or console. An empty string is json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", string(FormatJSON):
		return FormatJSON, nil
	case string(FormatText), "console":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown log format %q", s)
	}
}

// New creates a logger and sets the process-wide level from cfg.
func New(cfg Config) (Logger, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	format, err := ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	level.Set(lvl)

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return redactSensitive(a)
		},
	}

	var handler slog.Handler = slog.NewJSONHandler(out, opts)
	if format == FormatText {
		handler = slog.NewTextHandler(out, opts)
	}
	return &slogLogger{logger: slog.New(handler)}, nil
}

// SetLevel changes the level of every logger created by New.
func SetLevel(s string) error {
	lvl, err := ParseLevel(s)
	if err != nil {
		return err
	}
	level.Set(lvl)
	return nil
}

// Level returns the current level in the form ParseLevel accepts.
func Level() string {
	return strings.ToLower(level.Level().String())
}

type slogLogger struct {
	logger *slog.Logger
}

func (l *slogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

var defaultLogger atomic.Pointer[slogLogger]

func init() {
	l, _ := New(Config{})
	defaultLogger.Store(l.(*slogLogger))
}

// SetDefault replaces the logger returned by Default.
func SetDefault(l Logger) {
	if sl, ok := l.(*slogLogger); ok {
		defaultLogger.Store(sl)
	}
}

// Default returns the process logger. Components fall back to it when
// no logger is injected.
func Default() Logger {
	return defaultLogger.Load()
}
