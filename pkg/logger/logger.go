package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	LevelCritical = slog.Level(12)
)

type Logger interface {
	Debug(message string, args ...any)
	Info(message string, args ...any)
	Warn(message string, args ...any)
	Error(message string, args ...any)
	Critical(message string, args ...any)
	BusinessError(message string, err error, args ...any)
	InternalError(message string, err error, args ...any)
	With(args ...any) Logger
}

var levelNames = map[string]slog.Level{
	"debug":    slog.LevelDebug,
	"info":     slog.LevelInfo,
	"warn":     slog.LevelWarn,
	"warning":  slog.LevelWarn,
	"error":    slog.LevelError,
	"critical": LevelCritical,
	"fatal":    LevelCritical,
}

type slogLogger struct {
	base *slog.Logger
}

// NewFromEnv builds a logger from ENV, LOG_LEVEL and LOG_FORMAT. It runs before
// the config is loaded so startup messages are already structured.
func NewFromEnv() Logger {
	env := normalizeValue(os.Getenv("ENV"))
	return New(os.Stdout, parseLevel(os.Getenv("LOG_LEVEL"), env), parseFormat(os.Getenv("LOG_FORMAT")))
}

func New(output io.Writer, level slog.Level, format string) Logger {
	options := &slog.HandlerOptions{Level: level, ReplaceAttr: replaceAttr}

	var handler slog.Handler = slog.NewTextHandler(output, options)
	if normalizeValue(format) == "json" {
		handler = slog.NewJSONHandler(output, options)
	}
	return &slogLogger{base: slog.New(handler).With("service", "campus-market")}
}

// Nop discards everything. Used by tests and by components built without a logger.
func Nop() Logger {
	return &slogLogger{base: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: LevelCritical + 1}))}
}

func (l *slogLogger) log(level slog.Level, message string, args []any) {
	l.base.Log(context.Background(), level, message, args...)
}

func (l *slogLogger) Debug(message string, args ...any) { l.log(slog.LevelDebug, message, args) }
func (l *slogLogger) Info(message string, args ...any)  { l.log(slog.LevelInfo, message, args) }
func (l *slogLogger) Warn(message string, args ...any)  { l.log(slog.LevelWarn, message, args) }
func (l *slogLogger) Error(message string, args ...any) { l.log(slog.LevelError, message, args) }

func (l *slogLogger) Critical(message string, args ...any) {
	l.log(LevelCritical, message, args)
}

// BusinessError logs expected failures (not found, forbidden, bad input) at warn.
func (l *slogLogger) BusinessError(message string, err error, args ...any) {
	if err != nil {
		l.log(slog.LevelWarn, message, withErr(err, args))
	}
}

func (l *slogLogger) InternalError(message string, err error, args ...any) {
	if err != nil {
		l.log(slog.LevelError, message, withErr(err, args))
	}
}

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{base: l.base.With(args...)}
}

func withErr(err error, args []any) []any {
	return append([]any{"err", err}, args...)
}

// parseLevel maps LOG_LEVEL to a slog level. Empty or unknown values fall
// back to debug in development and info everywhere else.
func parseLevel(value string, env string) slog.Level {
	name := normalizeValue(value)
	if level, ok := levelNames[name]; ok && name != "info" {
		return level
	}
	if env == "development" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func parseFormat(value string) string {
	if normalizeValue(value) == "text" {
		return "text"
	}
	return "json"
}

func normalizeValue(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func replaceAttr(_ []string, attr slog.Attr) slog.Attr {
	if attr.Key != slog.LevelKey {
		return attr
	}
	if level, ok := attr.Value.Any().(slog.Level); ok && level == LevelCritical {
		attr.Value = slog.StringValue("CRITICAL")
	}
	return attr
}
