package log

import (
	"context"
	"io"
	"log/slog"
)

// Level is the minimum severity a logger reports.
type Level int

// Supported levels, lowest to highest severity.
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

// DefaultLevel is used when no [WithLevel] option is given.
const DefaultLevel = LevelInfo

// slogLevel maps a Level onto the slog scale. Trace sits one step below
// slog's Debug.
func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelTrace:
		return slog.LevelDebug - 4

	case LevelDebug:
		return slog.LevelDebug

	case LevelInfo:
		return slog.LevelInfo

	case LevelWarn:
		return slog.LevelWarn

	default:
		return slog.LevelError
	}
}

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"

	case LevelDebug:
		return "DEBUG"

	case LevelInfo:
		return "INFO"

	case LevelWarn:
		return "WARN"

	default:
		return "ERROR"
	}
}

// Format is the log output encoding.
type Format int

// Supported output formats.
const (
	FormatJSON Format = iota
	FormatText
	FormatPretty
)

// DefaultFormat is used when no [WithFormat] option is given.
const DefaultFormat = FormatJSON

// Logger is a concurrency-safe logging facade. The zero Logger discards
// all messages.
type Logger struct {
	logger *slog.Logger
	config
}

// Make creates a new [Logger] writing to w, configured by the given
// options. Defaults are [DefaultLevel] and [DefaultFormat] with caller
// info disabled.
func Make(w io.Writer, opts ...Option) Logger {
	cfg := makeConfig(w, opts...)

	return Logger{
		config: cfg,
		logger: slog.New(cfg.handler()),
	}
}

// With returns a new Logger that includes the given attributes in every
// message.
func (l Logger) With(attrs ...slog.Attr) Logger {
	if l.logger == nil {
		return l
	}

	return Logger{
		config: l.config,
		logger: slog.New(l.logger.Handler().WithAttrs(attrs)),
	}
}

// Level returns the configured minimum level.
func (l Logger) Level() Level {
	if l.logger == nil {
		return DefaultLevel
	}

	return l.level
}

// Format returns the configured output format.
func (l Logger) Format() Format {
	if l.logger == nil {
		return DefaultFormat
	}

	return l.format
}

func (l Logger) logContext(
	ctx context.Context,
	level Level,
	msg string,
	attrs ...slog.Attr,
) {
	if l.logger == nil {
		return
	}

	l.logger.LogAttrs(ctx, level.slogLevel(), msg, attrs...)
}

// TraceContext logs a message at Trace level with the provided context.
func (l Logger) TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.logContext(ctx, LevelTrace, msg, attrs...)
}

// DebugContext logs a message at Debug level with the provided context.
func (l Logger) DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.logContext(ctx, LevelDebug, msg, attrs...)
}

// InfoContext logs a message at Info level with the provided context.
func (l Logger) InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.logContext(ctx, LevelInfo, msg, attrs...)
}

// WarnContext logs a message at Warn level with the provided context.
func (l Logger) WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.logContext(ctx, LevelWarn, msg, attrs...)
}

// ErrorContext logs a message at Error level with the provided context.
func (l Logger) ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.logContext(ctx, LevelError, msg, attrs...)
}

// Trace logs a message at Trace level.
func (l Logger) Trace(msg string, attrs ...slog.Attr) {
	l.logContext(context.Background(), LevelTrace, msg, attrs...)
}

// Debug logs a message at Debug level.
func (l Logger) Debug(msg string, attrs ...slog.Attr) {
	l.logContext(context.Background(), LevelDebug, msg, attrs...)
}

// Info logs a message at Info level.
func (l Logger) Info(msg string, attrs ...slog.Attr) {
	l.logContext(context.Background(), LevelInfo, msg, attrs...)
}

// Warn logs a message at Warn level.
func (l Logger) Warn(msg string, attrs ...slog.Attr) {
	l.logContext(context.Background(), LevelWarn, msg, attrs...)
}

// Error logs a message at Error level.
func (l Logger) Error(msg string, attrs ...slog.Attr) {
	l.logContext(context.Background(), LevelError, msg, attrs...)
}
