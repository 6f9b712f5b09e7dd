package log

import (
	"io"
	"log/slog"
	"time"
)

// config holds logger configuration fixed at creation time.
type config struct {
	w          io.Writer
	level      Level
	format     Format
	timeLayout string
	addCaller  bool
}

// DefaultTimeLayout is used when no [WithTimeLayout] option is given.
const DefaultTimeLayout = time.RFC3339

func makeConfig(w io.Writer, opts ...Option) config {
	cfg := config{
		w:          w,
		level:      DefaultLevel,
		format:     DefaultFormat,
		timeLayout: DefaultTimeLayout,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// handler builds the slog.Handler for the configured format.
func (c config) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		Level:       c.level.slogLevel(),
		AddSource:   c.addCaller,
		ReplaceAttr: c.replaceAttr,
	}

	switch c.format {
	case FormatText:
		return slog.NewTextHandler(c.w, opts)

	case FormatPretty:
		return newPrettyHandler(c.w, opts)

	default:
		return slog.NewJSONHandler(c.w, opts)
	}
}

// replaceAttr renames the Trace pseudo-level and applies the configured
// time layout.
func (c config) replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}

	switch a.Key {
	case slog.LevelKey:
		if level, ok := a.Value.Any().(slog.Level); ok &&
			level == LevelTrace.slogLevel() {
			a.Value = slog.StringValue(LevelTrace.String())
		}

	case slog.TimeKey:
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.Format(c.timeLayout))
		}
	}

	return a
}

// Option configures a [Logger] at creation time.
type Option func(*config)

// WithLevel sets the minimum level of reported messages.
func WithLevel(level Level) Option {
	return func(c *config) {
		c.level = level
	}
}

// WithFormat sets the output encoding.
func WithFormat(format Format) Option {
	return func(c *config) {
		c.format = format
	}
}

// WithTimeLayout sets the layout used to format message timestamps.
func WithTimeLayout(layout string) Option {
	return func(c *config) {
		c.timeLayout = layout
	}
}

// WithCaller enables source file and line reporting.
func WithCaller(enable bool) Option {
	return func(c *config) {
		c.addCaller = enable
	}
}
