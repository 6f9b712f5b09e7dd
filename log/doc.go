// Package log provides a small structured logging facade over [log/slog]
// with functional-option configuration.
//
// A Logger is a value type; the zero Logger discards everything, which lets
// library code log unconditionally without nil checks:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatPretty))
//	logger.Info("parse complete", slog.Int("tokens", n))
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Trace sits below slog's Debug and is used
// for per-operation pipeline events.
//
// Three output formats are supported: [FormatJSON], [FormatText], and
// [FormatPretty], a colorized single-line text form for terminals.
package log
