// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The package offers configurable time formatting, caller information,
// and output formats that are applied at logger creation time using
// functional options.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("template compiled", slog.Int("tokens", 3))
//	logger.Error("render failed", slog.Any("error", err))
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// A configured logger is immutable. [Logger.Wrap] derives a new logger with
// additional options applied, and [Config] does the same for the default
// logger used by the package-level functions.
//
// # The Zero Logger
//
// The zero [Logger] discards every message. Types that accept an optional
// logger can store one by value and log unconditionally.
//
// # Context-Aware Logging
//
// Each logging level has both a context-aware and context-unaware variant.
// Context-unaware variants use [DefaultContextProvider], which returns
// [context.TODO] by default.
//
// # Supported Levels
//
// The package supports five log levels: [LevelTrace], [LevelDebug],
// [LevelInfo], [LevelWarn], and [LevelError]. Messages below the configured
// level are discarded. Trace is reserved for per-operation detail such as
// individual template compilations and renders.
//
// # Output Formats
//
// Two output formats are supported: [FormatJSON] (default) and [FormatText].
// With [WithPretty] either format is styled for a human reader; colors are
// only emitted when the output is a terminal.
package log
