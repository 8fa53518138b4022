// Package log provides structured logging built on [log/slog].
//
// A [Logger] is configured once, when it is made, with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// Logging methods accept only [slog.Attr] values:
//
//	logger.Info("program loaded", slog.Int("statements", 4))
//
// The zero Logger discards everything, which lets libraries accept a Logger
// option without requiring one.
//
// # Levels
//
// [LevelTrace] sits below [LevelDebug] and is used for per-token and
// per-node diagnostics. Messages below the configured level are discarded.
//
// # Formats
//
// [FormatText] writes key=value lines and [FormatJSON] writes one object per
// record. With pretty printing enabled, text output is colorized when the
// destination is a terminal, and JSON output is indented.
//
// # Default Logger
//
// Package-level functions such as [Info] and [DebugContext] write to the
// logger returned by [Default]. [Config] adjusts its settings in place, and
// [SetDefault] replaces it.
package log
