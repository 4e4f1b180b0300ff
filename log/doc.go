// Package log provides a concurrency-safe structured logger built on
// [log/slog].
//
// A [Logger] is configured once with functional options and then shared.
// Its zero value discards all output, so types can hold a Logger field
// without initializing it:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("rfc3339"))
//
//	logger.Info("rendered", slog.Int("bytes", n))
//
// # Levels
//
// In addition to the four slog levels the package defines [LevelTrace],
// which reports parser and cache internals. Use [ParseLevel] and
// [ParseFormat] to read levels and formats from flags.
//
// # Pretty output
//
// With [WithPretty] enabled (the default) records are styled with lipgloss:
// keys are dimmed and values are colored by kind. Colors are dropped when
// the output is not a terminal.
//
// # Package-level logger
//
// Functions such as [Info] and [Error] write through a package-level logger
// that [Config] reconfigures. Functions without a context argument use
// [DefaultContextProvider].
package log
