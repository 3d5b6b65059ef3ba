// Package log provides a concurrency-safe structured logger built on
// [log/slog].
//
// A [Logger] is a small value type. Its zero value is valid and discards
// everything, so library code can hold one unconditionally and callers opt in
// by passing a configured logger:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText))
//
//	logger.TraceContext(ctx, "template registered",
//		slog.String("template", "Button"))
//
// # Levels
//
// In addition to the four slog levels the package defines [LevelTrace],
// which sits below debug and is used for per-node breadcrumbs in the scene
// compiler and evaluator.
//
// # Formats
//
// [FormatJSON] and [FormatText] select the slog handler. With
// [WithPretty] enabled, text output is colorized through lipgloss; colors
// are dropped automatically when the output is not a terminal.
//
// # Default logger
//
// The package-level functions ([Info], [DebugContext], ...) write through a
// process-wide default logger that the CLI reconfigures with [Config].
package log
