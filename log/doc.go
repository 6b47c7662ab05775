// Package log provides structured, leveled logging for the guard tool,
// wrapping [log/slog] with a Trace level below Debug, named output formats,
// and colorized pretty printing for terminals.
//
// A [Logger] is an immutable value: [Make] builds one from functional
// options, and [Logger.Wrap] derives a reconfigured copy. The zero Logger
// discards everything, so library code can log unconditionally.
//
// The package also keeps a process-wide default used by the command line:
// [SetDefault] installs it and the package-level functions ([Trace],
// [Debug], [Info], [Warn], [Error], and their Context variants) forward to
// it.
package log
