// Package cmd implements the stache subcommands: render, fmt, init and
// repl.
//
// Commands receive a context carrying the parsed [kong.Context] (see
// [WithContext]) and report failures as [*Error] values that log their
// attributes when passed to slog.
package cmd

var (
	// CacheIdentifier is the kong variable holding the cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable holding the configuration file
	// path. It is also the top-level key of that file.
	ConfigIdentifier = "config"
)
