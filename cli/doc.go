// Package cli is the stache command line.
//
// # Usage
//
//	stache [flags] [render] [TEMPLATE]
//	stache fmt ast|json|yaml [TEMPLATE]
//	stache init [--force]
//	stache repl
//
// Render is the default command: with no arguments, a template read from
// stdin is rendered to stdout.
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory (see [pkg.ConfigDir]). Values live under the top-level config
// key and are named like the flags they set:
//
//	config:
//	  log-level: info
//	  partials: [~/templates/partials]
//
// `stache init` writes this file from the current flag values. A
// config.json beside it, holding a flat object of flag values, is read
// first.
//
// # Logging Options
//
//   - --log-level: trace, debug, info, warn (default) or error
//   - --log-format: text (default) or json
//   - --log-time-layout: a Go time layout, a time package constant name
//     (e.g. RFC3339, stamp) or "none"
//   - --[no-]log-caller: include the caller's file and line
//   - --[no-]log-pretty: colorize output (default on)
//
// Logs are written to stderr.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: allocs, block, clock, cpu, goroutine, heap, mem, mutex,
//     thread or trace
//   - --pprof-dir: profile output directory (default: the pprof directory
//     in the user cache directory)
package cli
