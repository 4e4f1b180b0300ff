// Package profile wraps [github.com/pkg/profile] to profile a stache run.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	stache --pprof-mode=cpu render page.mustache
//	go tool pprof stache ~/.cache/stache/pprof/cpu.pprof
//
// Without the tag, [Modes] is empty and [Start] returns a Stopper that does
// nothing, so callers never need build tags of their own.
package profile
