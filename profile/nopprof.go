//go:build !pprof

package profile

// Enabled reports whether the binary was built with profiling support.
const Enabled = false

// Modes returns the supported profiling modes, none without the pprof
// build tag.
func Modes() []string { return nil }

func start(Config) Stopper { return ignore{} }
