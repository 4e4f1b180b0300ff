package profile

// Tag is the build tag that enables profiling.
const Tag = "pprof"

// Config selects a profiler.
type Config struct {
	// Mode is one of [Modes]. An empty mode disables profiling.
	Mode string
	// Dir is the directory receiving the profile. Empty selects the
	// working directory.
	Dir string
	// Quiet suppresses the profiler's own start and stop messages.
	Quiet bool
}

// Option modifies a [Config].
type Option func(Config) Config

// WithMode selects the profiling mode.
func WithMode(mode string) Option {
	return func(c Config) Config {
		c.Mode = mode

		return c
	}
}

// WithDir selects the output directory.
func WithDir(dir string) Option {
	return func(c Config) Config {
		c.Dir = dir

		return c
	}
}

// WithQuiet suppresses the profiler's own messages.
func WithQuiet(quiet bool) Option {
	return func(c Config) Config {
		c.Quiet = quiet

		return c
	}
}

// Stopper stops a running profiler and flushes its output.
type Stopper interface{ Stop() }

// Start applies opts and starts the selected profiler.
//
// The returned Stopper is never nil. Without the pprof build tag, with an
// empty mode, or with a mode not in [Modes], it does nothing.
func Start(opts ...Option) Stopper {
	var c Config

	for _, opt := range opts {
		c = opt(c)
	}

	if !Supports(c.Mode) {
		return ignore{}
	}

	return start(c)
}

// Supports reports whether mode names a profiler available in this build.
func Supports(mode string) bool {
	if mode == "" {
		return false
	}

	for _, m := range Modes() {
		if m == mode {
			return true
		}
	}

	return false
}

type ignore struct{}

func (ignore) Stop() {}
