package profile

// Profiler describes a profiling session.
type Profiler struct {
	// Mode names the profile to collect. See [Modes].
	Mode string
	// Path is the output directory for profile files.
	Path string
	// Quiet suppresses the profiler's own start/stop messages.
	Quiet bool
}

// Make returns a Profiler with opts applied.
func Make(opts ...Option) Profiler {
	var p Profiler
	for _, opt := range opts {
		p = opt(p)
	}

	return p
}

// Start begins profiling and returns a controller for stopping it.
//
// If the binary was built without the pprof tag, or Mode is empty or
// unknown, Start returns a no-op controller. Stop is always safe to call.
func (p Profiler) Start() interface{ Stop() } {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p.Mode, p.Path, p.Quiet)
}

// Option configures a Profiler.
type Option func(Profiler) Profiler

// WithMode sets the profiling mode.
func WithMode(mode string) Option {
	return func(p Profiler) Profiler {
		p.Mode = mode

		return p
	}
}

// WithPath sets the output directory.
func WithPath(path string) Option {
	return func(p Profiler) Profiler {
		p.Path = path

		return p
	}
}

// WithQuiet sets whether the profiler logs its own messages.
func WithQuiet(quiet bool) Option {
	return func(p Profiler) Profiler {
		p.Quiet = quiet

		return p
	}
}

type ignore struct{}

func (ignore) Stop() {}
