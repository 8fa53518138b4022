package profile

import "slices"

// Stopper stops a running profiler and flushes its output.
type Stopper interface{ Stop() }

// Profiler describes a profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty or unsupported mode disables profiling.
	Mode string
	// Path is the output directory. If empty, a temporary directory is used.
	Path string
	// Quiet suppresses the profiler's own start and stop messages.
	Quiet bool
}

// Start begins profiling and returns a [Stopper] that ends it.
// The returned Stopper is never nil, and stopping a disabled profiler does
// nothing.
func (p Profiler) Start() Stopper {
	if !Supported(p.Mode) {
		return ignore{}
	}

	return start(p)
}

// Supported reports whether mode is one of [Modes].
func Supported(mode string) bool {
	return mode != "" && slices.Contains(Modes(), mode)
}

type ignore struct{}

func (ignore) Stop() {}
