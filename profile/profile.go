package profile

// Profiler configures file-based runtime profiling.
//
// Mode selects the profile to record (see [Modes]); an empty Mode disables
// profiling. Path is the output directory. Quiet suppresses the profiler's
// own logging.
type Profiler struct {
	Mode  string
	Path  string
	Quiet bool
}

// Start begins profiling and returns a handle for stopping it. When the
// binary was built without the pprof tag, or Mode is empty, the returned
// handle is a no-op. Both Start and Stop are always safe to call.
func (p Profiler) Start() interface{ Stop() } {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
