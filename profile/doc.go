// Package profile provides optional runtime profiling for the guard tool.
//
// It integrates [github.com/pkg/profile] behind the "pprof" build tag.
// Without the tag every operation is a no-op with zero overhead; with it,
// the supported modes ([Modes]) can be selected from the command line and
// profile files are written to the configured directory for analysis with
// go tool pprof.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
