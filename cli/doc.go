// Package cli implements the guard command line: flag parsing and
// configuration resolution with kong, early logger setup, optional
// profiling, and dispatch to the subcommands in
// [github.com/ardnew/guard/cli/cmd].
package cli
