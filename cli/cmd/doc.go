// Package cmd implements the guard subcommands.
//
// Each command receives its dependencies through [context.Context] values
// installed by the cli package: the parsed [kong.Context] and the marker
// and option package paths used to recognize guard invocations.
package cmd
