package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/guard/log"
	"github.com/ardnew/guard/pkg"
	"github.com/ardnew/guard/rewrite"
)

// Check reports guard diagnostics without rewriting any source.
type Check struct {
	Patterns []string `arg:"" help:"Packages to check (default: current directory)" optional:""`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	pkgs, err := load(ctx, c.Patterns)
	if err != nil {
		return err
	}

	paths := pathsFrom(ctx)

	var count int

	for _, p := range pkgs {
		if !reportLoadErrors(ctx, p) {
			count++

			continue
		}

		for _, file := range p.Syntax {
			// Rewriting is performed on the in-memory syntax tree only;
			// nothing is written back, so any changes are discarded.
			_, err := rewrite.File(p.Fset, file,
				rewrite.WithMarkerPackage(paths.MarkerPackage),
				rewrite.WithOptionPackage(paths.OptionPackage),
				rewrite.WithTypes(p.TypesInfo),
			)
			if err != nil {
				reportRewriteError(err)

				count++
			}
		}
	}

	if count > 0 {
		return pkg.ErrDiagnostics.Wrapf("%d file(s)", count)
	}

	log.DebugContext(ctx, "check passed",
		slog.Int("packages", len(pkgs)),
	)

	return nil
}
