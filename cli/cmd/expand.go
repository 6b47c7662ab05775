package cmd

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/token"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/ardnew/guard/log"
	"github.com/ardnew/guard/pkg"
	"github.com/ardnew/guard/rewrite"
)

// defaultFileMode is used when the original file mode cannot be determined.
const defaultFileMode os.FileMode = 0o644

// Expand rewrites guard invocations in the packages matching the given
// patterns.
//
// By default each changed file is written next to its source with the
// configured suffix. The -w flag rewrites sources in place instead, and
// --stdout prints the rewritten files without touching the filesystem.
type Expand struct {
	Patterns []string `arg:"" help:"Packages to expand (default: current directory)" optional:""`

	Write  bool   `help:"Rewrite source files in place"                  short:"w"            xor:"output"`
	Stdout bool   `help:"Print rewritten files to stdout"                                     xor:"output"`
	List   bool   `help:"List files whose contents would change"         short:"l"`
	Suffix string `default:"_guard" help:"Suffix for generated sibling files"`
}

// Run executes the expand command.
func (e *Expand) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	pkgs, err := load(ctx, e.Patterns)
	if err != nil {
		return err
	}

	var failed bool

	for _, p := range pkgs {
		if !reportLoadErrors(ctx, p) {
			failed = true

			continue
		}

		for _, file := range p.Syntax {
			changed, err := e.expandFile(ctx, p, file)
			if err != nil {
				failed = true

				continue
			}

			if changed {
				log.DebugContext(ctx, "expanded",
					slog.String("file", fileName(p.Fset, file)),
				)
			}
		}
	}

	if failed {
		return pkg.ErrRewrite
	}

	return nil
}

// expandFile rewrites a single file and emits the result according to the
// output flags.
func (e *Expand) expandFile(
	ctx context.Context,
	p *packages.Package,
	file *ast.File,
) (bool, error) {
	paths := pathsFrom(ctx)

	changed, err := rewrite.File(p.Fset, file,
		rewrite.WithMarkerPackage(paths.MarkerPackage),
		rewrite.WithOptionPackage(paths.OptionPackage),
		rewrite.WithTypes(p.TypesInfo),
	)
	if err != nil {
		reportRewriteError(err)

		return false, err
	}

	if !changed {
		return false, nil
	}

	name := fileName(p.Fset, file)

	if e.List {
		fmt.Println(name)
	}

	switch {
	case e.Stdout:
		return true, format.Node(os.Stdout, p.Fset, file)

	case e.Write:
		return true, writeFile(p.Fset, file, name)

	default:
		return true, writeFile(p.Fset, file, siblingName(name, e.Suffix))
	}
}

// siblingName derives the generated file name from the source file name by
// inserting the suffix before the ".go" extension.
func siblingName(name, suffix string) string {
	return strings.TrimSuffix(name, ".go") + suffix + ".go"
}

// writeFile formats the rewritten syntax tree to the named file, preserving
// an existing file's mode.
func writeFile(fset *token.FileSet, file *ast.File, name string) error {
	mode := defaultFileMode
	if info, err := os.Stat(name); err == nil {
		mode = info.Mode().Perm()
	}

	out, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return pkg.ErrWriteOutput.
			Wrapf("%s", name).
			Wrap(err)
	}
	defer out.Close()

	if err := format.Node(out, fset, file); err != nil {
		return pkg.ErrWriteOutput.
			Wrapf("%s", name).
			Wrap(err)
	}

	return nil
}

// reportLoadErrors logs any errors recorded while loading a package.
// It returns false if the package cannot be rewritten.
func reportLoadErrors(ctx context.Context, p *packages.Package) bool {
	for _, perr := range p.Errors {
		log.ErrorContext(ctx, "load failed",
			slog.String("package", p.PkgPath),
			slog.String("error", perr.Error()),
		)
	}

	return len(p.Errors) == 0
}

// reportRewriteError prints a diagnostic with its source snippet to stderr.
func reportRewriteError(err error) {
	var rerr *rewrite.Error
	if !errors.As(err, &rerr) {
		fmt.Fprintln(os.Stderr, err)

		return
	}

	source := ""
	if data, err := os.ReadFile(rerr.Position.Filename); err == nil {
		source = string(data)
	}

	fmt.Fprintln(os.Stderr, rerr.Render(source))
}

// fileName resolves the file name of a parsed syntax tree.
func fileName(fset *token.FileSet, file *ast.File) string {
	return fset.Position(file.Pos()).Filename
}
