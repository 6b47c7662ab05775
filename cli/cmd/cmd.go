package cmd

import (
	"context"
	"go/token"

	"github.com/alecthomas/kong"
	"golang.org/x/tools/go/packages"

	"github.com/ardnew/guard/pkg"
	"github.com/ardnew/guard/rewrite"
)

// ConfigIdentifier is the kong variable holding the configuration file path.
const ConfigIdentifier = "config"

// CacheIdentifier is the kong variable holding the cache directory path.
const CacheIdentifier = "cache"

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Paths identifies the packages whose symbols mark guard invocations.
type Paths struct {
	MarkerPackage string `default:"${markerPackage}" help:"Import path of the guard marker package"  name:"marker-package"`
	OptionPackage string `default:"${optionPackage}" help:"Import path of the option value package" name:"option-package"`
}

// pathsKey is used to store a [Paths] value in [context.Context].
type pathsKey struct{}

// WithPaths returns a new context.Context containing the given package paths.
func WithPaths(ctx context.Context, paths Paths) context.Context {
	return context.WithValue(ctx, pathsKey{}, paths)
}

func pathsFrom(ctx context.Context) Paths {
	paths, _ := ctx.Value(pathsKey{}).(Paths)

	if paths.MarkerPackage == "" {
		paths.MarkerPackage = rewrite.DefaultMarkerPackage
	}

	if paths.OptionPackage == "" {
		paths.OptionPackage = rewrite.DefaultOptionPackage
	}

	return paths
}

// load parses and type-checks the packages matching the given patterns.
// An empty pattern list loads the package in the current directory.
func load(ctx context.Context, patterns []string) ([]*packages.Package, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	cfg := packages.Config{
		Context: ctx,
		Fset:    token.NewFileSet(),
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedCompiledGoFiles |
			packages.NeedImports |
			packages.NeedSyntax |
			packages.NeedTypes |
			packages.NeedTypesInfo,
	}

	pkgs, err := packages.Load(&cfg, patterns...)
	if err != nil {
		return nil, pkg.ErrLoadPackages.Wrap(err)
	}

	return pkgs, nil
}
