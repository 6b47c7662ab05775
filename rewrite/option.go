package rewrite

import "go/types"

// DefaultMarkerPackage is the import path whose calls are rewritten.
const DefaultMarkerPackage = "github.com/ardnew/guard/guard"

// DefaultOptionPackage is the import path of the optional-value type that
// marker targets must have.
const DefaultOptionPackage = "github.com/ardnew/guard/option"

type config struct {
	markerPath string
	optionPath string
	info       *types.Info
}

func defaults() config {
	return config{
		markerPath: DefaultMarkerPackage,
		optionPath: DefaultOptionPackage,
	}
}

// Option applies a configuration option to config.
type Option func(config) config

// apply applies multiple options to a config.
func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return cfg
}

// WithMarkerPackage overrides the import path recognized as the marker
// package.
func WithMarkerPackage(path string) Option {
	return func(cfg config) config {
		cfg.markerPath = path

		return cfg
	}
}

// WithOptionPackage overrides the import path of the optional-value type.
func WithOptionPackage(path string) Option {
	return func(cfg config) config {
		cfg.optionPath = path

		return cfg
	}
}

// WithTypes supplies type-checker results for the file. With them, marker
// identification survives shadowing and targets are statically verified to
// be optional values. Without them, rewriting is purely syntactic and
// target types go unchecked.
func WithTypes(info *types.Info) Option {
	return func(cfg config) config {
		cfg.info = info

		return cfg
	}
}
