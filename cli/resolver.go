package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve is a [kong.ConfigurationLoader] for YAML configuration files.
//
// The file is a flat mapping of flag names to values. Flag names with
// hyphens (for example "log-level") may use underscores in the file
// ("log_level"). Command-line flags override configuration values.
//
// Example:
//
//	log_level: debug
//	log_format: json
//	marker-package: github.com/ardnew/guard/guard
func resolve(r io.Reader) (kong.Resolver, error) {
	var raw map[string]any

	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		// An empty or unparsable file contributes no configuration.
		return config{}, nil
	}

	return config(flatten(raw)), nil
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// The config was already parsed successfully.
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	// Not found: let kong use defaults.
	return nil, nil //nolint:nilnil
}

// flatten normalizes decoded values for kong, which parses numbers from
// strings.
func flatten(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))

	for key, value := range raw {
		switch v := value.(type) {
		case int:
			out[key] = strconv.Itoa(v)

		case int64:
			out[key] = strconv.FormatInt(v, 10)

		case uint64:
			out[key] = strconv.FormatUint(v, 10)

		case float64:
			out[key] = strconv.FormatFloat(v, 'f', -1, 64)

		default:
			out[key] = v
		}
	}

	return out
}
