package cmd

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/guard/log"
	"github.com/ardnew/guard/pkg"
	"github.com/ardnew/guard/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// defaultConfigMode is the permission mode for the configuration file.
const defaultConfigMode os.FileMode = 0o600

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return pkg.ErrWriteConfig.
			Wrapf("%s", confPath).
			Wrap(pkg.ErrFileExists)
	}

	data, err := yaml.MarshalWithOptions(
		i.flagValues(ctx),
		yaml.Indent(defaultConfigIndent),
	)
	if err != nil {
		return pkg.ErrWriteConfig.
			Wrapf("%s", confPath).
			Wrap(err)
	}

	err = os.WriteFile(confPath, data, defaultConfigMode)
	if err != nil {
		return pkg.ErrWriteConfig.
			Wrapf("%s", confPath).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// flagValues collects the current values of all configurable flags.
func (i *Init) flagValues(ctx context.Context) map[string]any {
	ktx := kongContextFrom(ctx)

	values := make(map[string]any)

	prefixIgnore := []string{"help", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val := ktx.FlagValue(flag)
		if val == nil {
			continue
		}

		if s, ok := val.(string); ok && s == "" {
			continue
		}

		values[flag.Name] = val
	}

	return values
}
