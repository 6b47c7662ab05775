package pkg

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Prefix returns the identifier used to name per-user directories and
// environment variables. It is derived from the executable name, stripped of
// any extension and leading dots; debugger-generated binary names (dlv's
// "__debug_bin…") fall back to [Name].
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(func() string {
	path := os.Args[0]
	if exe, err := os.Executable(); err == nil {
		path = exe
	}

	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimLeft(base, ".")

	if base == "" || strings.HasPrefix(base, "__debug_bin") {
		return Name
	}

	return base
})

// ConfigDir returns the per-user configuration directory path.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(func() string {
	return filepath.Join(userDir(os.UserConfigDir, ".config"), Prefix())
})

// CacheDir returns the per-user cache directory path used for transient
// files such as pprof output.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(func() string {
	return filepath.Join(userDir(os.UserCacheDir, ".cache"), Prefix())
})

// userDir resolves a per-user base directory, falling back to a dot
// directory under the home directory, then to the working directory.
func userDir(lookup func() (string, error), dot string) string {
	if dir, err := lookup(); err == nil {
		return dir
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, dot)
	}

	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}

	return "."
}
