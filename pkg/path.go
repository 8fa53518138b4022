package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

var (
	debugBinary = regexp.MustCompile(`^__debug_bin\d*$`)
	leadingDots = regexp.MustCompile(`^\.+`)
)

// Prefix is the base name used for per-user directories and environment
// variables. It is the executable name with its extension removed, except
// that a debugger build is named [Name] and leading dots are dropped.
var Prefix = sync.OnceValue(func() string {
	id := os.Args[0]
	if exe, err := os.Executable(); err == nil {
		id = exe
	}

	return prefixOf(id)
})

func prefixOf(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	if debugBinary.MatchString(base) {
		return Name
	}

	if base = leadingDots.ReplaceAllString(base, ""); base == "" {
		return Name
	}

	return base
}

// EnvVar returns the name of the environment variable for key, e.g.
// "ACS_PATH" for key "path".
func EnvVar(key string) string {
	return strings.ToUpper(Prefix() + "_" + key)
}

// ConfigDir returns the per-user configuration directory.
var ConfigDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, ".config")
})

// CacheDir returns the per-user cache directory, used for REPL history and
// profiles.
var CacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, ".cache")
})

// userDir joins [Prefix] onto the directory returned by base. If base fails,
// the hidden directory fallback under the home directory is used, and
// failing that, the working directory.
func userDir(base func() (string, error), fallback string) string {
	dir, err := base()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, fallback)
		} else if wd, werr := os.Getwd(); werr == nil {
			dir = wd
		} else {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}
