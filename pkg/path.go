package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Prefix returns the base name used for the configuration and cache
// directories and for environment variable names.
//
// It is the base name of the executable without extension, except that
// a dlv debug binary ("__debug_bin1234") maps to [Name] and leading dots
// are removed.
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		id = filepath.Base(id)
		id = strings.TrimSuffix(id, filepath.Ext(id))

		id = debugBin.ReplaceAllString(id, Name)
		id = strings.TrimLeft(id, ".")

		if id == "" {
			return Name
		}

		return id
	},
)

var debugBin = regexp.MustCompile(`^__debug_bin\d+$`)

// ConfigDir returns the configuration directory, e.g. ~/.config/scene.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string { return userDir(os.UserConfigDir, ".config") },
)

// CacheDir returns the directory for transient files such as profiles.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string { return userDir(os.UserCacheDir, ".cache") },
)

// LibDir returns the directory searched last for template libraries.
//
//nolint:gochecknoglobals
var LibDir = sync.OnceValue(
	func() string { return filepath.Join(ConfigDir(), "lib") },
)

// PathEnv returns the name of the environment variable listing template
// library directories, e.g. SCENE_PATH.
//
//nolint:gochecknoglobals
var PathEnv = sync.OnceValue(
	func() string { return strings.ToUpper(Prefix()) + "_PATH" },
)

// userDir joins Prefix onto the directory reported by base. If base fails,
// hidden is joined onto the home directory instead, and failing that the
// working directory is used.
func userDir(base func() (string, error), hidden string) string {
	dir, err := base()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, hidden)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}
