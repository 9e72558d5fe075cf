package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// DirMode is the permission mode for created directories.
const DirMode os.FileMode = 0o700

// ConfigBase is the base name, without extension, of configuration files in
// [ConfigDir].
const ConfigBase = "config"

// Prefix returns the base prefix string used to construct the paths to the
// configuration and cache directories.
//
// By default, Prefix is the base name of the executable file unless it matches
// one of the following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with [Name]
//   - "^\.+" (dot-prefixed names): remove the dot prefix
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		return prefixOf(executable())
	},
)

// ConfigDir returns the configuration directory path.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string {
		return userDir(os.UserConfigDir, ".config")
	},
)

// CacheDir returns the cache directory path used for transient files such as
// profiles.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string {
		return userDir(os.UserCacheDir, ".cache")
	},
)

// ConfigPath joins [ConfigDir] with the given path elements.
func ConfigPath(elem ...string) string {
	return filepath.Join(append([]string{ConfigDir()}, elem...)...)
}

// MkdirAll creates the configuration and cache directories.
func MkdirAll() error {
	for _, dir := range []string{ConfigDir(), CacheDir()} {
		if err := os.MkdirAll(dir, DirMode); err != nil {
			return err
		}
	}

	return nil
}

func executable() string {
	if exe, err := os.Executable(); err == nil {
		return exe
	}

	return os.Args[0]
}

var prefixRules = []struct {
	rex *regexp.Regexp
	rep string
}{
	{regexp.MustCompile(`^__debug_bin\d*$`), Name}, // default output from dlv
	{regexp.MustCompile(`^\.+`), ""},               // remove leading dot(s)
}

func prefixOf(path string) string {
	id := filepath.Base(path)

	for _, rule := range prefixRules {
		id = rule.rex.ReplaceAllString(id, rule.rep)
	}

	id = strings.TrimSuffix(id, filepath.Ext(id))

	if id == "" {
		return Name
	}

	return id
}

// userDir resolves a per-user base directory, falling back to a directory
// under $HOME and then to the working directory.
func userDir(base func() (string, error), fallback string) string {
	dir, err := base()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, fallback)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}
