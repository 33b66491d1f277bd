package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Paths holds the home-relative well-known directories a scan measures.
// They are resolved once per process and shared by every scan.
type Paths struct {
	// Home is the user's home directory.
	Home string

	// Caches is the per-user application cache root.
	Caches string

	// NpmCache is the npm package cache.
	NpmCache string

	// Logs is the per-user application log directory.
	Logs string

	// Trash holds deleted files awaiting permanent removal.
	Trash string

	// Downloads is the browser download folder.
	Downloads string

	// Developer holds IDE and SDK data (Xcode on macOS, Android SDK elsewhere).
	Developer string

	// AppSupport holds application data and settings.
	AppSupport string

	// Projects is the root whose immediate children are ranked by size.
	Projects string
}

// userHome returns the user's home directory.
// Falls back to $HOME, then to the current directory, when the OS lookup fails.
func userHome() string {
	if h, err := os.UserHomeDir(); err == nil && h != "" {
		return h
	}
	if h := os.Getenv("HOME"); h != "" {
		return h
	}
	return "."
}

// xdgDir returns the XDG base directory named by env, or home/fallback
// when the variable is unset or not absolute.
func xdgDir(env, home string, fallback ...string) string {
	if v := os.Getenv(env); v != "" && filepath.IsAbs(v) {
		return v
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

// DefaultPaths resolves the well-known directories for the current user.
func DefaultPaths() Paths {
	return ResolvePaths(userHome(), runtime.GOOS)
}

// ResolvePaths resolves the well-known directories under home for the given
// GOOS. macOS uses the ~/Library layout; everything else follows the XDG
// base directory conventions.
func ResolvePaths(home, goos string) Paths {
	home = filepath.Clean(home)

	if goos == "darwin" {
		library := filepath.Join(home, "Library")
		return Paths{
			Home:       home,
			Caches:     filepath.Join(library, "Caches"),
			NpmCache:   filepath.Join(home, ".npm"),
			Logs:       filepath.Join(library, "Logs"),
			Trash:      filepath.Join(home, ".Trash"),
			Downloads:  filepath.Join(home, "Downloads"),
			Developer:  filepath.Join(library, "Developer"),
			AppSupport: filepath.Join(library, "Application Support"),
			Projects:   filepath.Join(home, "Projects"),
		}
	}

	return Paths{
		Home:       home,
		Caches:     xdgDir("XDG_CACHE_HOME", home, ".cache"),
		NpmCache:   filepath.Join(home, ".npm"),
		Logs:       xdgDir("XDG_STATE_HOME", home, ".local", "state"),
		Trash:      filepath.Join(xdgDir("XDG_DATA_HOME", home, ".local", "share"), "Trash"),
		Downloads:  filepath.Join(home, "Downloads"),
		Developer:  filepath.Join(home, "Android"),
		AppSupport: xdgDir("XDG_CONFIG_HOME", home, ".config"),
		Projects:   filepath.Join(home, "Projects"),
	}
}

// ExpandHome replaces a leading "~" with the home directory.
func (p Paths) ExpandHome(path string) string {
	switch {
	case path == "~":
		return p.Home
	case strings.HasPrefix(path, "~/"), strings.HasPrefix(path, `~\`):
		return filepath.Join(p.Home, path[2:])
	default:
		return path
	}
}

// Tilde shortens a path under the home directory to its "~/..." form for
// display in cleanup commands.
func (p Paths) Tilde(path string) string {
	rel, err := filepath.Rel(p.Home, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	if rel == "." {
		return "~"
	}
	return "~/" + filepath.ToSlash(rel)
}
