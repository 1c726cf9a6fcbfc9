package pathutil

import (
	"path/filepath"
	"strings"
)

// NormalizePath converts Windows-style separators to the current platform's separator
// and cleans the resulting path.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}

	replaced := strings.ReplaceAll(p, "\\", "/")
	return filepath.Clean(filepath.FromSlash(replaced))
}

// ExpandHome replaces a leading "~" with home. Other paths are returned
// unchanged.
func ExpandHome(p, home string) string {
	if home == "" {
		return p
	}
	if p == "~" {
		return home
	}
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		return filepath.Join(home, p[2:])
	}
	return p
}

// Resolve expands and normalizes p, then makes it absolute against the
// working directory. If the working directory is unknown the cleaned
// relative path is returned.
func Resolve(p, home string) string {
	resolved := NormalizePath(ExpandHome(p, home))
	if resolved == "" || filepath.IsAbs(resolved) {
		return resolved
	}
	if abs, err := filepath.Abs(resolved); err == nil {
		return abs
	}
	return resolved
}
