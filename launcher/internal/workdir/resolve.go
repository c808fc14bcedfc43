package workdir

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Marker is the folder the server looks for in its working directory.
const Marker = "dist"

// extendedPathPrefix is added by canonicalization on Windows.
const extendedPathPrefix = `\\?\`

// Sources are the raw inputs to the candidate list.
type Sources struct {
	// UserDir is the working_dir value from the config document.
	UserDir string

	// Resources is the platform resource or installation directory.
	Resources string

	// Data is the launcher data directory.
	Data string

	// CWD is the launcher's own working directory.
	CWD string
}

// Candidates builds the ordered, deduplicated search list from src.
func Candidates(src Sources) *SearchPaths {
	list := NewSearchPaths()

	if user := strings.TrimSpace(src.UserDir); user != "" {
		if p, err := expandHome(user); err == nil {
			if abs, err := filepath.Abs(p); err == nil {
				list.Add(abs)
			}
		} else {
			slog.Warn("workdir: cannot expand working_dir", "working_dir", user, "err", err)
		}
	}

	list.Add(
		strings.TrimPrefix(src.Resources, extendedPathPrefix),
		src.Data,
		src.CWD,
	)
	return list
}

// Resolve returns the first candidate that contains the marker directory,
// or fallback when none does.
func Resolve(candidates *SearchPaths, marker, fallback string) string {
	slog.Debug("workdir: looking for marker", "marker", marker, "candidates", candidates.Paths())
	for _, dir := range candidates.Paths() {
		if dir == "" {
			continue
		}
		info, err := os.Stat(filepath.Join(dir, marker))
		if err == nil && info.IsDir() {
			return dir
		}
	}
	return fallback
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[1:]), nil
}
