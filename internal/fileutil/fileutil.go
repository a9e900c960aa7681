// Package fileutil provides file and path utility functions.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListFiles returns the regular files directly inside dir whose names end in
// one of extensions (case-sensitive), sorted by name. Subdirectories are not
// descended into.
func ListFiles(dir string, extensions []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if hasExtension(e.Name(), extensions) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	// os.ReadDir already sorts; keep the guarantee explicit for callers.
	sort.Strings(paths)
	return paths, nil
}

func hasExtension(name string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// CheckWritable verifies that files can be created in dir by writing and
// removing a probe file.
func CheckWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".diagram-sync-probe-*")
	if err != nil {
		return fmt.Errorf("creating probe file: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("removing probe file: %w", err)
	}
	return nil
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "sync" -> false (name)
//   - "./sync.yaml" -> true (relative path)
//   - "/etc/diagram-sync/sync.toml" -> true (absolute)
//   - "C:\config\sync.yaml" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
