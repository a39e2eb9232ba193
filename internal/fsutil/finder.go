// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ErrNotDirectory is returned when the scanned path exists but is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// ListFiles returns the absolute paths of the regular files directly inside
// dir, sorted by name. Subdirectories are not descended into. Symbolic links
// are followed, and dangling links are skipped.
func ListFiles(dir string) ([]string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", abs, ErrNotDirectory)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		path := filepath.Join(abs, entry.Name())
		mode := entry.Type()
		if mode&os.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				continue
			}
			mode = target.Mode()
		}
		if mode.IsRegular() {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}
