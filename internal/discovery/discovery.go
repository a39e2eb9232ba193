// Package discovery scans the benchmark directory and pairs every file whose
// extension has a recipe with the concrete recipe for that file.
package discovery

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vk/langbench/internal/ctxlog"
	"github.com/vk/langbench/internal/fsutil"
	"github.com/vk/langbench/internal/model"
	"github.com/vk/langbench/internal/recipe"
)

// Scan lists the direct children of benchDir and resolves each against reg.
// Files without a recipe are skipped. A recipe that fails to expand still
// yields a Candidate carrying the error, so the file is reported as failed.
// Only an unreadable benchmark directory is returned as an error.
func Scan(ctx context.Context, benchDir, rootDir string, reg *recipe.Registry) ([]model.Candidate, error) {
	logger := ctxlog.FromContext(ctx)

	absBench, err := filepath.Abs(benchDir)
	if err != nil {
		return nil, fmt.Errorf("resolving benchmark directory: %w", err)
	}
	if rootDir == "" {
		rootDir = filepath.Dir(absBench)
	}
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolving root directory: %w", err)
	}

	files, err := fsutil.ListFiles(absBench)
	if err != nil {
		return nil, fmt.Errorf("scanning benchmark directory: %w", err)
	}
	logger.Debug("Benchmark directory scanned.", "dir", absBench, "files", len(files))

	var candidates []model.Candidate
	for _, path := range files {
		name := filepath.Base(path)
		def, ok := reg.Lookup(filepath.Ext(name))
		if !ok {
			logger.Debug("No recipe for file, skipping.", "file", name)
			continue
		}

		c := model.Candidate{Index: len(candidates), Name: name, Path: path}
		r, err := def.Expand(recipe.Vars{BenchDir: absBench, RootDir: absRoot, File: path})
		if err != nil {
			logger.Warn("Recipe expansion failed.", "file", name, "ext", def.Ext, "error", err)
			c.Err = fmt.Errorf("recipe %s: %w", def.Ext, err)
		} else {
			c.Recipe = r
		}
		logger.Debug("Candidate discovered.", "file", name, "label", c.Label(), "index", c.Index)
		candidates = append(candidates, c)
	}
	return candidates, nil
}
