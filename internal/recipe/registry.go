package recipe

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrDuplicateRecipe is returned when two definitions claim the same extension.
var ErrDuplicateRecipe = errors.New("duplicate recipe")

// Registry is the read-only extension → Definition lookup table.
type Registry struct {
	defs map[string]Definition
}

// NormalizeExt lower-cases an extension and makes sure it starts with a dot.
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// NewRegistry validates the definitions and freezes them into a Registry.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		ext := NormalizeExt(d.Ext)
		if ext == "" || ext == "." {
			return nil, fmt.Errorf("%w: empty extension", ErrInvalidRecipe)
		}
		if d.Run == nil {
			return nil, fmt.Errorf("%w: recipe %q has no run step", ErrInvalidRecipe, ext)
		}
		if _, exists := r.defs[ext]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRecipe, ext)
		}
		d.Ext = ext
		if d.Label == "" {
			d.Label = strings.TrimPrefix(ext, ".")
		}
		r.defs[ext] = d
	}
	return r, nil
}

// Lookup returns the definition registered for ext. A missing recipe is not
// an error; the file is simply not a benchmark entrant.
func (r *Registry) Lookup(ext string) (Definition, bool) {
	d, ok := r.defs[NormalizeExt(ext)]
	return d, ok
}

// Len returns the number of registered recipes.
func (r *Registry) Len() int {
	return len(r.defs)
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.defs))
	for ext := range r.defs {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
