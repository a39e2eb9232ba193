package hcl_adapter

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/langbench/internal/ctxlog"
	"github.com/vk/langbench/internal/recipe"
)

//go:embed defaults.hcl
var defaultRecipes []byte

// DefaultsFilename is the name reported in diagnostics for the embedded recipes.
const DefaultsFilename = "defaults.hcl"

// Loader reads recipe files and builds a recipe.Registry.
type Loader struct {
	// Defaults seeds the registry with the embedded recipes before any file
	// is read. Files loaded afterwards override defaults per extension.
	Defaults bool
}

// NewLoader creates a new HCL recipe loader.
func NewLoader(withDefaults bool) *Loader {
	return &Loader{Defaults: withDefaults}
}

// Load parses the embedded defaults (if enabled) and every .hcl file found
// under paths, then freezes the merged definitions into a registry.
func (l *Loader) Load(ctx context.Context, paths ...string) (*recipe.Registry, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL recipe loader started.", "path_count", len(paths), "defaults", l.Defaults)

	parser := hclparse.NewParser()
	merged := newDefinitionSet()

	if l.Defaults {
		file, diags := parser.ParseHCL(defaultRecipes, DefaultsFilename)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse embedded recipes: %w", diags)
		}
		if err := l.decodeInto(ctx, merged, file, DefaultsFilename); err != nil {
			return nil, err
		}
	}

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL recipe files.", "count", len(hclFiles))

	for _, path := range hclFiles {
		file, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
		}
		if err := l.decodeInto(ctx, merged, file, path); err != nil {
			return nil, err
		}
	}

	reg, err := recipe.NewRegistry(merged.ordered()...)
	if err != nil {
		return nil, err
	}
	logger.Debug("HCL recipe loading complete.", "recipes", reg.Len(), "extensions", reg.Extensions())
	return reg, nil
}

// decodeInto decodes the recipe blocks of one file and merges them into set.
func (l *Loader) decodeInto(ctx context.Context, set *definitionSet, file *hcl.File, path string) error {
	logger := ctxlog.FromContext(ctx)

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	seen := make(map[string]struct{}, len(root.Recipes))
	for _, block := range root.Recipes {
		def, err := translateRecipe(block)
		if err != nil {
			return fmt.Errorf("in %s: %w", path, err)
		}
		if _, dup := seen[def.Ext]; dup {
			return fmt.Errorf("in %s: %w: %q declared twice", path, recipe.ErrDuplicateRecipe, def.Ext)
		}
		seen[def.Ext] = struct{}{}

		if set.put(def) {
			logger.Debug("Recipe overridden.", "ext", def.Ext, "file", path)
		}
	}
	return nil
}

// translateRecipe converts a decoded block into a recipe.Definition.
func translateRecipe(b *recipeBlock) (recipe.Definition, error) {
	ext := recipe.NormalizeExt(b.Ext)
	if ext == "" || ext == "." {
		return recipe.Definition{}, fmt.Errorf("%w: recipe with an empty extension", recipe.ErrInvalidRecipe)
	}
	switch len(b.Runs) {
	case 0:
		return recipe.Definition{}, fmt.Errorf("%w: recipe %q has no run block", recipe.ErrInvalidRecipe, ext)
	case 1:
	default:
		return recipe.Definition{}, fmt.Errorf("%w: recipe %q has %d run blocks, only one is allowed", recipe.ErrInvalidRecipe, ext, len(b.Runs))
	}

	def := recipe.Definition{Ext: ext, Label: b.Label}
	for _, s := range b.Builds {
		def.Build = append(def.Build, translateStep(s))
	}
	run := translateStep(b.Runs[0])
	def.Run = &run
	return def, nil
}

func translateStep(s *stepBlock) recipe.StepTemplate {
	return recipe.StepTemplate{Name: s.Name, Command: s.Command, Dir: s.Dir}
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing recipe path %s: %w", path, err)
		}

		if info.IsDir() {
			err := filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && filepath.Ext(p) == ".hcl" {
					if _, wasSeen := seen[p]; !wasSeen {
						allFiles = append(allFiles, p)
						seen[p] = struct{}{}
					}
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else if filepath.Ext(path) == ".hcl" {
			if _, wasSeen := seen[path]; !wasSeen {
				allFiles = append(allFiles, path)
				seen[path] = struct{}{}
			}
		} else {
			return nil, fmt.Errorf("recipe file %s must have the .hcl extension", path)
		}
	}
	return allFiles, nil
}

// definitionSet keeps the first-seen order of extensions while letting later
// definitions replace earlier ones.
type definitionSet struct {
	order []string
	byExt map[string]recipe.Definition
}

func newDefinitionSet() *definitionSet {
	return &definitionSet{byExt: make(map[string]recipe.Definition)}
}

// put stores def and reports whether it replaced an existing definition.
func (s *definitionSet) put(def recipe.Definition) bool {
	_, exists := s.byExt[def.Ext]
	if !exists {
		s.order = append(s.order, def.Ext)
	}
	s.byExt[def.Ext] = def
	return exists
}

func (s *definitionSet) ordered() []recipe.Definition {
	defs := make([]recipe.Definition, 0, len(s.order))
	for _, ext := range s.order {
		defs = append(defs, s.byExt[ext])
	}
	return defs
}
