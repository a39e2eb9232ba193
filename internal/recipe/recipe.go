package recipe

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// DefaultRunName names a run step that declares no name.
const DefaultRunName = "run"

// ErrInvalidRecipe is returned for definitions that cannot describe a runnable recipe.
var ErrInvalidRecipe = errors.New("invalid recipe")

// Step is one fully expanded external command.
type Step struct {
	Name    string
	Command []string
	Dir     string
}

// Recipe is the concrete build/run plan for a single source file.
type Recipe struct {
	Ext   string
	Label string
	Build []Step
	Run   Step
}

// HasBuild reports whether the recipe compiles before running.
func (r *Recipe) HasBuild() bool {
	return len(r.Build) > 0
}

// StepTemplate is the unevaluated form of a Step.
type StepTemplate struct {
	Name    string
	Command hcl.Expression
	// Dir may be nil or evaluate to null, in which case the step runs in the
	// benchmark directory. Relative values are joined onto it.
	Dir hcl.Expression
}

// Definition is a recipe as written in configuration.
type Definition struct {
	Ext   string
	Label string
	Build []StepTemplate
	Run   *StepTemplate
}

// StaticStep builds a StepTemplate from literal values.
func StaticStep(name, dir string, args ...string) StepTemplate {
	elems := make([]cty.Value, len(args))
	for i, a := range args {
		elems[i] = cty.StringVal(a)
	}
	cmd := cty.ListValEmpty(cty.String)
	if len(elems) > 0 {
		cmd = cty.ListVal(elems)
	}
	st := StepTemplate{Name: name, Command: hcl.StaticExpr(cmd, hcl.Range{})}
	if dir != "" {
		st.Dir = hcl.StaticExpr(cty.StringVal(dir), hcl.Range{})
	}
	return st
}

// Expand evaluates every step of the definition for one source file.
func (d Definition) Expand(vars Vars) (*Recipe, error) {
	if d.Run == nil {
		return nil, fmt.Errorf("%w: recipe %q has no run step", ErrInvalidRecipe, d.Ext)
	}
	evalCtx := vars.EvalContext()

	r := &Recipe{Ext: d.Ext, Label: d.Label}
	for i, tmpl := range d.Build {
		step, err := tmpl.expand(evalCtx, vars)
		if err != nil {
			return nil, fmt.Errorf("build step %d (%s): %w", i+1, tmpl.Name, err)
		}
		if step.Name == "" {
			step.Name = fmt.Sprintf("build-%d", i+1)
		}
		r.Build = append(r.Build, step)
	}

	run, err := d.Run.expand(evalCtx, vars)
	if err != nil {
		return nil, fmt.Errorf("run step: %w", err)
	}
	if run.Name == "" {
		run.Name = DefaultRunName
	}
	r.Run = run
	return r, nil
}

func (t StepTemplate) expand(evalCtx *hcl.EvalContext, vars Vars) (Step, error) {
	if t.Command == nil {
		return Step{}, fmt.Errorf("%w: command is required", ErrInvalidRecipe)
	}
	val, diags := t.Command.Value(evalCtx)
	if diags.HasErrors() {
		return Step{}, diags
	}
	if val.IsNull() || !val.IsWhollyKnown() {
		return Step{}, fmt.Errorf("%w: command must be a known list of strings", ErrInvalidRecipe)
	}
	listVal, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return Step{}, fmt.Errorf("command: cannot convert %s to list of strings: %w", val.Type().FriendlyName(), err)
	}
	var args []string
	if err := gocty.FromCtyValue(listVal, &args); err != nil {
		return Step{}, fmt.Errorf("command: %w", err)
	}
	if len(args) == 0 || args[0] == "" {
		return Step{}, fmt.Errorf("%w: command must not be empty", ErrInvalidRecipe)
	}

	dir := vars.BenchDir
	if t.Dir != nil {
		dirVal, diags := t.Dir.Value(evalCtx)
		if diags.HasErrors() {
			return Step{}, diags
		}
		if !dirVal.IsNull() {
			dirVal, err = convert.Convert(dirVal, cty.String)
			if err != nil {
				return Step{}, fmt.Errorf("dir: %w", err)
			}
			if err := gocty.FromCtyValue(dirVal, &dir); err != nil {
				return Step{}, fmt.Errorf("dir: %w", err)
			}
		}
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(vars.BenchDir, dir)
	}

	return Step{Name: t.Name, Command: args, Dir: filepath.Clean(dir)}, nil
}
