package recipe

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Vars are the per-file values visible to recipe expressions.
type Vars struct {
	BenchDir string
	RootDir  string
	File     string
}

// ExeSuffix is the platform executable suffix exposed as `exe`.
func ExeSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}

// Values returns the variable map used during expansion.
func (v Vars) Values() map[string]cty.Value {
	name := filepath.Base(v.File)
	ext := filepath.Ext(name)
	return map[string]cty.Value{
		"bench_dir": cty.StringVal(v.BenchDir),
		"root_dir":  cty.StringVal(v.RootDir),
		"file":      cty.StringVal(v.File),
		"name":      cty.StringVal(name),
		"stem":      cty.StringVal(strings.TrimSuffix(name, ext)),
		"ext":       cty.StringVal(strings.ToLower(ext)),
		"exe":       cty.StringVal(ExeSuffix()),
	}
}

// EvalContext builds the HCL evaluation context for the file.
func (v Vars) EvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: v.Values(),
		Functions: map[string]function.Function{
			"lower":  stdlib.LowerFunc,
			"upper":  stdlib.UpperFunc,
			"join":   stdlib.JoinFunc,
			"format": stdlib.FormatFunc,
		},
	}
}
