package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is the top-level shape of a recipe file.
type fileRoot struct {
	Recipes []*recipeBlock `hcl:"recipe,block"`
}

type recipeBlock struct {
	Ext    string       `hcl:"ext,label"`
	Label  string       `hcl:"label,optional"`
	Builds []*stepBlock `hcl:"build,block"`
	Runs   []*stepBlock `hcl:"run,block"`
}

type stepBlock struct {
	Name    string         `hcl:"name,optional"`
	Command hcl.Expression `hcl:"command"`
	Dir     hcl.Expression `hcl:"dir,optional"`
}
