// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Candidate, the unit of work handed to the pipeline.
package model

import "github.com/vk/langbench/internal/recipe"

// Candidate is a discovered source file paired with its resolved Recipe.
type Candidate struct {
	// Index is the position of the file in discovery order. The reporter uses
	// it to keep ties and failures in a stable order.
	Index int

	// Name is the base file name, used as the candidate identifier.
	Name string

	// Path is the absolute path of the source file.
	Path string

	// Recipe is the concrete build/run plan. Nil when Err is set.
	Recipe *recipe.Recipe

	// Err records why the recipe could not be expanded for this file.
	Err error
}

// Label returns the human-friendly language label, falling back to the file name.
func (c Candidate) Label() string {
	if c.Recipe != nil && c.Recipe.Label != "" {
		return c.Recipe.Label
	}
	return c.Name
}
