// Package recipe is the static registry that maps a source file extension to
// the steps needed to build and run it.
//
// A Definition is the templated form loaded at startup: its commands are HCL
// expressions that may reference per-file variables such as `file` or
// `stem`. Expand evaluates a Definition for one concrete file and yields an
// immutable Recipe: zero or more build steps followed by exactly one run step.
package recipe
