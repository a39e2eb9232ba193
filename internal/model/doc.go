// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model holds the value types that flow between discovery, the
// execution pipeline, and the reporter.
//
// # Core Concepts
//
//   - Candidate: one benchmark source file found in the benchmark directory,
//     paired with the concrete Recipe that builds and runs it. A Candidate whose
//     recipe could not be expanded still exists; it carries the error so the
//     file shows up in the final report instead of silently disappearing.
//
//   - Outcome: the classified result of running one Candidate. Exactly one of
//     Completed, TimedOut or Failed applies, and only the constructors in this
//     package build an Outcome so the tag and its payload always agree.
//
// Both types are plain values. They are created by a single owner (discovery
// or the pipeline) and never mutated afterwards, which lets concurrent tasks
// hand them to a collector without further synchronization.
package model
