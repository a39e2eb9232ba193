// Package executor runs every discovered candidate through the pipeline and
// collects one Outcome per candidate.
//
// Two policies are provided. Sequential runs candidates one after another.
// Concurrent starts one task per candidate (optionally bounded) and funnels
// every Outcome through a channel to a single collector goroutine, the only
// writer of the result slice. Both return Outcomes in discovery order, so the
// final set does not depend on completion order.
package executor

import (
	"context"

	"github.com/vk/langbench/internal/model"
)

// Execution policies accepted by New.
const (
	ModeSequential = "sequential"
	ModeConcurrent = "concurrent"
)

// CandidateRunner turns one candidate into one outcome. pipeline.Pipeline
// satisfies it.
type CandidateRunner interface {
	Execute(ctx context.Context, c model.Candidate) model.Outcome
}

// Sink observes outcomes as they are collected. It is only ever called from
// one goroutine at a time.
type Sink func(model.Outcome)

// Executor orchestrates the execution of all candidates.
type Executor interface {
	Execute(ctx context.Context, candidates []model.Candidate, sink Sink) []model.Outcome
}

// New returns the executor for the given policy name ("sequential" or
// "concurrent"). Unknown names fall back to sequential.
func New(mode string, runner CandidateRunner, workers int) Executor {
	if mode == ModeConcurrent {
		return &Concurrent{Runner: runner, Workers: workers}
	}
	return &Sequential{Runner: runner}
}

// place stores o at its discovery index.
func place(outcomes []model.Outcome, o model.Outcome) {
	if o.Index >= 0 && o.Index < len(outcomes) {
		outcomes[o.Index] = o
	}
}
