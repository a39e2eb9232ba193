package executor

import (
	"context"

	"github.com/vk/langbench/internal/ctxlog"
	"github.com/vk/langbench/internal/model"
	"golang.org/x/sync/errgroup"
)

// Concurrent runs one task per candidate.
type Concurrent struct {
	Runner CandidateRunner
	// Workers limits how many candidates run at once. Zero or negative means
	// one task per candidate with no limit.
	Workers int
}

// Execute implements Executor.
func (e *Concurrent) Execute(ctx context.Context, candidates []model.Candidate, sink Sink) []model.Outcome {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Concurrent execution started.", "candidates", len(candidates), "workers", e.Workers)

	results := make(chan model.Outcome)
	outcomes := make([]model.Outcome, len(candidates))
	collected := make(chan struct{})

	// Single collector: the only goroutine touching outcomes and sink.
	go func() {
		defer close(collected)
		for o := range results {
			place(outcomes, o)
			if sink != nil {
				sink(o)
			}
		}
	}()

	// Tasks always return nil; failures live in the Outcome.
	var g errgroup.Group
	if e.Workers > 0 {
		g.SetLimit(e.Workers)
	}
	for _, c := range candidates {
		g.Go(func() error {
			taskLogger := logger.With("candidate", c.Name, "index", c.Index)
			taskLogger.Debug("Task picked up candidate.")
			results <- e.Runner.Execute(ctxlog.WithLogger(ctx, taskLogger), c)
			return nil
		})
	}
	_ = g.Wait()
	close(results)
	<-collected

	logger.Debug("Concurrent execution finished.")
	return outcomes
}
