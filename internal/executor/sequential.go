package executor

import (
	"context"

	"github.com/vk/langbench/internal/ctxlog"
	"github.com/vk/langbench/internal/model"
)

// Sequential runs candidates strictly one at a time in discovery order.
type Sequential struct {
	Runner CandidateRunner
}

// Execute implements Executor.
func (s *Sequential) Execute(ctx context.Context, candidates []model.Candidate, sink Sink) []model.Outcome {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Sequential execution started.", "candidates", len(candidates))

	outcomes := make([]model.Outcome, len(candidates))
	for _, c := range candidates {
		o := s.Runner.Execute(ctx, c)
		place(outcomes, o)
		if sink != nil {
			sink(o)
		}
	}

	logger.Debug("Sequential execution finished.")
	return outcomes
}
