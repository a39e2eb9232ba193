// Package pipeline turns one Candidate into exactly one Outcome by running
// its build steps, then its run step, through a process runner.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vk/langbench/internal/ctxlog"
	"github.com/vk/langbench/internal/model"
	"github.com/vk/langbench/internal/procrun"
	"github.com/vk/langbench/internal/recipe"
)

// maxReasonBytes bounds how much captured stderr ends up in a failure reason.
const maxReasonBytes = 200

// ProcessRunner is the subset of procrun.Runner the pipeline needs.
type ProcessRunner interface {
	Run(ctx context.Context, cmd procrun.Command, deadline time.Duration) procrun.Result
}

// Pipeline executes candidates with a single deadline applied to every step.
type Pipeline struct {
	Runner  ProcessRunner
	Timeout time.Duration
}

// New creates a Pipeline.
func New(runner ProcessRunner, timeout time.Duration) *Pipeline {
	return &Pipeline{Runner: runner, Timeout: timeout}
}

// Execute builds (if needed) and runs the candidate. A failed build step
// ends the pipeline; the run step is never attempted after it. Only the run
// step's elapsed time is reported as the Completed duration.
func (p *Pipeline) Execute(ctx context.Context, c model.Candidate) model.Outcome {
	ctx, logger := ctxlog.With(ctx, "candidate", c.Name)

	if c.Err != nil {
		logger.Warn("Candidate could not be resolved.", "error", c.Err)
		return model.Failedf(c, "resolve failed: %v", c.Err)
	}
	if c.Recipe == nil {
		return model.Failed(c, "resolve failed: no recipe")
	}

	for _, step := range c.Recipe.Build {
		logger.Info("Building.", "step", step.Name)
		res := p.run(ctx, step)
		if res.Success() {
			logger.Debug("Build step succeeded.", "step", step.Name, "elapsed", res.Elapsed)
			continue
		}
		reason := describe(step, res)
		logger.Warn("Build step failed.", "step", step.Name, "reason", reason)
		return model.Failedf(c, "build failed: %s", reason)
	}

	step := c.Recipe.Run
	logger.Info("Running.", "step", step.Name)
	res := p.run(ctx, step)
	switch {
	case res.Status == procrun.StatusTimedOut:
		logger.Warn("Run step timed out.", "deadline", p.Timeout)
		return model.TimedOut(c)
	case res.Success():
		logger.Info("Run step completed.", "elapsed", res.Elapsed)
		return model.Completed(c, res.Elapsed)
	default:
		reason := describe(step, res)
		logger.Warn("Run step failed.", "reason", reason)
		return model.Failedf(c, "run failed: %s", reason)
	}
}

func (p *Pipeline) run(ctx context.Context, step recipe.Step) procrun.Result {
	return p.Runner.Run(ctx, procrun.Command{Args: step.Command, Dir: step.Dir}, p.Timeout)
}

// describe renders a short diagnostic for an unsuccessful step. An unnamed
// run step is not repeated after the "run failed" prefix.
func describe(step recipe.Step, res procrun.Result) string {
	var b strings.Builder
	if step.Name != "" && step.Name != recipe.DefaultRunName {
		b.WriteString(step.Name)
		b.WriteString(": ")
	}
	switch res.Status {
	case procrun.StatusTimedOut:
		b.WriteString("timed out")
		if res.Err != nil {
			fmt.Fprintf(&b, " (%v)", res.Err)
		}
	case procrun.StatusLaunchFailed, procrun.StatusCancelled:
		fmt.Fprintf(&b, "%s: %v", res.Status, res.Err)
	default:
		fmt.Fprintf(&b, "exit code %d", res.ExitCode)
		if excerpt := excerpt(res.Stderr); excerpt != "" {
			b.WriteString(": ")
			b.WriteString(excerpt)
		}
	}
	return b.String()
}

// excerpt trims captured output to a single bounded line of text.
func excerpt(out []byte) string {
	s := strings.Join(strings.Fields(string(out)), " ")
	if len(s) <= maxReasonBytes {
		return s
	}
	cut := maxReasonBytes
	// Do not split a multi-byte rune.
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
