package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/vk/langbench/internal/ctxlog"
	"github.com/vk/langbench/internal/discovery"
	"github.com/vk/langbench/internal/executor"
	"github.com/vk/langbench/internal/model"
	"github.com/vk/langbench/internal/pipeline"
	"github.com/vk/langbench/internal/publish"
	"github.com/vk/langbench/internal/report"
)

// Run discovers, executes and reports every candidate. Per-candidate
// failures end up in the report; only an unusable benchmark directory or an
// unwritable report is returned as an error.
func (a *App) Run(ctx context.Context) ([]report.Row, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	startedAt := time.Now()
	a.logger.Debug("App.Run method started.")

	candidates, err := discovery.Scan(ctx, a.config.BenchDir, a.config.RootDir, a.registry)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		a.logger.Warn("No benchmark sources matched a recipe.", "dir", a.config.BenchDir, "extensions", a.registry.Extensions())
	}

	fmt.Fprintf(a.outW, "Benchmark directory: %s\n", a.config.BenchDir)
	fmt.Fprintf(a.outW, "Timeout: %s, mode: %s, candidates: %d\n\n", a.config.Timeout, a.config.Mode, len(candidates))

	pub := a.publisher(ctx)
	defer func() {
		if err := pub.Close(); err != nil {
			a.logger.Warn("Closing live publisher failed.", "error", err)
		}
	}()

	a.logger.Info("🚀 Starting benchmark.", "candidates", len(candidates), "mode", a.config.Mode)
	exec := executor.New(a.config.Mode, pipeline.New(a.Runner, a.config.Timeout), a.config.Workers)
	outcomes := exec.Execute(ctx, candidates, func(o model.Outcome) {
		a.logOutcome(o)
		pub.Publish(ctx, o)
	})
	a.logger.Info("🏁 Benchmark finished.", "elapsed", time.Since(startedAt))

	rows := report.Rank(outcomes)
	if err := report.WriteText(a.outW, rows); err != nil {
		return rows, fmt.Errorf("writing report: %w", err)
	}

	if a.config.OutputPath != "" {
		meta := report.Meta{
			RunID:     a.runID,
			StartedAt: startedAt.UTC(),
			BenchDir:  a.config.BenchDir,
			Mode:      a.config.Mode,
			Timeout:   a.config.Timeout.String(),
		}
		if err := writeYAMLFile(a.config.OutputPath, meta, rows); err != nil {
			return rows, err
		}
		a.logger.Info("YAML report written.", "path", a.config.OutputPath)
	}

	a.logger.Debug("App.Run method finished.")
	return rows, nil
}

// publisher connects the live publisher, degrading to a no-op when it is
// disabled or unreachable.
func (a *App) publisher(ctx context.Context) publish.Publisher {
	if a.config.PublishURL == "" {
		return publish.Nop{}
	}
	p, err := publish.DialSocketIO(ctx, publish.SocketIOOptions{
		URL:   a.config.PublishURL,
		Event: a.config.PublishEvent,
		RunID: a.runID,
	})
	if err != nil {
		a.logger.Warn("Live publishing disabled.", "error", err)
		return publish.Nop{}
	}
	return p
}

func (a *App) logOutcome(o model.Outcome) {
	logger := a.logger.With("candidate", o.Name, "status", o.Status.String())
	switch o.Status {
	case model.StatusCompleted:
		logger.Info("Candidate completed.", "elapsed_ms", o.Millis())
	case model.StatusTimedOut:
		logger.Warn("Candidate timed out.", "timeout", a.config.Timeout)
	default:
		logger.Warn("Candidate failed.", "reason", o.Reason)
	}
}

func writeYAMLFile(path string, meta report.Meta, rows []report.Row) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing report file: %w", cerr)
		}
	}()
	return report.WriteYAML(f, meta, rows)
}
