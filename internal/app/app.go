package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vk/langbench/internal/ctxlog"
	"github.com/vk/langbench/internal/pipeline"
	"github.com/vk/langbench/internal/procrun"
	"github.com/vk/langbench/internal/recipe"
)

// ErrEmptyRegistry is returned when no recipe is available after loading.
var ErrEmptyRegistry = errors.New("recipe registry is empty")

// RecipeLoader loads the recipe registry. hcl_adapter.Loader satisfies it.
type RecipeLoader interface {
	Load(ctx context.Context, paths ...string) (*recipe.Registry, error)
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *recipe.Registry
	runID    string

	// Runner executes external commands. Tests may replace it before Run.
	Runner pipeline.ProcessRunner
}

// NewApp is the constructor for the main application. Report output goes to
// outW and logs to logW. A recipe set that fails to load or comes out empty
// is a fatal startup error.
func NewApp(ctx context.Context, outW, logW io.Writer, cfg *Config, loader RecipeLoader) (*App, error) {
	runID := uuid.NewString()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW).With("run_id", runID)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	reg, err := loader.Load(ctx, cfg.RecipePaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}
	if reg.Len() == 0 {
		return nil, ErrEmptyRegistry
	}
	logger.Debug("Recipe registry ready.", "extensions", reg.Extensions())

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		runID:    runID,
		Runner:   procrun.New(),
	}, nil
}

// Registry returns the application's recipe registry. This is primarily for testing.
func (a *App) Registry() *recipe.Registry {
	return a.registry
}

// RunID returns the identifier attached to this run's logs and reports.
func (a *App) RunID() string {
	return a.runID
}
