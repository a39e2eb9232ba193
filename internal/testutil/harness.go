// Package testutil provides a harness for running the whole application
// against a throwaway benchmark directory.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vk/langbench/internal/app"
	"github.com/vk/langbench/internal/hcl_adapter"
	"github.com/vk/langbench/internal/report"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Fixture describes one benchmark run.
type Fixture struct {
	// Files are written into the benchmark directory. Names may contain
	// subdirectories.
	Files map[string]string
	// Recipes is the content of a recipe file loaded on top of (or instead
	// of) the built-in recipes.
	Recipes string
	// Defaults keeps the built-in recipes loaded.
	Defaults bool

	Timeout time.Duration
	Mode    string
	Workers int
	// Output, when set, is a file name inside the benchmark directory that
	// receives the YAML report.
	Output string
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	BenchDir  string
	Output    string
	LogOutput string
	Rows      []report.Row
	Elapsed   time.Duration
	Err       error
	App       *app.App
}

// RunBenchTest provides a standardized harness for running integration tests
// using a default background context.
func RunBenchTest(t *testing.T, fx Fixture) *HarnessResult {
	t.Helper()
	return RunBenchTestWithContext(context.Background(), t, fx)
}

// RunBenchTestWithContext writes the fixture to a temporary directory, loads
// recipes and runs the application once. Startup and run errors are returned
// in the result rather than failing the test.
func RunBenchTestWithContext(ctx context.Context, t *testing.T, fx Fixture) *HarnessResult {
	t.Helper()

	benchDir := t.TempDir()
	for name, content := range fx.Files {
		WriteFile(t, benchDir, name, content)
	}

	var recipePaths []string
	if fx.Recipes != "" {
		recipePaths = append(recipePaths, WriteFile(t, t.TempDir(), "recipes.hcl", fx.Recipes))
	}

	timeout := fx.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	var outputPath string
	if fx.Output != "" {
		outputPath = filepath.Join(benchDir, fx.Output)
	}

	cfg, err := app.NewConfig(app.Config{
		BenchDir:    benchDir,
		RecipePaths: recipePaths,
		NoDefaults:  !fx.Defaults,
		Timeout:     timeout,
		Mode:        fx.Mode,
		Workers:     fx.Workers,
		OutputPath:  outputPath,
		LogLevel:    "debug",
		LogFormat:   "text",
	})
	require.NoError(t, err)

	out := &SafeBuffer{}
	logs := &SafeBuffer{}
	result := &HarnessResult{BenchDir: benchDir}

	testApp, err := app.NewApp(ctx, out, logs, cfg, hcl_adapter.NewLoader(fx.Defaults))
	if err == nil {
		result.App = testApp
		start := time.Now()
		result.Rows, err = testApp.Run(ctx)
		result.Elapsed = time.Since(start)
	}
	result.Err = err
	result.Output = out.String()
	result.LogOutput = logs.String()

	if os.Getenv("LANGBENCH_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), result.LogOutput)
	}
	return result
}

// WriteFile writes content to dir/name, creating parent directories, and
// returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
