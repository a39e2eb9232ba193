//go:build !windows

package integration_tests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/langbench/internal/model"
	"github.com/vk/langbench/internal/testutil"
)

func TestErrorHandling_BuildFailureSkipsRun(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The build always fails. The run step would leave a sentinel file
	// behind if it were ever started.
	recipes := `
		recipe ".broken" {
			build {
				name    = "compile"
				command = ["sh", "-c", "echo 'syntax error near line 1' >&2; exit 1"]
			}
			run { command = ["touch", "${bench_dir}/ran.sentinel"] }
		}
	`
	files := map[string]string{
		"entry.broken": "",
		"ok.sh":        "exit 0\n",
	}

	// --- Act ---
	result := testutil.RunBenchTest(t, testutil.Fixture{
		Files:   files,
		Recipes: recipes + testutil.ShellRecipe,
	})

	// --- Assert ---
	require.NoError(t, result.Err)
	row := testutil.AssertStatus(t, result, "entry.broken", model.StatusFailed)
	require.Contains(t, row.Reason, "build failed: compile: exit code 1")
	require.Contains(t, row.Reason, "syntax error near line 1")

	_, err := os.Stat(filepath.Join(result.BenchDir, "ran.sentinel"))
	require.True(t, os.IsNotExist(err), "run step must not start after a failed build")

	// The failure does not prevent other candidates from completing.
	testutil.AssertStatus(t, result, "ok.sh", model.StatusCompleted)
	require.Equal(t, []string{"ok.sh", "entry.broken"}, testutil.RankedNames(result))
}
