//go:build !windows

package integration_tests

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vk/langbench/internal/model"
	"github.com/vk/langbench/internal/testutil"
)

func TestCoreExecution_CompiledAndScriptedEntrantsAreRanked(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The compiled entrant finishes immediately; the scripted one sleeps.
	files := map[string]string{
		"test.csh":  "#!/bin/sh\nexit 0\n",
		"test.sh":   "sleep 0.3\n",
		"README.md": "not an entrant",
	}

	// --- Act ---
	result := testutil.RunBenchTest(t, testutil.Fixture{
		Files:   files,
		Recipes: testutil.ShellRecipe + testutil.CompiledShellRecipe,
	})

	// --- Assert ---
	require.NoError(t, result.Err)
	require.Equal(t, []string{"test.csh", "test.sh"}, testutil.RankedNames(result))

	fast := testutil.AssertStatus(t, result, "test.csh", model.StatusCompleted)
	slow := testutil.AssertStatus(t, result, "test.sh", model.StatusCompleted)
	require.Less(t, fast.Duration, slow.Duration)
	require.Equal(t, "CompiledShell", fast.Label)

	require.Contains(t, result.Output, "===== Results =====")
	require.Contains(t, result.Output, "1. test.csh: ")
	require.Contains(t, result.Output, "2. test.sh: ")
	require.Contains(t, result.Output, "Fastest: test.csh (")
	require.NotContains(t, result.Output, "README.md")
}

func TestCoreExecution_BuildTimeIsNotMeasured(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The build step takes far longer than the run step; only the latter may
	// count toward the reported duration.
	recipes := `
		recipe ".slowbuild" {
			build {
				command = ["sh", "-c", "sleep 0.6 && cp \"$1\" \"$2\" && chmod +x \"$2\"", "build", file, "${bench_dir}/${stem}_bin"]
			}
			run { command = ["${bench_dir}/${stem}_bin"] }
		}
	`
	files := map[string]string{
		"entry.slowbuild": "#!/bin/sh\nexit 0\n",
	}

	// --- Act ---
	result := testutil.RunBenchTest(t, testutil.Fixture{Files: files, Recipes: recipes})

	// --- Assert ---
	require.NoError(t, result.Err)
	row := testutil.AssertStatus(t, result, "entry.slowbuild", model.StatusCompleted)
	require.Less(t, row.Millis(), 500.0, "build time leaked into the measured duration")
}

func TestCoreExecution_RunStepUsesBenchDirAsWorkingDirectory(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The script only succeeds if it can see its sibling data file.
	files := map[string]string{
		"reader.sh": "test -f data.txt\n",
		"data.txt":  "payload",
	}

	// --- Act ---
	result := testutil.RunBenchTest(t, testutil.Fixture{Files: files, Recipes: testutil.ShellRecipe})

	// --- Assert ---
	require.NoError(t, result.Err)
	testutil.AssertStatus(t, result, "reader.sh", model.StatusCompleted)
}

func TestCoreExecution_RepeatedRunsClassifyIdentically(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"ok.sh":   "exit 0\n",
		"bad.sh":  "exit 1\n",
		"slow.sh": "sleep 5\n",
	}
	fx := testutil.Fixture{Files: files, Recipes: testutil.ShellRecipe, Timeout: 300 * time.Millisecond}

	first := testutil.RunBenchTest(t, fx)
	second := testutil.RunBenchTest(t, fx)
	require.NoError(t, first.Err)
	require.NoError(t, second.Err)

	for _, name := range []string{"ok.sh", "bad.sh", "slow.sh"} {
		a := testutil.RequireRow(t, first, name)
		b := testutil.RequireRow(t, second, name)
		require.Equal(t, a.Status, b.Status, "status of %s changed between runs", name)
		require.Equal(t, a.Rank, b.Rank, "rank of %s changed between runs", name)
	}
}
