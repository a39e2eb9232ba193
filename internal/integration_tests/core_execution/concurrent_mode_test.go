//go:build !windows

package integration_tests

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vk/langbench/internal/executor"
	"github.com/vk/langbench/internal/model"
	"github.com/vk/langbench/internal/testutil"
)

func TestCoreExecution_ConcurrentModeOverlapsCandidates(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"a.sh": "sleep 0.4\n",
		"b.sh": "sleep 0.4\n",
		"c.sh": "sleep 0.4\n",
	}

	// --- Act ---
	result := testutil.RunBenchTest(t, testutil.Fixture{
		Files:   files,
		Recipes: testutil.ShellRecipe,
		Mode:    executor.ModeConcurrent,
	})

	// --- Assert ---
	require.NoError(t, result.Err)
	require.Len(t, result.Rows, 3)
	for _, name := range []string{"a.sh", "b.sh", "c.sh"} {
		testutil.AssertStatus(t, result, name, model.StatusCompleted)
	}
	require.Less(t, result.Elapsed, 1100*time.Millisecond, "candidates did not overlap")
}

func TestCoreExecution_ConcurrentModeHonorsWorkerLimit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"a.sh": "sleep 0.3\n",
		"b.sh": "sleep 0.3\n",
	}

	// --- Act ---
	result := testutil.RunBenchTest(t, testutil.Fixture{
		Files:   files,
		Recipes: testutil.ShellRecipe,
		Mode:    executor.ModeConcurrent,
		Workers: 1,
	})

	// --- Assert ---
	require.NoError(t, result.Err)
	require.Len(t, result.Rows, 2)
	require.GreaterOrEqual(t, result.Elapsed, 600*time.Millisecond, "a single worker must serialize candidates")
}

func TestCoreExecution_SequentialModeRunsOneAtATime(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"a.sh": "sleep 0.3\n",
		"b.sh": "sleep 0.3\n",
	}

	result := testutil.RunBenchTest(t, testutil.Fixture{Files: files, Recipes: testutil.ShellRecipe})

	require.NoError(t, result.Err)
	require.GreaterOrEqual(t, result.Elapsed, 600*time.Millisecond)
}

func TestCoreExecution_ConcurrentTimeoutOnlyAffectsItsCandidate(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// One entrant hangs past the deadline while its siblings run alongside.
	// Files in subdirectories are not entrants.
	files := map[string]string{
		"hang.sh":  "sleep 30\n",
		"ok.sh":    "sleep 0.2\n",
		"Bad.SH":   "exit 1\n",
		"sub/x.sh": "exit 0\n",
	}

	// --- Act ---
	result := testutil.RunBenchTest(t, testutil.Fixture{
		Files:   files,
		Recipes: testutil.ShellRecipe,
		Mode:    executor.ModeConcurrent,
		Timeout: 600 * time.Millisecond,
	})

	// --- Assert ---
	require.NoError(t, result.Err)
	require.Equal(t, []string{"ok.sh", "Bad.SH", "hang.sh"}, testutil.RankedNames(result))

	ok := testutil.AssertStatus(t, result, "ok.sh", model.StatusCompleted)
	require.GreaterOrEqual(t, ok.Duration, 200*time.Millisecond)
	require.Less(t, ok.Duration, 600*time.Millisecond)

	bad := testutil.AssertStatus(t, result, "Bad.SH", model.StatusFailed)
	require.Equal(t, "run failed: exit code 1", bad.Reason)
	testutil.AssertStatus(t, result, "hang.sh", model.StatusTimedOut)

	require.NotContains(t, result.Output, "x.sh")
	require.Less(t, result.Elapsed, 5*time.Second, "the hung entrant was not killed at the deadline")
}
