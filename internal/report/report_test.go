package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/vk/langbench/internal/model"
	"gopkg.in/yaml.v3"
)

func cand(i int, name string) model.Candidate {
	return model.Candidate{Index: i, Name: name}
}

func names(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func TestRank_CompletedFirstThenFailuresInDiscoveryOrder(t *testing.T) {
	outcomes := []model.Outcome{
		model.Failed(cand(0, "a.go"), "build failed: go build: exit code 1"),
		model.Completed(cand(1, "b.py"), 5000*time.Millisecond),
		model.TimedOut(cand(2, "c.lm")),
		model.Completed(cand(3, "d.c"), 50*time.Millisecond),
		model.Completed(cand(4, "e.cpp"), 50*time.Millisecond),
		model.Failed(cand(5, "f.rs"), "run failed: exit code 101"),
	}

	rows := Rank(outcomes)

	want := []string{"d.c", "e.cpp", "b.py", "a.go", "c.lm", "f.rs"}
	if diff := cmp.Diff(want, names(rows)); diff != "" {
		t.Fatalf("ranking mismatch (-want +got):\n%s", diff)
	}
	for i, r := range rows {
		require.Equal(t, i+1, r.Rank)
	}
	require.Equal(t, model.StatusFailed, outcomes[0].Status, "input must not be reordered")

	// Completed durations are non-decreasing and precede every failure.
	seenFailure := false
	var last time.Duration
	for _, r := range rows {
		if r.Status != model.StatusCompleted {
			seenFailure = true
			continue
		}
		require.False(t, seenFailure)
		require.GreaterOrEqual(t, r.Duration, last)
		last = r.Duration
	}
}

func TestRank_IsIndependentOfInputOrder(t *testing.T) {
	a := model.Completed(cand(0, "a.c"), 10*time.Millisecond)
	b := model.TimedOut(cand(1, "b.py"))
	c := model.Failed(cand(2, "c.rs"), "x")
	d := model.Completed(cand(3, "d.go"), 10*time.Millisecond)

	first := Rank([]model.Outcome{a, b, c, d})
	second := Rank([]model.Outcome{d, c, b, a})

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("ranking depends on collection order (-first +second):\n%s", diff)
	}
}

func TestFastest(t *testing.T) {
	_, ok := Fastest(nil)
	require.False(t, ok)

	_, ok = Fastest(Rank([]model.Outcome{model.TimedOut(cand(0, "a.c"))}))
	require.False(t, ok)

	best, ok := Fastest(Rank([]model.Outcome{
		model.Completed(cand(0, "slow.py"), time.Second),
		model.Completed(cand(1, "fast.c"), time.Millisecond),
	}))
	require.True(t, ok)
	require.Equal(t, "fast.c", best.Name)
}

func TestWriteText(t *testing.T) {
	rows := Rank([]model.Outcome{
		model.Completed(cand(0, "test.py"), 5000*time.Millisecond),
		model.Completed(cand(1, "test.c"), 50250*time.Microsecond),
		model.TimedOut(cand(2, "test.lm")),
		model.Failed(cand(3, "test.rs"), "build failed: rustc: exit code 1"),
	})

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, rows))

	want := `===== Results =====
1. test.c: 50.25 ms
2. test.py: 5000.00 ms
3. test.lm: timed out
4. test.rs: failed (build failed: rustc: exit code 1)

Fastest: test.c (50.25 ms)
`
	require.Equal(t, want, buf.String())
}

func TestWriteText_NoneCompleted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, Rank([]model.Outcome{model.TimedOut(cand(0, "a.c"))})))
	require.Contains(t, buf.String(), "1. a.c: timed out")
	require.Contains(t, buf.String(), "No entrant completed successfully.")

	buf.Reset()
	require.NoError(t, WriteText(&buf, nil))
	require.Contains(t, buf.String(), "No entrant completed successfully.")
}

func TestWriteYAML(t *testing.T) {
	rows := Rank([]model.Outcome{
		model.TimedOut(cand(0, "a.py")),
		model.Completed(cand(1, "b.c"), 1500*time.Microsecond),
	})
	meta := Meta{RunID: "run-1", BenchDir: "/bench", Mode: "sequential", Timeout: "5m0s"}

	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, meta, rows))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.Equal(t, "b.c", doc["fastest"])

	results := doc["results"].([]any)
	require.Len(t, results, 2)
	first := results[0].(map[string]any)
	require.Equal(t, "completed", first["status"])
	require.InDelta(t, 1.5, first["duration_ms"], 1e-9)
	second := results[1].(map[string]any)
	require.Equal(t, "timed_out", second["status"])
	require.NotContains(t, second, "duration_ms")

	run := doc["run"].(map[string]any)
	require.Equal(t, "run-1", run["run_id"])
}
