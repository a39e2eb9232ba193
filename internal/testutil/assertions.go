package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/langbench/internal/model"
	"github.com/vk/langbench/internal/report"
)

// RequireRow returns the report row for the named file, failing the test if
// the file was not reported.
func RequireRow(t *testing.T, result *HarnessResult, name string) report.Row {
	t.Helper()
	for _, r := range result.Rows {
		if r.Name == name {
			return r
		}
	}
	require.Failf(t, "row not found", "no report row for %q in:\n%s", name, result.Output)
	return report.Row{}
}

// AssertStatus checks that the named file ended with the given status.
func AssertStatus(t *testing.T, result *HarnessResult, name string, want model.Status) report.Row {
	t.Helper()
	row := RequireRow(t, result, name)
	require.Equal(t, want, row.Status, "unexpected status for %s (reason: %q)", name, row.Reason)
	return row
}

// RankedNames lists the reported file names in rank order.
func RankedNames(result *HarnessResult) []string {
	names := make([]string, 0, len(result.Rows))
	for _, r := range result.Rows {
		names = append(names, r.Name)
	}
	return names
}
