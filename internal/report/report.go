// Package report ranks outcomes and renders them for humans and machines.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/vk/langbench/internal/model"
)

// Row is an Outcome together with its 1-based rank.
type Row struct {
	Rank int
	model.Outcome
}

// Rank orders outcomes: completed ones first by ascending duration, then
// timed-out and failed ones. Ties and failures keep discovery order.
func Rank(outcomes []model.Outcome) []Row {
	sorted := make([]model.Outcome, len(outcomes))
	copy(sorted, outcomes)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		ac, bc := a.Status == model.StatusCompleted, b.Status == model.StatusCompleted
		switch {
		case ac && bc:
			if a.Duration != b.Duration {
				return a.Duration < b.Duration
			}
			return a.Index < b.Index
		case ac != bc:
			return ac
		default:
			return a.Index < b.Index
		}
	})

	rows := make([]Row, len(sorted))
	for i, o := range sorted {
		rows[i] = Row{Rank: i + 1, Outcome: o}
	}
	return rows
}

// Fastest returns the best completed outcome, if any.
func Fastest(rows []Row) (model.Outcome, bool) {
	if len(rows) == 0 || rows[0].Status != model.StatusCompleted {
		return model.Outcome{}, false
	}
	return rows[0].Outcome, true
}

// FormatMillis renders a duration the way the table does.
func FormatMillis(o model.Outcome) string {
	return fmt.Sprintf("%.2f ms", o.Millis())
}

// WriteText prints the ranked table followed by the fastest line.
func WriteText(w io.Writer, rows []Row) error {
	if _, err := fmt.Fprintln(w, "===== Results ====="); err != nil {
		return err
	}
	for _, r := range rows {
		var detail string
		switch r.Status {
		case model.StatusCompleted:
			detail = FormatMillis(r.Outcome)
		case model.StatusTimedOut:
			detail = "timed out"
		default:
			detail = fmt.Sprintf("failed (%s)", r.Reason)
		}
		if _, err := fmt.Fprintf(w, "%d. %s: %s\n", r.Rank, r.Name, detail); err != nil {
			return err
		}
	}

	if best, ok := Fastest(rows); ok {
		_, err := fmt.Fprintf(w, "\nFastest: %s (%s)\n", best.Name, FormatMillis(best))
		return err
	}
	_, err := fmt.Fprintln(w, "\nNo entrant completed successfully.")
	return err
}
