package report

import (
	"fmt"
	"io"
	"time"

	"github.com/vk/langbench/internal/model"
	"gopkg.in/yaml.v3"
)

// Meta describes the run a report belongs to.
type Meta struct {
	RunID     string    `yaml:"run_id"`
	StartedAt time.Time `yaml:"started_at"`
	BenchDir  string    `yaml:"bench_dir"`
	Mode      string    `yaml:"mode"`
	Timeout   string    `yaml:"timeout"`
}

type yamlRow struct {
	Rank       int      `yaml:"rank"`
	Name       string   `yaml:"name"`
	Label      string   `yaml:"label"`
	Status     string   `yaml:"status"`
	DurationMS *float64 `yaml:"duration_ms,omitempty"`
	Reason     string   `yaml:"reason,omitempty"`
}

type yamlDocument struct {
	Meta    Meta      `yaml:"run"`
	Fastest string    `yaml:"fastest,omitempty"`
	Results []yamlRow `yaml:"results"`
}

// WriteYAML writes a machine-readable copy of the ranking.
func WriteYAML(w io.Writer, meta Meta, rows []Row) error {
	doc := yamlDocument{Meta: meta, Results: make([]yamlRow, 0, len(rows))}
	if best, ok := Fastest(rows); ok {
		doc.Fastest = best.Name
	}
	for _, r := range rows {
		yr := yamlRow{Rank: r.Rank, Name: r.Name, Label: r.Label, Status: r.Status.String(), Reason: r.Reason}
		if r.Status == model.StatusCompleted {
			ms := r.Millis()
			yr.DurationMS = &ms
		}
		doc.Results = append(doc.Results, yr)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding yaml report: %w", err)
	}
	return enc.Close()
}
