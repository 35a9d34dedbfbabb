// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scholar-fetch/pkg/types"
)

// SummaryFile is the name of the session summary inside the session directory.
const SummaryFile = "summary.yaml"

// Summary describes a finished session.
type Summary struct {
	Session     types.Session `yaml:"session"`
	Found       int           `yaml:"papers_found"`
	Stats       Stats         `yaml:"stats"`
	SuccessRate float64       `yaml:"success_rate"`
	CompletedAt time.Time     `yaml:"completed_at"`
}

// NewSummary captures the Downloader's current statistics.
func NewSummary(sess types.Session, found int, d *Downloader, completedAt time.Time) Summary {
	s := d.Stats()
	return Summary{
		Session:     sess,
		Found:       found,
		Stats:       s,
		SuccessRate: s.SuccessRate(),
		CompletedAt: completedAt.UTC(),
	}
}

// WriteSummary writes s to dir/summary.yaml.
func WriteSummary(dir string, s Summary) error {
	data, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	path := filepath.Join(dir, SummaryFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing summary %s: %w", path, err)
	}
	return nil
}

// ReadSummary reads a summary written by WriteSummary.
func ReadSummary(dir string) (Summary, error) {
	data, err := os.ReadFile(filepath.Join(dir, SummaryFile))
	if err != nil {
		return Summary{}, err
	}
	var s Summary
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Summary{}, fmt.Errorf("parsing summary: %w", err)
	}
	return s, nil
}
