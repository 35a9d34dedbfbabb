// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scholar-fetch/pkg/types"
)

// ResultsFile is the on-disk form of a session's search results. A saved
// file can be downloaded again later without re-querying the API.
type ResultsFile struct {
	Session types.Session  `yaml:"session"`
	Papers  []types.Paper  `yaml:"papers"`
	Summary ResultsSummary `yaml:"summary"`
}

// ResultsSummary records when and how many results were saved.
type ResultsSummary struct {
	Total     int       `yaml:"total"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteResultsFile saves the session and its papers to path as YAML.
func WriteResultsFile(path string, sess types.Session, papers []types.Paper, now time.Time) error {
	rf := ResultsFile{
		Session: sess,
		Papers:  papers,
		Summary: ResultsSummary{Total: len(papers), Timestamp: now.UTC()},
	}
	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling results file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing results file: %w", err)
	}
	return nil
}

// ReadResultsFile loads a file written by WriteResultsFile. The stored
// parameters are normalized and validated so they can drive a new session.
func ReadResultsFile(path string) (*ResultsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading results file: %w", err)
	}
	var rf ResultsFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing results file: %w", err)
	}
	rf.Session.Params = rf.Session.Params.Normalize()
	if err := rf.Session.Params.Validate(); err != nil {
		return nil, fmt.Errorf("results file %s: %w", path, err)
	}
	return &rf, nil
}
