// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholar-fetch/pkg/types"
)

func TestResultsFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.yaml")
	sess := types.Session{
		ID:     "20260102_030405",
		Params: relevanceParamsFor(2, 25),
	}
	papers := []types.Paper{
		{
			PaperID:       "p1",
			Title:         "Attention Is All You Need",
			Authors:       []types.Author{{Name: "Ashish Vaswani"}},
			Year:          2017,
			IsOpenAccess:  true,
			OpenAccessPDF: &types.OpenAccessPDF{URL: "https://arxiv.org/pdf/1706.03762"},
			Journal:       &types.Journal{Name: "ArXiv", Volume: "abs/1706.03762"},
			ExternalIDs:   map[string]any{"ArXiv": "1706.03762", "CorpusId": 13756489},
		},
		{PaperID: "p2", Title: "No Sources"},
	}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, WriteResultsFile(path, sess, papers, now))
	rf, err := ReadResultsFile(path)
	require.NoError(t, err)

	assert.Equal(t, sess, rf.Session)
	assert.Equal(t, 2, rf.Summary.Total)
	assert.True(t, now.Equal(rf.Summary.Timestamp))
	require.Len(t, rf.Papers, 2)
	assert.Equal(t, "https://arxiv.org/pdf/1706.03762", rf.Papers[0].OpenAccessURL())
	assert.Equal(t, "1706.03762", rf.Papers[0].ExternalID("ArXiv"))
	assert.Equal(t, "13756489", rf.Papers[0].ExternalID("CorpusId"))
	assert.Nil(t, rf.Papers[1].Journal)
}

func TestReadResultsFileRejectsInvalidParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.yaml")
	require.NoError(t, os.WriteFile(path, []byte("session:\n  session_id: x\n  params:\n    query: \"\"\n"), 0o644))

	_, err := ReadResultsFile(path)
	assert.Error(t, err)
}

func TestReadResultsFileMissing(t *testing.T) {
	_, err := ReadResultsFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
