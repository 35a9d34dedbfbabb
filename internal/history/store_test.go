// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholar-fetch/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.HistoryConfig{DBPath: filepath.Join(t.TempDir(), "db", "history.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	return s
}

func testSession() types.Session {
	return types.Session{
		ID: "20250102_030405",
		Params: types.SearchParams{
			Query:                 "graph neural networks",
			MaxPages:              2,
			MaxResultsPerPage:     10,
			Sort:                  types.SortRelevanceDesc,
			MinCitationCount:      3,
			FieldsOfStudy:         []string{"Computer Science", "Biology"},
			PublicationDateOrYear: "2019:2023",
		},
	}
}

func TestRecordSearchRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, err := s.RecordSearch(ctx, testSession())
	require.NoError(t, err)
	assert.Positive(t, id)

	searches, err := s.Searches(ctx, 0)
	require.NoError(t, err)
	require.Len(t, searches, 1)

	got := searches[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, testSession(), got.Session)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), got.CreatedAt)
	assert.Zero(t, got.Attempted)
	assert.Zero(t, got.Succeeded)
}

func TestRecordSearchOptionalFieldsNull(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	sess := testSession()
	sess.Params.FieldsOfStudy = nil
	sess.Params.PublicationDateOrYear = ""
	_, err := s.RecordSearch(ctx, sess)
	require.NoError(t, err)

	var fos, date any
	require.NoError(t, s.db.QueryRow(`SELECT fields_of_study, publication_date_or_year FROM searches`).Scan(&fos, &date))
	assert.Nil(t, fos)
	assert.Nil(t, date)
}

func TestRecordPaperSuccessAndFailure(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	searchID, err := s.RecordSearch(ctx, testSession())
	require.NoError(t, err)

	ok := &types.Paper{
		PaperID: "abc",
		Title:   "Attention Is All You Need",
		Authors: []types.Author{{Name: "Ashish Vaswani"}, {Name: "Noam Shazeer"}},
		Year:    2017,
		URL:     "https://www.semanticscholar.org/paper/abc",
		OpenAccessPDF: &types.OpenAccessPDF{
			URL: "https://arxiv.org/pdf/1706.03762",
		},
	}
	failed := &types.Paper{PaperID: "def", Title: "Lost Paper"}

	require.NoError(t, s.RecordPaper(ctx, searchID, ok, types.Outcome{Path: "/tmp/Attention Is All You Need.pdf", Method: types.MethodArchive}))
	require.NoError(t, s.RecordPaper(ctx, searchID, failed, types.Outcome{}))

	papers, err := s.Papers(ctx, searchID)
	require.NoError(t, err)
	require.Len(t, papers, 2)

	first := papers[0]
	assert.Equal(t, "abc", first.PaperID)
	assert.Equal(t, "Ashish Vaswani, Noam Shazeer", first.Authors)
	assert.Equal(t, 2017, first.Year)
	assert.Equal(t, "https://arxiv.org/pdf/1706.03762", first.PDFURL)
	assert.Equal(t, "/tmp/Attention Is All You Need.pdf", first.Path)
	assert.Equal(t, types.MethodArchive, first.Method)
	assert.True(t, first.Success)
	require.NotNil(t, first.DownloadedAt)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), *first.DownloadedAt)

	second := papers[1]
	assert.Equal(t, "Lost Paper", second.Title)
	assert.False(t, second.Success)
	assert.Empty(t, second.Path)
	assert.Equal(t, types.MethodNone, second.Method)
	assert.Nil(t, second.DownloadedAt, "timestamp is only set when a path was produced")
	assert.Zero(t, second.Year)

	searches, err := s.Searches(ctx, 0)
	require.NoError(t, err)
	require.Len(t, searches, 1)
	assert.Equal(t, 2, searches[0].Attempted)
	assert.Equal(t, 1, searches[0].Succeeded)
}

func TestRecordPaperRequiresSearch(t *testing.T) {
	s := testStore(t)
	err := s.RecordPaper(context.Background(), 999, &types.Paper{Title: "Orphan"}, types.Outcome{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Orphan")
}

func TestSearchesNewestFirstWithLimit(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, id := range []string{"s1", "s2", "s3"} {
		sess := testSession()
		sess.ID = id
		_, err := s.RecordSearch(ctx, sess)
		require.NoError(t, err)
	}

	got, err := s.Searches(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "s3", got[0].Session.ID)
	assert.Equal(t, "s2", got[1].Session.ID)
}

func TestOpenReusesExistingSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	s1, err := Open(types.HistoryConfig{DBPath: path})
	require.NoError(t, err)
	_, err = s1.RecordSearch(ctx, testSession())
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(types.HistoryConfig{DBPath: path})
	require.NoError(t, err)
	defer s2.Close()

	searches, err := s2.Searches(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, searches, 1)
}
