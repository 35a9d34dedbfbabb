package types

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAccessPDFShapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"object", `{"openAccessPdf": {"url": "https://example.com/paper.pdf", "status": "GOLD"}}`, "https://example.com/paper.pdf"},
		{"bare string", `{"openAccessPdf": "https://example.com/bare.pdf"}`, "https://example.com/bare.pdf"},
		{"null", `{"openAccessPdf": null}`, ""},
		{"missing", `{}`, ""},
		{"object without url", `{"openAccessPdf": {"status": "CLOSED"}}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Paper
			require.NoError(t, json.Unmarshal([]byte(tt.in), &p))
			assert.Equal(t, tt.want, p.OpenAccessURL())
		})
	}
}

func TestOpenAccessPDFRejectsGarbage(t *testing.T) {
	var p Paper
	err := json.Unmarshal([]byte(`{"openAccessPdf": 42}`), &p)
	require.Error(t, err)
}

func TestPaperAccessorsOnNil(t *testing.T) {
	var p *Paper
	assert.Equal(t, "", p.OpenAccessURL())
	assert.Equal(t, "", p.ExternalID("ArXiv"))
	assert.Equal(t, "", p.AuthorNames())
}

func TestAuthorNamesSkipsBlank(t *testing.T) {
	p := Paper{Authors: []Author{{Name: "Ada Lovelace"}, {Name: ""}, {Name: "Alan Turing"}}}
	assert.Equal(t, "Ada Lovelace, Alan Turing", p.AuthorNames())
}

func TestSearchParamsNormalize(t *testing.T) {
	bulk := SearchParams{Bulk: true, MaxResultsPerPage: 10, Sort: SortCitationCountDesc}.Normalize()
	assert.Equal(t, BulkResultsPerPage, bulk.MaxResultsPerPage)
	assert.Equal(t, SortCitationCountDesc, bulk.Sort)

	relevance := SearchParams{MaxResultsPerPage: 10, Sort: SortCitationCountDesc}.Normalize()
	assert.Equal(t, 10, relevance.MaxResultsPerPage)
	assert.Equal(t, SortRelevanceDesc, relevance.Sort)
}

func TestSearchParamsValidate(t *testing.T) {
	valid := SearchParams{Query: "q", MaxPages: 1, MaxResultsPerPage: 10, Sort: SortRelevanceDesc}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*SearchParams)
		errMsg string
	}{
		{"empty query", func(p *SearchParams) { p.Query = "  " }, "query is empty"},
		{"zero pages", func(p *SearchParams) { p.MaxPages = 0 }, "max pages"},
		{"too many per page", func(p *SearchParams) { p.MaxResultsPerPage = 1001 }, "max results per page"},
		{"negative citations", func(p *SearchParams) { p.MinCitationCount = -1 }, "min citation count"},
		{"bad sort", func(p *SearchParams) { p.Sort = "title:asc" }, "unsupported sort"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSessionOutputDir(t *testing.T) {
	s := Session{
		ID: "test_session",
		Params: SearchParams{
			Query:             "machine learning",
			MaxPages:          5,
			MaxResultsPerPage: 10,
			Sort:              SortRelevanceDesc,
		},
	}
	want := filepath.Join("test_papers", "machine_learning",
		"top_5_pages_10_per_page_sort_by_relevance_desc_min_citation_count_0", "test_session")
	assert.Equal(t, want, s.OutputDir("test_papers"))

	s.Params.Query = "graph nets: a survey!  "
	s.Params.FieldsOfStudy = []string{"Computer Science", "Biology"}
	s.Params.PublicationDateOrYear = "2019:2023"
	s.Params.MinCitationCount = 5
	want = filepath.Join("papers", "graph_nets_a_survey",
		"top_5_pages_10_per_page_sort_by_relevance_desc_min_citation_count_5_fos_Computer Science_Biology_date_2019_to_2023",
		"test_session")
	assert.Equal(t, want, s.OutputDir("papers"))
}

func TestNewSessionID(t *testing.T) {
	ts := time.Date(2025, 3, 9, 14, 5, 7, 0, time.UTC)
	assert.Equal(t, "20250309_140507", NewSessionID(ts))
}

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Attention Is All You Need", "Attention Is All You Need"},
		{"BERT: Pre-training of Deep Bidirectional Transformers", "BERT Pre-training of Deep Bidirectional Transformers"},
		{"a/b\\c?d*e", "abcde"},
		{"  spaced_out  ", "spaced_out"},
		{"Über Größe", "Über Größe"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeFilename(tt.in))
		})
	}
}
