// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for scholar-fetch: the paper
// records returned by Semantic Scholar, the search session and its
// parameters, and per-stage configuration.
package types

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// Sort orders accepted by the Semantic Scholar search endpoints.
const (
	SortCitationCountDesc   = "citationCount:desc"
	SortRelevanceDesc       = "relevance:desc"
	SortPublicationDateDesc = "publicationDate:desc"
	SortPublicationDateAsc  = "publicationDate:asc"
)

// BulkResultsPerPage is the page size used by the bulk search endpoint.
const BulkResultsPerPage = 1000

// sessionIDLayout formats session IDs, e.g. "20250102_150405".
const sessionIDLayout = "20060102_150405"

// ValidSorts lists the sort orders accepted by Validate.
var ValidSorts = []string{
	SortCitationCountDesc,
	SortRelevanceDesc,
	SortPublicationDateDesc,
	SortPublicationDateAsc,
}

// SearchParams holds the query parameters of one search session.
type SearchParams struct {
	Query                 string   `json:"query" yaml:"query"`
	Bulk                  bool     `json:"bulk" yaml:"bulk"`
	MaxPages              int      `json:"max_pages" yaml:"max_pages"`
	MaxResultsPerPage     int      `json:"max_results_per_page" yaml:"max_results_per_page"`
	Sort                  string   `json:"sort" yaml:"sort"`
	MinCitationCount      int      `json:"min_citation_count" yaml:"min_citation_count"`
	FieldsOfStudy         []string `json:"fields_of_study,omitempty" yaml:"fields_of_study,omitempty"`
	PublicationDateOrYear string   `json:"publication_date_or_year,omitempty" yaml:"publication_date_or_year,omitempty"`
}

// Validate rejects parameter sets the search API cannot serve.
func (p SearchParams) Validate() error {
	if strings.TrimSpace(p.Query) == "" {
		return fmt.Errorf("query is empty")
	}
	if p.MaxPages < 1 {
		return fmt.Errorf("max pages must be at least 1, got %d", p.MaxPages)
	}
	if p.MaxResultsPerPage < 1 || p.MaxResultsPerPage > BulkResultsPerPage {
		return fmt.Errorf("max results per page must be between 1 and %d, got %d", BulkResultsPerPage, p.MaxResultsPerPage)
	}
	if p.MinCitationCount < 0 {
		return fmt.Errorf("min citation count must not be negative, got %d", p.MinCitationCount)
	}
	for _, s := range ValidSorts {
		if p.Sort == s {
			return nil
		}
	}
	return fmt.Errorf("unsupported sort %q (want one of %s)", p.Sort, strings.Join(ValidSorts, ", "))
}

// Normalize applies the endpoint rules: bulk search always pages by
// BulkResultsPerPage, and relevance search ignores the requested sort.
func (p SearchParams) Normalize() SearchParams {
	if p.Bulk {
		p.MaxResultsPerPage = BulkResultsPerPage
	} else {
		p.Sort = SortRelevanceDesc
	}
	return p
}

// Session is one search-and-download run.
type Session struct {
	ID     string       `json:"session_id" yaml:"session_id"`
	Params SearchParams `json:"params" yaml:"params"`
}

// NewSessionID derives a session ID from t.
func NewSessionID(t time.Time) string {
	return t.Format(sessionIDLayout)
}

// OutputDir returns the directory that holds the session's PDFs. Each
// distinct parameter set gets its own subtree and each session its own leaf.
func (s Session) OutputDir(root string) string {
	p := s.Params
	safeQuery := strings.ReplaceAll(strings.TrimRightFunc(keepFilenameRunes(p.Query), unicode.IsSpace), " ", "_")

	var b strings.Builder
	fmt.Fprintf(&b, "top_%d_pages_%d_per_page_sort_by_%s_min_citation_count_%d",
		p.MaxPages, p.MaxResultsPerPage, strings.ReplaceAll(p.Sort, ":", "_"), p.MinCitationCount)
	if len(p.FieldsOfStudy) > 0 {
		b.WriteString("_fos_" + strings.Join(p.FieldsOfStudy, "_"))
	}
	if p.PublicationDateOrYear != "" {
		b.WriteString("_date_" + strings.ReplaceAll(p.PublicationDateOrYear, ":", "_to_"))
	}

	return filepath.Join(root, safeQuery, b.String(), s.ID)
}

// keepFilenameRunes drops every rune that is not a letter, digit, space,
// hyphen or underscore.
func keepFilenameRunes(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SafeFilename converts a title into a filename stem: only letters, digits,
// spaces, hyphens and underscores survive, and trailing whitespace is
// trimmed.
func SafeFilename(title string) string {
	return strings.TrimSpace(keepFilenameRunes(title))
}
