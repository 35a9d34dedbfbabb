// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Author is a paper author as returned by Semantic Scholar.
type Author struct {
	AuthorID string `json:"authorId,omitempty" yaml:"author_id,omitempty"`
	Name     string `json:"name" yaml:"name"`
}

// Journal carries the venue fields. Semantic Scholar reports arXiv preprints
// with Name "ArXiv" and the arXiv locator (e.g. "abs/2101.12345") in Volume.
type Journal struct {
	Name   string `json:"name" yaml:"name"`
	Volume string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Pages  string `json:"pages,omitempty" yaml:"pages,omitempty"`
}

// AlternateVersion is another location of the same paper.
type AlternateVersion struct {
	URL string `json:"url" yaml:"url"`
}

// OpenAccessPDF is the open-access PDF reference of a paper. The API returns
// either an object with a url field or, from some mirrors, a bare URL
// string; both decode into URL.
type OpenAccessPDF struct {
	URL    string `json:"url" yaml:"url"`
	Status string `json:"status,omitempty" yaml:"status,omitempty"`
}

// UnmarshalJSON accepts both the object and the bare string shape.
func (o *OpenAccessPDF) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding openAccessPdf string: %w", err)
		}
		o.URL = s
		return nil
	}
	type plain OpenAccessPDF
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decoding openAccessPdf object: %w", err)
	}
	*o = OpenAccessPDF(p)
	return nil
}

// Paper is one search hit from the Semantic Scholar Graph API. Every field
// except PaperID and Title may be missing.
type Paper struct {
	PaperID           string             `json:"paperId" yaml:"paper_id"`
	Title             string             `json:"title" yaml:"title"`
	Authors           []Author           `json:"authors" yaml:"authors"`
	Year              int                `json:"year" yaml:"year"`
	URL               string             `json:"url" yaml:"url"`
	CitationCount     int                `json:"citationCount" yaml:"citation_count"`
	IsOpenAccess      bool               `json:"isOpenAccess" yaml:"is_open_access"`
	OpenAccessPDF     *OpenAccessPDF     `json:"openAccessPdf" yaml:"open_access_pdf,omitempty"`
	Journal           *Journal           `json:"journal" yaml:"journal,omitempty"`
	ExternalIDs       map[string]any     `json:"externalIds" yaml:"external_ids,omitempty"`
	AlternateVersions []AlternateVersion `json:"alternateVersions,omitempty" yaml:"alternate_versions,omitempty"`
}

// OpenAccessURL returns the open-access PDF URL, or "" when the paper has none.
func (p *Paper) OpenAccessURL() string {
	if p == nil || p.OpenAccessPDF == nil {
		return ""
	}
	return strings.TrimSpace(p.OpenAccessPDF.URL)
}

// ExternalID returns the external identifier stored under name as a string.
// Numeric IDs (e.g. CorpusId) are formatted without a fractional part.
func (p *Paper) ExternalID(name string) string {
	if p == nil || p.ExternalIDs == nil {
		return ""
	}
	switch v := p.ExternalIDs[name].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return fmt.Sprintf("%.0f", v)
	case int:
		return fmt.Sprintf("%d", v)
	default:
		return ""
	}
}

// AuthorNames flattens the author list to "A, B, C".
func (p *Paper) AuthorNames() string {
	if p == nil {
		return ""
	}
	names := make([]string, 0, len(p.Authors))
	for _, a := range p.Authors {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return strings.Join(names, ", ")
}
