// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/scholar-fetch/pkg/types"
)

// SearchRecord is one stored session with its outcome counts.
type SearchRecord struct {
	ID        int64         `json:"id"`
	Session   types.Session `json:"session"`
	CreatedAt time.Time     `json:"created_at"`
	Attempted int           `json:"attempted"`
	Succeeded int           `json:"succeeded"`
}

// PaperRecord is one stored paper attempt.
type PaperRecord struct {
	ID           int64        `json:"id"`
	SearchID     int64        `json:"search_id"`
	PaperID      string       `json:"paper_id"`
	Title        string       `json:"title"`
	Authors      string       `json:"authors"`
	Year         int          `json:"year,omitempty"`
	URL          string       `json:"url,omitempty"`
	PDFURL       string       `json:"pdf_url,omitempty"`
	Path         string       `json:"download_path,omitempty"`
	Method       types.Method `json:"download_method,omitempty"`
	Success      bool         `json:"download_success"`
	DownloadedAt *time.Time   `json:"download_timestamp,omitempty"`
}

// Searches returns the most recent sessions first. A limit of 0 or less
// returns all sessions.
func (s *Store) Searches(ctx context.Context, limit int) ([]SearchRecord, error) {
	query := `
		SELECT s.id, s.session_id, s.query, s.bulk, s.max_pages, s.max_results_per_page,
		       s.sort, s.min_citation_count, s.fields_of_study, s.publication_date_or_year,
		       s.created_at, COUNT(p.id), COALESCE(SUM(p.download_success), 0)
		FROM searches s
		LEFT JOIN papers p ON p.search_id = s.id
		GROUP BY s.id
		ORDER BY s.id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying searches: %w", err)
	}
	defer rows.Close()

	var out []SearchRecord
	for rows.Next() {
		var (
			r         SearchRecord
			fos, date sql.NullString
			created   string
		)
		p := &r.Session.Params
		if err := rows.Scan(&r.ID, &r.Session.ID, &p.Query, &p.Bulk, &p.MaxPages, &p.MaxResultsPerPage,
			&p.Sort, &p.MinCitationCount, &fos, &date, &created, &r.Attempted, &r.Succeeded); err != nil {
			return nil, fmt.Errorf("scanning search row: %w", err)
		}
		if fos.Valid && fos.String != "" {
			p.FieldsOfStudy = strings.Split(fos.String, ",")
		}
		p.PublicationDateOrYear = date.String
		if t, parseErr := time.Parse(time.RFC3339Nano, created); parseErr == nil {
			r.CreatedAt = t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Papers returns the paper attempts of one search in insertion order.
func (s *Store) Papers(ctx context.Context, searchID int64) ([]PaperRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, search_id, paper_id, title, authors, year, url, pdf_url,
		       download_path, download_method, download_success, download_timestamp
		FROM papers
		WHERE search_id = ?
		ORDER BY id`, searchID)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var out []PaperRecord
	for rows.Next() {
		var (
			r                                    PaperRecord
			paperID, title, authors, url, pdfURL sql.NullString
			path, method, ts                     sql.NullString
			year                                 sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.SearchID, &paperID, &title, &authors, &year, &url, &pdfURL,
			&path, &method, &r.Success, &ts); err != nil {
			return nil, fmt.Errorf("scanning paper row: %w", err)
		}
		r.PaperID, r.Title, r.Authors = paperID.String, title.String, authors.String
		r.Year = int(year.Int64)
		r.URL, r.PDFURL = url.String, pdfURL.String
		r.Path, r.Method = path.String, types.Method(method.String)
		if ts.Valid {
			if t, parseErr := time.Parse(time.RFC3339Nano, ts.String); parseErr == nil {
				r.DownloadedAt = &t
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
