// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists the audit log of search sessions and per-paper
// download outcomes in SQLite. Rows are only ever inserted.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/scholar-fetch/pkg/types"
)

// DefaultDBPath is used when no database path is configured.
const DefaultDBPath = "search_history.db"

// Store manages the search history database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the history database at cfg.DBPath and creates the
// schema if it does not exist.
func Open(cfg types.HistoryConfig) (*Store, error) {
	path := cfg.DBPath
	if path == "" {
		path = DefaultDBPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS searches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			query TEXT NOT NULL,
			bulk BOOLEAN NOT NULL DEFAULT 0,
			max_pages INTEGER NOT NULL,
			max_results_per_page INTEGER NOT NULL,
			sort TEXT NOT NULL,
			min_citation_count INTEGER NOT NULL,
			fields_of_study TEXT,
			publication_date_or_year TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS papers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			search_id INTEGER NOT NULL REFERENCES searches(id),
			paper_id TEXT,
			title TEXT,
			authors TEXT,
			year INTEGER,
			url TEXT,
			pdf_url TEXT,
			download_path TEXT,
			download_method TEXT,
			download_success BOOLEAN NOT NULL,
			download_timestamp TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_search_id ON papers(search_id)`,
		`CREATE INDEX IF NOT EXISTS idx_searches_session_id ON searches(session_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordSearch inserts one row for a session and returns its search ID.
func (s *Store) RecordSearch(ctx context.Context, sess types.Session) (int64, error) {
	p := sess.Params
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO searches (
			session_id, query, bulk, max_pages, max_results_per_page, sort,
			min_citation_count, fields_of_study, publication_date_or_year, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, p.Query, p.Bulk, p.MaxPages, p.MaxResultsPerPage, p.Sort,
		p.MinCitationCount, nullIfEmpty(strings.Join(p.FieldsOfStudy, ",")),
		nullIfEmpty(p.PublicationDateOrYear), s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting search %s: %w", sess.ID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading search id: %w", err)
	}
	return id, nil
}

// RecordPaper inserts one row for an attempted paper. The download
// timestamp is only set when a file was produced.
func (s *Store) RecordPaper(ctx context.Context, searchID int64, p *types.Paper, o types.Outcome) error {
	var ts any
	if o.Success() {
		ts = s.now().UTC().Format(time.RFC3339Nano)
	}
	var year any
	if p.Year > 0 {
		year = p.Year
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO papers (
			search_id, paper_id, title, authors, year, url, pdf_url,
			download_path, download_method, download_success, download_timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		searchID, p.PaperID, p.Title, p.AuthorNames(), year, nullIfEmpty(p.URL),
		nullIfEmpty(p.OpenAccessURL()), nullIfEmpty(o.Path), nullIfEmpty(string(o.Method)),
		o.Success(), ts,
	)
	if err != nil {
		return fmt.Errorf("inserting paper %q: %w", p.Title, err)
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
