package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/linklens/ai-engine/models"
)

// linkColumns is the set of link fields a partial update may touch.
// Anything else in the payload is a programming error.
var linkColumns = map[string]struct{}{
	"url":         {},
	"title":       {},
	"description": {},
	"author":      {},
	"site_name":   {},
	"lang":        {},
	"favicon_url": {},
	"image_url":   {},
	"ai_summary":  {},
	"status":      {},
}

// SQLite is the local relational backend.
type SQLite struct {
	*sql.DB
	path string
}

// openDB opens a SQLite database at the given path with foreign keys on.
func openDB(dbPath string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return sqlDB, nil
}

// OpenSQLite opens or creates the link database at path and makes sure
// the schema exists.
func OpenSQLite(path string) (*SQLite, error) {
	sqlDB, err := openDB(path)
	if err != nil {
		return nil, err
	}

	s := &SQLite{DB: sqlDB, path: path}
	if err := s.InitSchema(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *SQLite) Path() string {
	return s.path
}

// InitSchema applies the schema. All statements are idempotent.
func (s *SQLite) InitSchema() error {
	_, err := s.Exec(schema)
	return err
}

// EnsureLink inserts the link row if it does not exist yet. An existing
// row is left untouched.
func (s *SQLite) EnsureLink(ctx context.Context, linkID, url string) error {
	_, err := s.ExecContext(ctx, `
		INSERT INTO links (link_id, url)
		VALUES (?, ?)
		ON CONFLICT(link_id) DO NOTHING
	`, linkID, url)
	if err != nil {
		return fmt.Errorf("failed to ensure link row: %w", err)
	}
	return nil
}

// UpdateLink applies a partial overwrite of the named fields, scoped by
// link_id. Keys are applied in sorted order so the generated statement
// is deterministic.
func (s *SQLite) UpdateLink(ctx context.Context, linkID string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		if _, ok := linkColumns[k]; !ok {
			return fmt.Errorf("unknown link column: %s", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	assignments := make([]string, 0, len(keys)+1)
	args := make([]any, 0, len(keys)+1)
	for _, k := range keys {
		assignments = append(assignments, k+" = ?")
		args = append(args, fields[k])
	}
	assignments = append(assignments, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, linkID)

	query := fmt.Sprintf("UPDATE links SET %s WHERE link_id = ?", strings.Join(assignments, ", "))
	if _, err := s.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update link: %w", err)
	}
	return nil
}

// UpsertContent writes the content row as a unit. Repeating the call
// with the same payload leaves a single identical row.
func (s *SQLite) UpsertContent(ctx context.Context, linkID string, content models.LinkContent) error {
	_, err := s.ExecContext(ctx, `
		INSERT INTO link_content (link_id, main_content_text, main_content_html, structured_data_json, raw_html)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(link_id) DO UPDATE SET
			main_content_text = excluded.main_content_text,
			main_content_html = excluded.main_content_html,
			structured_data_json = excluded.structured_data_json,
			raw_html = excluded.raw_html,
			updated_at = CURRENT_TIMESTAMP
	`, linkID, content.MainContentText, content.MainContentHTML, content.StructuredDataJSON, content.RawHTML)
	if err != nil {
		return fmt.Errorf("failed to upsert link content: %w", err)
	}
	return nil
}

// SetStatus records a status transition on the link row.
func (s *SQLite) SetStatus(ctx context.Context, linkID string, status models.Status) error {
	return s.UpdateLink(ctx, linkID, map[string]any{"status": string(status)})
}

// GetLink reads a link row back. Used by tests and diagnostics.
func (s *SQLite) GetLink(ctx context.Context, linkID string) (*models.LinkRecord, error) {
	var rec models.LinkRecord
	var title, description, author, siteName, lang, faviconURL, imageURL, aiSummary, status sql.NullString
	err := s.QueryRowContext(ctx, `
		SELECT link_id, url, title, description, author, site_name, lang,
		       favicon_url, image_url, ai_summary, status, created_at, updated_at
		FROM links WHERE link_id = ?
	`, linkID).Scan(
		&rec.LinkID, &rec.URL, &title, &description, &author, &siteName, &lang,
		&faviconURL, &imageURL, &aiSummary, &status, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	rec.Title = title.String
	rec.Description = description.String
	rec.Author = author.String
	rec.SiteName = siteName.String
	rec.Lang = lang.String
	rec.FaviconURL = faviconURL.String
	rec.ImageURL = imageURL.String
	rec.AISummary = aiSummary.String
	rec.Status = models.Status(status.String)
	return &rec, nil
}

// GetContent reads the content row back. Used by tests and diagnostics.
func (s *SQLite) GetContent(ctx context.Context, linkID string) (*models.LinkContent, error) {
	var content models.LinkContent
	err := s.QueryRowContext(ctx, `
		SELECT link_id, main_content_text, main_content_html, structured_data_json, raw_html
		FROM link_content WHERE link_id = ?
	`, linkID).Scan(
		&content.LinkID, &content.MainContentText, &content.MainContentHTML,
		&content.StructuredDataJSON, &content.RawHTML,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get link content: %w", err)
	}
	return &content, nil
}
