package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/starford/quire/internal/apperr"
	"github.com/starford/quire/internal/compile"
)

// DocumentRow represents a row in the documents table.
type DocumentRow struct {
	Path        string
	Title       string
	Checksum    string
	Tags        []string
	Paragraphs  int
	Lists       int
	Items       int
	Diagnostics int
	UpdatedAt   time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Sort orders accepted by ListDocuments.
const (
	SortPath    = "path"
	SortTitle   = "title"
	SortUpdated = "updated"
)

// UpsertDocument inserts or replaces a document and its FTS entry within a
// transaction.
func (db *DB) UpsertDocument(d DocumentRow, text, html string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if d.Tags == nil {
		d.Tags = []string{}
	}
	tagsJSON, _ := json.Marshal(d.Tags)
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = time.Now()
	}

	_, err = tx.Exec(`
		INSERT INTO documents (path, title, checksum, tags, text, html, paragraphs, lists, items, diagnostics, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title       = excluded.title,
			checksum    = excluded.checksum,
			tags        = excluded.tags,
			text        = excluded.text,
			html        = excluded.html,
			paragraphs  = excluded.paragraphs,
			lists       = excluded.lists,
			items       = excluded.items,
			diagnostics = excluded.diagnostics,
			updated_at  = excluded.updated_at
	`, d.Path, d.Title, d.Checksum, string(tagsJSON), text, html,
		d.Paragraphs, d.Lists, d.Items, d.Diagnostics, d.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("index: upsert document: %w", err)
	}

	// No-op when the FTS5 tag is absent.
	if err := ftsUpsert(tx, d.Path, d.Title, text, d.Tags); err != nil {
		return err
	}
	return tx.Commit()
}

// PutCompiled stores a compile result under path.
func (db *DB) PutCompiled(path string, out *compile.Output, updatedAt time.Time) error {
	return db.UpsertDocument(RowFor(path, out, updatedAt), out.Text, out.HTML)
}

// RowFor builds the row describing a compiled document.
func RowFor(path string, out *compile.Output, updatedAt time.Time) DocumentRow {
	return DocumentRow{
		Path:        path,
		Title:       out.Title,
		Checksum:    out.Checksum,
		Tags:        out.Tags,
		Paragraphs:  out.Stats.Paragraphs,
		Lists:       out.Stats.Lists,
		Items:       out.Stats.Items,
		Diagnostics: len(out.Diagnostics),
		UpdatedAt:   updatedAt,
	}
}

// DeleteDocument removes a document and its FTS entry.
func (db *DB) DeleteDocument(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	if _, err := tx.Exec(`DELETE FROM documents WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete document: %w", err)
	}
	return tx.Commit()
}

// GetChecksum returns the stored checksum for a document, or empty string if
// not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM documents WHERE path = ?`, path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: checksum: %w", err)
	}
	return cs, nil
}

const rowColumns = `path, title, checksum, tags, paragraphs, lists, items, diagnostics, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(s scanner) (DocumentRow, error) {
	var (
		r    DocumentRow
		tags string
	)
	if err := s.Scan(&r.Path, &r.Title, &r.Checksum, &tags, &r.Paragraphs, &r.Lists, &r.Items, &r.Diagnostics, &r.UpdatedAt); err != nil {
		return r, err
	}
	if err := json.Unmarshal([]byte(tags), &r.Tags); err != nil || r.Tags == nil {
		r.Tags = []string{}
	}
	return r, nil
}

// GetDocument returns the indexed row for path, or apperr.ErrNotFound.
func (db *DB) GetDocument(path string) (*DocumentRow, error) {
	r, err := scanRow(db.conn.QueryRow(`SELECT `+rowColumns+` FROM documents WHERE path = ?`, path))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get document: %w", err)
	}
	return &r, nil
}

// GetHTML returns the cached HTML rendering for path.
func (db *DB) GetHTML(path string) (string, error) {
	var out string
	err := db.conn.QueryRow(`SELECT html FROM documents WHERE path = ?`, path).Scan(&out)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperr.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("index: get html: %w", err)
	}
	return out, nil
}

// ListDocuments returns one page of documents and the total match count.
// tag filters on an exact tag; sort is one of SortPath, SortTitle or
// SortUpdated (newest first).
func (db *DB) ListDocuments(limit, offset int, tag, sort string) ([]DocumentRow, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var (
		where string
		args  []any
	)
	if tag != "" {
		quoted, _ := json.Marshal(strings.ToLower(tag))
		where = `WHERE tags LIKE ?`
		args = append(args, "%"+string(quoted)+"%")
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM documents `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count documents: %w", err)
	}

	order := "path ASC"
	switch sort {
	case SortTitle:
		order = "title COLLATE NOCASE ASC, path ASC"
	case SortUpdated:
		order = "updated_at DESC, path ASC"
	}

	rows, err := db.conn.Query(`SELECT `+rowColumns+` FROM documents `+where+` ORDER BY `+order+` LIMIT ? OFFSET ?`,
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list documents: %w", err)
	}
	defer rows.Close()

	out := []DocumentRow{}
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}

// AllPaths returns every indexed document path.
func (db *DB) AllPaths() (map[string]struct{}, error) {
	rows, err := db.conn.Query(`SELECT path FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("index: all paths: %w", err)
	}
	defer rows.Close()
	out := make(map[string]struct{})
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out[p] = struct{}{}
	}
	return out, rows.Err()
}

// AllChecksums maps every indexed path to its checksum.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}
