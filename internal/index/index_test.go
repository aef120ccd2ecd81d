package index

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/starford/quire/internal/apperr"
	"github.com/starford/quire/internal/compile"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "quire-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM documents`).Scan(&count); err != nil {
		t.Fatalf("documents table missing: %v", err)
	}
}

func TestUpsertAndGetChecksum(t *testing.T) {
	db := testDB(t)
	row := DocumentRow{
		Path:      "hello.qdoc",
		Title:     "Hello World",
		Checksum:  "abc123",
		Tags:      []string{"go", "test"},
		Lists:     1,
		Items:     2,
		UpdatedAt: time.Now(),
	}
	if err := db.UpsertDocument(row, "hello world", "<p>hello world</p>"); err != nil {
		t.Fatalf("UpsertDocument: %v", err)
	}
	cs, err := db.GetChecksum("hello.qdoc")
	if err != nil {
		t.Fatalf("GetChecksum: %v", err)
	}
	if cs != "abc123" {
		t.Errorf("checksum = %q, want %q", cs, "abc123")
	}

	got, err := db.GetDocument("hello.qdoc")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if got.Title != "Hello World" || got.Items != 2 || len(got.Tags) != 2 {
		t.Errorf("row = %+v", got)
	}
	html, err := db.GetHTML("hello.qdoc")
	if err != nil || html != "<p>hello world</p>" {
		t.Errorf("GetHTML = %q, %v", html, err)
	}
}

func TestPutCompiled(t *testing.T) {
	db := testDB(t)
	out, err := compile.Source([]byte("title: Terms\nevents:\n  - begin-list\n  - new-item\n  - text: one\n  - end-list\n"), compile.Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if err := db.PutCompiled("terms.qdoc", out, time.Now()); err != nil {
		t.Fatalf("PutCompiled: %v", err)
	}
	got, err := db.GetDocument("terms.qdoc")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if got.Checksum != out.Checksum || got.Lists != 1 || got.Items != 1 {
		t.Errorf("row = %+v", got)
	}
}

func TestGetDocument_NotFound(t *testing.T) {
	db := testDB(t)
	if _, err := db.GetDocument("missing.qdoc"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if _, err := db.GetHTML("missing.qdoc"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("html error = %v, want ErrNotFound", err)
	}
}

func TestDeleteDocument(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(DocumentRow{Path: "del.qdoc", Checksum: "x"}, "body", "")

	if err := db.DeleteDocument("del.qdoc"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	cs, _ := db.GetChecksum("del.qdoc")
	if cs != "" {
		t.Errorf("deleted document still has checksum %q", cs)
	}
}

func TestUpsertUpdatesExisting(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(DocumentRow{Path: "up.qdoc", Title: "Old", Checksum: "1"}, "old body", "")
	_ = db.UpsertDocument(DocumentRow{Path: "up.qdoc", Title: "New", Checksum: "2", Tags: []string{"new"}}, "new body", "")

	got, err := db.GetDocument("up.qdoc")
	if err != nil {
		t.Fatal(err)
	}
	if got.Checksum != "2" || got.Title != "New" {
		t.Errorf("row = %+v", got)
	}
	paths, _ := db.AllPaths()
	if len(paths) != 1 {
		t.Errorf("paths = %v", paths)
	}
}

func TestGetChecksum_NotFound(t *testing.T) {
	db := testDB(t)
	cs, err := db.GetChecksum("nonexistent.qdoc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs != "" {
		t.Errorf("expected empty checksum, got %q", cs)
	}
}

func TestListDocuments(t *testing.T) {
	db := testDB(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_ = db.UpsertDocument(DocumentRow{Path: "b.qdoc", Title: "alpha", Checksum: "1", Tags: []string{"ref"}, UpdatedAt: base}, "", "")
	_ = db.UpsertDocument(DocumentRow{Path: "a.qdoc", Title: "Charlie", Checksum: "2", UpdatedAt: base.Add(time.Hour)}, "", "")
	_ = db.UpsertDocument(DocumentRow{Path: "c.qdoc", Title: "bravo", Checksum: "3", Tags: []string{"ref", "draft"}, UpdatedAt: base.Add(2 * time.Hour)}, "", "")

	rows, total, err := db.ListDocuments(10, 0, "", "")
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if total != 3 || rows[0].Path != "a.qdoc" {
		t.Errorf("default order: total=%d first=%s", total, rows[0].Path)
	}

	rows, _, _ = db.ListDocuments(10, 0, "", SortTitle)
	if rows[0].Title != "alpha" || rows[1].Title != "bravo" {
		t.Errorf("title order = %s, %s", rows[0].Title, rows[1].Title)
	}

	rows, _, _ = db.ListDocuments(10, 0, "", SortUpdated)
	if rows[0].Path != "c.qdoc" {
		t.Errorf("updated order first = %s", rows[0].Path)
	}

	rows, total, _ = db.ListDocuments(1, 1, "ref", "")
	if total != 2 || len(rows) != 1 || rows[0].Path != "c.qdoc" {
		t.Errorf("tag page: total=%d rows=%+v", total, rows)
	}
}

func TestAllChecksums(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(DocumentRow{Path: "x.qdoc", Checksum: "cx"}, "", "")
	_ = db.UpsertDocument(DocumentRow{Path: "y.qdoc", Checksum: "cy"}, "", "")

	got, err := db.AllChecksums()
	if err != nil {
		t.Fatal(err)
	}
	if got["x.qdoc"] != "cx" || got["y.qdoc"] != "cy" || len(got) != 2 {
		t.Errorf("checksums = %v", got)
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(DocumentRow{Path: "s.qdoc", Title: "Search Me", Checksum: "1"}, "uniqueword appears here", "")

	results, err := db.Search("uniqueword", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Path != "s.qdoc" {
		t.Errorf("search results = %+v, want 1 hit for s.qdoc", results)
	}
}
