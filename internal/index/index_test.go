package index

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/bfloydd/coalesce/internal/apperr"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "coalesce-test-*.db")
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
	if err := db.conn.QueryRow(`SELECT count(*) FROM notes`).Scan(&count); err != nil {
		t.Fatalf("notes table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM links`).Scan(&count); err != nil {
		t.Fatalf("links table missing: %v", err)
	}
}

func TestUpsertAndGetChecksum(t *testing.T) {
	db := testDB(t)
	row := NoteRow{
		Path:      "hello.md",
		Title:     "Hello World",
		Checksum:  "abc123",
		Tags:      []string{"go", "test"},
		UpdatedAt: time.Now(),
	}
	if err := db.UpsertNote(row, "This is a hello world note.", []string{"Other"}); err != nil {
		t.Fatalf("UpsertNote: %v", err)
	}
	cs, err := db.GetChecksum("hello.md")
	if err != nil {
		t.Fatalf("GetChecksum: %v", err)
	}
	if cs != "abc123" {
		t.Errorf("checksum = %q, want %q", cs, "abc123")
	}
}

func TestBacklinks_ByNoteName(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	// Two notes reference the "Target" stem, one references something else.
	_ = db.UpsertNote(NoteRow{Path: "a.md", Checksum: "1", Tags: []string{}, UpdatedAt: now}, "body", []string{"Target"})
	_ = db.UpsertNote(NoteRow{Path: "c.md", Checksum: "2", Tags: []string{}, UpdatedAt: now}, "body", []string{"Target", "Other"})
	_ = db.UpsertNote(NoteRow{Path: "d.md", Checksum: "3", Tags: []string{}, UpdatedAt: now}, "body", []string{"Other"})

	bl, err := db.Backlinks("Target")
	if err != nil {
		t.Fatalf("Backlinks: %v", err)
	}
	if len(bl) != 2 || bl[0] != "a.md" || bl[1] != "c.md" {
		t.Fatalf("backlinks = %v, want [a.md c.md]", bl)
	}
}

func TestDeleteNote(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{Path: "del.md", Checksum: "x", Tags: []string{}, UpdatedAt: time.Now()}, "body", []string{"Target"})

	if err := db.DeleteNote("del.md"); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	cs, _ := db.GetChecksum("del.md")
	if cs != "" {
		t.Errorf("deleted note still has checksum %q", cs)
	}
	bl, _ := db.Backlinks("Target")
	if len(bl) != 0 {
		t.Errorf("expected 0 backlinks after delete, got %d", len(bl))
	}
}

func TestUpsertUpdatesExisting(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertNote(NoteRow{Path: "up.md", Title: "Old", Checksum: "1", Tags: []string{}, UpdatedAt: now}, "old body", []string{"X"})
	_ = db.UpsertNote(NoteRow{Path: "up.md", Title: "New", Checksum: "2", Tags: []string{"new"}, UpdatedAt: now}, "new body", []string{"Y"})

	cs, _ := db.GetChecksum("up.md")
	if cs != "2" {
		t.Errorf("checksum = %q, want %q", cs, "2")
	}
	bl, _ := db.Backlinks("X")
	if len(bl) != 0 {
		t.Error("old link should be removed on upsert")
	}
	bl, _ = db.Backlinks("Y")
	if len(bl) != 1 {
		t.Error("new link should exist")
	}
}

func TestGetChecksum_NotFound(t *testing.T) {
	db := testDB(t)
	cs, err := db.GetChecksum("nonexistent.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs != "" {
		t.Errorf("expected empty checksum, got %q", cs)
	}
}

func TestGetNote(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertNote(NoteRow{Path: "g.md", Title: "G", Checksum: "1", Tags: []string{"t"}, UpdatedAt: now}, "body", nil)

	n, err := db.GetNote("g.md")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if n.Title != "G" || len(n.Tags) != 1 || n.Tags[0] != "t" {
		t.Errorf("note = %+v", n)
	}

	if _, err := db.GetNote("missing.md"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListNotes_PaginationAndTagFilter(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertNote(NoteRow{Path: "a.md", Title: "A", Checksum: "1", Tags: []string{"keep"}, UpdatedAt: now}, "", nil)
	_ = db.UpsertNote(NoteRow{Path: "b.md", Title: "B", Checksum: "2", Tags: []string{"keep"}, UpdatedAt: now}, "", nil)
	_ = db.UpsertNote(NoteRow{Path: "c.md", Title: "C", Checksum: "3", Tags: []string{"drop"}, UpdatedAt: now}, "", nil)

	rows, total, err := db.ListNotes(10, 0, "keep", "path")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("total = %d, rows = %d, want 2/2", total, len(rows))
	}
	if rows[0].Path != "a.md" || rows[1].Path != "b.md" {
		t.Errorf("rows = %v", rows)
	}

	rows, total, err = db.ListNotes(1, 1, "", "path")
	if err != nil {
		t.Fatalf("ListNotes page: %v", err)
	}
	if total != 3 || len(rows) != 1 || rows[0].Path != "b.md" {
		t.Errorf("page = %v (total %d)", rows, total)
	}
}

func TestAllChecksums(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertNote(NoteRow{Path: "x.md", Checksum: "cx", Tags: []string{}, UpdatedAt: now}, "", nil)
	_ = db.UpsertNote(NoteRow{Path: "y.md", Checksum: "cy", Tags: []string{}, UpdatedAt: now}, "", nil)

	cs, err := db.AllChecksums()
	if err != nil {
		t.Fatalf("AllChecksums: %v", err)
	}
	if len(cs) != 2 || cs["x.md"] != "cx" || cs["y.md"] != "cy" {
		t.Errorf("checksums = %v", cs)
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{Path: "s.md", Title: "Search Me", Checksum: "1", Tags: []string{}, UpdatedAt: time.Now()}, "uniqueword appears here", nil)

	results, err := db.Search("uniqueword", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Path != "s.md" {
		t.Errorf("search results = %+v, want 1 hit for s.md", results)
	}
}
