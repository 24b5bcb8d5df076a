package notes

import (
	"path/filepath"
	"testing"
	"time"
)

func testBook(t *testing.T) *Book {
	t.Helper()
	return NewBook(filepath.Join(t.TempDir(), "notes.json"))
}

func TestAddAndListPerPaper(t *testing.T) {
	t.Parallel()

	book := testBook(t)

	first, err := book.Add("p1", "re-read the ablation section")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := book.Add("p2", "unrelated paper"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := book.Add("p1", "compare against baseline"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got, err := book.ForPaper("p1")
	if err != nil {
		t.Fatalf("ForPaper() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 notes for p1, got %d", len(got))
	}
	if got[0].ID != first.ID || got[0].Text != "re-read the ablation section" {
		t.Fatalf("notes out of order: %+v", got)
	}
	if got[1].Text != "compare against baseline" {
		t.Fatalf("unexpected second note: %+v", got[1])
	}
}

func TestEditReplacesText(t *testing.T) {
	t.Parallel()

	book := testBook(t)
	note, err := book.Add("p1", "tpyo")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := book.Edit(note.ID, "typo fixed"); err != nil {
		t.Fatalf("Edit() error = %v", err)
	}

	got, err := book.ForPaper("p1")
	if err != nil {
		t.Fatalf("ForPaper() error = %v", err)
	}
	if len(got) != 1 || got[0].Text != "typo fixed" {
		t.Fatalf("edit not persisted: %+v", got)
	}

	if err := book.Edit("missing-id", "whatever"); err == nil {
		t.Fatal("expected error editing an unknown note")
	}
}

func TestDeleteRemovesOnlyTarget(t *testing.T) {
	t.Parallel()

	book := testBook(t)
	keep, err := book.Add("p1", "keep me")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	drop, err := book.Add("p1", "drop me")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := book.Delete(drop.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := book.Delete("missing-id"); err != nil {
		t.Fatalf("Delete() of unknown id should be a no-op, got %v", err)
	}

	got, err := book.ForPaper("p1")
	if err != nil {
		t.Fatalf("ForPaper() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != keep.ID {
		t.Fatalf("unexpected notes after delete: %+v", got)
	}
}

func TestForPaperMissingFile(t *testing.T) {
	t.Parallel()

	book := testBook(t)
	got, err := book.ForPaper("p1")
	if err != nil {
		t.Fatalf("ForPaper() on missing file error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no notes, got %+v", got)
	}
}

func TestDisplayDate(t *testing.T) {
	t.Parallel()

	n := Note{CreatedAt: time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)}
	if got := n.DisplayDate(); got != "Mar 5, 2026" {
		t.Fatalf("DisplayDate() = %q", got)
	}
}
