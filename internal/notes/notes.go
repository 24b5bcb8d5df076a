// Package notes stores per-paper annotations in a JSON file. Notes are a
// purely client-side feature; they never travel to the backend.
package notes

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Note is one annotation attached to a paper.
type Note struct {
	ID        string    `json:"id"`
	PaperID   string    `json:"paperId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// DisplayDate formats the creation time the way the detail panel shows it.
func (n Note) DisplayDate() string {
	return n.CreatedAt.Format("Jan 2, 2006")
}

// Book is a handle on the notes file.
type Book struct {
	path string
}

// NewBook returns a Book backed by the given file. The file is created on
// first write.
func NewBook(path string) *Book {
	return &Book{path: path}
}

// ForPaper returns the notes attached to one paper, in insertion order.
func (b *Book) ForPaper(paperID string) ([]Note, error) {
	all, err := b.load()
	if err != nil {
		return nil, err
	}
	out := []Note{}
	for _, n := range all {
		if n.PaperID == paperID {
			out = append(out, n)
		}
	}
	return out, nil
}

// Add appends a new note for a paper and returns it.
func (b *Book) Add(paperID, text string) (Note, error) {
	note := Note{
		ID:        uuid.New().String(),
		PaperID:   paperID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	all, err := b.load()
	if err != nil {
		return Note{}, err
	}
	all = append(all, note)
	if err := b.write(all); err != nil {
		return Note{}, err
	}
	return note, nil
}

// Edit replaces the text of an existing note.
func (b *Book) Edit(noteID, text string) error {
	all, err := b.load()
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].ID == noteID {
			all[i].Text = text
			return b.write(all)
		}
	}
	return fmt.Errorf("note %s not found", noteID)
}

// Delete removes a note. Deleting an unknown id is a no-op.
func (b *Book) Delete(noteID string) error {
	all, err := b.load()
	if err != nil {
		return err
	}
	kept := all[:0]
	for _, n := range all {
		if n.ID != noteID {
			kept = append(kept, n)
		}
	}
	if len(kept) == len(all) {
		return nil
	}
	return b.write(kept)
}

func (b *Book) load() ([]Note, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var all []Note
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func (b *Book) write(all []Note) error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(b.path, data, 0o644)
}
