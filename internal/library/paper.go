package library

import "github.com/postrai/postr/internal/api"

// Paper is the client-side view of one research paper: backend metadata plus
// the flags the UI mutates locally.
type Paper struct {
	ID       string
	Title    string
	Authors  []string
	Date     string
	Labels   []string
	Abstract string
	Summary  string
	Starred  bool
	Folder   Folder
}

// Topic is a user-chosen subject tag with its checkbox state.
type Topic struct {
	ID       string
	Name     string
	Selected bool
}

// Association links a document to the folder and favorite flag the backend
// holds for it.
type Association struct {
	DocumentID string
	Folder     Folder
	Favorite   bool
}

// paperFromRecord copies backend metadata into a Paper, resolving the starred
// flag from the matching association.
func paperFromRecord(rec api.PaperRecord, assoc Association) Paper {
	return Paper{
		ID:       rec.DocumentID,
		Title:    rec.Title,
		Authors:  append([]string(nil), rec.Authors...),
		Date:     rec.PublishedDate,
		Labels:   append([]string(nil), rec.Labels...),
		Abstract: rec.Abstract,
		Summary:  rec.Summary,
		Starred:  assoc.Favorite,
		Folder:   assoc.Folder,
	}
}
