package library

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/postrai/postr/internal/api"
)

// Backend is the slice of the transport client the aggregator needs.
type Backend interface {
	AddUserDocuments(ctx context.Context, userID string, documentIDs []string) (*api.AddUserDocumentsResponse, error)
	GetResearchPapersMetadata(ctx context.Context, documentIDs []string) (*api.GetResearchPapersMetadataResponse, error)
}

// ErrNoFolderLoaded is returned when every per-folder metadata call failed,
// leaving nothing to display.
var ErrNoFolderLoaded = errors.New("library: no folder could be loaded")

// BuildShelf turns a user id and a working set of document ids into a
// folder-to-papers shelf, hiding the multi-call backend choreography:
// associate the documents with the user, group the associations by folder,
// then fetch metadata per folder. A failure of the association call is fatal;
// a failure for one folder's metadata call skips that folder only.
func BuildShelf(ctx context.Context, backend Backend, log logrus.FieldLogger, userID string, documentIDs []string) (*Shelf, error) {
	resp, err := backend.AddUserDocuments(ctx, userID, documentIDs)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("associating documents failed: %s", resp.Message)
	}

	associations := make([]Association, 0, len(resp.Documents))
	for _, doc := range resp.Documents {
		associations = append(associations, Association{
			DocumentID: doc.DocumentID,
			Folder:     FolderFromBackend(doc.Folder, log),
			Favorite:   doc.IsFavorite,
		})
	}

	// Every id already existed for this user: the backend returns nothing,
	// so synthesize default assignments to keep grouping deterministic.
	if len(associations) == 0 {
		for _, id := range documentIDs {
			associations = append(associations, Association{DocumentID: id, Folder: FolderResearch})
		}
	}

	groups := groupByFolder(associations)

	shelf := NewShelf()
	loaded := 0
	var lastErr error
	for folder, group := range groups {
		papers, err := fetchFolder(ctx, backend, group)
		if err != nil {
			lastErr = err
			if log != nil {
				log.WithFields(logrus.Fields{"folder": folder.Key()}).Warn(err)
			}
			continue
		}
		loaded++
		for _, paper := range papers {
			shelf.Add(paper)
		}
	}
	if loaded == 0 && len(groups) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoFolderLoaded, lastErr)
	}
	return shelf, nil
}

// groupByFolder buckets associations, keeping document-id membership unique
// per folder. A duplicate id keeps its first-seen association.
func groupByFolder(associations []Association) map[Folder][]Association {
	groups := make(map[Folder][]Association)
	seen := make(map[string]bool, len(associations))
	for _, assoc := range associations {
		if seen[assoc.DocumentID] {
			continue
		}
		seen[assoc.DocumentID] = true
		groups[assoc.Folder] = append(groups[assoc.Folder], assoc)
	}
	return groups
}

func fetchFolder(ctx context.Context, backend Backend, group []Association) ([]Paper, error) {
	ids := make([]string, 0, len(group))
	byID := make(map[string]Association, len(group))
	for _, assoc := range group {
		ids = append(ids, assoc.DocumentID)
		byID[assoc.DocumentID] = assoc
	}

	resp, err := backend.GetResearchPapersMetadata(ctx, ids)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("metadata lookup failed: %s", resp.Message)
	}

	papers := make([]Paper, 0, len(resp.Papers))
	for _, rec := range resp.Papers {
		assoc, ok := byID[rec.DocumentID]
		if !ok {
			// Unrequested record; keep it in the folder we asked about.
			assoc = group[0]
			assoc.DocumentID = rec.DocumentID
			assoc.Favorite = false
		}
		papers = append(papers, paperFromRecord(rec, assoc))
	}
	return papers, nil
}
