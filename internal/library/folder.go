package library

import (
	"github.com/sirupsen/logrus"
)

// Folder is one of the three fixed collections a paper can belong to. The
// zero value is the default folder.
type Folder int

const (
	FolderResearch Folder = iota
	FolderPrivate
	FolderPublic
)

// Folders lists every folder in display order.
var Folders = []Folder{FolderResearch, FolderPrivate, FolderPublic}

// Key is the stable UI identifier, distinct from the display name.
func (f Folder) Key() string {
	switch f {
	case FolderPrivate:
		return "privateCollection"
	case FolderPublic:
		return "publicCollection"
	default:
		return "myResearch"
	}
}

// Name is the human-readable folder label.
func (f Folder) Name() string {
	switch f {
	case FolderPrivate:
		return "Private Collection"
	case FolderPublic:
		return "Public Collection"
	default:
		return "My Research Papers"
	}
}

// FolderFromBackend translates a backend folder name into a Folder. The
// function is total: unrecognized names fall back to the default folder, and
// the mismatch is logged as a data-integrity warning so a misfiled paper is
// visible instead of silent.
func FolderFromBackend(name string, log logrus.FieldLogger) Folder {
	switch name {
	case "my_papers", "myResearch":
		return FolderResearch
	case "private_collection", "privateCollection":
		return FolderPrivate
	case "public_collection", "publicCollection":
		return FolderPublic
	}
	if log != nil {
		log.WithField("folder", name).Warn("unrecognized backend folder name, using default folder")
	}
	return FolderResearch
}
