package tui

import (
	"github.com/postrai/postr/internal/api"
	"github.com/postrai/postr/internal/library"
	"github.com/postrai/postr/internal/notes"
	"github.com/postrai/postr/internal/poster"
)

type stage int

const (
	stageWelcome stage = iota
	stageLogin
	stageSignUp
	stageDashboard
	stagePosterSelect
	stageTemplateSelect
	stagePosterView
)

// focus tracks which dashboard zone receives list navigation keys.
type focus int

const (
	focusPapers focus = iota
	focusTopics
)

// entryMode is what the shared text input is currently collecting.
type entryMode int

const (
	entryNone entryMode = iota
	entryTopic
	entryNote
	entryNoteEdit
)

const heroTagline = "From paper to poster in minutes."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
)

// Result messages. Screen-scoped fetches carry the generation that issued
// them; replies from a superseded generation are dropped on arrival.

type loginResultMsg struct {
	user *api.User
	err  error
}

type signUpResultMsg struct {
	resp *api.SignUpResponse
	err  error
}

type topicsResultMsg struct {
	gen    int
	topics []library.Topic
	err    error
}

type topicAddedMsg struct {
	gen     int
	name    string
	records []api.TopicRecord
	skipped int
	err     error
}

type shelfResultMsg struct {
	gen   int
	shelf *library.Shelf
	err   error
}

type notesResultMsg struct {
	paperID string
	notes   []notes.Note
	err     error
}

type noteSavedMsg struct {
	paperID string
	err     error
}

type moveCommittedMsg struct {
	paperID string
	dest    library.Folder
}

type posterResultMsg struct {
	gen    int
	poster *poster.Poster
	err    error
}

type posterFetchedMsg struct {
	gen      int
	download *poster.Download
	err      error
}
