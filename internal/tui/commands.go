package tui

import (
	"context"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/postrai/postr/internal/api"
	"github.com/postrai/postr/internal/library"
	"github.com/postrai/postr/internal/notes"
	"github.com/postrai/postr/internal/poster"
)

const (
	requestTimeout  = 35 * time.Second
	renderTimeout   = 2 * time.Minute
	downloadTimeout = 2 * time.Minute
	moveFlashDelay  = 400 * time.Millisecond
)

func loginCmd(client *api.Client, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		user, err := client.Login(ctx, email, password)
		return loginResultMsg{user: user, err: err}
	}
}

func signUpCmd(client *api.Client, req api.SignUpRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := client.SignUp(ctx, req)
		return signUpResultMsg{resp: resp, err: err}
	}
}

func loadTopicsCmd(client *api.Client, userID string, gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := client.GetUserTopics(ctx, userID)
		if err != nil {
			return topicsResultMsg{gen: gen, err: err}
		}
		topics := make([]library.Topic, 0, len(resp.Topics))
		for _, name := range resp.Topics {
			topics = append(topics, library.Topic{ID: name, Name: name})
		}
		return topicsResultMsg{gen: gen, topics: topics}
	}
}

func addTopicCmd(client *api.Client, userID, name string, gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := client.AddUserTopics(ctx, userID, []string{name})
		if err != nil {
			return topicAddedMsg{gen: gen, name: name, err: err}
		}
		return topicAddedMsg{gen: gen, name: name, records: resp.Topics, skipped: resp.Skipped}
	}
}

func buildShelfCmd(client *api.Client, log logrus.FieldLogger, userID string, documentIDs []string, gen int) tea.Cmd {
	ids := append([]string(nil), documentIDs...)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		shelf, err := library.BuildShelf(ctx, client, log, userID, ids)
		return shelfResultMsg{gen: gen, shelf: shelf, err: err}
	}
}

func loadNotesCmd(book *notes.Book, paperID string) tea.Cmd {
	return func() tea.Msg {
		entries, err := book.ForPaper(paperID)
		return notesResultMsg{paperID: paperID, notes: entries, err: err}
	}
}

func addNoteCmd(book *notes.Book, paperID, text string) tea.Cmd {
	return func() tea.Msg {
		_, err := book.Add(paperID, text)
		return noteSavedMsg{paperID: paperID, err: err}
	}
}

func editNoteCmd(book *notes.Book, paperID, noteID, text string) tea.Cmd {
	return func() tea.Msg {
		err := book.Edit(noteID, text)
		return noteSavedMsg{paperID: paperID, err: err}
	}
}

func deleteNoteCmd(book *notes.Book, paperID, noteID string) tea.Cmd {
	return func() tea.Msg {
		err := book.Delete(noteID)
		return noteSavedMsg{paperID: paperID, err: err}
	}
}

func commitMoveCmd(paperID string, dest library.Folder) tea.Cmd {
	return tea.Tick(moveFlashDelay, func(time.Time) tea.Msg {
		return moveCommittedMsg{paperID: paperID, dest: dest}
	})
}

func generatePosterCmd(client *api.Client, userID, templateID string, documentIDs []string, gen int) tea.Cmd {
	ids := append([]string(nil), documentIDs...)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), renderTimeout)
		defer cancel()
		p, err := poster.Generate(ctx, client, userID, templateID, ids)
		return posterResultMsg{gen: gen, poster: p, err: err}
	}
}

func fetchPosterCmd(client *http.Client, pdfURL string, gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), downloadTimeout)
		defer cancel()
		download, err := poster.Fetch(ctx, client, pdfURL)
		return posterFetchedMsg{gen: gen, download: download, err: err}
	}
}
