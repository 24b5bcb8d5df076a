package tui

import (
	"strings"
	"testing"

	"github.com/postrai/postr/internal/library"
	"github.com/postrai/postr/internal/poster"
)

func TestWelcomeViewListsActions(t *testing.T) {
	m := newTestModel(t)
	out := m.View()
	for _, want := range []string{"log in", "create an account", heroTagline} {
		if !strings.Contains(out, want) {
			t.Fatalf("welcome screen missing %q:\n%s", want, out)
		}
	}
}

func TestDashboardViewShowsPanels(t *testing.T) {
	m := newTestModel(t)
	signIn(m)
	m.shelf = testShelf()
	m.topics = []library.Topic{{ID: "nlp", Name: "NLP"}}

	out := m.View()
	for _, want := range []string{"Folders", "Topics", "My Research Papers", "Attention Is All You Need", "[ ] NLP"} {
		if !strings.Contains(out, want) {
			t.Fatalf("dashboard missing %q:\n%s", want, out)
		}
	}
}

func TestCollapsedPanelsAreHidden(t *testing.T) {
	m := newTestModel(t)
	signIn(m)
	m.shelf = testShelf()
	m.foldersOpen = false
	m.topicsOpen = false

	out := m.View()
	if strings.Contains(out, "Folders (f)") {
		t.Fatal("collapsed folders panel should not render")
	}
	if strings.Contains(out, "Topics (t)") {
		t.Fatal("collapsed topics panel should not render")
	}
}

func TestTemplateViewMarksSelection(t *testing.T) {
	m := newTestModel(t)
	signIn(m)
	m.stage = stageTemplateSelect
	m.templateID = poster.Templates[2].ID

	out := m.View()
	if !strings.Contains(out, "(•) "+poster.Templates[2].Name) {
		t.Fatalf("selected template should show a filled radio:\n%s", out)
	}
	if !strings.Contains(out, "( ) "+poster.Templates[0].Name) {
		t.Fatalf("unselected templates should show an empty radio:\n%s", out)
	}
}

func TestStarredPaperShowsMarker(t *testing.T) {
	m := newTestModel(t)
	signIn(m)
	m.shelf = testShelf()
	m.shelf.ToggleStar("doc-1")

	out := m.View()
	if !strings.Contains(out, "★") {
		t.Fatalf("starred paper should render the star marker:\n%s", out)
	}
}
