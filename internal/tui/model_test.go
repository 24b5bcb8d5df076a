package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	logrustest "github.com/sirupsen/logrus/hooks/test"

	"github.com/postrai/postr/internal/api"
	"github.com/postrai/postr/internal/library"
	"github.com/postrai/postr/internal/notes"
	"github.com/postrai/postr/internal/poster"
	"github.com/postrai/postr/internal/session"
)

func newTestModel(t *testing.T) *model {
	t.Helper()
	dir := t.TempDir()
	store, err := session.OpenAt(filepath.Join(dir, "session.json"))
	if err != nil {
		t.Fatalf("open session store: %v", err)
	}
	logger, _ := logrustest.NewNullLogger()
	m := New(Config{
		API:         api.New(api.Config{BaseURL: "http://127.0.0.1:1/api"}),
		Session:     store,
		Notes:       notes.NewBook(filepath.Join(dir, "notes.json")),
		DocumentIDs: []string{"doc-1"},
		Log:         logger,
	})
	return m.(*model)
}

func pressRune(t *testing.T, m *model, key string) tea.Cmd {
	t.Helper()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return cmd
}

func press(t *testing.T, m *model, keyType tea.KeyType) tea.Cmd {
	t.Helper()
	_, cmd := m.Update(tea.KeyMsg{Type: keyType})
	return cmd
}

func testShelf() *library.Shelf {
	shelf := library.NewShelf()
	shelf.Add(library.Paper{
		ID:     "doc-1",
		Title:  "Attention Is All You Need",
		Labels: []string{"nlp"},
		Folder: library.FolderResearch,
	})
	shelf.Add(library.Paper{
		ID:     "doc-2",
		Title:  "Deep Residual Learning",
		Labels: []string{"vision"},
		Folder: library.FolderResearch,
	})
	return shelf
}

func signIn(m *model) {
	m.user = &api.User{ID: "user-1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@math.org"}
	m.stage = stageDashboard
}

func TestWelcomeKeysOpenAuthForms(t *testing.T) {
	m := newTestModel(t)
	if m.stage != stageWelcome {
		t.Fatalf("fresh model should start on the welcome screen, got %v", m.stage)
	}

	pressRune(t, m, "l")
	if m.stage != stageLogin {
		t.Fatalf("l should open the login form, got stage %v", m.stage)
	}
	if !m.emailInput.Focused() {
		t.Fatal("email field should take focus on the login form")
	}

	press(t, m, tea.KeyEsc)
	pressRune(t, m, "s")
	if m.stage != stageSignUp {
		t.Fatalf("s should open the signup form, got stage %v", m.stage)
	}
	if !m.firstNameInput.Focused() {
		t.Fatal("first name field should take focus on the signup form")
	}
}

func TestLoginValidationBlocksSubmit(t *testing.T) {
	m := newTestModel(t)
	pressRune(t, m, "l")
	m.emailInput.SetValue("not-an-email")
	m.passwordInput.SetValue("short")

	cmd := press(t, m, tea.KeyEnter)
	if cmd != nil {
		t.Fatalf("invalid form should not submit, got command %T", cmd)
	}
	if m.authLoading {
		t.Fatal("invalid form should not enter the loading state")
	}
	if len(m.fieldErrors) != 2 {
		t.Fatalf("expected errors for both fields, got %v", m.fieldErrors)
	}
}

func TestValidLoginSubmits(t *testing.T) {
	m := newTestModel(t)
	pressRune(t, m, "l")
	m.emailInput.SetValue("ada@math.org")
	m.passwordInput.SetValue("secret1")

	cmd := press(t, m, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("valid form should return the login command")
	}
	if !m.authLoading {
		t.Fatal("submit should enter the loading state")
	}
}

func TestLoginResultOpensDashboard(t *testing.T) {
	m := newTestModel(t)
	m.stage = stageLogin
	m.authLoading = true

	user := &api.User{ID: "user-1", FirstName: "Ada", Email: "ada@math.org"}
	_, cmd := m.Update(loginResultMsg{user: user})

	if m.stage != stageDashboard {
		t.Fatalf("login should land on the dashboard, got %v", m.stage)
	}
	if m.authLoading {
		t.Fatal("login result should clear the loading state")
	}
	if !m.config.Session.Authenticated() {
		t.Fatal("login should persist the user to the session store")
	}
	if cmd == nil {
		t.Fatal("dashboard entry should kick off the topic and shelf loads")
	}
	if !m.shelfLoading || !m.topicsLoading {
		t.Fatal("dashboard entry should mark both fetches as in flight")
	}
}

func TestLoginFailureShowsBanner(t *testing.T) {
	m := newTestModel(t)
	m.stage = stageLogin
	m.authLoading = true

	m.Update(loginResultMsg{err: errors.New("Invalid credentials")})

	if m.stage != stageLogin {
		t.Fatalf("failed login should stay on the form, got %v", m.stage)
	}
	if m.authLoading {
		t.Fatal("failure should clear the loading state")
	}
	if m.errorMessage != "Invalid credentials" {
		t.Fatalf("banner should carry the server message, got %q", m.errorMessage)
	}
}

func TestSignUpSuccessSwitchesToLogin(t *testing.T) {
	m := newTestModel(t)
	m.stage = stageSignUp
	m.firstNameInput.SetValue("Ada")

	m.Update(signUpResultMsg{resp: &api.SignUpResponse{Success: true}})

	if m.stage != stageLogin {
		t.Fatalf("signup success should land on the login form, got %v", m.stage)
	}
	if m.firstNameInput.Value() != "" {
		t.Fatal("signup success should clear the form fields")
	}
	if !strings.Contains(m.infoMessage, "Account created") {
		t.Fatalf("expected confirmation message, got %q", m.infoMessage)
	}
}

func TestStaleShelfReplyIsDropped(t *testing.T) {
	m := newTestModel(t)
	signIn(m)
	m.shelfGen = 2
	m.shelfLoading = true

	m.Update(shelfResultMsg{gen: 1, shelf: testShelf()})

	if m.shelf != nil {
		t.Fatal("reply from a superseded fetch should be discarded")
	}
	if !m.shelfLoading {
		t.Fatal("stale reply should not clear the in-flight flag")
	}
}

func TestShelfResultPrunesSelection(t *testing.T) {
	m := newTestModel(t)
	signIn(m)
	m.shelfGen = 1
	m.shelfLoading = true
	m.selection["gone"] = true
	m.selection["doc-1"] = true

	m.Update(shelfResultMsg{gen: 1, shelf: testShelf()})

	if m.shelfLoading {
		t.Fatal("matching reply should clear the in-flight flag")
	}
	if m.selection["gone"] {
		t.Fatal("selection should drop ids no longer on the shelf")
	}
	if !m.selection["doc-1"] {
		t.Fatal("selection should keep ids still on the shelf")
	}
}

func TestShelfErrorShowsBannerAndStopsSpinner(t *testing.T) {
	m := newTestModel(t)
	signIn(m)
	m.shelfGen = 1
	m.shelfLoading = true

	m.Update(shelfResultMsg{gen: 1, err: library.ErrNoFolderLoaded})

	if m.shelfLoading {
		t.Fatal("error reply should clear the in-flight flag")
	}
	if m.errorMessage == "" {
		t.Fatal("error reply should surface a banner")
	}
}

func TestSpaceStarsPaperUnderCursor(t *testing.T) {
	m := newTestModel(t)
	signIn(m)
	m.shelf = testShelf()

	press(t, m, tea.KeySpace)

	paper, ok := m.shelf.Find("doc-1")
	if !ok || !paper.Starred {
		t.Fatalf("space should star the paper under the cursor, got %+v", paper)
	}
}

func TestSelectedTopicsFilterPapers(t *testing.T) {
	m := newTestModel(t)
	signIn(m)
	m.shelf = testShelf()
	m.topics = []library.Topic{{ID: "nlp", Name: "NLP"}, {ID: "vision", Name: "Vision"}}

	if got := len(m.visiblePapers()); got != 2 {
		t.Fatalf("no selection should show everything, got %d papers", got)
	}

	press(t, m, tea.KeyTab)
	press(t, m, tea.KeySpace)

	papers := m.visiblePapers()
	if len(papers) != 1 || papers[0].ID != "doc-1" {
		t.Fatalf("selecting NLP should keep only the nlp paper, got %+v", papers)
	}
}

func TestMoveCommitsOptimistically(t *testing.T) {
	m := newTestModel(t)
	signIn(m)
	m.shelf = testShelf()
	m.detailOpen = true
	m.moveMenuOpen = true
	m.moveCursor = library.FolderPrivate

	cmd := press(t, m, tea.KeyEnter)

	paper, ok := m.shelf.Find("doc-1")
	if !ok || paper.Folder != library.FolderPrivate {
		t.Fatalf("paper should relocate before the flash clears, got %+v", paper)
	}
	if m.movingPaperID != "doc-1" {
		t.Fatalf("moving flash should track the paper, got %q", m.movingPaperID)
	}
	if cmd == nil {
		t.Fatal("commit should schedule the flash clear")
	}

	m.Update(moveCommittedMsg{paperID: "doc-1", dest: library.FolderPrivate})
	if m.movingPaperID != "" {
		t.Fatal("flash should clear once the move settles")
	}
	if !strings.Contains(m.infoMessage, "Private Collection") {
		t.Fatalf("settle message should name the destination, got %q", m.infoMessage)
	}
}

func TestMoveToCurrentFolderIsNoop(t *testing.T) {
	m := newTestModel(t)
	signIn(m)
	m.shelf = testShelf()
	m.detailOpen = true
	m.moveMenuOpen = true
	m.moveCursor = library.FolderResearch

	cmd := press(t, m, tea.KeyEnter)

	if cmd != nil {
		t.Fatal("moving to the current folder should do nothing")
	}
	if m.movingPaperID != "" {
		t.Fatal("no flash should start for a no-op move")
	}
}

func TestTemplateReselectClearsChoice(t *testing.T) {
	m := newTestModel(t)
	signIn(m)
	m.stage = stageTemplateSelect

	press(t, m, tea.KeySpace)
	if m.templateID != poster.Templates[0].ID {
		t.Fatalf("space should pick the highlighted template, got %q", m.templateID)
	}

	press(t, m, tea.KeySpace)
	if m.templateID != "" {
		t.Fatalf("picking the same template again should clear it, got %q", m.templateID)
	}
}

func TestGenerateRequiresTemplate(t *testing.T) {
	m := newTestModel(t)
	signIn(m)
	m.shelf = testShelf()
	m.selection["doc-1"] = true
	m.stage = stageTemplateSelect

	cmd := pressRune(t, m, "g")
	if cmd != nil {
		t.Fatal("generate without a template should not fire a command")
	}
	if m.errorMessage == "" {
		t.Fatal("generate without a template should surface a banner")
	}
}

func TestPosterSelectRequiresPapers(t *testing.T) {
	m := newTestModel(t)
	signIn(m)
	m.shelf = testShelf()
	m.stage = stagePosterSelect

	cmd := press(t, m, tea.KeyEnter)
	if cmd != nil || m.stage != stagePosterSelect {
		t.Fatal("continuing with nothing selected should stay put")
	}
	if m.errorMessage == "" {
		t.Fatal("continuing with nothing selected should surface a banner")
	}
}

func TestStalePosterFetchIsDropped(t *testing.T) {
	m := newTestModel(t)
	signIn(m)
	m.stage = stagePosterView
	m.posterGen = 3
	m.downloadLoading = true

	m.Update(posterFetchedMsg{gen: 2, download: &poster.Download{Path: "old.pdf", Pages: 1}})

	if m.download != nil {
		t.Fatal("download from a superseded generation should be discarded")
	}
}

func TestPosterFailureReturnsToTemplates(t *testing.T) {
	m := newTestModel(t)
	signIn(m)
	m.stage = stagePosterView
	m.posterGen = 1
	m.posterLoading = true

	m.Update(posterResultMsg{gen: 1, err: errors.New("poster generation failed: out of credits")})

	if m.posterLoading {
		t.Fatal("failure should clear the rendering spinner")
	}
	if m.stage != stageTemplateSelect {
		t.Fatalf("failure should return to template selection, got %v", m.stage)
	}
	if m.errorMessage == "" {
		t.Fatal("failure should surface a banner")
	}
}

func TestLogoutClearsSessionAndState(t *testing.T) {
	m := newTestModel(t)
	signIn(m)
	if err := m.config.Session.SetUser(m.user); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	m.shelf = testShelf()
	m.topics = []library.Topic{{ID: "nlp", Name: "NLP"}}
	m.selection["doc-1"] = true

	pressRune(t, m, "L")

	if m.stage != stageWelcome {
		t.Fatalf("logout should land on the welcome screen, got %v", m.stage)
	}
	if m.config.Session.Authenticated() {
		t.Fatal("logout should clear the session store")
	}
	if m.user != nil || m.shelf != nil || len(m.topics) != 0 || len(m.selection) != 0 {
		t.Fatal("logout should drop the signed-in state")
	}
}

func TestTopicEntrySubmitsAndEscCancels(t *testing.T) {
	m := newTestModel(t)
	signIn(m)

	pressRune(t, m, "a")
	if m.entryMode != entryTopic {
		t.Fatalf("a should open the topic entry, got mode %v", m.entryMode)
	}

	press(t, m, tea.KeyEsc)
	if m.entryMode != entryNone {
		t.Fatal("esc should close the topic entry")
	}

	pressRune(t, m, "a")
	m.entryInput.SetValue("computer vision")
	cmd := press(t, m, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("submitting a topic should fire the add command")
	}
	if !m.topicBusy {
		t.Fatal("submitting a topic should mark the panel busy")
	}
}

func TestTopicAddedRefreshesList(t *testing.T) {
	m := newTestModel(t)
	signIn(m)
	m.topicBusy = true
	m.topicsGen = 1

	_, cmd := m.Update(topicAddedMsg{gen: 1, name: "nlp", records: []api.TopicRecord{{TopicName: "nlp"}}})

	if m.topicBusy {
		t.Fatal("reply should clear the busy flag")
	}
	if cmd == nil {
		t.Fatal("a fresh topic should trigger a reload")
	}
	if m.topicsGen != 2 {
		t.Fatalf("reload should bump the topics generation, got %d", m.topicsGen)
	}
}

func TestPanelTogglesCollapseIndependently(t *testing.T) {
	m := newTestModel(t)
	signIn(m)

	if !m.foldersOpen || !m.topicsOpen {
		t.Fatal("both side panels should start open")
	}

	pressRune(t, m, "f")
	if m.foldersOpen {
		t.Fatal("f should collapse the folders panel")
	}
	if !m.topicsOpen {
		t.Fatal("collapsing folders should leave topics open")
	}

	pressRune(t, m, "t")
	pressRune(t, m, "f")
	if !m.foldersOpen || m.topicsOpen {
		t.Fatal("panels should toggle independently")
	}
}

func TestStaleTopicReplyStillClearsBusy(t *testing.T) {
	m := newTestModel(t)
	signIn(m)
	m.topicBusy = true
	m.topicsGen = 1

	// Refresh supersedes the in-flight add before its reply lands.
	m.refreshDashboard()
	_, cmd := m.Update(topicAddedMsg{gen: 1, name: "nlp", records: []api.TopicRecord{{TopicName: "nlp"}}})

	if m.topicBusy {
		t.Fatal("superseded reply must still clear the busy flag")
	}
	if cmd != nil {
		t.Fatal("superseded reply should not trigger a reload")
	}

	m.Update(topicsResultMsg{gen: m.topicsGen})
	m.Update(shelfResultMsg{gen: m.shelfGen, shelf: testShelf()})
	if m.busy() {
		t.Fatal("no spinner should survive once every request settled")
	}
}

func TestEscDismissesErrorBanner(t *testing.T) {
	m := newTestModel(t)
	signIn(m)
	m.errorMessage = "Invalid credentials"

	press(t, m, tea.KeyEsc)

	if m.errorMessage != "" {
		t.Fatal("esc should clear an active error banner")
	}
	if m.stage != stageDashboard {
		t.Fatalf("dismissing the banner should not leave the dashboard, got %v", m.stage)
	}

	cmd := press(t, m, tea.KeyEsc)
	if cmd == nil {
		t.Fatal("esc with no banner or overlay should quit")
	}
}

func TestDuplicateTopicSkipsReload(t *testing.T) {
	m := newTestModel(t)
	signIn(m)
	m.topicBusy = true
	m.topicsGen = 1

	_, cmd := m.Update(topicAddedMsg{gen: 1, name: "nlp", skipped: 1})

	if cmd != nil {
		t.Fatal("a skipped duplicate should not trigger a reload")
	}
	if !strings.Contains(m.infoMessage, "already") {
		t.Fatalf("duplicate should explain itself, got %q", m.infoMessage)
	}
}
