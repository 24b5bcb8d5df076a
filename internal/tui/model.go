package tui

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/postrai/postr/internal/api"
	"github.com/postrai/postr/internal/forms"
	"github.com/postrai/postr/internal/library"
	"github.com/postrai/postr/internal/notes"
	"github.com/postrai/postr/internal/poster"
	"github.com/postrai/postr/internal/session"
)

// Config wires runtime options into the TUI program.
type Config struct {
	API         *api.Client
	Session     *session.Store
	Notes       *notes.Book
	HTTPClient  *http.Client
	DocumentIDs []string
	Log         logrus.FieldLogger
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	if config.HTTPClient == nil {
		config.HTTPClient = http.DefaultClient
	}
	if config.Log == nil {
		config.Log = logrus.StandardLogger()
	}

	emailInput := textinput.New()
	emailInput.Placeholder = "you@university.edu"
	emailInput.CharLimit = 120
	emailInput.Width = 44

	passwordInput := textinput.New()
	passwordInput.Placeholder = "password"
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.CharLimit = 120
	passwordInput.Width = 44

	firstNameInput := textinput.New()
	firstNameInput.Placeholder = "First name"
	firstNameInput.CharLimit = 60
	firstNameInput.Width = 44

	lastNameInput := textinput.New()
	lastNameInput.Placeholder = "Last name"
	lastNameInput.CharLimit = 60
	lastNameInput.Width = 44

	entryInput := textinput.New()
	entryInput.CharLimit = 280
	entryInput.Width = 60

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	m := &model{
		config:         config,
		stage:          stageWelcome,
		emailInput:     emailInput,
		passwordInput:  passwordInput,
		firstNameInput: firstNameInput,
		lastNameInput:  lastNameInput,
		entryInput:     entryInput,
		spinner:        spin,
		viewport:       vp,
		folder:         library.FolderResearch,
		foldersOpen:    true,
		topicsOpen:     true,
		selection:      map[string]bool{},
		infoMessage:    "Press l to log in or s to create an account.",
	}
	if user, err := config.Session.Current(); err == nil && user != nil {
		m.user = user
	}
	return m
}

type model struct {
	config Config
	stage  stage

	width  int
	height int

	emailInput     textinput.Model
	passwordInput  textinput.Model
	firstNameInput textinput.Model
	lastNameInput  textinput.Model
	entryInput     textinput.Model
	spinner        spinner.Model
	viewport       viewport.Model

	formFocus   int
	fieldErrors forms.Errors
	authLoading bool

	user *api.User

	topics        []library.Topic
	topicCursor   int
	topicsLoading bool
	topicsGen     int
	topicBusy     bool

	shelf        *library.Shelf
	folder       library.Folder
	paperCursor  int
	shelfLoading bool
	shelfGen     int

	zone      focus
	entryMode entryMode

	foldersOpen bool
	topicsOpen  bool

	detailOpen    bool
	detailNotes   []notes.Note
	noteCursor    int
	editingNoteID string
	viewportDirty bool

	moveMenuOpen  bool
	moveCursor    library.Folder
	movingPaperID string

	selection      map[string]bool
	selectCursor   int
	templateCursor int
	templateID     string

	poster          *poster.Poster
	download        *poster.Download
	posterGen       int
	posterLoading   bool
	downloadLoading bool

	infoMessage  string
	errorMessage string
	helpVisible  bool
	accountOpen  bool
}

func (m *model) Init() tea.Cmd {
	if m.user != nil {
		m.stage = stageDashboard
		m.infoMessage = fmt.Sprintf("Welcome back, %s.", m.user.FirstName)
		return tea.Batch(textinput.Blink, m.refreshDashboard())
	}
	return textinput.Blink
}

// refreshDashboard bumps both fetch generations and kicks off the topic and
// shelf loads for the signed-in user.
func (m *model) refreshDashboard() tea.Cmd {
	m.topicsGen++
	m.shelfGen++
	m.topicsLoading = true
	m.shelfLoading = true
	return tea.Batch(
		loadTopicsCmd(m.config.API, m.user.ID, m.topicsGen),
		buildShelfCmd(m.config.API, m.config.Log, m.user.ID, m.config.DocumentIDs, m.shelfGen),
		m.spinner.Tick,
	)
}

func (m *model) busy() bool {
	return m.authLoading || m.topicsLoading || m.shelfLoading || m.topicBusy ||
		m.posterLoading || m.downloadLoading
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := msg.Width - viewportHorizontalPadding
		if w < minViewportWidth {
			w = minViewportWidth
		}
		m.viewport.Width = w
		m.viewport.Height = msg.Height - 12
		if m.viewport.Height < 5 {
			m.viewport.Height = 5
		}
		m.viewportDirty = true
		return m, nil

	case spinner.TickMsg:
		if m.busy() || m.movingPaperID != "" {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.MouseMsg:
		if m.stage == stageDashboard && m.detailOpen {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case loginResultMsg:
		return m.handleLoginResult(msg)
	case signUpResultMsg:
		return m.handleSignUpResult(msg)
	case topicsResultMsg:
		return m.handleTopicsResult(msg)
	case topicAddedMsg:
		return m.handleTopicAdded(msg)
	case shelfResultMsg:
		return m.handleShelfResult(msg)
	case notesResultMsg:
		return m.handleNotesResult(msg)
	case noteSavedMsg:
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			return m, nil
		}
		return m, loadNotesCmd(m.config.Notes, msg.paperID)
	case moveCommittedMsg:
		if m.movingPaperID == msg.paperID {
			m.movingPaperID = ""
			m.infoMessage = fmt.Sprintf("Moved to %s.", msg.dest.Name())
		}
		return m, nil
	case posterResultMsg:
		return m.handlePosterResult(msg)
	case posterFetchedMsg:
		return m.handlePosterFetched(msg)
	}
	return m, nil
}

func (m *model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	m.authLoading = false
	if msg.err != nil {
		m.errorMessage = msg.err.Error()
		return m, nil
	}
	m.user = msg.user
	if err := m.config.Session.SetUser(msg.user); err != nil {
		m.config.Log.WithFields(logrus.Fields{"error": err}).Warn("session persist failed")
	}
	m.resetAuthForms()
	m.stage = stageDashboard
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("Welcome back, %s.", msg.user.FirstName)
	return m, m.refreshDashboard()
}

func (m *model) handleSignUpResult(msg signUpResultMsg) (tea.Model, tea.Cmd) {
	m.authLoading = false
	if msg.err != nil {
		m.errorMessage = msg.err.Error()
		return m, nil
	}
	m.resetAuthForms()
	m.stage = stageLogin
	m.formFocus = 0
	m.emailInput.Focus()
	m.errorMessage = ""
	m.infoMessage = "Account created. Log in with your new credentials."
	return m, nil
}

func (m *model) handleTopicsResult(msg topicsResultMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.topicsGen {
		return m, nil
	}
	m.topicsLoading = false
	if msg.err != nil {
		m.errorMessage = msg.err.Error()
		return m, nil
	}
	selected := map[string]bool{}
	for _, t := range m.topics {
		if t.Selected {
			selected[t.Name] = true
		}
	}
	for i := range msg.topics {
		msg.topics[i].Selected = selected[msg.topics[i].Name]
	}
	m.topics = msg.topics
	if m.topicCursor >= len(m.topics) {
		m.topicCursor = 0
	}
	return m, nil
}

func (m *model) handleTopicAdded(msg topicAddedMsg) (tea.Model, tea.Cmd) {
	// No newer add carries this flag, so it clears even for a superseded
	// reply or the panel spinner would never stop.
	m.topicBusy = false
	if msg.gen != m.topicsGen {
		return m, nil
	}
	if msg.err != nil {
		m.errorMessage = msg.err.Error()
		return m, nil
	}
	if msg.skipped > 0 && len(msg.records) == 0 {
		m.infoMessage = fmt.Sprintf("Topic %q is already on your list.", msg.name)
		return m, nil
	}
	m.infoMessage = fmt.Sprintf("Added topic %q.", msg.name)
	m.topicsGen++
	m.topicsLoading = true
	return m, tea.Batch(loadTopicsCmd(m.config.API, m.user.ID, m.topicsGen), m.spinner.Tick)
}

func (m *model) handleShelfResult(msg shelfResultMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.shelfGen {
		return m, nil
	}
	m.shelfLoading = false
	if msg.err != nil {
		m.errorMessage = msg.err.Error()
		return m, nil
	}
	m.shelf = msg.shelf
	m.paperCursor = 0
	m.detailOpen = false
	for id := range m.selection {
		if _, ok := m.shelf.Find(id); !ok {
			delete(m.selection, id)
		}
	}
	m.infoMessage = fmt.Sprintf("Loaded %d papers.", m.shelf.Len())
	return m, nil
}

func (m *model) handleNotesResult(msg notesResultMsg) (tea.Model, tea.Cmd) {
	if paper, ok := m.currentPaper(); !ok || paper.ID != msg.paperID {
		return m, nil
	}
	if msg.err != nil {
		m.errorMessage = msg.err.Error()
		return m, nil
	}
	m.detailNotes = msg.notes
	if m.noteCursor >= len(m.detailNotes) {
		m.noteCursor = 0
	}
	m.viewportDirty = true
	return m, nil
}

func (m *model) handlePosterResult(msg posterResultMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.posterGen {
		return m, nil
	}
	m.posterLoading = false
	if msg.err != nil {
		m.errorMessage = msg.err.Error()
		m.stage = stageTemplateSelect
		return m, nil
	}
	m.poster = msg.poster
	m.downloadLoading = true
	m.infoMessage = fmt.Sprintf("Poster %s rendered. Downloading PDF…", msg.poster.ID)
	return m, tea.Batch(fetchPosterCmd(m.config.HTTPClient, msg.poster.PDFURL, m.posterGen), m.spinner.Tick)
}

func (m *model) handlePosterFetched(msg posterFetchedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.posterGen {
		return m, nil
	}
	m.downloadLoading = false
	if msg.err != nil {
		m.errorMessage = msg.err.Error()
		return m, nil
	}
	m.download = msg.download
	m.infoMessage = fmt.Sprintf("Saved to %s.", msg.download.Path)
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.stage {
	case stageWelcome:
		return m.handleWelcomeKey(msg)
	case stageLogin, stageSignUp:
		return m.handleAuthKey(msg)
	case stageDashboard:
		return m.handleDashboardKey(msg)
	case stagePosterSelect:
		return m.handlePosterSelectKey(msg)
	case stageTemplateSelect:
		return m.handleTemplateKey(msg)
	case stagePosterView:
		return m.handlePosterViewKey(msg)
	}
	return m, nil
}

func (m *model) handleWelcomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "l":
		m.stage = stageLogin
		m.formFocus = 0
		m.fieldErrors = nil
		m.errorMessage = ""
		m.emailInput.Focus()
		return m, textinput.Blink
	case "s":
		m.stage = stageSignUp
		m.formFocus = 0
		m.fieldErrors = nil
		m.errorMessage = ""
		m.firstNameInput.Focus()
		return m, textinput.Blink
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

// authFields returns the focus-ordered inputs for the active auth form.
func (m *model) authFields() []*textinput.Model {
	if m.stage == stageSignUp {
		return []*textinput.Model{&m.firstNameInput, &m.lastNameInput, &m.emailInput, &m.passwordInput}
	}
	return []*textinput.Model{&m.emailInput, &m.passwordInput}
}

func (m *model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fields := m.authFields()
	switch msg.Type {
	case tea.KeyEsc:
		m.resetAuthForms()
		m.stage = stageWelcome
		m.errorMessage = ""
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		m.formFocus = (m.formFocus + 1) % len(fields)
		return m, m.focusField(fields)
	case tea.KeyShiftTab, tea.KeyUp:
		m.formFocus = (m.formFocus - 1 + len(fields)) % len(fields)
		return m, m.focusField(fields)
	case tea.KeyEnter:
		if m.authLoading {
			return m, nil
		}
		return m.submitAuthForm()
	}
	var cmd tea.Cmd
	*fields[m.formFocus], cmd = fields[m.formFocus].Update(msg)
	return m, cmd
}

func (m *model) focusField(fields []*textinput.Model) tea.Cmd {
	for i, f := range fields {
		if i == m.formFocus {
			f.Focus()
		} else {
			f.Blur()
		}
	}
	return textinput.Blink
}

func (m *model) submitAuthForm() (tea.Model, tea.Cmd) {
	if m.stage == stageSignUp {
		form := forms.SignUp{
			FirstName: strings.TrimSpace(m.firstNameInput.Value()),
			LastName:  strings.TrimSpace(m.lastNameInput.Value()),
			Email:     strings.TrimSpace(m.emailInput.Value()),
			Password:  m.passwordInput.Value(),
		}
		if errs := form.Validate(); len(errs) > 0 {
			m.fieldErrors = errs
			return m, nil
		}
		m.fieldErrors = nil
		m.authLoading = true
		m.errorMessage = ""
		req := api.SignUpRequest{
			FirstName: form.FirstName,
			LastName:  form.LastName,
			Email:     form.Email,
			Password:  form.Password,
		}
		return m, tea.Batch(signUpCmd(m.config.API, req), m.spinner.Tick)
	}

	form := forms.Login{
		Email:    strings.TrimSpace(m.emailInput.Value()),
		Password: m.passwordInput.Value(),
	}
	if errs := form.Validate(); len(errs) > 0 {
		m.fieldErrors = errs
		return m, nil
	}
	m.fieldErrors = nil
	m.authLoading = true
	m.errorMessage = ""
	return m, tea.Batch(loginCmd(m.config.API, form.Email, form.Password), m.spinner.Tick)
}

func (m *model) resetAuthForms() {
	for _, f := range []*textinput.Model{&m.firstNameInput, &m.lastNameInput, &m.emailInput, &m.passwordInput} {
		f.SetValue("")
		f.Blur()
	}
	m.fieldErrors = nil
	m.formFocus = 0
}

// visiblePapers is the active folder filtered by the selected topics. With no
// topic selected every paper in the folder shows.
func (m *model) visiblePapers() []library.Paper {
	if m.shelf == nil {
		return nil
	}
	papers := m.shelf.Papers(m.folder)
	wanted := map[string]bool{}
	for _, t := range m.topics {
		if t.Selected {
			wanted[strings.ToLower(t.Name)] = true
		}
	}
	if len(wanted) == 0 {
		return papers
	}
	filtered := make([]library.Paper, 0, len(papers))
	for _, p := range papers {
		for _, label := range p.Labels {
			if wanted[strings.ToLower(label)] {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered
}

func (m *model) currentPaper() (library.Paper, bool) {
	papers := m.visiblePapers()
	if m.paperCursor < 0 || m.paperCursor >= len(papers) {
		return library.Paper{}, false
	}
	return papers[m.paperCursor], true
}

func (m *model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.entryMode != entryNone {
		return m.handleEntryKey(msg)
	}
	if m.moveMenuOpen {
		return m.handleMoveMenuKey(msg)
	}
	if m.detailOpen {
		return m.handleDetailKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		if m.errorMessage != "" {
			m.errorMessage = ""
			return m, nil
		}
		if m.helpVisible {
			m.helpVisible = false
			return m, nil
		}
		if m.accountOpen {
			m.accountOpen = false
			return m, nil
		}
		return m, tea.Quit
	case "?":
		m.helpVisible = !m.helpVisible
		return m, nil
	case "u":
		m.accountOpen = !m.accountOpen
		return m, nil
	case "L":
		return m.logout()
	case "f":
		m.foldersOpen = !m.foldersOpen
		return m, nil
	case "t":
		m.topicsOpen = !m.topicsOpen
		return m, nil
	case "tab":
		if m.zone == focusPapers {
			m.zone = focusTopics
		} else {
			m.zone = focusPapers
		}
		return m, nil
	case "1", "2", "3":
		idx := int(msg.String()[0] - '1')
		m.folder = library.Folders[idx]
		m.paperCursor = 0
		return m, nil
	case "j", "down":
		m.moveCursorDown()
		return m, nil
	case "k", "up":
		m.moveCursorUp()
		return m, nil
	case " ":
		return m.toggleAtCursor()
	case "enter":
		return m.openDetail()
	case "a":
		m.entryMode = entryTopic
		m.entryInput.Placeholder = "New topic, e.g. computer vision"
		m.entryInput.SetValue("")
		m.entryInput.Focus()
		return m, textinput.Blink
	case "r":
		if m.user == nil {
			return m, nil
		}
		m.infoMessage = "Refreshing…"
		return m, m.refreshDashboard()
	case "p":
		if m.shelf == nil || m.shelf.Len() == 0 {
			m.errorMessage = "Load some papers before building a poster."
			return m, nil
		}
		m.stage = stagePosterSelect
		m.selectCursor = 0
		m.errorMessage = ""
		return m, nil
	}
	return m, nil
}

func (m *model) moveCursorDown() {
	if m.zone == focusTopics {
		if m.topicCursor < len(m.topics)-1 {
			m.topicCursor++
		}
		return
	}
	if m.paperCursor < len(m.visiblePapers())-1 {
		m.paperCursor++
	}
}

func (m *model) moveCursorUp() {
	if m.zone == focusTopics {
		if m.topicCursor > 0 {
			m.topicCursor--
		}
		return
	}
	if m.paperCursor > 0 {
		m.paperCursor--
	}
}

func (m *model) toggleAtCursor() (tea.Model, tea.Cmd) {
	if m.zone == focusTopics {
		if m.topicCursor < len(m.topics) {
			m.topics[m.topicCursor].Selected = !m.topics[m.topicCursor].Selected
			m.paperCursor = 0
		}
		return m, nil
	}
	if paper, ok := m.currentPaper(); ok {
		m.shelf.ToggleStar(paper.ID)
	}
	return m, nil
}

func (m *model) openDetail() (tea.Model, tea.Cmd) {
	paper, ok := m.currentPaper()
	if !ok {
		return m, nil
	}
	m.detailOpen = true
	m.detailNotes = nil
	m.noteCursor = 0
	m.viewport.SetYOffset(0)
	m.viewportDirty = true
	return m, loadNotesCmd(m.config.Notes, paper.ID)
}

func (m *model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	paper, ok := m.currentPaper()
	if !ok {
		m.detailOpen = false
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.detailOpen = false
		return m, nil
	case "s", " ":
		m.shelf.ToggleStar(paper.ID)
		m.viewportDirty = true
		return m, nil
	case "m":
		m.moveMenuOpen = true
		m.moveCursor = paper.Folder
		return m, nil
	case "n":
		m.entryMode = entryNote
		m.entryInput.Placeholder = "New note"
		m.entryInput.SetValue("")
		m.entryInput.Focus()
		return m, textinput.Blink
	case "e":
		if m.noteCursor < len(m.detailNotes) {
			note := m.detailNotes[m.noteCursor]
			m.entryMode = entryNoteEdit
			m.editingNoteID = note.ID
			m.entryInput.Placeholder = "Edit note"
			m.entryInput.SetValue(note.Text)
			m.entryInput.Focus()
			return m, textinput.Blink
		}
		return m, nil
	case "x":
		if m.noteCursor < len(m.detailNotes) {
			note := m.detailNotes[m.noteCursor]
			return m, deleteNoteCmd(m.config.Notes, paper.ID, note.ID)
		}
		return m, nil
	case "j":
		if m.noteCursor < len(m.detailNotes)-1 {
			m.noteCursor++
			m.viewportDirty = true
		}
		return m, nil
	case "k":
		if m.noteCursor > 0 {
			m.noteCursor--
			m.viewportDirty = true
		}
		return m, nil
	case "down", "up", "pgdown", "pgup":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) handleMoveMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	paper, ok := m.currentPaper()
	if !ok {
		m.moveMenuOpen = false
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.moveMenuOpen = false
		return m, nil
	case "j", "down":
		if int(m.moveCursor) < len(library.Folders)-1 {
			m.moveCursor++
		}
		return m, nil
	case "k", "up":
		if m.moveCursor > 0 {
			m.moveCursor--
		}
		return m, nil
	case "enter":
		m.moveMenuOpen = false
		if m.moveCursor == paper.Folder {
			return m, nil
		}
		dest := m.moveCursor
		m.shelf.Move(paper.ID, dest)
		m.movingPaperID = paper.ID
		m.detailOpen = false
		m.paperCursor = 0
		m.infoMessage = fmt.Sprintf("Moving to %s…", dest.Name())
		return m, tea.Batch(commitMoveCmd(paper.ID, dest), m.spinner.Tick)
	}
	return m, nil
}

func (m *model) handleEntryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeEntry()
		return m, nil
	case tea.KeyEnter:
		text := strings.TrimSpace(m.entryInput.Value())
		if text == "" {
			m.closeEntry()
			return m, nil
		}
		mode := m.entryMode
		noteID := m.editingNoteID
		m.closeEntry()
		switch mode {
		case entryTopic:
			m.topicBusy = true
			return m, tea.Batch(addTopicCmd(m.config.API, m.user.ID, text, m.topicsGen), m.spinner.Tick)
		case entryNote:
			if paper, ok := m.currentPaper(); ok {
				return m, addNoteCmd(m.config.Notes, paper.ID, text)
			}
		case entryNoteEdit:
			if paper, ok := m.currentPaper(); ok {
				return m, editNoteCmd(m.config.Notes, paper.ID, noteID, text)
			}
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.entryInput, cmd = m.entryInput.Update(msg)
	return m, cmd
}

func (m *model) closeEntry() {
	m.entryMode = entryNone
	m.editingNoteID = ""
	m.entryInput.SetValue("")
	m.entryInput.Blur()
}

func (m *model) logout() (tea.Model, tea.Cmd) {
	if err := m.config.Session.Clear(); err != nil {
		m.config.Log.WithFields(logrus.Fields{"error": err}).Warn("session clear failed")
	}
	m.user = nil
	m.shelf = nil
	m.topics = nil
	m.selection = map[string]bool{}
	m.templateID = ""
	m.poster = nil
	m.download = nil
	m.detailOpen = false
	m.accountOpen = false
	m.stage = stageWelcome
	m.infoMessage = "Signed out. Press l to log in again."
	m.errorMessage = ""
	return m, nil
}

// allPapers flattens the shelf in folder order for the selection screen.
func (m *model) allPapers() []library.Paper {
	if m.shelf == nil {
		return nil
	}
	var out []library.Paper
	for _, f := range library.Folders {
		out = append(out, m.shelf.Papers(f)...)
	}
	return out
}

func (m *model) selectedIDs() []string {
	var ids []string
	for _, p := range m.allPapers() {
		if m.selection[p.ID] {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func (m *model) handlePosterSelectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	papers := m.allPapers()
	switch msg.String() {
	case "esc":
		m.stage = stageDashboard
		return m, nil
	case "j", "down":
		if m.selectCursor < len(papers)-1 {
			m.selectCursor++
		}
		return m, nil
	case "k", "up":
		if m.selectCursor > 0 {
			m.selectCursor--
		}
		return m, nil
	case " ":
		if m.selectCursor < len(papers) {
			id := papers[m.selectCursor].ID
			m.selection[id] = !m.selection[id]
		}
		return m, nil
	case "enter", "g":
		if len(m.selectedIDs()) == 0 {
			m.errorMessage = "Select at least one paper first."
			return m, nil
		}
		m.stage = stageTemplateSelect
		m.templateCursor = 0
		m.errorMessage = ""
		return m, nil
	}
	return m, nil
}

func (m *model) handleTemplateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.stage = stagePosterSelect
		return m, nil
	case "j", "down":
		if m.templateCursor < len(poster.Templates)-1 {
			m.templateCursor++
		}
		return m, nil
	case "k", "up":
		if m.templateCursor > 0 {
			m.templateCursor--
		}
		return m, nil
	case " ", "enter":
		// Picking the highlighted template again clears the choice.
		id := poster.Templates[m.templateCursor].ID
		if m.templateID == id {
			m.templateID = ""
		} else {
			m.templateID = id
		}
		return m, nil
	case "g":
		if m.templateID == "" {
			m.errorMessage = "Pick a template before generating."
			return m, nil
		}
		m.posterGen++
		m.posterLoading = true
		m.poster = nil
		m.download = nil
		m.errorMessage = ""
		m.stage = stagePosterView
		return m, tea.Batch(
			generatePosterCmd(m.config.API, m.user.ID, m.templateID, m.selectedIDs(), m.posterGen),
			m.spinner.Tick,
		)
	}
	return m, nil
}

func (m *model) handlePosterViewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "b", "esc":
		m.posterGen++
		m.posterLoading = false
		m.downloadLoading = false
		m.stage = stageDashboard
		return m, nil
	case "q":
		return m, tea.Quit
	}
	return m, nil
}
