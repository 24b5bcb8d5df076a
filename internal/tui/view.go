package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/postrai/postr/internal/library"
	"github.com/postrai/postr/internal/poster"
)

var (
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	subtitleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147"))
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	starStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	currentLineStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	fieldErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	panelStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("60")).Padding(0, 1)
	helpBoxStyle       = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("244")).Padding(0, 1)
)

var logoArtLines = []string{
	"█▀█ █▀█ █▀ ▀█▀ █▀█",
	"█▀▀ █▄█ ▄█  █  █▀▄",
}

func (m *model) View() string {
	switch m.stage {
	case stageWelcome:
		return m.viewWelcome()
	case stageLogin, stageSignUp:
		return m.viewAuth()
	case stageDashboard:
		return m.viewDashboard()
	case stagePosterSelect:
		return m.viewPosterSelect()
	case stageTemplateSelect:
		return m.viewTemplateSelect()
	case stagePosterView:
		return m.viewPosterView()
	default:
		return ""
	}
}

func (m *model) heroView() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(strings.Join(logoArtLines, "\n")),
		subtitleStyle.Render(heroTagline),
	)
}

func (m *model) viewWelcome() string {
	parts := []string{
		m.heroView(),
		"",
		"  l  log in",
		"  s  create an account",
		"  q  quit",
	}
	return m.withStatus(parts)
}

func (m *model) viewAuth() string {
	header := "Log In"
	hint := "Enter: submit • Tab: next field • Esc: back"
	if m.stage == stageSignUp {
		header = "Create Account"
	}

	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render(header))
	b.WriteRune('\n')
	for _, field := range m.authFormRows() {
		b.WriteRune('\n')
		b.WriteString(field.label)
		b.WriteRune('\n')
		b.WriteString(field.input)
		if msg, ok := m.fieldErrors[field.key]; ok {
			b.WriteRune('\n')
			b.WriteString(fieldErrorStyle.Render("  " + msg))
		}
	}
	b.WriteRune('\n')
	if m.authLoading {
		b.WriteString(fmt.Sprintf("\n%s Contacting the server…", m.spinner.View()))
	}
	parts := []string{m.heroView(), "", b.String(), "", helperStyle.Render(hint)}
	return m.withStatus(parts)
}

type authRow struct {
	key   string
	label string
	input string
}

func (m *model) authFormRows() []authRow {
	if m.stage == stageSignUp {
		return []authRow{
			{"firstName", "First name", m.firstNameInput.View()},
			{"lastName", "Last name", m.lastNameInput.View()},
			{"email", "Email", m.emailInput.View()},
			{"password", "Password", m.passwordInput.View()},
		}
	}
	return []authRow{
		{"email", "Email", m.emailInput.View()},
		{"password", "Password", m.passwordInput.View()},
	}
}

func (m *model) viewDashboard() string {
	if m.accountOpen {
		return m.withStatus([]string{m.heroView(), "", m.accountPanel()})
	}
	if m.detailOpen {
		return m.viewDetail()
	}

	var columns []string
	var side []string
	if m.foldersOpen {
		side = append(side, m.foldersPanel())
	}
	if m.topicsOpen {
		side = append(side, m.topicsPanel())
	}
	if len(side) > 0 {
		columns = append(columns, lipgloss.JoinVertical(lipgloss.Left, side...))
	}
	columns = append(columns, m.papersPanel())
	body := lipgloss.JoinHorizontal(lipgloss.Top, columns...)

	parts := []string{m.heroView(), "", body}
	if m.entryMode == entryTopic {
		parts = append(parts, "", sectionHeaderStyle.Render("Add Topic"), m.entryInput.View(),
			helperStyle.Render("Enter to add, Esc to cancel."))
	}
	if m.helpVisible {
		parts = append(parts, m.helpView())
	}
	parts = append(parts, "", helperStyle.Render("j/k: move • space: toggle • enter: open • tab: switch pane • a: topic • p: poster • r: refresh • ?: help"))
	return m.withStatus(parts)
}

func (m *model) foldersPanel() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Folders (f)"))
	for i, f := range library.Folders {
		b.WriteRune('\n')
		line := fmt.Sprintf("%d. %s (%d)", i+1, f.Name(), m.folderCount(f))
		if f == m.folder {
			line = currentLineStyle.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
	}
	return panelStyle.Render(b.String())
}

func (m *model) folderCount(f library.Folder) int {
	if m.shelf == nil {
		return 0
	}
	return len(m.shelf.Papers(f))
}

func (m *model) topicsPanel() string {
	var b strings.Builder
	header := "Topics (t)"
	if m.topicsLoading || m.topicBusy {
		header = fmt.Sprintf("Topics %s", m.spinner.View())
	}
	b.WriteString(sectionHeaderStyle.Render(header))
	if len(m.topics) == 0 {
		b.WriteString("\n" + helperStyle.Render("No topics yet. Press a to add one."))
	}
	for i, t := range m.topics {
		b.WriteRune('\n')
		box := "[ ]"
		if t.Selected {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s", box, t.Name)
		if m.zone == focusTopics && i == m.topicCursor {
			line = currentLineStyle.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
	}
	return panelStyle.Render(b.String())
}

func (m *model) papersPanel() string {
	var b strings.Builder
	header := m.folder.Name()
	if m.shelfLoading {
		header = fmt.Sprintf("%s %s", header, m.spinner.View())
	}
	b.WriteString(sectionHeaderStyle.Render(header))
	papers := m.visiblePapers()
	if len(papers) == 0 && !m.shelfLoading {
		b.WriteString("\n" + helperStyle.Render("No papers in this folder."))
	}
	for i, p := range papers {
		b.WriteRune('\n')
		marker := "  "
		if p.Starred {
			marker = starStyle.Render("★ ")
		}
		line := marker + p.Title
		if p.ID == m.movingPaperID {
			line = fmt.Sprintf("%s %s moving…", m.spinner.View(), p.Title)
		}
		if m.zone == focusPapers && i == m.paperCursor {
			line = currentLineStyle.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		if len(p.Authors) > 0 {
			b.WriteString("\n" + helperStyle.Render("      "+strings.Join(p.Authors, ", ")))
		}
	}
	return panelStyle.Render(b.String())
}

func (m *model) viewDetail() string {
	paper, ok := m.currentPaper()
	if !ok {
		return m.viewDashboard()
	}
	m.refreshViewportIfDirty()

	parts := []string{
		titleStyle.Render(paper.Title),
		helperStyle.Render(strings.Join(paper.Authors, ", ")),
		"",
		m.viewport.View(),
	}
	if m.moveMenuOpen {
		parts = append(parts, "", m.moveMenu(paper))
	}
	if m.entryMode == entryNote || m.entryMode == entryNoteEdit {
		header := "New Note"
		if m.entryMode == entryNoteEdit {
			header = "Edit Note"
		}
		parts = append(parts, "", sectionHeaderStyle.Render(header), m.entryInput.View(),
			helperStyle.Render("Enter to save, Esc to cancel."))
	}
	parts = append(parts, "", helperStyle.Render("s: star • m: move • n/e/x: notes • j/k: note cursor • Esc: back"))
	return m.withStatus(parts)
}

// refreshViewportIfDirty rebuilds the detail body only when its inputs moved.
func (m *model) refreshViewportIfDirty() {
	if !m.viewportDirty {
		return
	}
	paper, ok := m.currentPaper()
	if !ok {
		return
	}
	width := m.viewport.Width
	if width < minViewportWidth {
		width = minViewportWidth
	}

	var b strings.Builder
	b.WriteString(helperStyle.Render(fmt.Sprintf("%s • %s", paper.Folder.Name(), paper.Date)))
	if paper.Starred {
		b.WriteString(" " + starStyle.Render("★ starred"))
	}
	if len(paper.Labels) > 0 {
		b.WriteString("\n" + helperStyle.Render("Labels: "+strings.Join(paper.Labels, ", ")))
	}
	if paper.Abstract != "" {
		b.WriteString("\n\n" + sectionHeaderStyle.Render("Abstract"))
		b.WriteString("\n" + wordwrap.String(paper.Abstract, width))
	}
	if paper.Summary != "" {
		b.WriteString("\n\n" + sectionHeaderStyle.Render("Summary"))
		b.WriteString("\n" + wordwrap.String(paper.Summary, width))
	}
	b.WriteString("\n\n" + sectionHeaderStyle.Render("Notes"))
	if len(m.detailNotes) == 0 {
		b.WriteString("\n" + helperStyle.Render("No notes yet. Press n to add one."))
	}
	for i, note := range m.detailNotes {
		prefix := "  "
		if i == m.noteCursor {
			prefix = currentLineStyle.Render("▸ ")
		}
		b.WriteString(fmt.Sprintf("\n%s%s", prefix, wordwrap.String(note.Text, width-4)))
		b.WriteString("\n  " + helperStyle.Render(note.DisplayDate()))
	}
	m.viewport.SetContent(b.String())
	m.viewportDirty = false
}

func (m *model) moveMenu(paper library.Paper) string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Move To"))
	for _, f := range library.Folders {
		b.WriteRune('\n')
		line := f.Name()
		if f == paper.Folder {
			line += " (current)"
		}
		if f == m.moveCursor {
			line = currentLineStyle.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
	}
	b.WriteString("\n" + helperStyle.Render("Enter to move, Esc to cancel."))
	return panelStyle.Render(b.String())
}

func (m *model) accountPanel() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Account"))
	if m.user != nil {
		b.WriteString("\n" + m.user.FullName())
		b.WriteString("\n" + helperStyle.Render(m.user.Email))
		if m.user.CreatedAt != "" {
			b.WriteString("\n" + helperStyle.Render("Member since "+m.user.CreatedAt))
		}
	}
	b.WriteString("\n\n" + helperStyle.Render("L: sign out • Esc: close"))
	return panelStyle.Render(b.String())
}

func (m *model) viewPosterSelect() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Select Papers For Your Poster"))
	papers := m.allPapers()
	for i, p := range papers {
		b.WriteRune('\n')
		box := "[ ]"
		if m.selection[p.ID] {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s", box, p.Title)
		if i == m.selectCursor {
			line = currentLineStyle.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n" + helperStyle.Render("      "+p.Folder.Name()))
	}
	b.WriteString(fmt.Sprintf("\n\n%d selected", len(m.selectedIDs())))
	parts := []string{m.heroView(), "", panelStyle.Render(b.String()),
		helperStyle.Render("space: toggle • enter: choose template • Esc: back")}
	return m.withStatus(parts)
}

func (m *model) viewTemplateSelect() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Choose A Template"))
	for i, tpl := range poster.Templates {
		b.WriteRune('\n')
		box := "( )"
		if m.templateID == tpl.ID {
			box = "(•)"
		}
		line := fmt.Sprintf("%s %s", box, tpl.Name)
		if i == m.templateCursor {
			line = currentLineStyle.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n" + helperStyle.Render("      "+tpl.Description))
	}
	parts := []string{m.heroView(), "", panelStyle.Render(b.String()),
		helperStyle.Render("space: select (again to clear) • g: generate • Esc: back")}
	return m.withStatus(parts)
}

func (m *model) viewPosterView() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Poster"))
	switch {
	case m.posterLoading:
		b.WriteString(fmt.Sprintf("\n%s Rendering your poster…", m.spinner.View()))
	case m.poster != nil:
		tpl := m.poster.Template
		b.WriteString("\n" + tpl.Name)
		b.WriteString("\n" + helperStyle.Render("Poster "+m.poster.ID))
		switch {
		case m.downloadLoading:
			b.WriteString(fmt.Sprintf("\n\n%s Downloading PDF…", m.spinner.View()))
		case m.download != nil:
			b.WriteString(fmt.Sprintf("\n\n%d page PDF", m.download.Pages))
			b.WriteString("\n" + helperStyle.Render(m.download.Path))
		}
	}
	parts := []string{m.heroView(), "", panelStyle.Render(b.String()),
		helperStyle.Render("b: back to dashboard • q: quit")}
	return m.withStatus(parts)
}

func (m *model) helpView() string {
	lines := []string{
		helperStyle.Render("• 1/2/3 switch folders, f and t collapse the side panels."),
		helperStyle.Render("• space stars a paper or ticks a topic, enter opens the detail view."),
		helperStyle.Render("• selected topics filter the list by label, clear them to see everything."),
		helperStyle.Render("• p starts the poster flow, u shows your account, L signs out."),
	}
	return helpBoxStyle.Render(strings.Join(lines, "\n"))
}

func (m *model) withStatus(parts []string) string {
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		parts = append(parts, helperStyle.Render(m.infoMessage))
	}
	return joinNonEmpty(parts)
}

func joinNonEmpty(parts []string) string {
	out := make([]string, 0, len(parts))
	for i, part := range parts {
		if part == "" && i > 0 && len(out) > 0 && out[len(out)-1] == "" {
			continue
		}
		out = append(out, part)
	}
	return strings.Join(out, "\n")
}
