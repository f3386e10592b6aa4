package tui

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aalvaropc/preprints/internal/domain"
	"github.com/aalvaropc/preprints/internal/usecase"
)

type screen int

const (
	screenHome screen = iota
	screenSubjects
	screenWizard
	screenSelection
)


type menuItem struct {
	title string
	desc  string
}

func (m menuItem) Title() string       { return m.title }
func (m menuItem) Description() string { return m.desc }
func (m menuItem) FilterValue() string { return m.title }

type subjectItem struct {
	subject  domain.Subject
	selected bool
}

func (s subjectItem) Title() string {
	if s.selected {
		return "✓ " + s.subject.Name
	}
	return "  " + s.subject.Name
}
func (s subjectItem) Description() string { return s.subject.ID }
func (s subjectItem) FilterValue() string { return s.subject.Name }

type model struct {
	theme Theme
	deps  Deps

	scr      screen
	menu     list.Model
	subjects list.Model
	browse   []domain.Subject
	loading  bool
	toast    string

	workspaceFound bool
	workspaceRoot  string
}

func Run(deps Deps) error {
	p := tea.NewProgram(newGuard(newModel(deps), deps.Logger, backHome), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	items := []list.Item{
		menuItem{"Subjects", "Browse the taxonomy and pick subjects"},
		menuItem{"Wizard", "Panels of the current submission"},
		menuItem{"Selection", "Selected subject paths, as submitted"},
		menuItem{"Init Workspace", "Write preprints.yaml in the current directory"},
		menuItem{"Quit", "Exit preprints"},
	}

	menu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "preprints"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(true)
	menu.SetShowHelp(false)

	subjects := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	subjects.SetShowStatusBar(false)
	subjects.SetShowHelp(false)

	m := model{
		theme:    DefaultTheme(),
		deps:     deps,
		scr:      screenHome,
		menu:     menu,
		subjects: subjects,
	}

	wd, err := os.Getwd()
	if err == nil && deps.Locator != nil {
		if root, findErr := deps.Locator.FindRoot(wd); findErr == nil {
			m.workspaceFound = true
			m.workspaceRoot = root
		}
	}
	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.menu.SetSize(msg.Width-4, msg.Height-10)
		m.subjects.SetSize(msg.Width-4, msg.Height-12)
		return m, nil

	case workspaceRefreshedMsg:
		m.workspaceFound, m.workspaceRoot = msg.found, msg.root
		return m, nil

	case initWorkspaceDoneMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.toast = "Workspace created at " + msg.root + " (restart to load it)"
		return m, cmdRefreshWorkspace(m.deps)

	case childrenLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.browse = msg.browse
		m.setSubjectItems(msg.items)
		return m, nil

	case selectDoneMsg:
		m.loading = false
		m.drainNotifications()
		if msg.err != nil {
			m.toast = userMessage(msg.err)
		}
		m.showLevels(m.sub().Current(), m.sub().Levels())
		return m, nil

	case panelMovedMsg:
		m.toast = userMessage(msg.err)
		m.drainNotifications()
		return m, nil

	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	}

	switch m.scr {
	case screenHome:
		var cmd tea.Cmd
		m.menu, cmd = m.menu.Update(msg)
		return m, cmd
	case screenSubjects:
		var cmd tea.Cmd
		m.subjects, cmd = m.subjects.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd, bool) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit, true
	}

	switch m.scr {
	case screenHome:
		switch key {
		case "q":
			return m, tea.Quit, true
		case "enter":
			it, ok := m.menu.SelectedItem().(menuItem)
			if !ok {
				return m, nil, true
			}
			return m.open(it.title)
		}

	case screenSubjects:
		if m.subjects.FilterState() == list.Filtering {
			return m, nil, false
		}
		switch key {
		case "esc", "q":
			m.scr = screenHome
			return m, nil, true
		case "enter", " ":
			it, ok := m.subjects.SelectedItem().(subjectItem)
			if !ok || m.loading {
				return m, nil, true
			}
			m.loading = true
			return m, cmdSelect(m.sub(), append(slices.Clone(m.browse), it.subject)), true
		case "x", "delete":
			it, ok := m.subjects.SelectedItem().(subjectItem)
			if !ok {
				return m, nil, true
			}
			m.sub().Deselect(append(crumbPath(m.browse), it.subject.Name))
			m.refreshSubjectMarks()
			return m, nil, true
		case "backspace", "left", "h":
			if len(m.browse) == 0 || m.loading {
				return m, nil, true
			}
			m.loading = true
			return m, cmdLoadChildren(m.sub(), m.browse[:len(m.browse)-1]), true
		}

	case screenWizard:
		switch key {
		case "esc", "q":
			m.scr = screenHome
			return m, nil, true
		case "n", "right", "l":
			return m, cmdMovePanel(m.deps.Submission, true), true
		case "p", "left", "h":
			return m, cmdMovePanel(m.deps.Submission, false), true
		}

	case screenSelection:
		switch key {
		case "esc", "q", "b":
			m.scr = screenHome
			return m, nil, true
		}
	}
	return m, nil, false
}

func (m model) open(title string) (model, tea.Cmd, bool) {
	m.toast = ""
	switch title {
	case "Quit":
		return m, tea.Quit, true
	case "Init Workspace":
		wd, err := os.Getwd()
		if err != nil {
			m.toast = userMessage(err)
			return m, nil, true
		}
		return m, cmdInitWorkspaceHere(m.deps, wd), true
	}

	if m.deps.Submission == nil {
		m.toast = "No workspace found. Use Init Workspace first."
		return m, nil, true
	}

	switch title {
	case "Subjects":
		m.scr = screenSubjects
		m.loading = true
		return m, cmdShowLevels(m.sub()), true
	case "Wizard":
		m.scr = screenWizard
	case "Selection":
		m.scr = screenSelection
	}
	return m, nil, true
}

func (m model) sub() *usecase.Subjects { return m.deps.Submission.Subjects() }

func (m *model) setSubjectItems(subjects []domain.Subject) {
	items := make([]list.Item, 0, len(subjects))
	base := crumbPath(m.browse)
	for _, s := range subjects {
		items = append(items, subjectItem{subject: s, selected: m.sub().IsSelected(append(slices.Clone(base), s.Name))})
	}
	m.subjects.SetItems(items)
	m.subjects.Title = breadcrumbTitle(m.browse)
	m.subjects.ResetSelected()
}

// showLevels lists the deepest visible level that has children. The list and its
// cursor stay as they are when that level is already shown.
func (m *model) showLevels(current []domain.Subject, levels []domain.Level) {
	browse, items, ok := levelView(current, levels)
	if !ok || slices.Equal(browse, m.browse) {
		m.refreshSubjectMarks()
		return
	}
	m.browse = browse
	m.setSubjectItems(items)
}

func (m *model) refreshSubjectMarks() {
	base := crumbPath(m.browse)
	items := m.subjects.Items()
	for i, it := range items {
		si, ok := it.(subjectItem)
		if !ok {
			continue
		}
		si.selected = m.sub().IsSelected(append(slices.Clone(base), si.subject.Name))
		items[i] = si
	}
	m.subjects.SetItems(items)
}

func (m *model) drainNotifications() {
	if m.deps.Notifications == nil {
		return
	}
	msgs := m.deps.Notifications.Drain()
	if len(msgs) > 0 {
		m.toast = msgs[len(msgs)-1].Text
	}
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("preprints") + "\n" +
		m.theme.Subtitle.Render("Submit and discover preprints from the terminal") + "\n"

	var banner string
	if m.workspaceFound {
		banner = m.theme.Help.Render(fmt.Sprintf("Workspace: %s", m.workspaceRoot))
	} else {
		banner = m.theme.Card.Render("⚠ No workspace found.\n\nCreate one with Init Workspace or `preprints init`.")
	}

	var toast string
	if m.toast != "" {
		toast = "\n" + m.theme.Toast.Render(m.toast)
	}

	var body, help string
	switch m.scr {
	case screenHome:
		body = m.theme.Card.Render(m.menu.View())
		help = "↑/↓ navigate • enter open • / search • q quit"
	case screenSubjects:
		body = m.theme.Card.Render(m.subjects.View())
		help = "enter select/open • x deselect • backspace up • / filter • esc home"
		if m.loading {
			help = "loading… • " + help
		}
	case screenWizard:
		body = m.theme.Card.Render(renderPanels(m.theme, m.deps.Submission))
		help = "n next • p back • esc home"
	case screenSelection:
		body = m.theme.Card.Render(renderSelection(m.sub().Flatten()))
		help = "esc home"
	default:
		body = "unknown state"
	}

	return wrap.Render(header + "\n" + banner + "\n\n" + body + toast + "\n" + m.theme.Help.Render(help))
}

func breadcrumbTitle(browse []domain.Subject) string {
	if len(browse) == 0 {
		return "Subjects"
	}
	return "Subjects: " + crumbPath(browse).String()
}

// levelView picks the deepest level with children and the breadcrumb leading to it.
func levelView(current []domain.Subject, levels []domain.Level) (browse, items []domain.Subject, ok bool) {
	for i := min(len(levels), len(current)) - 1; i >= 0; i-- {
		if len(levels[i].Children) > 0 {
			return slices.Clone(current[:i+1]), levels[i].Children, true
		}
	}
	return nil, nil, false
}

func crumbPath(crumbs []domain.Subject) domain.Path {
	p := make(domain.Path, 0, len(crumbs))
	for _, c := range crumbs {
		p = append(p, c.Name)
	}
	return p
}

func joinLines(lines []string) string { return strings.Join(lines, "\n") }
