package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/oddoneout/internal/registry"
	"github.com/vovakirdan/oddoneout/internal/storage"
)

const maxRecentTrials = 100

// JournalView selects which table the journal screen shows.
type JournalView int

const (
	ViewLevels JournalView = iota
	ViewRecent
)

// JournalKeyMap defines the key bindings for the journal screen.
type JournalKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextGame   key.Binding
	PrevGame   key.Binding
	ToggleView key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k JournalKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextGame, k.ToggleView, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k JournalKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextGame, k.PrevGame},
		{k.ToggleView, k.Back, k.Quit},
	}
}

// DefaultJournalKeyMap returns default key bindings.
func DefaultJournalKeyMap() JournalKeyMap {
	return JournalKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextGame: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next variant"),
		),
		PrevGame: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev variant"),
		),
		ToggleView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "levels/recent"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// JournalModel is the Bubble Tea model for browsing the trial journal.
type JournalModel struct {
	games      []registry.GameInfo
	gameCursor int
	view       JournalView
	store      *storage.Store
	stats      *storage.JournalStats
	levels     []storage.LevelStats
	recent     []storage.TrialRecord
	loadErr    error
	table      table.Model
	help       help.Model
	keys       JournalKeyMap
	width      int
	height     int
	quitting   bool
	goingBack  bool
}

// NewJournalModel creates a journal screen for every registered variant.
func NewJournalModel(store *storage.Store, width, height int) JournalModel {
	m := JournalModel{
		games:  registry.List(),
		store:  store,
		keys:   DefaultJournalKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

func (m *JournalModel) columns() []table.Column {
	if m.view == ViewRecent {
		return []table.Column{
			{Title: "Round", Width: 6},
			{Title: "#", Width: 4},
			{Title: "Level", Width: 6},
			{Title: "Items", Width: 6},
			{Title: "Result", Width: 8},
			{Title: "Reaction", Width: 9},
			{Title: "When", Width: 13},
		}
	}
	return []table.Column{
		{Title: "Level", Width: 6},
		{Title: "Trials", Width: 8},
		{Title: "Correct", Width: 8},
		{Title: "Accuracy", Width: 9},
		{Title: "Avg Reaction", Width: 13},
	}
}

func (m *JournalModel) createTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(max(m.height-9, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// load reads the selected variant's journal and refreshes the table.
func (m *JournalModel) load() {
	m.stats, m.levels, m.recent, m.loadErr = nil, nil, nil, nil
	if m.store == nil || len(m.games) == 0 {
		m.updateRows()
		return
	}

	id := m.games[m.gameCursor].ID
	if m.stats, m.loadErr = m.store.GetJournalStats(id); m.loadErr == nil {
		if m.levels, m.loadErr = m.store.StatsByLevel(id); m.loadErr == nil {
			m.recent, m.loadErr = m.store.RecentTrials(id, maxRecentTrials)
		}
	}
	m.updateRows()
}

func (m *JournalModel) updateRows() {
	var rows []table.Row
	if m.view == ViewRecent {
		for _, r := range m.recent {
			result := "wrong"
			if r.Correct {
				result = "correct"
			}
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", r.Round),
				fmt.Sprintf("%d", r.Sequence),
				fmt.Sprintf("%d", r.Level),
				fmt.Sprintf("%d", r.Items),
				result,
				fmt.Sprintf("%dms", r.ReactionMs),
				r.CreatedAt.Format("Jan 02 15:04"),
			})
		}
	} else {
		for _, l := range m.levels {
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", l.Level),
				fmt.Sprintf("%d", l.Trials),
				fmt.Sprintf("%d", l.Correct),
				fmt.Sprintf("%.0f%%", l.Accuracy()*100),
				fmt.Sprintf("%.0fms", l.AvgReactionMs),
			})
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the journal model.
func (m JournalModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the journal screen.
func (m JournalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextGame):
			if len(m.games) > 0 {
				m.gameCursor = (m.gameCursor + 1) % len(m.games)
				m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevGame):
			if len(m.games) > 0 {
				m.gameCursor = (m.gameCursor - 1 + len(m.games)) % len(m.games)
				m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.ToggleView):
			if m.view == ViewLevels {
				m.view = ViewRecent
			} else {
				m.view = ViewLevels
			}
			m.table = m.createTable()
			m.updateRows()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the journal screen.
func (m JournalModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := "TRIAL JOURNAL"
	if len(m.games) > 0 {
		title = fmt.Sprintf("TRIAL JOURNAL - < %s >", m.games[m.gameCursor].Title)
	}
	b.WriteString(menuTitleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.summaryLine(), m.width))
	b.WriteString("\n\n")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, box.Render(m.tableContent())))

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m JournalModel) summaryLine() string {
	switch {
	case m.loadErr != nil:
		return fmt.Sprintf("journal unavailable: %v", m.loadErr)
	case m.stats == nil || m.stats.Trials == 0:
		return "No trials recorded yet."
	}
	s := m.stats
	return fmt.Sprintf("%d taps  |  %.0f%% correct  |  %d sessions  |  max level %d  |  avg %.0fms",
		s.Trials, float64(s.Correct)*100/float64(s.Trials), s.Sessions, s.MaxLevel, s.AvgReactionMs)
}

func (m JournalModel) tableContent() string {
	if len(m.table.Rows()) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return empty.Render("Nothing here yet.\nPlay a round to fill the journal!")
	}
	return m.table.View()
}

// IsGoingBack returns true if the user wants to go back to the menu.
func (m JournalModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if the user wants to quit entirely.
func (m JournalModel) IsQuitting() bool {
	return m.quitting
}

// RunJournal runs the journal screen.
// Returns true if the user wants to go back to the menu, false if quitting.
func RunJournal(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewJournalModel(store, width, height), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(JournalModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
