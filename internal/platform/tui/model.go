package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/oddoneout/internal/core"
	"github.com/vovakirdan/oddoneout/internal/registry"
	"github.com/vovakirdan/oddoneout/internal/storage"
)

// helpLines is the number of terminal rows reserved below the game screen.
const helpLines = 1

// Model is the Bubble Tea model that runs one game variant.
// It is used directly by the local CLI and embedded in SSH sessions.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	session    string
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	help       help.Model
	embedded   bool
	quitting   bool
	backToMenu bool
}

// ModelOptions configures a Model. Store and Logger may be nil.
type ModelOptions struct {
	Store   *storage.Store
	Logger  *log.Logger
	Session string // journal session label, defaults to "local"

	// Embedded models leave the program running on back-to-menu so an
	// enclosing session can switch screens.
	Embedded bool
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts ModelOptions) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.Session == "" {
		opts.Session = "local"
	}

	cfg.ScreenH = max(cfg.ScreenH-helpLines, 1)
	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      opts.Store,
		logger:     opts.Logger,
		session:    opts.Session,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		help:       help.New(),
		embedded:   opts.Embedded,
	}
}

// Init starts the game and the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.keyMapper.MapMouseToFrame(msg, &m.inputFrame)
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keyMapper.Keys()
	switch {
	case msg.String() == "?":
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	}

	switch action := m.keyMapper.MapKey(msg); action {
	case core.ActionQuit:
		m.quitting = true
		m.flushTrials()
		return m, tea.Quit
	case core.ActionBack:
		m.backToMenu = true
		m.flushTrials()
		if m.embedded {
			return m, nil
		}
		return m, tea.Quit
	case core.ActionRestart:
		if m.gameState.GameOver {
			m.inputFrame.Set(action)
		}
	case core.ActionNone:
	default:
		m.inputFrame.Set(action)
	}

	return m, nil
}

// handleResize resizes the screen buffer and restarts a running round so
// the game re-checks the minimum window size.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = max(msg.Height-helpLines, 1)
	m.screen.Resize(m.config.ScreenW, m.config.ScreenH)
	m.help.Width = msg.Width

	if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.flushTrials()

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// flushTrials moves evaluated taps from the game into the journal.
func (m *Model) flushTrials() {
	src, ok := m.game.(registry.TrialSource)
	if !ok {
		return
	}
	trials := src.DrainTrials()
	if len(trials) == 0 || m.store == nil {
		return
	}

	recs := make([]storage.TrialRecord, 0, len(trials))
	for _, tr := range trials {
		recs = append(recs, storage.NewTrialRecord(m.game.ID(), m.session, tr))
	}
	if err := m.store.RecordTrials(recs); err != nil && m.logger != nil {
		m.logger.Warn("journal write failed", "game", m.game.ID(), "error", err)
	}
}

// saveScreenshot writes the current screen as plain text under ~/.arcade/screenshots.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".arcade", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the game screen followed by the key help line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keyMapper.Keys()))
}

// WantsMenu returns true if the player left the game for the menu.
func (m Model) WantsMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if the player asked to quit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// State returns the last game state seen by the model.
func (m Model) State() core.GameState {
	return m.gameState
}

// Run starts the Bubble Tea program for a game.
// It returns true if the player asked to go back to the menu.
func Run(game registry.Game, cfg core.RuntimeConfig, opts ModelOptions) (bool, error) {
	p := tea.NewProgram(
		NewModel(game, cfg, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	fm, ok := final.(Model)
	return ok && fm.WantsMenu(), nil
}
