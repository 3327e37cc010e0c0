// Package oddoneout adapts the Odd One Out round to the arcade platform:
// it maps cursor keys and mouse taps onto cells and draws the board.
package oddoneout

import (
	"sync"
	"time"

	"github.com/vovakirdan/oddoneout/internal/config"
	platformcore "github.com/vovakirdan/oddoneout/internal/core"
	"github.com/vovakirdan/oddoneout/internal/games/oddoneout/core"
	"github.com/vovakirdan/oddoneout/internal/registry"
)

// Mode selects whether the level adapts to the player.
type Mode string

const (
	ModeAdaptive Mode = "adaptive"
	ModeFixed    Mode = "fixed"
)

const (
	hudHeight    = 2
	footerHeight = 2
	bannerTicks  = 60
)

// Game implements registry.Game for Odd One Out.
type Game struct {
	mode     Mode
	preset   config.DifficultyPreset
	cfg      config.OddOneOutConfig
	layout   core.Layout
	pool     core.Pool
	round    *core.Round
	tick     uint64
	tickRate int

	screenW  int
	screenH  int
	tooSmall bool
	paused   bool
	cursor   int

	// Mirrors of what the round last published.
	board     core.Board
	score     int
	level     int
	remaining int

	ended        bool
	restartReady bool
	summary      core.Summary

	wrongMarks map[int]bool // cells tapped wrong on the current board
	hitCell    int          // correct cell being highlighted, or -1
	banner     string
	bannerLeft int

	trials []core.Trial
}

// Package-level settings, applied on the next Reset.
var (
	settingsMu       sync.Mutex
	configPath       string
	difficultyPreset config.DifficultyPreset
	configOverride   *config.OddOneOutConfig
)

// SetConfigPath sets the config file used by new rounds. Empty means search defaults.
func SetConfigPath(path string) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset applied on top of the config.
func SetDifficultyPreset(preset config.DifficultyPreset) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	difficultyPreset = preset
}

// SetConfig replaces the file-based config for new rounds, typically after a
// hot reload. Passing nil goes back to loading from disk.
func SetConfig(cfg *config.OddOneOutConfig) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	configOverride = cfg
}

// LoadConfig returns the config new rounds will use, with the preset applied.
func LoadConfig() config.OddOneOutConfig {
	settingsMu.Lock()
	defer settingsMu.Unlock()

	var cfg config.OddOneOutConfig
	if configOverride != nil {
		cfg = *configOverride
	} else {
		loaded, err := config.Load(configPath)
		if err != nil {
			loaded = config.DefaultOddOneOutConfig()
		}
		cfg = loaded
	}
	config.ApplyPreset(&cfg, difficultyPreset)
	return cfg
}

// New creates an adaptive-difficulty game.
func New() *Game {
	return &Game{mode: ModeAdaptive, hitCell: -1}
}

// NewFixed creates a game whose level never changes during a round.
func NewFixed() *Game {
	return &Game{mode: ModeFixed, hitCell: -1}
}

func init() {
	registry.Register("oddoneout", func() registry.Game {
		return New()
	})
	registry.Register("oddoneout_fixed", func() registry.Game {
		return NewFixed()
	})
}

// SetPreset overrides the package-wide difficulty preset for this game
// from the next Reset on. SSH sessions use it so players don't share one.
func (g *Game) SetPreset(preset config.DifficultyPreset) {
	g.preset = preset
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeFixed {
		return "oddoneout_fixed"
	}
	return "oddoneout"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeFixed {
		return "Odd One Out (Fixed Level)"
	}
	return "Odd One Out"
}

// Reset loads the current config and starts a new round.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	g.cfg = LoadConfig()
	config.ApplyPreset(&g.cfg, g.preset)
	if g.mode == ModeFixed {
		g.cfg.Difficulty.Adaptive = false
	}

	g.layout = core.NewLayout(g.cfg.Board)
	g.pool = core.NewPool(g.cfg.Identities.Names)
	g.tick = 0
	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = 60
	}
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.paused = false
	g.cursor = 0
	g.ended = false
	g.restartReady = false
	g.summary = core.Summary{}
	g.wrongMarks = make(map[int]bool)
	g.hitCell = -1
	g.banner = ""
	g.bannerLeft = 0
	g.trials = nil

	g.round = core.NewRound(core.RulesFromConfig(g.cfg), g.pool, g.layout.Rows, g.layout.Cols, cfg.Seed, &presenter{g: g})
	g.round.OnTrial(func(tr core.Trial) {
		g.trials = append(g.trials, tr)
	})
	g.round.Start()

	g.checkScreenSize()
}

// checkScreenSize reports whether the grid, HUD and footer fit.
func (g *Game) checkScreenSize() {
	b := g.layout.Bounds()
	minW := b.Right() + 1
	minH := max(b.Bottom(), hudHeight) + footerHeight
	g.tooSmall = g.screenW < minW || g.screenH < minH
}

// clock converts the tick count into round time.
func (g *Game) clock() time.Duration {
	return time.Duration(g.tick) * time.Second / time.Duration(g.tickRate)
}

// Step advances the game by one tick.
func (g *Game) Step(in platformcore.InputFrame) platformcore.StepResult {
	if g.tooSmall {
		return platformcore.StepResult{State: g.State()}
	}

	if in.Has(platformcore.ActionPause) && !g.ended {
		g.paused = !g.paused
	}
	if g.paused {
		return platformcore.StepResult{State: g.State()}
	}

	g.tick++
	g.round.Tick(g.clock())

	if g.bannerLeft > 0 {
		g.bannerLeft--
		if g.bannerLeft == 0 {
			g.banner = ""
		}
	}

	if g.ended {
		return platformcore.StepResult{State: g.State()}
	}

	g.moveCursor(in)

	switch {
	case in.Tap != nil:
		if cell, ok := g.layout.CellAt(*in.Tap); ok {
			g.cursor = cell
			g.round.Tap(cell)
		}
	case in.Has(platformcore.ActionSelect):
		g.round.Tap(g.cursor)
	}

	return platformcore.StepResult{State: g.State()}
}

// moveCursor moves the keyboard cursor, wrapping at the grid edges.
func (g *Game) moveCursor(in platformcore.InputFrame) {
	row, col := g.layout.RowCol(g.cursor)
	switch {
	case in.Has(platformcore.ActionUp):
		row = (row - 1 + g.layout.Rows) % g.layout.Rows
	case in.Has(platformcore.ActionDown):
		row = (row + 1) % g.layout.Rows
	case in.Has(platformcore.ActionLeft):
		col = (col - 1 + g.layout.Cols) % g.layout.Cols
	case in.Has(platformcore.ActionRight):
		col = (col + 1) % g.layout.Cols
	default:
		return
	}
	g.cursor = g.layout.Index(row, col)
}

// State returns the current game state. GameOver turns true once the
// round has ended and the new round prompt is up.
func (g *Game) State() platformcore.GameState {
	return platformcore.GameState{
		Score:    g.score,
		Level:    g.level,
		GameOver: g.restartReady,
		Paused:   g.paused || g.tooSmall,
	}
}

// DrainTrials returns the trials evaluated since the last call.
func (g *Game) DrainTrials() []core.Trial {
	out := g.trials
	g.trials = nil
	return out
}

// Layout returns the active grid geometry.
func (g *Game) Layout() core.Layout {
	return g.layout
}

// presenter mirrors round events into the game for rendering.
type presenter struct {
	g *Game
}

func (p *presenter) BoardPublished(b core.Board) {
	p.g.board = b
	p.g.level = b.Level
	p.g.hitCell = -1
	clear(p.g.wrongMarks)
}

func (p *presenter) ScoreChanged(score int) {
	p.g.score = score
}

func (p *presenter) TimeRemainingChanged(seconds int) {
	p.g.remaining = seconds
}

func (p *presenter) LevelChanged(level int, dir core.LevelDirection) {
	p.g.level = level
	p.g.bannerLeft = bannerTicks
	if dir == core.LevelUp {
		p.g.banner = "LEVEL UP!"
	} else {
		p.g.banner = "LEVEL DOWN"
	}
}

func (p *presenter) Feedback(kind core.FeedbackKind, cell int) {
	if kind == core.FeedbackCorrect {
		p.g.hitCell = cell
		return
	}
	p.g.wrongMarks[cell] = true
}

func (p *presenter) RoundEnded(s core.Summary) {
	p.g.ended = true
	p.g.summary = s
}

func (p *presenter) NewRoundRequested() {
	p.g.restartReady = true
}

var _ core.Presenter = (*presenter)(nil)
