package oddoneout

import (
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/oddoneout/internal/config"
	platformcore "github.com/vovakirdan/oddoneout/internal/core"
	"github.com/vovakirdan/oddoneout/internal/games/oddoneout/core"
)

func newTestGame(t *testing.T, mutate func(*config.OddOneOutConfig)) *Game {
	t.Helper()
	cfg := config.DefaultOddOneOutConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	SetConfig(&cfg)
	t.Cleanup(func() { SetConfig(nil) })

	g := New()
	g.Reset(platformcore.RuntimeConfig{Seed: 12345, ScreenW: 80, ScreenH: 24, TickRate: 60})
	return g
}

func tapAt(g *Game, cell int) platformcore.InputFrame {
	in := platformcore.NewInputFrame()
	in.SetTap(g.layout.CellRect(cell).Center())
	return in
}

func idle() platformcore.InputFrame {
	return platformcore.NewInputFrame()
}

func TestDeterminism(t *testing.T) {
	cfg := platformcore.RuntimeConfig{Seed: 777, ScreenW: 80, ScreenH: 24, TickRate: 60}
	defaults := config.DefaultOddOneOutConfig()
	SetConfig(&defaults)
	t.Cleanup(func() { SetConfig(nil) })

	g1 := New()
	g1.Reset(cfg)
	g2 := New()
	g2.Reset(cfg)

	for i := 0; i < 600; i++ {
		var in1, in2 platformcore.InputFrame
		if i%40 == 5 {
			in1 = tapAt(g1, g1.board.Correct)
			in2 = tapAt(g2, g2.board.Correct)
		} else {
			in1, in2 = idle(), idle()
		}
		g1.Step(in1)
		g2.Step(in2)
	}

	s1, s2 := g1.Snapshot(), g2.Snapshot()
	if !reflect.DeepEqual(s1, s2) {
		t.Errorf("snapshots differ:\n%+v\n%+v", s1, s2)
	}
	if s1.Score == 0 {
		t.Error("script never scored")
	}
}

func TestMouseTapCorrect(t *testing.T) {
	g := newTestGame(t, nil)
	g.Step(idle())

	gen := g.board.Generation
	g.Step(tapAt(g, g.board.Correct))

	if g.score != 1 {
		t.Fatalf("score = %d, want 1", g.score)
	}
	if g.Snapshot().State != StateFeedback {
		t.Errorf("state = %s, want feedback", g.Snapshot().State)
	}
	if g.hitCell != g.board.Correct {
		t.Errorf("hitCell = %d, want %d", g.hitCell, g.board.Correct)
	}

	for i := 0; i < 31; i++ {
		g.Step(idle())
	}
	if g.board.Generation != gen+1 {
		t.Errorf("generation = %d, want %d", g.board.Generation, gen+1)
	}
	if g.hitCell != -1 {
		t.Error("highlight not cleared by new board")
	}
}

func TestMouseTapGutterIgnored(t *testing.T) {
	g := newTestGame(t, nil)

	r := g.layout.CellRect(0)
	in := platformcore.NewInputFrame()
	in.SetTap(platformcore.Pt(r.Right(), r.Y))
	g.Step(in)

	if got := g.round.State().TotalTrials; got != 0 {
		t.Errorf("gutter tap counted as trial (%d)", got)
	}
}

func TestSelectTapsCursor(t *testing.T) {
	g := newTestGame(t, nil)

	wrong := -1
	for i, c := range g.board.Cells {
		if c.Visible && c.Role == core.RoleWrong {
			wrong = i
			break
		}
	}
	g.cursor = wrong

	in := platformcore.NewInputFrame()
	in.Set(platformcore.ActionSelect)
	g.Step(in)

	if !g.wrongMarks[wrong] {
		t.Error("wrong tap not marked")
	}
	if g.score != 1 {
		t.Errorf("score = %d, want floor 1", g.score)
	}

	screen := platformcore.NewScreen(80, 24)
	g.Render(screen)
	mid := g.layout.CellRect(wrong).Center()
	if got := screen.Get(mid.X, mid.Y); got != '✗' {
		t.Errorf("wrong cell shows %q, want ✗", got)
	}
}

func TestCursorWraps(t *testing.T) {
	g := newTestGame(t, nil)

	tests := []struct {
		name   string
		start  int
		action platformcore.Action
		want   int
	}{
		{"left wraps to last column", 0, platformcore.ActionLeft, 11},
		{"up wraps to last row", 0, platformcore.ActionUp, 84},
		{"right wraps to first column", 11, platformcore.ActionRight, 0},
		{"down wraps to first row", 90, platformcore.ActionDown, 6},
		{"plain move", 13, platformcore.ActionDown, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g.cursor = tt.start
			in := platformcore.NewInputFrame()
			in.Set(tt.action)
			g.moveCursor(in)
			if g.cursor != tt.want {
				t.Errorf("cursor = %d, want %d", g.cursor, tt.want)
			}
		})
	}
}

func TestRoundOverPrompt(t *testing.T) {
	g := newTestGame(t, func(c *config.OddOneOutConfig) { c.Round.DurationSecs = 1 })

	for i := 0; i < 90 && !g.ended; i++ {
		g.Step(idle())
	}
	if !g.ended {
		t.Fatal("round did not end")
	}
	if g.State().GameOver {
		t.Error("GameOver set before the restart delay")
	}

	for i := 0; i < 90 && !g.State().GameOver; i++ {
		g.Step(idle())
	}
	if !g.State().GameOver {
		t.Fatal("restart prompt never appeared")
	}

	screen := platformcore.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Press R to play again") {
		t.Error("summary overlay missing restart prompt")
	}
}

func TestPauseFreezesClock(t *testing.T) {
	g := newTestGame(t, nil)
	g.Step(idle())

	pause := platformcore.NewInputFrame()
	pause.Set(platformcore.ActionPause)
	g.Step(pause)

	tick := g.tick
	for i := 0; i < 180; i++ {
		g.Step(idle())
	}
	if g.tick != tick || g.remaining != 60 {
		t.Errorf("clock advanced while paused: tick %d->%d remaining %d", tick, g.tick, g.remaining)
	}
	if !g.State().Paused {
		t.Error("State().Paused = false")
	}
}

func TestFixedMode(t *testing.T) {
	g := newTestGame(t, nil)
	f := NewFixed()
	f.Reset(platformcore.RuntimeConfig{Seed: 1, ScreenW: 80, ScreenH: 24, TickRate: 60})

	if f.ID() != "oddoneout_fixed" || g.ID() != "oddoneout" {
		t.Errorf("IDs = %q, %q", f.ID(), g.ID())
	}
	if f.round.Rules().Adaptive {
		t.Error("fixed mode left adaptation on")
	}
}

func TestRenderHUD(t *testing.T) {
	g := newTestGame(t, nil)
	g.Step(idle())

	screen := platformcore.NewScreen(80, 24)
	g.Render(screen)

	if !strings.Contains(screen.Row(0), "Odd One Out") || !strings.Contains(screen.Row(0), "Time: 60") {
		t.Errorf("row 0 = %q", screen.Row(0))
	}
	if !strings.Contains(screen.Row(1), "Score: 0  Level: 1") {
		t.Errorf("row 1 = %q", screen.Row(1))
	}
}

func TestTooSmall(t *testing.T) {
	cfg := config.DefaultOddOneOutConfig()
	SetConfig(&cfg)
	t.Cleanup(func() { SetConfig(nil) })

	g := New()
	g.Reset(platformcore.RuntimeConfig{Seed: 1, ScreenW: 40, ScreenH: 10, TickRate: 60})
	if !g.State().Paused {
		t.Error("small window should pause the game")
	}
	g.Step(idle())
	if g.tick != 0 {
		t.Error("game ticked in a too-small window")
	}
}

func TestDrainTrials(t *testing.T) {
	g := newTestGame(t, nil)
	g.Step(idle())
	g.Step(tapAt(g, g.board.Correct))

	trials := g.DrainTrials()
	if len(trials) != 1 || trials[0].Outcome != core.TapCorrect {
		t.Fatalf("trials = %+v", trials)
	}
	if len(g.DrainTrials()) != 0 {
		t.Error("DrainTrials did not reset")
	}
}

func TestIdentityStyleUnique(t *testing.T) {
	pool := core.NewPool(config.DefaultOddOneOutConfig().Identities.Names)
	type style struct {
		glyph rune
		color platformcore.Color
	}
	seen := map[style]bool{}
	for _, id := range pool {
		g, c := IdentityStyle(pool, id)
		s := style{g, c}
		if seen[s] {
			t.Errorf("identity %q reuses style %+v", id, s)
		}
		seen[s] = true
	}
}

func TestInstancePreset(t *testing.T) {
	cfg := config.DefaultOddOneOutConfig()
	SetConfig(&cfg)
	t.Cleanup(func() { SetConfig(nil) })

	g := New()
	g.SetPreset(config.DifficultyHard)
	g.Reset(platformcore.RuntimeConfig{Seed: 1, ScreenW: 80, ScreenH: 24, TickRate: 60})
	if g.State().Level != config.StartingLevelForPreset(config.DifficultyHard) {
		t.Errorf("level = %d, want hard starting level", g.State().Level)
	}

	other := New()
	other.Reset(platformcore.RuntimeConfig{Seed: 1, ScreenW: 80, ScreenH: 24, TickRate: 60})
	if other.State().Level != cfg.Difficulty.StartingLevel {
		t.Errorf("preset leaked into another game: level %d", other.State().Level)
	}
}
