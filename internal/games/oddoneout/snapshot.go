package oddoneout

import (
	"github.com/vovakirdan/oddoneout/internal/games/oddoneout/core"
)

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StateFeedback    GameStateType = "feedback" // waiting for the next board after a correct tap
	StatePaused      GameStateType = "paused"
	StateRoundOver   GameStateType = "round_over"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick       uint64
	Mode       string
	Generation uint64
	Score      int
	Level      int
	Remaining  int
	Cursor     int
	Correct    int // index of the correct cell on the current board
	Visible    int
	Cells      []core.CellAssignment
	Round      core.RoundState
	State      GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.ended:
		state = StateRoundOver
	case g.paused:
		state = StatePaused
	case !g.round.InputEnabled():
		state = StateFeedback
	}

	b := g.board.Clone()
	return Snapshot{
		Tick:       g.tick,
		Mode:       string(g.mode),
		Generation: b.Generation,
		Score:      g.score,
		Level:      g.level,
		Remaining:  g.remaining,
		Cursor:     g.cursor,
		Correct:    b.Correct,
		Visible:    b.VisibleCount(),
		Cells:      b.Cells,
		Round:      g.round.State(),
		State:      state,
	}
}
