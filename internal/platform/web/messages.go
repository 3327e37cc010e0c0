package web

import (
	"github.com/vovakirdan/oddoneout/internal/games/oddoneout/core"
)

// Message types sent by the server.
const (
	TypeBoard      = "board"
	TypeScore      = "score"
	TypeTime       = "time"
	TypeLevel      = "level"
	TypeFeedback   = "feedback"
	TypeRoundEnded = "round_ended"
	TypeNewRound   = "new_round"
	TypeError      = "error"
)

// Message types sent by the client.
const (
	TypeTap     = "tap"
	TypeRestart = "restart"
)

// ClientMessage is one command read from the websocket.
type ClientMessage struct {
	Type string `json:"type"`
	Cell int    `json:"cell"`
}

// ServerMessage is one event written to the websocket. Only the fields
// relevant to Type are set.
type ServerMessage struct {
	Type      string          `json:"type"`
	Board     *BoardPayload   `json:"board,omitempty"`
	Value     *int            `json:"value,omitempty"` // score, seconds left or level
	Direction string          `json:"direction,omitempty"`
	Kind      string          `json:"kind,omitempty"`
	Cell      *int            `json:"cell,omitempty"`
	Summary   *SummaryPayload `json:"summary,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// BoardPayload is a published board without the roles, so clients cannot
// read the answer off the wire.
type BoardPayload struct {
	Rows       int           `json:"rows"`
	Cols       int           `json:"cols"`
	Level      int           `json:"level"`
	Generation uint64        `json:"generation"`
	Cells      []CellPayload `json:"cells"`
}

// CellPayload is one grid cell. Hidden cells have an empty identity.
type CellPayload struct {
	Identity string `json:"identity,omitempty"`
	Visible  bool   `json:"visible"`
}

// SummaryPayload reports a finished round.
type SummaryPayload struct {
	Score         int `json:"score"`
	Level         int `json:"level"`
	BestLevel     int `json:"bestLevel"`
	TotalTrials   int `json:"totalTrials"`
	CorrectTrials int `json:"correctTrials"`
	WrongTrials   int `json:"wrongTrials"`
}

func intPtr(v int) *int { return &v }

func boardMessage(b core.Board) ServerMessage {
	cells := make([]CellPayload, len(b.Cells))
	for i, c := range b.Cells {
		if c.Visible {
			cells[i] = CellPayload{Identity: string(c.Identity), Visible: true}
		}
	}
	return ServerMessage{
		Type: TypeBoard,
		Board: &BoardPayload{
			Rows:       b.Rows,
			Cols:       b.Cols,
			Level:      b.Level,
			Generation: b.Generation,
			Cells:      cells,
		},
	}
}

func summaryMessage(s core.Summary) ServerMessage {
	return ServerMessage{
		Type: TypeRoundEnded,
		Summary: &SummaryPayload{
			Score:         s.Score,
			Level:         s.Level,
			BestLevel:     s.BestLevel,
			TotalTrials:   s.TotalTrials,
			CorrectTrials: s.CorrectTrials,
			WrongTrials:   s.WrongTrials,
		},
	}
}
