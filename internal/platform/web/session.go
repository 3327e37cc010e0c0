package web

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/oddoneout/internal/config"
	"github.com/vovakirdan/oddoneout/internal/games/oddoneout/core"
	"github.com/vovakirdan/oddoneout/internal/storage"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

// session owns one connection's Round. Only run touches the round, so the
// round needs no locking; the pumps talk to it over channels.
type session struct {
	id      string
	variant string
	preset  config.DifficultyPreset
	seed    int64
	server  *Server
	conn    *websocket.Conn
	logger  *log.Logger

	send    chan ServerMessage
	inbox   chan ClientMessage
	written chan struct{} // closed when writePump exits

	round   *core.Round
	started time.Time
	roundNo uint64
	restart bool
	trials  []storage.TrialRecord
}

func newSession(srv *Server, conn *websocket.Conn, id, variant string, preset config.DifficultyPreset, seed int64) *session {
	return &session{
		id:      id,
		variant: variant,
		preset:  preset,
		seed:    seed,
		server:  srv,
		conn:    conn,
		logger:  srv.logger.With("session", id),
		send:    make(chan ServerMessage, sendBuffer),
		inbox:   make(chan ClientMessage),
		written: make(chan struct{}),
	}
}

// run drives the round until the client leaves or ctx is done.
func (s *session) run(ctx context.Context) {
	defer close(s.send)

	go s.writePump()
	go s.readPump()

	ticker := time.NewTicker(time.Second / time.Duration(s.server.tickRate))
	defer ticker.Stop()

	s.newRound()
	s.logger.Info("session started", "variant", s.variant, "preset", s.preset)
	defer func() {
		s.flushTrials()
		s.logger.Info("session ended", "rounds", s.roundNo)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.written:
			return
		case msg, ok := <-s.inbox:
			if !ok {
				return
			}
			s.handle(msg)
		case <-ticker.C:
			s.round.Tick(time.Since(s.started))
		}

		if s.restart {
			s.restart = false
			s.newRound()
		}
		s.flushTrials()
	}
}

func (s *session) handle(msg ClientMessage) {
	switch msg.Type {
	case TypeTap:
		s.round.Tick(time.Since(s.started))
		s.round.Tap(msg.Cell)
	case TypeRestart:
		s.restart = true
	default:
		s.emit(ServerMessage{Type: TypeError, Error: "unknown message type " + msg.Type})
	}
}

// newRound builds a round from the current config, so reloads apply to
// every round after the one in progress.
func (s *session) newRound() {
	cfg := s.server.loadConfig()
	config.ApplyPreset(&cfg, s.preset)
	if s.variant == variantFixed {
		cfg.Difficulty.Adaptive = false
	}

	seed := s.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	} else {
		seed += int64(s.roundNo)
	}

	s.roundNo++
	s.round = core.NewRound(core.RulesFromConfig(cfg), core.NewPool(cfg.Identities.Names),
		cfg.Board.Rows, cfg.Board.Cols, seed, &presenter{s: s})
	s.round.OnTrial(func(tr core.Trial) {
		rec := storage.NewTrialRecord(s.variant, s.id, tr)
		rec.Round = s.roundNo
		s.trials = append(s.trials, rec)
	})
	s.started = time.Now()
	s.round.Start()
}

func (s *session) flushTrials() {
	if len(s.trials) == 0 {
		return
	}
	if s.server.store != nil {
		if err := s.server.store.RecordTrials(s.trials); err != nil {
			s.logger.Warn("journal write failed", "error", err)
		}
	}
	s.trials = s.trials[:0]
}

// emit queues a message for the writer. It gives up once the writer is gone.
func (s *session) emit(msg ServerMessage) {
	select {
	case s.send <- msg:
	case <-s.written:
	}
}

// readPump forwards client commands to run. It closes inbox on exit.
func (s *session) readPump() {
	defer close(s.inbox)

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck // Fails only on a closed conn
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg ClientMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read failed", "error", err)
			}
			return
		}
		select {
		case s.inbox <- msg:
		case <-s.written:
			return
		}
	}
}

// writePump writes queued messages and keeps the connection alive with pings.
func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(s.written)
		s.conn.Close() //nolint:errcheck // Already tearing down
	}()

	for {
		select {
		case msg, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck // Fails only on a closed conn
			if !ok {
				//nolint:errcheck // Peer may already be gone
				s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := s.conn.WriteJSON(msg); err != nil {
				s.logger.Debug("websocket write failed", "error", err)
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck // Fails only on a closed conn
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// presenter turns round events into wire messages.
type presenter struct {
	s *session
}

func (p *presenter) BoardPublished(b core.Board) {
	p.s.emit(boardMessage(b))
}

func (p *presenter) ScoreChanged(score int) {
	p.s.emit(ServerMessage{Type: TypeScore, Value: intPtr(score)})
}

func (p *presenter) TimeRemainingChanged(seconds int) {
	p.s.emit(ServerMessage{Type: TypeTime, Value: intPtr(seconds)})
}

func (p *presenter) LevelChanged(level int, dir core.LevelDirection) {
	p.s.emit(ServerMessage{Type: TypeLevel, Value: intPtr(level), Direction: dir.String()})
}

func (p *presenter) Feedback(kind core.FeedbackKind, cell int) {
	p.s.emit(ServerMessage{Type: TypeFeedback, Kind: kind.String(), Cell: intPtr(cell)})
}

func (p *presenter) RoundEnded(sum core.Summary) {
	p.s.emit(summaryMessage(sum))
}

// NewRoundRequested restarts after the current Tick returns, not inside it.
func (p *presenter) NewRoundRequested() {
	p.s.emit(ServerMessage{Type: TypeNewRound})
	p.s.restart = true
}

var _ core.Presenter = (*presenter)(nil)
