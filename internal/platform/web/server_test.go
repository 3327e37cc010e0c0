package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/oddoneout/internal/config"
	"github.com/vovakirdan/oddoneout/internal/games/oddoneout/core"
	"github.com/vovakirdan/oddoneout/internal/storage"
)

const testSeed = 99

func newTestServer(t *testing.T, cfg config.OddOneOutConfig, store *storage.Store) (*Server, *httptest.Server) {
	t.Helper()
	srv := New(Options{
		TickRate: 100,
		Seed:     testSeed,
		Config:   func() config.OddOneOutConfig { return cfg },
		Store:    store,
		Logger:   log.New(io.Discard),
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads messages until one of the given type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) ServerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second)) //nolint:errcheck
	for {
		var msg ServerMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %q: %v", typ, err)
		}
		if msg.Type == typ {
			return msg
		}
	}
}

// expectedBoard replays the server's first round locally with the same seed.
func expectedBoard(cfg config.OddOneOutConfig) core.Board {
	r := core.NewRound(core.RulesFromConfig(cfg), core.NewPool(cfg.Identities.Names),
		cfg.Board.Rows, cfg.Board.Cols, testSeed, nil)
	r.Start()
	return r.Board()
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, config.DefaultOddOneOutConfig(), nil)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("content type = %q", ct)
	}
}

func TestLayout(t *testing.T) {
	cfg := config.DefaultOddOneOutConfig()
	_, ts := newTestServer(t, cfg, nil)

	resp, err := http.Get(ts.URL + "/layout")
	if err != nil {
		t.Fatalf("GET /layout failed: %v", err)
	}
	defer resp.Body.Close()

	var got layoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.Rows != cfg.Board.Rows || got.Cols != cfg.Board.Cols {
		t.Errorf("grid = %dx%d, want %dx%d", got.Rows, got.Cols, cfg.Board.Rows, cfg.Board.Cols)
	}
	if len(got.Cells) != cfg.Board.Size() {
		t.Fatalf("cells = %d, want %d", len(got.Cells), cfg.Board.Size())
	}

	l := core.NewLayout(cfg.Board)
	last := got.Cells[len(got.Cells)-1]
	want := l.CellRect(len(got.Cells) - 1)
	if last.X != want.X || last.Y != want.Y || last.W != want.W || last.H != want.H {
		t.Errorf("last cell = %+v, want %+v", last, want)
	}
}

func TestRejectsUnknownVariant(t *testing.T) {
	_, ts := newTestServer(t, config.DefaultOddOneOutConfig(), nil)

	tests := []string{"?variant=snake", "?difficulty=insane"}
	for _, q := range tests {
		url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws" + q
		_, resp, err := websocket.DefaultDialer.Dial(url, nil)
		if err == nil {
			t.Errorf("%s: expected dial to fail", q)
			continue
		}
		if resp == nil || resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %v", q, resp)
		}
	}
}

func TestInitialMessages(t *testing.T) {
	cfg := config.DefaultOddOneOutConfig()
	_, ts := newTestServer(t, cfg, nil)
	conn := dial(t, ts, "")

	score := readUntil(t, conn, TypeScore)
	if score.Value == nil || *score.Value != 0 {
		t.Errorf("initial score = %v, want 0", score.Value)
	}
	tm := readUntil(t, conn, TypeTime)
	if tm.Value == nil || *tm.Value != cfg.Round.DurationSecs {
		t.Errorf("initial time = %v, want %d", tm.Value, cfg.Round.DurationSecs)
	}

	board := readUntil(t, conn, TypeBoard)
	want := expectedBoard(cfg)
	if board.Board == nil || len(board.Board.Cells) != want.Size() {
		t.Fatalf("board = %+v", board.Board)
	}
	for i, c := range want.Cells {
		got := board.Board.Cells[i]
		if got.Visible != c.Visible || got.Identity != string(c.Identity) {
			t.Fatalf("cell %d = %+v, want %+v", i, got, c)
		}
	}
}

func TestCorrectTapFlow(t *testing.T) {
	cfg := config.DefaultOddOneOutConfig()
	store, err := storage.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	srv, ts := newTestServer(t, cfg, store)
	conn := dial(t, ts, "")
	first := readUntil(t, conn, TypeBoard)

	correct := expectedBoard(cfg).Correct
	if err := conn.WriteJSON(ClientMessage{Type: TypeTap, Cell: correct}); err != nil {
		t.Fatalf("WriteJSON() failed: %v", err)
	}

	fb := readUntil(t, conn, TypeFeedback)
	if fb.Kind != "correct" || fb.Cell == nil || *fb.Cell != correct {
		t.Errorf("feedback = %+v, want correct at %d", fb, correct)
	}
	score := readUntil(t, conn, TypeScore)
	if score.Value == nil || *score.Value != 1 {
		t.Errorf("score = %v, want 1", score.Value)
	}

	next := readUntil(t, conn, TypeBoard)
	if next.Board.Generation <= first.Board.Generation {
		t.Errorf("generation %d did not advance past %d", next.Board.Generation, first.Board.Generation)
	}

	conn.Close()
	srv.Close()

	recs, err := store.RecentTrials(variantAdaptive, 10)
	if err != nil {
		t.Fatalf("RecentTrials() failed: %v", err)
	}
	if len(recs) != 1 || !recs[0].Correct {
		t.Fatalf("journal = %+v, want one correct trial", recs)
	}
	if !strings.HasPrefix(recs[0].Session, "web-") || recs[0].Round != 1 {
		t.Errorf("record = %+v", recs[0])
	}
}

func TestRoundEndsAndRestarts(t *testing.T) {
	cfg := config.DefaultOddOneOutConfig()
	cfg.Round.DurationSecs = 1
	cfg.Round.RestartDelayMs = 100
	_, ts := newTestServer(t, cfg, nil)
	conn := dial(t, ts, "?variant=oddoneout_fixed")
	readUntil(t, conn, TypeBoard)

	ended := readUntil(t, conn, TypeRoundEnded)
	if ended.Summary == nil || ended.Summary.TotalTrials != 0 {
		t.Errorf("summary = %+v", ended.Summary)
	}
	readUntil(t, conn, TypeNewRound)

	tm := readUntil(t, conn, TypeTime)
	if tm.Value == nil || *tm.Value != 1 {
		t.Errorf("restart time = %v, want 1", tm.Value)
	}
	readUntil(t, conn, TypeBoard)
}

func TestUnknownMessage(t *testing.T) {
	_, ts := newTestServer(t, config.DefaultOddOneOutConfig(), nil)
	conn := dial(t, ts, "")
	readUntil(t, conn, TypeBoard)

	if err := conn.WriteJSON(ClientMessage{Type: "jump"}); err != nil {
		t.Fatalf("WriteJSON() failed: %v", err)
	}
	msg := readUntil(t, conn, TypeError)
	if !strings.Contains(msg.Error, "jump") {
		t.Errorf("error = %q", msg.Error)
	}
}

func TestRestartMessage(t *testing.T) {
	cfg := config.DefaultOddOneOutConfig()
	_, ts := newTestServer(t, cfg, nil)
	conn := dial(t, ts, "")
	first := readUntil(t, conn, TypeBoard)

	if err := conn.WriteJSON(ClientMessage{Type: TypeRestart}); err != nil {
		t.Fatalf("WriteJSON() failed: %v", err)
	}
	score := readUntil(t, conn, TypeScore)
	if *score.Value != 0 {
		t.Errorf("score after restart = %d", *score.Value)
	}
	next := readUntil(t, conn, TypeBoard)
	if next.Board.Generation != first.Board.Generation {
		t.Errorf("fresh round generation = %d, want %d", next.Board.Generation, first.Board.Generation)
	}
}
