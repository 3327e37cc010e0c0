// Package web serves Odd One Out over websockets. Each connection gets its
// own round, driven by a ticker in a single goroutine, and receives the
// round's events as JSON messages.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/oddoneout/internal/config"
	"github.com/vovakirdan/oddoneout/internal/games/oddoneout/core"
	"github.com/vovakirdan/oddoneout/internal/storage"
)

const (
	variantAdaptive = "oddoneout"
	variantFixed    = "oddoneout_fixed"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Options configures a Server. Zero values fall back to defaults.
type Options struct {
	Addr     string
	TickRate int   // round ticks per second, default 30
	Seed     int64 // fixed seed for every connection's first round; 0 means time-based

	// Config returns the config for each new round, usually backed by a
	// config.Watcher. Defaults to the embedded defaults.
	Config func() config.OddOneOutConfig

	Store  *storage.Store
	Logger *log.Logger
}

// Server is the websocket front end.
type Server struct {
	addr       string
	tickRate   int
	seed       int64
	loadConfig func() config.OddOneOutConfig
	store      *storage.Store
	logger     *log.Logger
	router     *chi.Mux

	ctx      context.Context
	cancel   context.CancelFunc
	sessions sync.WaitGroup
}

// New builds a Server and registers its routes.
func New(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.TickRate <= 0 {
		opts.TickRate = 30
	}
	if opts.Config == nil {
		opts.Config = config.DefaultOddOneOutConfig
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "oddoneout-web",
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		addr:       opts.Addr,
		tickRate:   opts.TickRate,
		seed:       opts.Seed,
		loadConfig: opts.Config,
		store:      opts.Store,
		logger:     opts.Logger,
		router:     chi.NewRouter(),
		ctx:        ctx,
		cancel:     cancel,
	}

	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(chimw.Recoverer)

	s.router.Group(func(r chi.Router) {
		r.Use(s.requestLogger)
		r.Use(chimw.Timeout(10 * time.Second))
		r.Use(jsonContentType)
		r.Get("/health", s.handleHealth)
		r.Get("/layout", s.handleLayout)
	})
	s.router.Get("/ws", s.handleWS)

	return s
}

// Handler exposes the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", "address", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("web: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return fmt.Errorf("web: shutdown: %w", err)
	}
	return nil
}

// Close ends every open session and waits for them to finish.
func (s *Server) Close() {
	s.cancel()
	s.sessions.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"ok":true}`))
}

// cellGeometry is one cell of the /layout response.
type cellGeometry struct {
	Index int `json:"index"`
	Row   int `json:"row"`
	Col   int `json:"col"`
	X     int `json:"x"`
	Y     int `json:"y"`
	W     int `json:"w"`
	H     int `json:"h"`
}

type layoutResponse struct {
	Rows    int            `json:"rows"`
	Cols    int            `json:"cols"`
	CellW   int            `json:"cellWidth"`
	CellH   int            `json:"cellHeight"`
	Spacing int            `json:"spacing"`
	Cells   []cellGeometry `json:"cells"`
}

// handleLayout reports the grid geometry of the current config.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	l := core.NewLayout(s.loadConfig().Board)

	resp := layoutResponse{
		Rows:    l.Rows,
		Cols:    l.Cols,
		CellW:   l.CellW,
		CellH:   l.CellH,
		Spacing: l.Spacing,
		Cells:   make([]cellGeometry, l.Size()),
	}
	for i := range resp.Cells {
		row, col := l.RowCol(i)
		rect := l.CellRect(i)
		resp.Cells[i] = cellGeometry{Index: i, Row: row, Col: col, X: rect.X, Y: rect.Y, W: rect.W, H: rect.H}
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// handleWS upgrades the connection and runs a session on it until the
// client leaves. Query parameters: variant (oddoneout, oddoneout_fixed)
// and difficulty (easy, normal, hard, fixed).
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	variant := r.URL.Query().Get("variant")
	if variant == "" {
		variant = variantAdaptive
	}
	if variant != variantAdaptive && variant != variantFixed {
		http.Error(w, `{"error":"unknown_variant"}`, http.StatusBadRequest)
		return
	}

	preset := config.DifficultyPreset(r.URL.Query().Get("difficulty"))
	switch preset {
	case "", config.DifficultyEasy, config.DifficultyNormal, config.DifficultyHard, config.DifficultyFixed:
	default:
		http.Error(w, `{"error":"unknown_difficulty"}`, http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	s.sessions.Add(1)
	defer s.sessions.Done()

	id := "web-" + chimw.GetReqID(r.Context())
	newSession(s, conn, id, variant, preset, s.seed).run(s.ctx)
}

// requestLogger logs each plain HTTP request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}
