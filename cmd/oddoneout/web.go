package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/oddoneout/internal/config"
	"github.com/vovakirdan/oddoneout/internal/games/oddoneout"
	"github.com/vovakirdan/oddoneout/internal/platform/web"
	"github.com/vovakirdan/oddoneout/internal/storage"
)

var (
	flagWebAddr string
	flagWatch   bool
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the websocket server",
	Long: `Serve rounds to browser clients over websockets.

Endpoints:
  GET /health   - Liveness check
  GET /layout   - Grid geometry of the current config
  GET /ws       - One round per connection; query parameters
                  variant (oddoneout, oddoneout_fixed) and
                  difficulty (easy, normal, hard, fixed)

Clients send {"type":"tap","cell":N} and {"type":"restart"} and
receive board, score, time, level, feedback, round_ended and
new_round events.

Examples:
  oddoneout web
  oddoneout web --addr :9000 --watch
  oddoneout web --seed 42 --difficulty hard`,
	Run: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", ":8080", "HTTP listen address (host:port)")
	webCmd.Flags().BoolVar(&flagWatch, "watch", false, "Hot-reload the config file between rounds")
}

func runWeb(_ *cobra.Command, _ []string) {
	logger := newLogger("oddoneout-web")
	preset, _ := difficulty()

	source := oddoneout.LoadConfig
	if path := config.ResolvePath(flagConfig); flagWatch && path != "" {
		w, err := config.Watch(path, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error watching config: %v\n", err)
			os.Exit(1)
		}
		defer w.Close()
		source = func() config.OddOneOutConfig {
			cfg := w.Current()
			config.ApplyPreset(&cfg, preset)
			return cfg
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open trial journal", "error", err)
		store = nil
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	srv := web.New(web.Options{
		Addr:     flagWebAddr,
		TickRate: flagFPS,
		Seed:     flagSeed,
		Config:   source,
		Store:    store,
		Logger:   logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting Odd One Out web server on %s\n", flagWebAddr)
	fmt.Println("Press Ctrl+C to stop")

	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("server error", "error", err)
	}
}
