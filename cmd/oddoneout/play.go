package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/oddoneout/internal/config"
	"github.com/vovakirdan/oddoneout/internal/core"
	"github.com/vovakirdan/oddoneout/internal/games/oddoneout"
	"github.com/vovakirdan/oddoneout/internal/platform/tui"
	"github.com/vovakirdan/oddoneout/internal/registry"
	"github.com/vovakirdan/oddoneout/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play in the terminal",
	Long: `Start a round in the terminal. Without a variant, a menu lets you
pick one, cycle the difficulty and open the journal.

Controls:
  Mouse click        - Tap a tile
  Arrows/WASD/HJKL   - Move the cursor
  Space/Enter        - Tap the tile under the cursor
  P                  - Pause
  R                  - Restart (after the round ends)
  Esc/B              - Back to menu
  Q/Ctrl+C           - Quit

Difficulty options:
  easy   - Start at level 1
  normal - Start at level 2
  hard   - Start at level 4
  fixed  - Keep the config's starting level for the whole round

Examples:
  oddoneout play
  oddoneout play oddoneout --difficulty hard
  oddoneout play oddoneout_fixed --config ./my-oddoneout.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	if len(args) == 1 && !registry.Exists(args[0]) {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", args[0])
		fmt.Fprintln(os.Stderr, "Run 'oddoneout list' to see available variants.")
		os.Exit(1)
	}

	logger := newLogger("oddoneout")

	// Continue without storage if the journal can't be opened
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

	cfg := runtimeConfig()
	opts := tui.ModelOptions{Store: store, Logger: logger}

	if len(args) == 1 {
		game, err := registry.Create(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			os.Exit(1)
		}
		if _, err := tui.Run(game, cfg, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			os.Exit(1)
		}
		return
	}

	runMenuLoop(cfg, opts)
}

// runMenuLoop shows the menu until the player quits, running the chosen
// variant or the journal in between.
func runMenuLoop(cfg core.RuntimeConfig, opts tui.ModelOptions) {
	preset, _ := difficulty()
	if preset == "" || config.IsFixedPreset(preset) {
		preset = config.DifficultyEasy
	}

	for {
		res, err := tui.RunMenu(cfg, preset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cfg = res.Config
		preset = res.Preset

		if res.Quit {
			return
		}

		if res.WantsJournal {
			goBack, jErr := tui.RunJournal(opts.Store, cfg.ScreenW, cfg.ScreenH)
			if jErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", jErr)
			}
			if goBack {
				continue
			}
			return
		}

		game, err := registry.Create(res.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}
		if g, ok := game.(*oddoneout.Game); ok {
			g.SetPreset(preset)
		}

		// Fresh seed per round unless one was pinned
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		backToMenu, err := tui.Run(game, cfg, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
		if !backToMenu {
			return
		}
	}
}

// runtimeConfig sizes the screen to the terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}
