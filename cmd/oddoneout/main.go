// oddoneout is a terminal "find the odd tile" game with an adaptive
// difficulty level, a trial journal and SSH and websocket front ends.
//
// Usage:
//
//	oddoneout list               - List available variants
//	oddoneout play [variant]     - Play, or pick a variant from the menu
//	oddoneout serve              - Start SSH server for remote play
//	oddoneout web                - Start websocket server
//	oddoneout journal [variant]  - Show journaled trials
//	oddoneout layout             - Print the grid geometry
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible rounds
//	--db <path>          - Set journal path (default: ~/.arcade/oddoneout.db)
//	--config <path>      - Use a specific config YAML
//	--difficulty <name>  - easy, normal, hard or fixed
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/oddoneout/internal/config"
	"github.com/vovakirdan/oddoneout/internal/games/oddoneout"
	"github.com/vovakirdan/oddoneout/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "oddoneout",
	Short: "Odd One Out - find the tile that appears only once",
	Long: `Odd One Out fills a grid with tiles where every identity but one
appears several times. Tap the tile that appears exactly once before
the round timer runs out. Correct taps raise your level, wrong ones
lower it, and every tap is written to a local trial journal.

Available commands:
  list     - Show all variants
  play     - Play in the terminal
  serve    - Start SSH server for remote play
  web      - Start websocket server for browser clients
  journal  - View journaled trials
  layout   - Print the grid geometry of the current config

Examples:
  oddoneout play
  oddoneout play oddoneout_fixed --difficulty hard
  oddoneout serve --ssh :2222
  oddoneout web --addr :8080 --watch
  oddoneout journal --view recent`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		preset, err := difficulty()
		if err != nil {
			return err
		}
		if _, err := log.ParseLevel(flagLogLevel); err != nil {
			return fmt.Errorf("invalid --log-level %q", flagLogLevel)
		}
		if flagConfig != "" {
			if _, err := config.Load(flagConfig); err != nil {
				return err
			}
		}
		oddoneout.SetConfigPath(flagConfig)
		oddoneout.SetDifficultyPreset(preset)
		return nil
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to trial journal database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(layoutCmd)
}

// difficulty validates --difficulty.
func difficulty() (config.DifficultyPreset, error) {
	p := config.DifficultyPreset(flagDifficulty)
	switch p {
	case "", config.DifficultyEasy, config.DifficultyNormal, config.DifficultyHard, config.DifficultyFixed:
		return p, nil
	}
	return "", fmt.Errorf("invalid --difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
}

// newLogger returns a stderr logger at --log-level.
func newLogger(prefix string) *log.Logger {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
}
