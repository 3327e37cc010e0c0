// Package config provides YAML-based game configuration loading and
// difficulty presets for Odd One Out.
package config

import (
	"errors"
	"fmt"
	"time"
)

// OddOneOutConfig contains all configuration for the Odd One Out game.
type OddOneOutConfig struct {
	Board      BoardConfig      `yaml:"board"`
	Identities IdentityConfig   `yaml:"identities"`
	Round      RoundConfig      `yaml:"round"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// BoardConfig defines the fixed grid geometry.
// Cell sizes and offsets are in screen units (terminal cells for the TUI).
type BoardConfig struct {
	Rows       int `yaml:"rows"`
	Cols       int `yaml:"cols"`
	CellWidth  int `yaml:"cell_width"`
	CellHeight int `yaml:"cell_height"`
	Spacing    int `yaml:"spacing"`
	OriginX    int `yaml:"origin_x"`
	OriginY    int `yaml:"origin_y"`
}

// Size returns the number of cells on the board.
func (b BoardConfig) Size() int {
	return b.Rows * b.Cols
}

// IdentityConfig lists the tile identities available to the generator.
type IdentityConfig struct {
	Names []string `yaml:"names"`
}

// RoundConfig defines round timing.
type RoundConfig struct {
	DurationSecs    int `yaml:"duration_secs"`
	FeedbackDelayMs int `yaml:"feedback_delay_ms"`
	RestartDelayMs  int `yaml:"restart_delay_ms"`
}

// Duration returns the round length.
func (r RoundConfig) Duration() time.Duration {
	return time.Duration(r.DurationSecs) * time.Second
}

// FeedbackDelay returns the pause between a tap and the next board.
func (r RoundConfig) FeedbackDelay() time.Duration {
	return time.Duration(r.FeedbackDelayMs) * time.Millisecond
}

// RestartDelay returns the pause between round end and the new round request.
func (r RoundConfig) RestartDelay() time.Duration {
	return time.Duration(r.RestartDelayMs) * time.Millisecond
}

// DifficultyConfig defines level adaptation.
type DifficultyConfig struct {
	Adaptive                bool `yaml:"adaptive"` // false keeps the starting level for the whole round
	StartingLevel           int  `yaml:"starting_level"`
	SuccessStreakMultiplier int  `yaml:"success_streak_multiplier"` // level up once streak > level*multiplier
	FailStreakCap           int  `yaml:"fail_streak_cap"`           // level down once fail streak reaches cap
	ScoreFloor              int  `yaml:"score_floor"`
	DecoyBlockSize          int  `yaml:"decoy_block_size"` // consecutive cells sharing one decoy identity
	BaseItems               int  `yaml:"base_items"`
	ItemsPerLevel           int  `yaml:"items_per_level"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// StartingLevelForPreset returns the starting level for a difficulty preset.
func StartingLevelForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyNormal:
		return 2
	case DifficultyHard:
		return 4
	default:
		return 1
	}
}

// IsFixedPreset returns true if the preset disables level adaptation.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyPreset modifies the config based on a difficulty preset.
// An empty preset leaves the config untouched.
func ApplyPreset(cfg *OddOneOutConfig, preset DifficultyPreset) {
	switch preset {
	case "":
		return
	case DifficultyFixed:
		cfg.Difficulty.Adaptive = false
	default:
		cfg.Difficulty.Adaptive = true
		cfg.Difficulty.StartingLevel = StartingLevelForPreset(preset)
	}
}

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("config: invalid")

// Validate checks the ranges the game logic relies on.
func (c OddOneOutConfig) Validate() error {
	switch {
	case c.Board.Rows < 1 || c.Board.Cols < 1:
		return fmt.Errorf("%w: board must have at least one row and column", ErrInvalidConfig)
	case c.Board.CellWidth < 1 || c.Board.CellHeight < 1:
		return fmt.Errorf("%w: cell size must be positive", ErrInvalidConfig)
	case c.Board.Spacing < 0:
		return fmt.Errorf("%w: spacing must not be negative", ErrInvalidConfig)
	case len(c.Identities.Names) < 2:
		return fmt.Errorf("%w: need at least 2 identities, got %d", ErrInvalidConfig, len(c.Identities.Names))
	case c.Round.DurationSecs < 1:
		return fmt.Errorf("%w: round duration must be at least 1s", ErrInvalidConfig)
	case c.Round.FeedbackDelayMs < 0 || c.Round.RestartDelayMs < 0:
		return fmt.Errorf("%w: delays must not be negative", ErrInvalidConfig)
	case c.Difficulty.StartingLevel < 1:
		return fmt.Errorf("%w: starting level must be at least 1", ErrInvalidConfig)
	case c.Difficulty.SuccessStreakMultiplier < 1:
		return fmt.Errorf("%w: success streak multiplier must be at least 1", ErrInvalidConfig)
	case c.Difficulty.FailStreakCap < 1:
		return fmt.Errorf("%w: fail streak cap must be at least 1", ErrInvalidConfig)
	case c.Difficulty.ScoreFloor < 0:
		return fmt.Errorf("%w: score floor must not be negative", ErrInvalidConfig)
	case c.Difficulty.DecoyBlockSize < 1:
		return fmt.Errorf("%w: decoy block size must be at least 1", ErrInvalidConfig)
	case c.Difficulty.ItemsPerLevel < 0:
		return fmt.Errorf("%w: items per level must not be negative", ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(c.Identities.Names))
	for _, name := range c.Identities.Names {
		if name == "" {
			return fmt.Errorf("%w: identity names must not be empty", ErrInvalidConfig)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate identity %q", ErrInvalidConfig, name)
		}
		seen[name] = true
	}
	return nil
}
