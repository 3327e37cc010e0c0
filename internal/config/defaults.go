package config

import (
	_ "embed"
	"fmt"
)

//go:embed defaults/oddoneout.yaml
var defaultOddOneOutYAML []byte

// DefaultOddOneOutConfig returns the default Odd One Out configuration.
func DefaultOddOneOutConfig() OddOneOutConfig {
	names := make([]string, 9)
	for i := range names {
		names[i] = fmt.Sprintf("spaceShips_%03d", i+1)
	}

	return OddOneOutConfig{
		Board: BoardConfig{
			Rows:       8,
			Cols:       12,
			CellWidth:  5,
			CellHeight: 1,
			Spacing:    1,
			OriginX:    1,
			OriginY:    2,
		},
		Identities: IdentityConfig{
			Names: names,
		},
		Round: RoundConfig{
			DurationSecs:    60,
			FeedbackDelayMs: 500,
			RestartDelayMs:  1000,
		},
		Difficulty: DifficultyConfig{
			Adaptive:                true,
			StartingLevel:           1,
			SuccessStreakMultiplier: 3,
			FailStreakCap:           3,
			ScoreFloor:              1,
			DecoyBlockSize:          4,
			BaseItems:               5,
			ItemsPerLevel:           4,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultOddOneOutYAML
}
