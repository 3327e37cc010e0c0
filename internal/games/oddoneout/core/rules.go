package core

import (
	"time"

	"github.com/vovakirdan/oddoneout/internal/config"
)

// Rules holds the tunables the round state machine reads.
type Rules struct {
	Adaptive                bool
	StartingLevel           int
	SuccessStreakMultiplier int
	FailStreakCap           int
	ScoreFloor              int
	DecoyBlockSize          int
	BaseItems               int
	ItemsPerLevel           int

	RoundDuration time.Duration
	FeedbackDelay time.Duration
	RestartDelay  time.Duration
}

// RulesFromConfig extracts round rules from the loaded configuration.
func RulesFromConfig(cfg config.OddOneOutConfig) Rules {
	d := cfg.Difficulty
	return Rules{
		Adaptive:                d.Adaptive,
		StartingLevel:           d.StartingLevel,
		SuccessStreakMultiplier: d.SuccessStreakMultiplier,
		FailStreakCap:           d.FailStreakCap,
		ScoreFloor:              d.ScoreFloor,
		DecoyBlockSize:          d.DecoyBlockSize,
		BaseItems:               d.BaseItems,
		ItemsPerLevel:           d.ItemsPerLevel,
		RoundDuration:           cfg.Round.Duration(),
		FeedbackDelay:           cfg.Round.FeedbackDelay(),
		RestartDelay:            cfg.Round.RestartDelay(),
	}
}

// DefaultRules returns the rules of the embedded default configuration.
func DefaultRules() Rules {
	return RulesFromConfig(config.DefaultOddOneOutConfig())
}

// PromotionThreshold returns the success streak that must be exceeded
// to leave level.
func (r Rules) PromotionThreshold(level int) int {
	return level * r.SuccessStreakMultiplier
}
