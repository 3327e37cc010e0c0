package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := Parse(GetDefaultYAML(), "embedded")
	if err != nil {
		t.Fatalf("Parse(embedded) failed: %v", err)
	}

	want := DefaultOddOneOutConfig()
	if cfg.Board != want.Board {
		t.Errorf("Board = %+v, expected %+v", cfg.Board, want.Board)
	}
	if cfg.Round != want.Round {
		t.Errorf("Round = %+v, expected %+v", cfg.Round, want.Round)
	}
	if cfg.Difficulty != want.Difficulty {
		t.Errorf("Difficulty = %+v, expected %+v", cfg.Difficulty, want.Difficulty)
	}
	if len(cfg.Identities.Names) != 9 {
		t.Errorf("expected 9 identities, got %d", len(cfg.Identities.Names))
	}
	if cfg.Board.Size() != 96 {
		t.Errorf("Board.Size() = %d, expected 96", cfg.Board.Size())
	}
}

func TestParsePartialOverride(t *testing.T) {
	data := []byte("round:\n  duration_secs: 30\ndifficulty:\n  decoy_block_size: 2\n")

	cfg, err := Parse(data, "test")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if cfg.Round.DurationSecs != 30 {
		t.Errorf("DurationSecs = %d, expected 30", cfg.Round.DurationSecs)
	}
	if cfg.Round.FeedbackDelayMs != 500 {
		t.Errorf("FeedbackDelayMs should keep default 500, got %d", cfg.Round.FeedbackDelayMs)
	}
	if cfg.Difficulty.DecoyBlockSize != 2 {
		t.Errorf("DecoyBlockSize = %d, expected 2", cfg.Difficulty.DecoyBlockSize)
	}
	if cfg.Board.Rows != 8 || cfg.Board.Cols != 12 {
		t.Errorf("Board should keep defaults, got %dx%d", cfg.Board.Rows, cfg.Board.Cols)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*OddOneOutConfig)
	}{
		{"zero rows", func(c *OddOneOutConfig) { c.Board.Rows = 0 }},
		{"zero cell width", func(c *OddOneOutConfig) { c.Board.CellWidth = 0 }},
		{"negative spacing", func(c *OddOneOutConfig) { c.Board.Spacing = -1 }},
		{"single identity", func(c *OddOneOutConfig) { c.Identities.Names = []string{"a"} }},
		{"duplicate identity", func(c *OddOneOutConfig) { c.Identities.Names = []string{"a", "a"} }},
		{"empty identity", func(c *OddOneOutConfig) { c.Identities.Names = []string{"a", ""} }},
		{"zero duration", func(c *OddOneOutConfig) { c.Round.DurationSecs = 0 }},
		{"negative feedback delay", func(c *OddOneOutConfig) { c.Round.FeedbackDelayMs = -1 }},
		{"level zero", func(c *OddOneOutConfig) { c.Difficulty.StartingLevel = 0 }},
		{"zero multiplier", func(c *OddOneOutConfig) { c.Difficulty.SuccessStreakMultiplier = 0 }},
		{"zero fail cap", func(c *OddOneOutConfig) { c.Difficulty.FailStreakCap = 0 }},
		{"negative floor", func(c *OddOneOutConfig) { c.Difficulty.ScoreFloor = -1 }},
		{"zero block size", func(c *OddOneOutConfig) { c.Difficulty.DecoyBlockSize = 0 }},
	}

	if err := DefaultOddOneOutConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultOddOneOutConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, expected ErrInvalidConfig", err)
			}
		})
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset       DifficultyPreset
		wantLevel    int
		wantAdaptive bool
	}{
		{DifficultyEasy, 1, true},
		{DifficultyNormal, 2, true},
		{DifficultyHard, 4, true},
		{DifficultyFixed, 1, false},
		{"", 1, true},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultOddOneOutConfig()
			ApplyPreset(&cfg, tc.preset)
			if cfg.Difficulty.StartingLevel != tc.wantLevel {
				t.Errorf("StartingLevel = %d, expected %d", cfg.Difficulty.StartingLevel, tc.wantLevel)
			}
			if cfg.Difficulty.Adaptive != tc.wantAdaptive {
				t.Errorf("Adaptive = %v, expected %v", cfg.Difficulty.Adaptive, tc.wantAdaptive)
			}
		})
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("board:\n  rows: 4\n  cols: 4\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Board.Size() != 16 {
		t.Errorf("Board.Size() = %d, expected 16", cfg.Board.Size())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing custom path should fail")
	}
}

func TestLoadRejectsInvalidCustomFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("identities:\n  names: [only]\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() = %v, expected ErrInvalidConfig", err)
	}
}

func TestDurations(t *testing.T) {
	r := RoundConfig{DurationSecs: 60, FeedbackDelayMs: 500, RestartDelayMs: 1000}
	if r.Duration() != time.Minute {
		t.Errorf("Duration() = %v", r.Duration())
	}
	if r.FeedbackDelay() != 500*time.Millisecond {
		t.Errorf("FeedbackDelay() = %v", r.FeedbackDelay())
	}
	if r.RestartDelay() != time.Second {
		t.Errorf("RestartDelay() = %v", r.RestartDelay())
	}
}

func TestWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("round:\n  duration_secs: 60\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	w, err := Watch(path, log.New(os.Stderr))
	if err != nil {
		t.Fatalf("Watch() failed: %v", err)
	}
	defer w.Close()

	reloaded := make(chan OddOneOutConfig, 16)
	w.OnReload(func(cfg OddOneOutConfig) { reloaded <- cfg })

	if err := os.WriteFile(path, []byte("round:\n  duration_secs: 15\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	// A truncating write can surface as an empty file first, which parses to defaults.
	deadline := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case cfg := <-reloaded:
			done = cfg.Round.DurationSecs == 15
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		}
	}

	if w.Current().Round.DurationSecs != 15 {
		t.Errorf("Current().Round.DurationSecs = %d, expected 15", w.Current().Round.DurationSecs)
	}
}
