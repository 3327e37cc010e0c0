// Package storage keeps a SQLite journal of evaluated taps, used to tune
// difficulty. It records trials, never round scores.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/oddoneout/internal/games/oddoneout/core"
)

// DefaultPath is where the CLI keeps the journal unless told otherwise.
const DefaultPath = "~/.arcade/oddoneout.db"

const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection for the trial journal.
type Store struct {
	db *sql.DB
}

// TrialRecord is one journaled tap.
type TrialRecord struct {
	ID         int64
	GameID     string
	Session    string // player or connection the round belonged to
	Round      uint64 // round epoch within the session
	Sequence   int
	Level      int
	Items      int
	Cell       int
	Correct    bool
	ReactionMs int64
	CreatedAt  time.Time
}

// NewTrialRecord converts a round trial into a journal row.
func NewTrialRecord(gameID, session string, tr core.Trial) TrialRecord {
	return TrialRecord{
		GameID:     gameID,
		Session:    session,
		Round:      tr.Epoch,
		Sequence:   tr.Sequence,
		Level:      tr.Level,
		Items:      tr.Items,
		Cell:       tr.Cell,
		Correct:    tr.Outcome == core.TapCorrect,
		ReactionMs: tr.Reaction.Milliseconds(),
	}
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS trials (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			session TEXT NOT NULL,
			round INTEGER NOT NULL,
			sequence INTEGER NOT NULL,
			level INTEGER NOT NULL,
			items INTEGER NOT NULL,
			cell INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			reaction_ms INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_trials_game_id ON trials(game_id);
		CREATE INDEX IF NOT EXISTS idx_trials_level ON trials(game_id, level);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordTrial appends one trial and returns its row ID.
func (s *Store) RecordTrial(rec TrialRecord) (int64, error) {
	res, err := s.db.Exec(insertTrial, trialArgs(rec)...)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record trial: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecordTrials appends a batch of trials in one transaction.
func (s *Store) RecordTrials(recs []TrialRecord) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	stmt, err := tx.Prepare(insertTrial)
	if err != nil {
		tx.Rollback() //nolint:errcheck // Already failing
		return fmt.Errorf("storage: cannot prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range recs {
		if _, err := stmt.Exec(trialArgs(rec)...); err != nil {
			tx.Rollback() //nolint:errcheck // Already failing
			return fmt.Errorf("storage: cannot record trial: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit trials: %w", err)
	}
	return nil
}

const insertTrial = `INSERT INTO trials
	(game_id, session, round, sequence, level, items, cell, correct, reaction_ms)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

func trialArgs(rec TrialRecord) []any {
	correct := 0
	if rec.Correct {
		correct = 1
	}
	return []any{rec.GameID, rec.Session, int64(rec.Round), rec.Sequence, rec.Level, rec.Items, rec.Cell, correct, rec.ReactionMs}
}

// RecentTrials returns the latest trials for a game, newest first.
func (s *Store) RecentTrials(gameID string, limit int) ([]TrialRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, session, round, sequence, level, items, cell, correct, reaction_ms, created_at
		 FROM trials
		 WHERE game_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query trials: %w", err)
	}
	defer rows.Close()

	var out []TrialRecord
	for rows.Next() {
		var rec TrialRecord
		var round int64
		var correct int
		var createdAt any
		if err := rows.Scan(&rec.ID, &rec.GameID, &rec.Session, &round, &rec.Sequence,
			&rec.Level, &rec.Items, &rec.Cell, &correct, &rec.ReactionMs, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		rec.Round = uint64(round)
		rec.Correct = correct != 0
		rec.CreatedAt = parseTime(createdAt)
		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// LevelStats aggregates trials at one level.
type LevelStats struct {
	Level         int
	Trials        int
	Correct       int
	AvgReactionMs float64
}

// Accuracy returns the share of correct trials in [0, 1].
func (l LevelStats) Accuracy() float64 {
	if l.Trials == 0 {
		return 0
	}
	return float64(l.Correct) / float64(l.Trials)
}

// StatsByLevel returns per-level aggregates for a game, ordered by level.
func (s *Store) StatsByLevel(gameID string) ([]LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level, COUNT(*), SUM(correct), AVG(reaction_ms)
		 FROM trials
		 WHERE game_id = ?
		 GROUP BY level
		 ORDER BY level`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query level stats: %w", err)
	}
	defer rows.Close()

	var out []LevelStats
	for rows.Next() {
		var l LevelStats
		if err := rows.Scan(&l.Level, &l.Trials, &l.Correct, &l.AvgReactionMs); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		out = append(out, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// JournalStats summarizes every trial of a game.
type JournalStats struct {
	GameID        string
	Trials        int
	Correct       int
	Sessions      int
	MaxLevel      int
	AvgReactionMs float64
	LastPlayed    time.Time
}

// GetJournalStats retrieves aggregated statistics for a game.
func (s *Store) GetJournalStats(gameID string) (*JournalStats, error) {
	stats := &JournalStats{GameID: gameID}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(correct), 0), COUNT(DISTINCT session),
		        COALESCE(MAX(level), 0), COALESCE(AVG(reaction_ms), 0)
		 FROM trials WHERE game_id = ?`,
		gameID,
	).Scan(&stats.Trials, &stats.Correct, &stats.Sessions, &stats.MaxLevel, &stats.AvgReactionMs)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get journal stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM trials WHERE game_id = ? ORDER BY id DESC LIMIT 1`,
		gameID,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// ClearTrials deletes all trials for the given game.
func (s *Store) ClearTrials(gameID string) error {
	if _, err := s.db.Exec("DELETE FROM trials WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot clear trials: %w", err)
	}
	return nil
}

// parseTime handles both driver-decoded times and raw SQLite strings.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
