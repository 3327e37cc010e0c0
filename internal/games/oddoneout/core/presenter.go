package core

// FeedbackKind tells the presenter which tap animation to play.
type FeedbackKind int

const (
	FeedbackCorrect FeedbackKind = iota
	FeedbackWrong
)

// String returns a human-readable name for the feedback kind.
func (k FeedbackKind) String() string {
	if k == FeedbackCorrect {
		return "correct"
	}
	return "wrong"
}

// LevelDirection tells whether a level change was a promotion or a demotion.
type LevelDirection int

const (
	LevelUp LevelDirection = iota
	LevelDown
)

// String returns a human-readable name for the direction.
func (d LevelDirection) String() string {
	if d == LevelUp {
		return "up"
	}
	return "down"
}

// Summary is the final tally of a round.
type Summary struct {
	Score         int
	Level         int
	BestLevel     int
	TotalTrials   int
	CorrectTrials int
	WrongTrials   int
}

// Presenter receives every outbound event of a round.
// Calls happen synchronously on the goroutine driving the Round.
type Presenter interface {
	// BoardPublished replaces the whole board. The value is a private copy.
	BoardPublished(b Board)
	ScoreChanged(score int)
	TimeRemainingChanged(seconds int)
	LevelChanged(level int, dir LevelDirection)
	Feedback(kind FeedbackKind, cell int)
	RoundEnded(s Summary)
	// NewRoundRequested fires a fixed delay after RoundEnded.
	NewRoundRequested()
}

// NopPresenter ignores every event.
type NopPresenter struct{}

func (NopPresenter) BoardPublished(Board) {}
func (NopPresenter) ScoreChanged(int) {}
func (NopPresenter) TimeRemainingChanged(int) {}
func (NopPresenter) LevelChanged(int, LevelDirection) {}
func (NopPresenter) Feedback(FeedbackKind, int) {}
func (NopPresenter) RoundEnded(Summary) {}
func (NopPresenter) NewRoundRequested() {}

var _ Presenter = NopPresenter{}
