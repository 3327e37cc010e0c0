package core

import (
	"fmt"
	"math/rand"
	"time"
)

// Phase is the coarse state of a round.
type Phase int

const (
	PhaseIdle Phase = iota // constructed, Start not yet called
	PhaseActive
	PhaseEnded
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseEnded:
		return "ended"
	default:
		return "idle"
	}
}

// TapResult classifies what a tap did.
type TapResult int

const (
	TapIgnored TapResult = iota
	TapCorrect
	TapWrong
)

// String returns a human-readable name for the result.
func (t TapResult) String() string {
	switch t {
	case TapCorrect:
		return "correct"
	case TapWrong:
		return "wrong"
	default:
		return "ignored"
	}
}

// RoundState is the mutable tally of a round.
type RoundState struct {
	Score         int
	Level         int
	BestLevel     int
	SuccessStreak int
	FailStreak    int
	TotalTrials   int
	CorrectTrials int
	WrongTrials   int
}

// Trial describes one evaluated tap.
type Trial struct {
	Epoch    uint64
	Sequence int // 1-based within the round
	Level    int // level the board was generated at
	Items    int // visible cells on that board
	Cell     int
	Outcome  TapResult
	Reaction time.Duration // from board publish to tap
}

// Round owns one player's game: the board, the tally, the countdown
// and the deferred regeneration tasks. It is not safe for concurrent use;
// the owner drives it from a single goroutine via Tick and Tap.
type Round struct {
	rules     Rules
	gen       *Generator
	presenter Presenter
	sched     *Scheduler
	timer     *Countdown

	phase        Phase
	state        RoundState
	board        Board
	generation   uint64
	epoch        uint64
	inputEnabled bool
	remaining    int

	now         time.Duration // round clock, zero at the first tick of the epoch
	publishedAt time.Duration

	strict  bool
	onTrial func(Trial)
}

// NewRound creates a round over a rows×cols board. Randomness comes
// only from seed. A nil presenter is replaced by NopPresenter.
func NewRound(rules Rules, pool Pool, rows, cols int, seed int64, p Presenter) *Round {
	if p == nil {
		p = NopPresenter{}
	}
	rng := rand.New(rand.NewSource(seed))
	return &Round{
		rules:     rules,
		gen:       NewGenerator(rng, pool, rows, cols, rules),
		presenter: p,
		sched:     NewScheduler(),
		timer:     NewCountdown(rules.RoundDuration),
	}
}

// SetStrict makes invariant violations panic instead of being clamped.
func (r *Round) SetStrict(strict bool) {
	r.strict = strict
}

// OnTrial registers a callback invoked after every evaluated tap.
func (r *Round) OnTrial(fn func(Trial)) {
	r.onTrial = fn
}

// Start begins a fresh round, discarding any pending work from the previous one.
// The countdown starts on the next Tick.
func (r *Round) Start() {
	r.epoch++
	r.sched.CancelBefore(r.epoch)
	r.timer.Reset()
	r.now = 0

	level := max(1, r.rules.StartingLevel)
	r.state = RoundState{Level: level, BestLevel: level}
	r.phase = PhaseActive
	r.remaining = ceilSeconds(r.rules.RoundDuration)

	r.presenter.ScoreChanged(r.state.Score)
	r.presenter.TimeRemainingChanged(r.remaining)
	r.publish()
}

// Tick advances the round clock to now. now is any monotonic time;
// the first Tick after Start becomes the round's zero.
func (r *Round) Tick(now time.Duration) {
	if r.phase == PhaseIdle {
		return
	}

	if r.phase == PhaseActive {
		remaining, fired := r.timer.Tick(now)
		r.now = r.timer.Elapsed(now)
		if remaining != r.remaining {
			r.remaining = remaining
			r.presenter.TimeRemainingChanged(remaining)
		}
		if fired {
			r.end()
		}
	} else {
		r.now = r.timer.Elapsed(now)
	}

	r.sched.Advance(r.now)
}

// Tap evaluates a tap on cell. Taps are ignored while input is disabled,
// outside an active round, or on cells that are out of range or hidden.
func (r *Round) Tap(cell int) TapResult {
	if r.phase != PhaseActive || !r.inputEnabled {
		return TapIgnored
	}
	c, ok := r.board.Cell(cell)
	if !ok || !c.Visible {
		return TapIgnored
	}

	var result TapResult
	if c.Role == RoleCorrect {
		result = TapCorrect
		r.onCorrect(cell)
	} else {
		result = TapWrong
		r.onWrong(cell)
	}

	r.checkInvariants()

	if r.onTrial != nil {
		r.onTrial(Trial{
			Epoch:    r.epoch,
			Sequence: r.state.TotalTrials,
			Level:    r.board.Level,
			Items:    r.board.VisibleCount(),
			Cell:     cell,
			Outcome:  result,
			Reaction: r.now - r.publishedAt,
		})
	}

	r.sched.Schedule(r.now+r.rules.FeedbackDelay, r.token(), r.regenerate)
	return result
}

func (r *Round) onCorrect(cell int) {
	r.inputEnabled = false
	r.state.Score++
	r.state.SuccessStreak++
	r.state.TotalTrials++
	r.state.CorrectTrials++

	r.presenter.Feedback(FeedbackCorrect, cell)
	r.presenter.ScoreChanged(r.state.Score)

	if r.state.SuccessStreak > r.rules.PromotionThreshold(r.state.Level) {
		r.state.SuccessStreak = 0
		if r.rules.Adaptive {
			r.state.Level++
			r.state.BestLevel = max(r.state.BestLevel, r.state.Level)
			r.presenter.LevelChanged(r.state.Level, LevelUp)
		}
	}
}

// onWrong leaves input enabled; the player may keep tapping until the
// scheduled regeneration arrives.
func (r *Round) onWrong(cell int) {
	r.state.Score = max(r.state.Score-1, r.rules.ScoreFloor)
	r.state.SuccessStreak = 0
	r.state.FailStreak++
	r.state.TotalTrials++
	r.state.WrongTrials++

	r.presenter.Feedback(FeedbackWrong, cell)
	r.presenter.ScoreChanged(r.state.Score)

	if r.state.FailStreak >= r.rules.FailStreakCap {
		r.state.FailStreak = 0
		if r.rules.Adaptive && r.state.Level > 1 {
			r.state.Level--
			r.presenter.LevelChanged(r.state.Level, LevelDown)
		}
	}
}

// regenerate runs FeedbackDelay after a tap. It is skipped if the round
// restarted, ended, or already got a newer board since the tap.
func (r *Round) regenerate(tok Token) {
	if tok.Epoch != r.epoch || r.phase != PhaseActive || tok.Generation != r.board.Generation {
		return
	}
	r.publish()
}

func (r *Round) publish() {
	r.generation++
	r.board = r.gen.Generate(r.state.Level, r.generation)
	r.publishedAt = r.now
	r.inputEnabled = true
	r.presenter.BoardPublished(r.board.Clone())
}

func (r *Round) end() {
	r.phase = PhaseEnded
	r.inputEnabled = false
	r.presenter.RoundEnded(r.Summary())

	r.sched.Schedule(r.now+r.rules.RestartDelay, r.token(), func(tok Token) {
		if tok.Epoch != r.epoch || r.phase != PhaseEnded {
			return
		}
		r.presenter.NewRoundRequested()
	})
}

func (r *Round) token() Token {
	return Token{Epoch: r.epoch, Generation: r.board.Generation}
}

// checkInvariants clamps the tally back into range, or panics in strict mode.
func (r *Round) checkInvariants() {
	var err error
	switch {
	case r.state.Level < 1:
		err = fmt.Errorf("level %d below 1", r.state.Level)
		r.state.Level = 1
	case r.state.Score < 0:
		err = fmt.Errorf("score %d below 0", r.state.Score)
		r.state.Score = 0
	case r.state.SuccessStreak < 0 || r.state.FailStreak < 0:
		err = fmt.Errorf("negative streak (success=%d fail=%d)", r.state.SuccessStreak, r.state.FailStreak)
		r.state.SuccessStreak = max(r.state.SuccessStreak, 0)
		r.state.FailStreak = max(r.state.FailStreak, 0)
	case r.board.CorrectCount() != 1:
		err = fmt.Errorf("board %d has %d correct cells", r.board.Generation, r.board.CorrectCount())
	}
	if err != nil && r.strict {
		panic("oddoneout: invariant violated: " + err.Error())
	}
}

// Summary returns the current tally in end-of-round form.
func (r *Round) Summary() Summary {
	return Summary{
		Score:         r.state.Score,
		Level:         r.state.Level,
		BestLevel:     r.state.BestLevel,
		TotalTrials:   r.state.TotalTrials,
		CorrectTrials: r.state.CorrectTrials,
		WrongTrials:   r.state.WrongTrials,
	}
}

// State returns a copy of the tally.
func (r *Round) State() RoundState {
	return r.state
}

// Board returns a copy of the current board.
func (r *Round) Board() Board {
	return r.board.Clone()
}

// Phase returns whether the round is idle, active or ended.
func (r *Round) Phase() Phase {
	return r.phase
}

// InputEnabled reports whether taps are currently evaluated.
func (r *Round) InputEnabled() bool {
	return r.inputEnabled && r.phase == PhaseActive
}

// Remaining returns the last reported whole seconds left.
func (r *Round) Remaining() int {
	return r.remaining
}

// Epoch returns the current round epoch; it increases on every Start.
func (r *Round) Epoch() uint64 {
	return r.epoch
}

// Elapsed returns the round clock.
func (r *Round) Elapsed() time.Duration {
	return r.now
}

// Pending returns the number of deferred tasks not yet run.
func (r *Round) Pending() int {
	return r.sched.Pending()
}

// Rules returns the rules the round was built with.
func (r *Round) Rules() Rules {
	return r.rules
}
