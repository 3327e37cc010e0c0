// Package registry keeps the table of playable game variants.
// Variants register themselves in init() so the CLI and servers can list
// and construct them by ID.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/oddoneout/internal/core"
	oddcore "github.com/vovakirdan/oddoneout/internal/games/oddoneout/core"
)

// Game is what the platform drives on every tick.
// Implementations hold no Bubble Tea or network types; the platform maps
// input, owns timing and presents the rendered screen.
type Game interface {
	// ID is the stable identifier used by CLI flags and the trial journal.
	ID() string

	// Title is the human-readable name shown in menus.
	Title() string

	// Reset starts a fresh round sized to cfg. Called at start and on restart.
	Reset(cfg core.RuntimeConfig)

	// Step advances one fixed tick with the input gathered since the last one.
	Step(in core.InputFrame) core.StepResult

	// Render draws into a pre-cleared screen buffer.
	Render(dst *core.Screen)

	// State reports score, level and whether the round is over.
	State() core.GameState
}

// TrialSource is implemented by games that produce per-tap trial records.
// The platform drains it after each tick and forwards records to the journal.
type TrialSource interface {
	DrainTrials() []oddcore.Trial
}

// GameInfo describes a registered variant.
type GameInfo struct {
	ID    string
	Title string
}

// Factory builds a fresh game instance.
type Factory func() Game

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
)

// Register adds a variant. It panics on a duplicate ID.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, dup := factories[id]; dup {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	factories[id] = f
	titles[id] = f().Title()
}

// List returns every registered variant sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]GameInfo, 0, len(factories))
	for id := range factories {
		out = append(out, GameInfo{ID: id, Title: titles[id]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Create builds the variant with the given ID.
func Create(id string) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := factories[id]
	return ok
}
