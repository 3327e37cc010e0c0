package core_test

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/vovakirdan/oddoneout/internal/config"
	"github.com/vovakirdan/oddoneout/internal/games/oddoneout/core"
)

func defaultPool() core.Pool {
	return core.NewPool(config.DefaultOddOneOutConfig().Identities.Names)
}

func newGenerator(seed int64) *core.Generator {
	return core.NewGenerator(rand.New(rand.NewSource(seed)), defaultPool(), 8, 12, core.DefaultRules())
}

func TestItemsToShow(t *testing.T) {
	g := newGenerator(1)

	tests := []struct {
		level int
		want  int
	}{
		{1, 9},
		{2, 13},
		{10, 45},
		{22, 93},
		{23, 96},
		{100, 96},
	}

	for _, tt := range tests {
		if got := g.ItemsToShow(tt.level); got != tt.want {
			t.Errorf("ItemsToShow(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}

	if got := core.ItemsToShow(0, 0, 0, 10); got != 1 {
		t.Errorf("ItemsToShow with zero base = %d, want 1", got)
	}
}

func TestGenerateOneCorrectCell(t *testing.T) {
	g := newGenerator(7)
	for level := 1; level <= 30; level++ {
		b := g.Generate(level, uint64(level))
		if b.CorrectCount() != 1 {
			t.Fatalf("level %d: %d correct cells, want 1", level, b.CorrectCount())
		}
		c, _ := b.Cell(b.Correct)
		if c.Role != core.RoleCorrect || !c.Visible {
			t.Errorf("level %d: Correct index %d points at %+v", level, b.Correct, c)
		}
		if got, want := b.VisibleCount(), g.ItemsToShow(level); got != want {
			t.Errorf("level %d: %d visible cells, want %d", level, got, want)
		}
		if b.Size() != 96 {
			t.Errorf("level %d: board size %d, want 96", level, b.Size())
		}
	}
}

func TestGenerateCorrectIdentityIsUnique(t *testing.T) {
	g := newGenerator(99)
	b := g.Generate(5, 1)
	odd, _ := b.Cell(b.Correct)
	for i, c := range b.Cells {
		if i == b.Correct || !c.Visible {
			continue
		}
		if c.Identity == odd.Identity {
			t.Errorf("decoy at %d shares the correct identity %q", i, odd.Identity)
		}
	}
}

func TestDecoyIndex(t *testing.T) {
	// 9 identities leave 8 decoys; blocks of 4 cells share one decoy.
	got := make([]int, 12)
	for slot := range got {
		got[slot] = core.DecoyIndex(slot, 4, 8)
	}
	want := []int{0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecoyIndex cycle = %v, want %v", got, want)
	}

	if idx := core.DecoyIndex(32, 4, 8); idx != 0 {
		t.Errorf("DecoyIndex(32) = %d, want wrap to 0", idx)
	}
	if idx := core.DecoyIndex(35, 4, 8); idx != 0 {
		t.Errorf("DecoyIndex(35) = %d, want 0", idx)
	}
	if idx := core.DecoyIndex(36, 4, 8); idx != 1 {
		t.Errorf("DecoyIndex(36) = %d, want 1", idx)
	}
}

func TestGenerateDecoyBlocks(t *testing.T) {
	// Level 2 shows 13 cells: 12 decoys in three blocks of four.
	g := newGenerator(3)
	b := g.Generate(2, 1)

	counts := map[core.TileIdentity]int{}
	for i, c := range b.Cells {
		if c.Visible && i != b.Correct {
			counts[c.Identity]++
		}
	}
	if len(counts) != 3 {
		t.Fatalf("got %d distinct decoys, want 3: %v", len(counts), counts)
	}
	for id, n := range counts {
		if n != 4 {
			t.Errorf("decoy %q used %d times, want 4", id, n)
		}
	}
}

func TestGenerateHiddenCellsAreBlank(t *testing.T) {
	g := newGenerator(5)
	b := g.Generate(1, 1)
	for i, c := range b.Cells {
		if c.Visible {
			continue
		}
		if c.Role != core.RoleWrong || c.Identity != "" {
			t.Errorf("hidden cell %d = %+v, want blank", i, c)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := newGenerator(42)
	b := newGenerator(42)
	for level := 1; level <= 5; level++ {
		ba := a.Generate(level, uint64(level))
		bb := b.Generate(level, uint64(level))
		if !reflect.DeepEqual(ba, bb) {
			t.Fatalf("level %d: boards differ for equal seeds", level)
		}
	}

	c := newGenerator(43)
	if reflect.DeepEqual(newGenerator(42).Generate(3, 1), c.Generate(3, 1)) {
		t.Error("different seeds produced identical boards")
	}
}

func TestBoardCloneIsIndependent(t *testing.T) {
	b := newGenerator(1).Generate(1, 1)
	c := b.Clone()
	c.Cells[0].Identity = "mutated"
	if b.Cells[0].Identity == "mutated" {
		t.Error("Clone shares cell storage with the original")
	}
}
