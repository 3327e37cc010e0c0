package core

import (
	"math/rand"
)

// Generator builds boards for a level from a shuffled identity pool.
type Generator struct {
	rng           *rand.Rand
	pool          Pool
	rows          int
	cols          int
	baseItems     int
	itemsPerLevel int
	blockSize     int
}

// NewGenerator creates a generator for a rows×cols board.
// All randomness comes from rng, so equal seeds give equal boards.
func NewGenerator(rng *rand.Rand, pool Pool, rows, cols int, rules Rules) *Generator {
	return &Generator{
		rng:           rng,
		pool:          pool,
		rows:          rows,
		cols:          cols,
		baseItems:     rules.BaseItems,
		itemsPerLevel: rules.ItemsPerLevel,
		blockSize:     max(1, rules.DecoyBlockSize),
	}
}

// Size returns the board capacity.
func (g *Generator) Size() int {
	return g.rows * g.cols
}

// ItemsToShow returns how many cells take part at a level, clamped to [1, Size].
func (g *Generator) ItemsToShow(level int) int {
	return ItemsToShow(level, g.baseItems, g.itemsPerLevel, g.Size())
}

// ItemsToShow computes base + level*perLevel clamped to [1, capacity].
func ItemsToShow(level, base, perLevel, capacity int) int {
	n := base + level*perLevel
	return min(max(n, 1), capacity)
}

// DecoyIndex returns which decoy fills the slot-th decoy cell.
// Decoys advance every blockSize slots and wrap around the decoy list.
func DecoyIndex(slot, blockSize, decoys int) int {
	return (slot / blockSize) % decoys
}

// Generate produces a fresh board for level, stamped with generation.
func (g *Generator) Generate(level int, generation uint64) Board {
	size := g.Size()
	items := g.ItemsToShow(level)

	// Randomize which physical cells take part this trial.
	cells := make([]int, size)
	for i := range cells {
		cells[i] = i
	}
	g.rng.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })

	// The last shuffled identity is the odd one out; the rest rotate as decoys.
	ids := append(Pool(nil), g.pool...)
	g.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	correct := ids[len(ids)-1]
	decoys := ids[:len(ids)-1]

	board := Board{
		Rows:       g.rows,
		Cols:       g.cols,
		Level:      level,
		Generation: generation,
		Cells:      make([]CellAssignment, size),
	}

	for slot := 0; slot < items-1; slot++ {
		board.Cells[cells[slot]] = CellAssignment{
			Identity: decoys[DecoyIndex(slot, g.blockSize, len(decoys))],
			Role:     RoleWrong,
			Visible:  true,
		}
	}

	board.Correct = cells[items-1]
	board.Cells[board.Correct] = CellAssignment{
		Identity: correct,
		Role:     RoleCorrect,
		Visible:  true,
	}

	return board
}
