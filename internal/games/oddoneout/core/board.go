package core

// TileIdentity names the image shown on a tile.
type TileIdentity string

// Pool is the ordered set of identities available to the generator.
type Pool []TileIdentity

// NewPool converts configured names into a pool.
func NewPool(names []string) Pool {
	p := make(Pool, len(names))
	for i, n := range names {
		p[i] = TileIdentity(n)
	}
	return p
}

// IndexOf returns the position of id in the pool, or -1.
func (p Pool) IndexOf(id TileIdentity) int {
	for i, v := range p {
		if v == id {
			return i
		}
	}
	return -1
}

// Role tells whether tapping a cell counts as a hit or a miss.
type Role int

const (
	RoleWrong Role = iota
	RoleCorrect
)

// String returns a human-readable name for the role.
func (r Role) String() string {
	if r == RoleCorrect {
		return "correct"
	}
	return "wrong"
}

// CellAssignment is what one grid cell shows for the current trial.
// Hidden cells keep their slot but are never tap-evaluable.
type CellAssignment struct {
	Identity TileIdentity
	Role     Role
	Visible  bool
}

// Board is one complete generation of the grid.
// Cells are indexed row-major, matching Layout.
type Board struct {
	Rows       int
	Cols       int
	Level      int
	Generation uint64
	Correct    int // index of the single correct cell
	Cells      []CellAssignment
}

// Size returns the number of cells.
func (b Board) Size() int {
	return len(b.Cells)
}

// Cell returns the assignment at index, and false if index is out of range.
func (b Board) Cell(index int) (CellAssignment, bool) {
	if index < 0 || index >= len(b.Cells) {
		return CellAssignment{}, false
	}
	return b.Cells[index], true
}

// VisibleCount returns the number of cells taking part in this trial.
func (b Board) VisibleCount() int {
	n := 0
	for _, c := range b.Cells {
		if c.Visible {
			n++
		}
	}
	return n
}

// CorrectCount returns the number of cells with the correct role.
// A well-formed board always reports 1.
func (b Board) CorrectCount() int {
	n := 0
	for _, c := range b.Cells {
		if c.Role == RoleCorrect {
			n++
		}
	}
	return n
}

// Clone returns a deep copy, safe to hand to presenters.
func (b Board) Clone() Board {
	c := b
	c.Cells = append([]CellAssignment(nil), b.Cells...)
	return c
}
