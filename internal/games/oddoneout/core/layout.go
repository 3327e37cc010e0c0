// Package core implements the Odd One Out rules: grid geometry, level
// generation, the countdown and the round state machine.
// It has no terminal or network dependencies.
package core

import (
	"github.com/vovakirdan/oddoneout/internal/config"
	platformcore "github.com/vovakirdan/oddoneout/internal/core"
)

// Layout maps cell indices to screen positions for a fixed grid.
// Indices are row-major and 0-based.
type Layout struct {
	Rows    int
	Cols    int
	CellW   int
	CellH   int
	Spacing int
	Origin  platformcore.Point
}

// NewLayout builds a layout from board configuration.
func NewLayout(b config.BoardConfig) Layout {
	return Layout{
		Rows:    b.Rows,
		Cols:    b.Cols,
		CellW:   b.CellWidth,
		CellH:   b.CellHeight,
		Spacing: b.Spacing,
		Origin:  platformcore.Pt(b.OriginX, b.OriginY),
	}
}

// Size returns the number of cells.
func (l Layout) Size() int {
	return l.Rows * l.Cols
}

// RowCol splits an index into its row and column.
func (l Layout) RowCol(index int) (row, col int) {
	return index / l.Cols, index % l.Cols
}

// Index joins a row and column into an index.
func (l Layout) Index(row, col int) int {
	return row*l.Cols + col
}

// CellPosition returns the top-left corner of a cell.
func (l Layout) CellPosition(index int) platformcore.Point {
	row, col := l.RowCol(index)
	return platformcore.Pt(
		l.Origin.X+col*(l.CellW+l.Spacing),
		l.Origin.Y+row*(l.CellH+l.Spacing),
	)
}

// CellRect returns the screen area covered by a cell.
func (l Layout) CellRect(index int) platformcore.Rect {
	p := l.CellPosition(index)
	return platformcore.NewRect(p.X, p.Y, l.CellW, l.CellH)
}

// Bounds returns the area covered by the whole grid, gutters included.
func (l Layout) Bounds() platformcore.Rect {
	w := l.Cols*l.CellW + (l.Cols-1)*l.Spacing
	h := l.Rows*l.CellH + (l.Rows-1)*l.Spacing
	return platformcore.NewRect(l.Origin.X, l.Origin.Y, w, h)
}

// CellAt classifies a screen position to the cell under it.
// Gutters between cells and points outside the grid report false.
func (l Layout) CellAt(p platformcore.Point) (int, bool) {
	dx := p.X - l.Origin.X
	dy := p.Y - l.Origin.Y
	if dx < 0 || dy < 0 {
		return 0, false
	}

	stepX := l.CellW + l.Spacing
	stepY := l.CellH + l.Spacing
	col, row := dx/stepX, dy/stepY
	if col >= l.Cols || row >= l.Rows {
		return 0, false
	}
	if dx%stepX >= l.CellW || dy%stepY >= l.CellH {
		return 0, false
	}
	return l.Index(row, col), true
}
