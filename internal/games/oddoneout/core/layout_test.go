package core_test

import (
	"testing"

	platformcore "github.com/vovakirdan/oddoneout/internal/core"
	"github.com/vovakirdan/oddoneout/internal/games/oddoneout/core"
)

func testLayout() core.Layout {
	return core.Layout{Rows: 8, Cols: 12, CellW: 5, CellH: 2, Spacing: 1, Origin: platformcore.Pt(1, 2)}
}

func TestCellPosition(t *testing.T) {
	l := testLayout()

	tests := []struct {
		index int
		want  platformcore.Point
	}{
		{0, platformcore.Pt(1, 2)},
		{1, platformcore.Pt(7, 2)},
		{11, platformcore.Pt(67, 2)},
		{12, platformcore.Pt(1, 5)},
		{95, platformcore.Pt(67, 23)},
	}

	for _, tt := range tests {
		if got := l.CellPosition(tt.index); got != tt.want {
			t.Errorf("CellPosition(%d) = %v, want %v", tt.index, got, tt.want)
		}
	}
}

func TestCellAtRoundTrip(t *testing.T) {
	l := testLayout()
	for i := 0; i < l.Size(); i++ {
		r := l.CellRect(i)
		for _, p := range []platformcore.Point{r.Center(), platformcore.Pt(r.X, r.Y), platformcore.Pt(r.Right()-1, r.Bottom()-1)} {
			got, ok := l.CellAt(p)
			if !ok || got != i {
				t.Fatalf("CellAt(%v) = %d,%v, want %d,true", p, got, ok, i)
			}
		}
	}
}

func TestCellAtMisses(t *testing.T) {
	l := testLayout()

	tests := []struct {
		name string
		p    platformcore.Point
	}{
		{"left of grid", platformcore.Pt(0, 2)},
		{"above grid", platformcore.Pt(1, 1)},
		{"column gutter", platformcore.Pt(6, 2)},
		{"row gutter", platformcore.Pt(1, 4)},
		{"right of grid", platformcore.Pt(72, 2)},
		{"below grid", platformcore.Pt(1, 26)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if idx, ok := l.CellAt(tt.p); ok {
				t.Errorf("CellAt(%v) = %d, want miss", tt.p, idx)
			}
		})
	}
}

func TestLayoutBounds(t *testing.T) {
	b := testLayout().Bounds()
	if b.W != 12*5+11 || b.H != 8*2+7 {
		t.Errorf("Bounds() = %dx%d, want 71x23", b.W, b.H)
	}
}
