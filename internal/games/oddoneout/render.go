package oddoneout

import (
	"fmt"

	platformcore "github.com/vovakirdan/oddoneout/internal/core"
	"github.com/vovakirdan/oddoneout/internal/games/oddoneout/core"
)

// tileGlyphs pairs with platformcore.TilePalette so every identity in the
// default pool gets a unique glyph and color.
var tileGlyphs = []rune{'▲', '■', '●', '◆', '★', '♣', '♠', '♥', '✚'}

// IdentityStyle returns the glyph and color used to draw an identity.
func IdentityStyle(pool core.Pool, id core.TileIdentity) (rune, platformcore.Color) {
	idx := pool.IndexOf(id)
	if idx < 0 {
		return '?', platformcore.ColorWhite
	}
	return tileGlyphs[idx%len(tileGlyphs)], platformcore.TilePalette[idx%len(platformcore.TilePalette)]
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	g.renderHUD(dst)

	if g.paused {
		g.renderMessage(dst, []string{"PAUSED", "", "Press P to resume"}, platformcore.ColorYellow)
		return
	}

	g.renderBoard(dst)

	if g.ended {
		g.renderSummary(dst)
	}
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *platformcore.Screen) {
	b := g.layout.Bounds()
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small", platformcore.ColorDefault)
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", b.Right()+1, max(b.Bottom(), hudHeight)+footerHeight), platformcore.ColorGray)
}

// renderHUD draws title, score, level and the countdown above the grid.
func (g *Game) renderHUD(dst *platformcore.Screen) {
	b := g.layout.Bounds()

	dst.DrawTextColored(b.X, 0, g.Title(), platformcore.ColorBrightCyan)

	timeColor := platformcore.ColorWhite
	if g.remaining <= 10 {
		timeColor = platformcore.ColorBrightRed
	}
	timeStr := fmt.Sprintf("Time: %2d", g.remaining)
	dst.DrawTextColored(b.Right()-len(timeStr), 0, timeStr, timeColor)

	info := fmt.Sprintf("Score: %d  Level: %d", g.score, g.level)
	dst.DrawTextColored(b.X, 1, info, platformcore.ColorDefault)

	if g.banner != "" {
		color := platformcore.ColorBrightGreen
		if g.banner != "LEVEL UP!" {
			color = platformcore.ColorOrange
		}
		dst.DrawTextColored(b.Right()-len(g.banner), 1, g.banner, color)
	}
}

// renderBoard draws every cell of the current board.
func (g *Game) renderBoard(dst *platformcore.Screen) {
	for i, c := range g.board.Cells {
		r := g.layout.CellRect(i)
		g.renderCell(dst, i, c, r)
	}
}

// renderCell draws one cell: brackets for the cursor and a run of glyphs inside.
func (g *Game) renderCell(dst *platformcore.Screen, index int, c core.CellAssignment, r platformcore.Rect) {
	inner := platformcore.NewRect(r.X+1, r.Y, max(r.W-2, 1), r.H)

	if !c.Visible {
		mid := inner.Center()
		dst.SetColored(mid.X, mid.Y, '·', platformcore.ColorGray)
	} else {
		glyph, color := IdentityStyle(g.pool, c.Identity)
		if g.hitCell >= 0 && index != g.hitCell {
			color = platformcore.ColorGray
		}
		dst.FillRect(inner, glyph, color)

		if g.wrongMarks[index] {
			mid := inner.Center()
			dst.SetColored(mid.X, mid.Y, '✗', platformcore.ColorBrightRed)
		}
	}

	var left, right rune
	var frame platformcore.Color
	switch {
	case index == g.hitCell:
		left, right, frame = '»', '«', platformcore.ColorBrightGreen
	case index == g.cursor && !g.ended:
		left, right, frame = '[', ']', platformcore.ColorBrightWhite
	default:
		return
	}
	for y := r.Y; y < r.Bottom(); y++ {
		dst.SetColored(r.X, y, left, frame)
		dst.SetColored(r.Right()-1, y, right, frame)
	}
}

// renderSummary draws the end-of-round overlay over the grid.
func (g *Game) renderSummary(dst *platformcore.Screen) {
	s := g.summary
	lines := []string{
		"TIME'S UP!",
		"",
		fmt.Sprintf("Score: %d", s.Score),
		fmt.Sprintf("Level: %d  Best: %d", s.Level, s.BestLevel),
		fmt.Sprintf("Trials: %d (%d right, %d wrong)", s.TotalTrials, s.CorrectTrials, s.WrongTrials),
		"",
	}
	if g.restartReady {
		lines = append(lines, "Press R to play again")
	} else {
		lines = append(lines, "...")
	}
	g.renderMessage(dst, lines, platformcore.ColorBrightYellow)
}

// renderMessage draws a boxed block of centered lines over the grid.
func (g *Game) renderMessage(dst *platformcore.Screen, lines []string, c platformcore.Color) {
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	width += 4
	height := len(lines) + 2

	b := g.layout.Bounds()
	center := b.Center()
	box := platformcore.NewRect(center.X-width/2, center.Y-height/2, width, height)

	dst.FillRect(box, ' ', platformcore.ColorDefault)
	dst.DrawBox(box, c)
	for i, l := range lines {
		x := box.X + (width-len([]rune(l)))/2
		dst.DrawTextColored(x, box.Y+1+i, l, c)
	}
}
