package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/oddoneout/internal/games/oddoneout"
	"github.com/vovakirdan/oddoneout/internal/games/oddoneout/core"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print the grid geometry of the current config",
	Long: `Print where every cell sits on screen for the active config.
Positions are in terminal cells from the top-left corner.

Examples:
  oddoneout layout
  oddoneout layout --config ./my-oddoneout.yaml`,
	Args: cobra.NoArgs,
	Run:  runLayout,
}

func runLayout(_ *cobra.Command, _ []string) {
	cfg := oddoneout.LoadConfig()
	l := core.NewLayout(cfg.Board)
	b := l.Bounds()

	fmt.Printf("Grid %dx%d, cell %dx%d, spacing %d\n", l.Rows, l.Cols, l.CellW, l.CellH, l.Spacing)
	fmt.Printf("Bounds: x=%d y=%d w=%d h=%d\n", b.X, b.Y, b.W, b.H)
	fmt.Println()

	fmt.Printf("  %-5s  %-3s  %-3s  %-4s  %s\n", "Index", "Row", "Col", "X", "Y")
	fmt.Printf("  %-5s  %-3s  %-3s  %-4s  %s\n", "-----", "---", "---", "-", "-")
	for i := 0; i < l.Size(); i++ {
		row, col := l.RowCol(i)
		p := l.CellPosition(i)
		fmt.Printf("  %-5d  %-3d  %-3d  %-4d  %d\n", i, row, col, p.X, p.Y)
	}
}
