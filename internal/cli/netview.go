package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/SeamusWaldron/twisty"
	"github.com/SeamusWaldron/twisty/internal/cube"
)

// Layout of the unfolded net on screen. Each sticker is cellWidth columns
// by one row.
const (
	netTop    = 4
	netLeft   = 2
	cellWidth = 2
	netRows   = 3 * cube.Size
	netCols   = 4 * cube.Size
)

// netBlocks maps a block (row, col) of the net to its face:
//
//	  U
//	L F R B
//	  D
var netBlocks = map[[2]int]cube.Face{
	{0, 1}: cube.U,
	{1, 0}: cube.L,
	{1, 1}: cube.F,
	{1, 2}: cube.R,
	{1, 3}: cube.B,
	{2, 1}: cube.D,
}

var stickerColors = map[cube.Color]lipgloss.Color{
	cube.White:  lipgloss.Color("15"),
	cube.Yellow: lipgloss.Color("11"),
	cube.Green:  lipgloss.Color("10"),
	cube.Blue:   lipgloss.Color("12"),
	cube.Red:    lipgloss.Color("9"),
	cube.Orange: lipgloss.Color("208"),
}

func stickerAt(row, col int) (cube.Face, int, bool) {
	if row < 0 || row >= netRows || col < 0 || col >= netCols {
		return 0, 0, false
	}
	f, ok := netBlocks[[2]int{row / cube.Size, col / cube.Size}]
	if !ok {
		return 0, 0, false
	}
	return f, (row%cube.Size)*cube.Size + col%cube.Size, true
}

// renderNet draws the stickers as colored cells.
func renderNet(fl cube.Facelets) string {
	var b strings.Builder
	blank := strings.Repeat(" ", cellWidth)
	for row := 0; row < netRows; row++ {
		b.WriteString(strings.Repeat(" ", netLeft))
		for col := 0; col < netCols; col++ {
			f, i, ok := stickerAt(row, col)
			if !ok {
				b.WriteString(blank)
				continue
			}
			style := lipgloss.NewStyle().Background(stickerColors[fl.At(f, i)])
			b.WriteString(style.Render(blank))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// pickSticker maps a terminal cell to the sticker drawn there.
func pickSticker(x, y int) (cube.Face, int, bool) {
	if x < netLeft {
		return 0, 0, false
	}
	return stickerAt(y-netTop, (x-netLeft)/cellWidth)
}

// stickerHit returns the picker result for the centre of sticker i of f.
func stickerHit(f cube.Face, i int, spacing float64) *twisty.Hit {
	n := f.Normal().Float()
	center := cube.StickerIndex(f, i).Position(spacing)
	return &twisty.Hit{Point: center.Add(n.Mul(spacing / 2)), Normal: n}
}

// dragDelta converts a drag of dx columns and dy rows over face f into a
// world displacement. One sticker on screen is one cubie in the world.
func dragDelta(f cube.Face, dx, dy int, spacing float64) mgl64.Vec3 {
	right, up := cube.ViewBasis(f)
	across := float64(dx) / cellWidth * spacing
	down := float64(dy) * spacing
	return right.Float().Mul(across).Sub(up.Float().Mul(down))
}
