package cube

import (
	"fmt"
	"strings"
)

// Color represents a sticker color.
type Color byte

const (
	White  Color = 0 // Up face when solved
	Yellow Color = 1 // Down face when solved
	Green  Color = 2 // Front face when solved
	Blue   Color = 3 // Back face when solved
	Red    Color = 4 // Right face when solved
	Orange Color = 5 // Left face when solved
)

func (c Color) String() string {
	switch c {
	case White:
		return "W"
	case Yellow:
		return "Y"
	case Green:
		return "G"
	case Blue:
		return "B"
	case Red:
		return "R"
	case Orange:
		return "O"
	default:
		return "?"
	}
}

// SolvedColor returns the color of face f when solved.
func SolvedColor(f Face) Color {
	switch f {
	case U:
		return White
	case D:
		return Yellow
	case F:
		return Green
	case B:
		return Blue
	case R:
		return Red
	case L:
		return Orange
	default:
		return White
	}
}

// ViewBasis returns the screen right and up directions of face f as seen from
// outside in the standard unfolded net (U above F, D below F). right × up is
// the outward normal.
func ViewBasis(f Face) (right, up Vec) {
	switch f {
	case R:
		return Vec{0, 0, -1}, Vec{0, 1, 0}
	case L:
		return Vec{0, 0, 1}, Vec{0, 1, 0}
	case U:
		return Vec{1, 0, 0}, Vec{0, 0, -1}
	case D:
		return Vec{1, 0, 0}, Vec{0, 0, 1}
	case F:
		return Vec{1, 0, 0}, Vec{0, 1, 0}
	default: // B
		return Vec{-1, 0, 0}, Vec{0, 1, 0}
	}
}

// StickerIndex returns the lattice index of the cubie carrying sticker i of
// face f. Stickers are numbered as seen from outside:
//
//	0 1 2
//	3 4 5
//	6 7 8
func StickerIndex(f Face, i int) Index {
	right, up := ViewBasis(f)
	row, col := i/Size, i%Size
	p := f.Normal().Add(right.Scale(col - 1)).Add(up.Scale(1 - row))
	return IndexOf(p)
}

// Facelets is the sticker view of a grid: Stickers[face-1][position] = color.
type Facelets struct {
	Stickers [6][9]Color
}

// Facelets projects the cubie grid onto its 54 visible stickers.
func (g *Grid) Facelets() Facelets {
	var fl Facelets
	for _, f := range Faces {
		n := f.Normal()
		for i := 0; i < Size*Size; i++ {
			c, _ := g.At(StickerIndex(f, i))
			// The sticker facing n is the one on the cubie's local face O^T n.
			local := c.Orientation.Transpose().Apply(n)
			home, ok := FaceFromNormal(local)
			if !ok {
				home = f
			}
			fl.Stickers[f-1][i] = SolvedColor(home)
		}
	}
	return fl
}

// At returns the color of sticker i on face f.
func (fl Facelets) At(f Face, i int) Color {
	return fl.Stickers[f-1][i]
}

// IsSolved reports whether every face shows a single color matching its
// solved color.
func (fl Facelets) IsSolved() bool {
	for _, f := range Faces {
		want := SolvedColor(f)
		for i := 0; i < Size*Size; i++ {
			if fl.Stickers[f-1][i] != want {
				return false
			}
		}
	}
	return true
}

// String returns the unfolded net:
//
//	      U
//	L F R B
//	      D
func (fl Facelets) String() string {
	var b strings.Builder

	for row := 0; row < Size; row++ {
		b.WriteString("      ")
		for col := 0; col < Size; col++ {
			b.WriteString(fl.At(U, row*Size+col).String() + " ")
		}
		b.WriteString("\n")
	}

	for row := 0; row < Size; row++ {
		for _, face := range []Face{L, F, R, B} {
			for col := 0; col < Size; col++ {
				b.WriteString(fl.At(face, row*Size+col).String() + " ")
			}
		}
		b.WriteString("\n")
	}

	for row := 0; row < Size; row++ {
		b.WriteString("      ")
		for col := 0; col < Size; col++ {
			b.WriteString(fl.At(D, row*Size+col).String() + " ")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// Debug returns a simple debug string.
func (g *Grid) Debug() string {
	return fmt.Sprintf("Solved: %v Facelets solved: %v", g.IsSolved(), g.Facelets().IsSolved())
}
