package cli

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SeamusWaldron/twisty"
	"github.com/SeamusWaldron/twisty/internal/cube"
)

func TestPickSticker(t *testing.T) {
	tests := []struct {
		name  string
		x, y  int
		face  cube.Face
		index int
		ok    bool
	}{
		{"front centre", netLeft + 4*cellWidth, netTop + 4, cube.F, 4, true},
		{"front centre right half", netLeft + 4*cellWidth + 1, netTop + 4, cube.F, 4, true},
		{"up top left", netLeft + 3*cellWidth, netTop, cube.U, 0, true},
		{"back bottom right", netLeft + 11*cellWidth, netTop + 5, cube.B, 8, true},
		{"down bottom", netLeft + 5*cellWidth, netTop + 8, cube.D, 8, true},
		{"gap left of up", netLeft, netTop, 0, 0, false},
		{"above net", netLeft + 4*cellWidth, netTop - 1, 0, 0, false},
		{"left margin", 0, netTop + 4, 0, 0, false},
		{"right of net", netLeft + 12*cellWidth, netTop + 4, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, i, ok := pickSticker(tt.x, tt.y)
			if ok != tt.ok || (ok && (f != tt.face || i != tt.index)) {
				t.Errorf("pickSticker(%d, %d) = %s %d %v, want %s %d %v", tt.x, tt.y, f, i, ok, tt.face, tt.index, tt.ok)
			}
		})
	}
}

func TestStickerHitLiesOnFace(t *testing.T) {
	const spacing = 1.02
	for _, f := range cube.Faces {
		for i := 0; i < 9; i++ {
			hit := stickerHit(f, i, spacing)
			n := f.Normal().Float()
			if got := hit.Point.Dot(n); mgl64.Abs(got-1.5*spacing) > 1e-9 {
				t.Errorf("%s[%d]: depth along normal = %v, want %v", f, i, got, 1.5*spacing)
			}
		}
	}
	hit := stickerHit(cube.F, 4, spacing)
	if !hit.Point.ApproxEqual(mgl64.Vec3{0, 0, 1.53}) {
		t.Errorf("front centre hit = %v", hit.Point)
	}
}

func TestDragOnNetTurnsFace(t *testing.T) {
	// Dragging the right column of the front face up the screen is R.
	p := twisty.New(twisty.WithTurnDuration(0))
	p.PointerDown(0, stickerHit(cube.F, 5, p.Spacing()))
	p.PointerMoveWorld(0, dragDelta(cube.F, 0, -2, p.Spacing()))
	if c := p.PointerUp(0); c == nil {
		t.Fatal("drag should turn a face")
	}
	if got := twisty.FormatMoves(p.Moves()); got != "R" {
		t.Errorf("moves = %q, want R", got)
	}
}

func TestRenderNet(t *testing.T) {
	out := renderNet(cube.NewGrid().Facelets())
	if lines := strings.Count(out, "\n"); lines != netRows {
		t.Errorf("net has %d lines, want %d", lines, netRows)
	}
}
