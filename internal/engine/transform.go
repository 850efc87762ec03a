package engine

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/SeamusWaldron/twisty/internal/cube"
)

// Transform is the presentation pose of one cubie.
type Transform struct {
	ID       int
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// Transforms returns the pose of every cubie, ordered by id. Cubies in an
// in-flight turn are interpolated to the current progress; the rest sit on
// their lattice points.
func (e *Engine) Transforms() []Transform {
	cubies := e.grid.Cubies()
	out := make([]Transform, len(cubies))

	moving := map[int]bool{}
	pivot := mgl64.QuatIdent()
	if t := e.active; t != nil {
		for _, id := range t.ids {
			moving[id] = true
		}
		pivot = mgl64.QuatSlerp(mgl64.QuatIdent(), t.target, t.progress)
	}

	for i, c := range cubies {
		pos := c.Index.Position(e.cfg.Spacing)
		rot := c.Orientation.Quat()
		if moving[c.ID] {
			pos = pivot.Rotate(pos)
			rot = pivot.Mul(rot)
		}
		out[i] = Transform{ID: c.ID, Position: pos, Rotation: rot}
	}
	return out
}

// Snapshot returns a copy of the grid's committed state.
func (e *Engine) Snapshot() *cube.Grid {
	return e.grid.Clone()
}
