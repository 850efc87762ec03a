// Package gesture turns pointer swipes on the cube surface into face turns.
//
// A swipe is reduced to three things: the touched face, the touched point and
// the in-plane displacement. Resolve maps those to a (face, direction)
// command with one formula for every face pair; Interpreter tracks pointer
// samples and feeds Resolve.
package gesture

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SeamusWaldron/twisty/internal/cube"
)

// TargetRule selects how the turned layer is chosen.
type TargetRule int

const (
	// RuleCross turns the face whose normal is swipe × touch normal.
	RuleCross TargetRule = iota
	// RuleLayer turns the outer layer under the touched point, on the
	// rotation axis touch normal × swipe. Middle-layer touches are ignored.
	RuleLayer
)

func (r TargetRule) String() string {
	switch r {
	case RuleCross:
		return "cross"
	case RuleLayer:
		return "layer"
	default:
		return fmt.Sprintf("rule(%d)", int(r))
	}
}

// ParseTargetRule accepts "cross" or "layer".
func ParseTargetRule(s string) (TargetRule, error) {
	switch s {
	case "cross", "":
		return RuleCross, nil
	case "layer":
		return RuleLayer, nil
	}
	return 0, fmt.Errorf("gesture: unknown target rule %q", s)
}

// Config holds the interpreter's thresholds.
type Config struct {
	// MinSwipe is the world-space distance below which a release is a tap.
	MinSwipe float64
	// UnitsPerPixel converts screen deltas to world units.
	UnitsPerPixel float64
	// Invert flips every emitted direction.
	Invert bool
	Rule   TargetRule
	// MinNormalAlignment is the smallest dominant component a unit hit
	// normal may have before the hit counts as grazing.
	MinNormalAlignment float64
	// Spacing is the lattice spacing, used by RuleLayer.
	Spacing float64
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		MinSwipe:           0.15,
		UnitsPerPixel:      0.01,
		Rule:               RuleCross,
		MinNormalAlignment: 0.8,
		Spacing:            1.02,
	}
}

// Command is a resolved turn request.
type Command struct {
	Face      cube.Face
	Direction cube.Direction
}

func (c Command) String() string {
	return cube.Move{Face: c.Face, Direction: c.Direction}.Notation()
}

// Reason says why a gesture did or did not produce a command.
type Reason int

const (
	Accepted Reason = iota
	NoHit
	Grazing
	Tap
	MultiTouch
	MiddleLayer
	Cancelled
)

func (r Reason) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case NoHit:
		return "no hit"
	case Grazing:
		return "grazing normal"
	case Tap:
		return "tap"
	case MultiTouch:
		return "multi-touch"
	case MiddleLayer:
		return "middle layer"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// FaceFromNormal returns the face whose outward normal is the dominant axis
// of n. It fails for zero, non-finite or grazing normals.
func FaceFromNormal(n mgl64.Vec3, minAlignment float64) (cube.Face, bool) {
	l := n.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return 0, false
	}
	n = n.Mul(1 / l)
	axis := cube.SnapAxis(n)
	if n.Dot(axis.Float()) < minAlignment {
		return 0, false
	}
	return cube.FaceFromNormal(axis)
}

// Project removes the component of d along the touched face's normal.
func Project(d mgl64.Vec3, touched cube.Face) mgl64.Vec3 {
	n := touched.Normal().Float()
	return d.Sub(n.Mul(d.Dot(n)))
}

// Resolve maps a completed swipe to a command. point is the touched world
// point and disp the accumulated displacement; disp is projected onto the
// touched face's plane first. Resolve is pure: equal inputs give equal
// outputs.
func Resolve(cfg Config, touched cube.Face, point, disp mgl64.Vec3) (Command, Reason) {
	if !touched.Valid() {
		return Command{}, NoHit
	}
	disp = Project(disp, touched)
	l := disp.Len()
	if math.IsNaN(l) || math.IsInf(l, 0) || l < cfg.MinSwipe {
		return Command{}, Tap
	}

	n := touched.Normal()
	s := cube.SnapAxis(disp)
	// A zero swipe has no axis, whatever MinSwipe says.
	if s == (cube.Vec{}) {
		return Command{}, Tap
	}

	var target cube.Face
	switch cfg.Rule {
	case RuleLayer:
		w := n.Cross(s)
		axis, _ := axisOf(w)
		c := point[axis]
		half := cfg.Spacing / 2
		if half <= 0 {
			half = 0.5
		}
		switch {
		case c > half:
			target = cube.FaceFor(axis, 1)
		case c < -half:
			target = cube.FaceFor(axis, -1)
		default:
			return Command{}, MiddleLayer
		}
	default:
		f, ok := cube.FaceFromNormal(s.Cross(n))
		if !ok {
			return Command{}, Grazing
		}
		target = f
	}

	// The edge direction shared by the touched and target faces, oriented
	// so that a clockwise turn of target rolls the touched face along it.
	edge := n.Cross(target.Normal()).Float()
	dir := cube.CCW
	if disp.Dot(edge) > 0 {
		dir = cube.CW
	}
	if cfg.Invert {
		dir = dir.Inverse()
	}
	return Command{Face: target, Direction: dir}, Accepted
}

func axisOf(v cube.Vec) (cube.Axis, int) {
	for i, c := range v {
		if c != 0 {
			return cube.Axis(i), c
		}
	}
	return cube.X, 0
}
