package notation

import "github.com/SeamusWaldron/twisty/internal/cube"

// Describe spells a step out the way it looks from the front with U on
// top: which way the front stickers of the turned layer travel.
//
//	R  -> "R up"       L  -> "L down"     U  -> "top left"
//	D  -> "bottom right"  F -> "front clockwise"  B -> "back clockwise"
//
// Primes reverse the direction; half turns append " x 2".
func Describe(s Step) string {
	var d string
	ccw := s.Quarters == -1
	switch s.Face {
	case cube.R:
		d = pick(ccw, "R up", "R down")
	case cube.L:
		d = pick(ccw, "L down", "L up")
	case cube.U:
		d = pick(ccw, "top left", "top right")
	case cube.D:
		d = pick(ccw, "bottom right", "bottom left")
	case cube.F:
		d = pick(ccw, "front clockwise", "front anti-clockwise")
	case cube.B:
		d = pick(ccw, "back clockwise", "back anti-clockwise")
	default:
		return s.Notation()
	}
	if s.Quarters == 2 {
		d += " x 2"
	}
	return d
}

// DescribeMove describes a single quarter turn.
func DescribeMove(m cube.Move) string {
	return Describe(Step{Face: m.Face, Quarters: int(m.Direction)})
}

func pick(alt bool, a, b string) string {
	if alt {
		return b
	}
	return a
}
