// Package notation condenses and describes move sequences for display.
package notation

import (
	"strings"

	"github.com/SeamusWaldron/twisty/internal/cube"
)

// Step is a net turn of one face: 1 clockwise quarter, -1 counter-clockwise
// quarter or 2 for a half turn.
type Step struct {
	Face     cube.Face
	Quarters int
}

// Notation returns the standard notation for the step: R, R' or R2.
func (s Step) Notation() string {
	switch s.Quarters {
	case -1:
		return s.Face.String() + "'"
	case 2:
		return s.Face.String() + "2"
	default:
		return s.Face.String()
	}
}

// Moves expands the step back into quarter turns.
func (s Step) Moves() []cube.Move {
	switch s.Quarters {
	case -1:
		return []cube.Move{{Face: s.Face, Direction: cube.CCW}}
	case 2:
		return []cube.Move{{Face: s.Face, Direction: cube.CW}, {Face: s.Face, Direction: cube.CW}}
	default:
		return []cube.Move{{Face: s.Face, Direction: cube.CW}}
	}
}

// NormalizeTurn normalizes a quarter count to -1, 1 or 2, or 0 when the
// turns cancel.
// -3 -> 1, -2 -> 2, -1 -> -1, 0 -> 0, 1 -> 1, 2 -> 2, 3 -> -1
func NormalizeTurn(quarters int) int {
	q := ((quarters % 4) + 4) % 4
	if q == 3 {
		return -1
	}
	return q
}

// Simplify merges consecutive turns of the same face. R R becomes R2,
// R R' cancels, and a cancellation can expose further merges (R U U' R
// becomes R2).
func Simplify(moves []cube.Move) []Step {
	var out []Step
	for _, m := range moves {
		q := int(m.Direction)
		if n := len(out); n > 0 && out[n-1].Face == m.Face {
			merged := NormalizeTurn(out[n-1].Quarters + q)
			if merged == 0 {
				out = out[:n-1]
			} else {
				out[n-1].Quarters = merged
			}
			continue
		}
		out = append(out, Step{Face: m.Face, Quarters: q})
	}
	return out
}

// Format formats steps as a space-separated string.
func Format(steps []Step) string {
	parts := make([]string, len(steps))
	for i, s := range steps {
		parts[i] = s.Notation()
	}
	return strings.Join(parts, " ")
}

// Condense simplifies moves and formats the result.
func Condense(moves []cube.Move) string {
	return Format(Simplify(moves))
}
