package twisty

import (
	"github.com/SeamusWaldron/twisty/internal/cube"
)

// Face identifies one of the six outer layers.
type Face = cube.Face

const (
	FaceR = cube.R // Right, +X
	FaceL = cube.L // Left, -X
	FaceU = cube.U // Up, +Y
	FaceD = cube.D // Down, -Y
	FaceF = cube.F // Front, +Z
	FaceB = cube.B // Back, -Z
)

// Direction is a quarter-turn direction seen from outside the face.
type Direction = cube.Direction

const (
	CW  = cube.CW  // Clockwise (90 degrees)
	CCW = cube.CCW // Counter-clockwise (90 degrees)
)

// Move is a single quarter turn with an optional commit time.
type Move = cube.Move

// Color is a sticker color.
type Color = cube.Color

// Facelets holds the sticker colors of all six faces.
type Facelets = cube.Facelets

// ParseMove parses a single quarter turn such as R or U'.
func ParseMove(s string) (Move, error) {
	return cube.ParseMove(s)
}

// ParseMoves parses a space-separated sequence. Half turns such as R2 expand
// to two quarter turns.
func ParseMoves(s string) ([]Move, error) {
	return cube.ParseMoves(s)
}

// FormatMoves formats moves as a space-separated string.
func FormatMoves(moves []Move) string {
	return cube.FormatMoves(moves)
}

// InvertSequence returns the sequence that undoes moves.
func InvertSequence(moves []Move) []Move {
	return cube.InvertSequence(moves)
}
