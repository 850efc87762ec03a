package cube

import (
	"strings"
	"time"
)

// Move is a single quarter turn of one face.
type Move struct {
	Face      Face      // Which face to turn
	Direction Direction // CW or CCW
	Time      time.Time // When the move was committed (optional)
}

// Valid reports whether the move names a real face and direction.
func (m Move) Valid() bool {
	return m.Face.Valid() && m.Direction.Valid()
}

// Notation returns the standard cube notation for this move: R or R'.
func (m Move) Notation() string {
	if m.Direction == CCW {
		return m.Face.String() + "'"
	}
	return m.Face.String()
}

// Inverse returns the move that undoes m.
func (m Move) Inverse() Move {
	inv := m
	inv.Direction = m.Direction.Inverse()
	return inv
}

// WithTime returns a copy of the move with the specified timestamp.
func (m Move) WithTime(t time.Time) Move {
	m.Time = t
	return m
}

// Rotation returns the exact rotation this move applies to its slice.
func (m Move) Rotation() Rotation {
	return TurnRotation(m.Face, m.Direction)
}

// String returns the notation string (alias for Notation).
func (m Move) String() string {
	return m.Notation()
}

// ParseFace parses a face letter (R, L, U, D, F, B in either case).
func ParseFace(s string) (Face, error) {
	if len(s) != 1 {
		return 0, ErrInvalidFace
	}
	switch s[0] {
	case 'R', 'r':
		return R, nil
	case 'L', 'l':
		return L, nil
	case 'U', 'u':
		return U, nil
	case 'D', 'd':
		return D, nil
	case 'F', 'f':
		return F, nil
	case 'B', 'b':
		return B, nil
	}
	return 0, ErrInvalidFace
}

// ParseToken parses one notation token into quarter turns. R and R' yield one
// move; R2 (or R2') yields two clockwise moves.
func ParseToken(s string) ([]Move, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return nil, ErrInvalidNotation
	}

	face, err := ParseFace(s[:1])
	if err != nil {
		return nil, ErrInvalidNotation
	}

	switch s[1:] {
	case "":
		return []Move{{Face: face, Direction: CW}}, nil
	case "'", "`":
		return []Move{{Face: face, Direction: CCW}}, nil
	case "2", "2'", "2`":
		return []Move{{Face: face, Direction: CW}, {Face: face, Direction: CW}}, nil
	}
	return nil, ErrInvalidNotation
}

// ParseMove parses a single quarter turn such as R or U'.
func ParseMove(s string) (Move, error) {
	moves, err := ParseToken(s)
	if err != nil {
		return Move{}, err
	}
	if len(moves) != 1 {
		return Move{}, ErrInvalidNotation
	}
	return moves[0], nil
}

// ParseMoves parses a space-separated sequence such as "R U R' U2".
// Half turns expand to two quarter turns.
func ParseMoves(s string) ([]Move, error) {
	parts := strings.Fields(s)
	moves := make([]Move, 0, len(parts))

	for _, part := range parts {
		ms, err := ParseToken(part)
		if err != nil {
			return nil, err
		}
		moves = append(moves, ms...)
	}

	return moves, nil
}

// FormatMoves formats moves as a space-separated notation string.
func FormatMoves(moves []Move) string {
	if len(moves) == 0 {
		return ""
	}

	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.Notation()
	}

	return strings.Join(parts, " ")
}

// InvertSequence returns the sequence that undoes moves: reversed, with every
// direction inverted.
func InvertSequence(moves []Move) []Move {
	out := make([]Move, len(moves))
	for i, m := range moves {
		out[len(moves)-1-i] = m.Inverse()
	}
	return out
}
