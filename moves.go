package twisty

// Predefined quarter turns.
// Use these instead of constructing Move structs manually.
//
// Example:
//
//	p.Play([]twisty.Move{twisty.R, twisty.U, twisty.RPrime, twisty.UPrime}, true)
var (
	// Right face moves
	R      = Move{Face: FaceR, Direction: CW}  // Right clockwise
	RPrime = Move{Face: FaceR, Direction: CCW} // Right counter-clockwise

	// Left face moves
	L      = Move{Face: FaceL, Direction: CW}  // Left clockwise
	LPrime = Move{Face: FaceL, Direction: CCW} // Left counter-clockwise

	// Up face moves
	U      = Move{Face: FaceU, Direction: CW}  // Up clockwise
	UPrime = Move{Face: FaceU, Direction: CCW} // Up counter-clockwise

	// Down face moves
	D      = Move{Face: FaceD, Direction: CW}  // Down clockwise
	DPrime = Move{Face: FaceD, Direction: CCW} // Down counter-clockwise

	// Front face moves
	F      = Move{Face: FaceF, Direction: CW}  // Front clockwise
	FPrime = Move{Face: FaceF, Direction: CCW} // Front counter-clockwise

	// Back face moves
	B      = Move{Face: FaceB, Direction: CW}  // Back clockwise
	BPrime = Move{Face: FaceB, Direction: CCW} // Back counter-clockwise
)
