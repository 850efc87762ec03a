package cube

// Axis identifies one of the three lattice axes.
type Axis int

const (
	X Axis = 0
	Y Axis = 1
	Z Axis = 2
)

func (a Axis) String() string {
	switch a {
	case X:
		return "X"
	case Y:
		return "Y"
	case Z:
		return "Z"
	default:
		return "?"
	}
}

// Unit returns the positive unit vector along the axis.
func (a Axis) Unit() Vec {
	var v Vec
	v[a] = 1
	return v
}

// Face identifies one of the six outer layers. Values are 1..6 so a zero
// Face is never valid.
type Face int

const (
	R Face = 1 // Right, +X
	L Face = 2 // Left, -X
	U Face = 3 // Up, +Y
	D Face = 4 // Down, -Y
	F Face = 5 // Front, +Z
	B Face = 6 // Back, -Z
)

// Faces lists every face in id order.
var Faces = [6]Face{R, L, U, D, F, B}

// Valid reports whether f is one of the six face ids.
func (f Face) Valid() bool {
	return f >= R && f <= B
}

func (f Face) String() string {
	switch f {
	case R:
		return "R"
	case L:
		return "L"
	case U:
		return "U"
	case D:
		return "D"
	case F:
		return "F"
	case B:
		return "B"
	default:
		return "?"
	}
}

// Axis returns the lattice axis the face is bound to.
func (f Face) Axis() Axis {
	return Axis((f - 1) / 2)
}

// Sign returns +1 for R, U and F and -1 for L, D and B.
func (f Face) Sign() int {
	if (f-1)%2 == 0 {
		return 1
	}
	return -1
}

// Normal returns the outward unit normal of the face.
func (f Face) Normal() Vec {
	return f.Axis().Unit().Scale(f.Sign())
}

// Layer returns the extreme lattice index (0 or 2) of the face on its axis.
func (f Face) Layer() int {
	if f.Sign() > 0 {
		return Size - 1
	}
	return 0
}

// Opposite returns the parallel face on the other side of the cube.
func (f Face) Opposite() Face {
	return FaceFor(f.Axis(), -f.Sign())
}

// FaceFor returns the face on axis a with the given sign.
func FaceFor(a Axis, sign int) Face {
	f := Face(int(a)*2 + 1)
	if sign < 0 {
		f++
	}
	return f
}

// FaceFromNormal returns the face whose outward normal is v. v must be a
// signed unit axis.
func FaceFromNormal(v Vec) (Face, bool) {
	for _, f := range Faces {
		if f.Normal() == v {
			return f, true
		}
	}
	return 0, false
}

// Direction is the sense of a quarter turn as seen from outside the cube,
// looking at the face along its outward normal.
type Direction int

const (
	CW  Direction = 1  // Clockwise
	CCW Direction = -1 // Counter-clockwise
)

// Valid reports whether d is CW or CCW.
func (d Direction) Valid() bool {
	return d == CW || d == CCW
}

func (d Direction) String() string {
	switch d {
	case CW:
		return "CW"
	case CCW:
		return "CCW"
	default:
		return "?"
	}
}

// Inverse returns the opposite direction.
func (d Direction) Inverse() Direction {
	return -d
}

// Quarter returns the signed number of quarter turns about the face's
// outward normal. Clockwise is -1 for every face.
func (d Direction) Quarter() int {
	return -int(d)
}

// ParseDirection accepts "CW" and "CCW" in any case.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "CW", "cw":
		return CW, nil
	case "CCW", "ccw":
		return CCW, nil
	}
	return 0, ErrInvalidDirection
}
