package cube

import "github.com/go-gl/mathgl/mgl64"

// Rotation is one of the 24 proper rotations of the cube, stored exactly as a
// signed permutation matrix indexed [row][col]. Column i is the image of the
// cubie's local axis i.
type Rotation [3][3]int

// Identity is the solved orientation.
var Identity = Rotation{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// QuarterTurn returns the rotation by k*90 degrees (k = +1 or -1) about the
// positive direction of axis a, counter-clockwise by the right-hand rule.
func QuarterTurn(a Axis, k int) Rotation {
	s := 1
	if k < 0 {
		s = -1
	}
	switch a {
	case X:
		return Rotation{{1, 0, 0}, {0, 0, -s}, {0, s, 0}}
	case Y:
		return Rotation{{0, 0, s}, {0, 1, 0}, {-s, 0, 0}}
	default:
		return Rotation{{0, -s, 0}, {s, 0, 0}, {0, 0, 1}}
	}
}

// TurnRotation returns the rotation a face turn applies to its slice.
func TurnRotation(f Face, d Direction) Rotation {
	return QuarterTurn(f.Axis(), f.Sign()*d.Quarter())
}

// FromCols builds a rotation from the images of the local X, Y and Z axes.
func FromCols(x, y, z Vec) Rotation {
	var r Rotation
	for row := 0; row < 3; row++ {
		r[row][0] = x[row]
		r[row][1] = y[row]
		r[row][2] = z[row]
	}
	return r
}

// Col returns column i.
func (r Rotation) Col(i int) Vec {
	return Vec{r[0][i], r[1][i], r[2][i]}
}

// Mul returns the composition r·o (o applied first).
func (r Rotation) Mul(o Rotation) Rotation {
	var out Rotation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out[i][j] += r[i][k] * o[k][j]
			}
		}
	}
	return out
}

// Apply rotates v.
func (r Rotation) Apply(v Vec) Vec {
	var out Vec
	for i := 0; i < 3; i++ {
		out[i] = r[i][0]*v[0] + r[i][1]*v[1] + r[i][2]*v[2]
	}
	return out
}

// Transpose returns the inverse rotation.
func (r Rotation) Transpose() Rotation {
	var out Rotation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = r[j][i]
		}
	}
	return out
}

// Valid reports whether r is one of the 24 cube rotations: every column is a
// signed unit axis and the basis is right-handed.
func (r Rotation) Valid() bool {
	for i := 0; i < 3; i++ {
		if !isUnitAxis(r.Col(i)) {
			return false
		}
	}
	return r.Col(0).Cross(r.Col(1)) == r.Col(2)
}

// Tag returns the position of r in All, or -1 if r is not a cube rotation.
func (r Rotation) Tag() int {
	if t, ok := rotationTags[r]; ok {
		return t
	}
	return -1
}

// Mat3 converts r to a floating point matrix.
func (r Rotation) Mat3() mgl64.Mat3 {
	return mgl64.Mat3FromCols(r.Col(0).Float(), r.Col(1).Float(), r.Col(2).Float())
}

// Quat converts r to a unit quaternion.
func (r Rotation) Quat() mgl64.Quat {
	return mgl64.Mat4ToQuat(r.Mat3().Mat4()).Normalize()
}

// All returns the 24 cube rotations. The order is fixed; Identity is first.
func All() []Rotation {
	out := make([]Rotation, len(allRotations))
	copy(out, allRotations)
	return out
}

var (
	allRotations = enumerateRotations()
	rotationTags = tagRotations(allRotations)
)

// enumerateRotations closes the three quarter-turn generators over Identity
// breadth first.
func enumerateRotations() []Rotation {
	gens := []Rotation{QuarterTurn(X, 1), QuarterTurn(Y, 1), QuarterTurn(Z, 1)}
	seen := map[Rotation]bool{Identity: true}
	out := []Rotation{Identity}
	for i := 0; i < len(out); i++ {
		for _, g := range gens {
			next := g.Mul(out[i])
			if !seen[next] {
				seen[next] = true
				out = append(out, next)
			}
		}
	}
	return out
}

func tagRotations(rs []Rotation) map[Rotation]int {
	m := make(map[Rotation]int, len(rs))
	for i, r := range rs {
		m[r] = i
	}
	return m
}

func isUnitAxis(v Vec) bool {
	n := 0
	for _, c := range v {
		switch c {
		case 0:
		case 1, -1:
			n++
		default:
			return false
		}
	}
	return n == 1
}
