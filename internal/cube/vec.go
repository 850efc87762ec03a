package cube

import "github.com/go-gl/mathgl/mgl64"

// Vec is an exact integer 3-vector.
type Vec [3]int

func (v Vec) Add(o Vec) Vec { return Vec{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }
func (v Vec) Sub(o Vec) Vec { return Vec{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }
func (v Vec) Scale(k int) Vec {
	return Vec{v[0] * k, v[1] * k, v[2] * k}
}
func (v Vec) Dot(o Vec) int { return v[0]*o[0] + v[1]*o[1] + v[2]*o[2] }

func (v Vec) Cross(o Vec) Vec {
	return Vec{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

// Float converts v to a floating point vector.
func (v Vec) Float() mgl64.Vec3 {
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

// Index holds the logical grid indices of a cubie, each in 0..2.
type Index struct {
	X, Y, Z int
}

// Valid reports whether every index is inside the lattice.
func (i Index) Valid() bool {
	return i.X >= 0 && i.X < Size && i.Y >= 0 && i.Y < Size && i.Z >= 0 && i.Z < Size
}

// Get returns the index on axis a.
func (i Index) Get(a Axis) int {
	switch a {
	case X:
		return i.X
	case Y:
		return i.Y
	default:
		return i.Z
	}
}

// Centered returns the index relative to the body centre, each in -1..1.
func (i Index) Centered() Vec {
	return Vec{i.X - 1, i.Y - 1, i.Z - 1}
}

// IndexOf converts a centred vector back into lattice indices.
func IndexOf(v Vec) Index {
	return Index{X: v[0] + 1, Y: v[1] + 1, Z: v[2] + 1}
}

// Position returns the solved-frame world position of the lattice point.
func (i Index) Position(spacing float64) mgl64.Vec3 {
	return i.Centered().Float().Mul(spacing)
}
