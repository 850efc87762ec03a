package cube

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SnapCoord returns the lattice index (0, 1 or 2) whose centre is nearest to
// the world coordinate v, given the distance between cubie centres.
func SnapCoord(v, spacing float64) int {
	best, bestD := 0, math.Inf(1)
	for i := 0; i < Size; i++ {
		d := math.Abs(v - float64(i-1)*spacing)
		if d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// SnapIndex snaps a world position to the nearest lattice point.
func SnapIndex(p mgl64.Vec3, spacing float64) Index {
	return Index{
		X: SnapCoord(p[0], spacing),
		Y: SnapCoord(p[1], spacing),
		Z: SnapCoord(p[2], spacing),
	}
}

// SnapAxis rounds v to the signed unit axis it is most aligned with. Ties go
// to the lower axis. The zero vector snaps to the zero vector.
func SnapAxis(v mgl64.Vec3) Vec {
	best, bestAbs := -1, 0.0
	for i := 0; i < 3; i++ {
		if a := math.Abs(v[i]); a > bestAbs {
			best, bestAbs = i, a
		}
	}
	var out Vec
	if best < 0 {
		return out
	}
	if v[best] > 0 {
		out[best] = 1
	} else {
		out[best] = -1
	}
	return out
}

// SnapRotation reconstructs the nearest cube rotation from a floating point
// basis. The X and Z columns are rounded to unit axes and Y is rebuilt as
// Z × X so the result is always right-handed. ok is false when the rounded
// columns collapse onto the same axis.
func SnapRotation(m mgl64.Mat3) (r Rotation, ok bool) {
	x := SnapAxis(m.Col(0))
	z := SnapAxis(m.Col(2))
	if x == (Vec{}) || z == (Vec{}) || x.Dot(z) != 0 {
		return Identity, false
	}
	return FromCols(x, z.Cross(x), z), true
}
