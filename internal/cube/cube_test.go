package cube

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// turn applies m exactly, the way a committed turn lands on the lattice.
func turn(t *testing.T, g *Grid, m Move) {
	t.Helper()
	slice, err := g.Select(m.Face)
	if err != nil {
		t.Fatalf("select %v: %v", m, err)
	}
	rot := m.Rotation()
	for _, c := range slice {
		idx := IndexOf(rot.Apply(c.Index.Centered()))
		if err := g.Place(c.ID, idx, rot.Mul(c.Orientation)); err != nil {
			t.Fatalf("place %d: %v", c.ID, err)
		}
	}
}

func TestNewGridIsSolved(t *testing.T) {
	g := NewGrid()
	if !g.IsSolved() {
		t.Error("New grid should be solved")
	}
	if err := g.Validate(); err != nil {
		t.Errorf("New grid should be valid: %v", err)
	}
	if !g.Facelets().IsSolved() {
		t.Error("New grid facelets should be solved")
	}
}

func TestAllRotations(t *testing.T) {
	all := All()
	if len(all) != 24 {
		t.Fatalf("expected 24 rotations, got %d", len(all))
	}
	if all[0] != Identity {
		t.Error("Identity should be the first rotation")
	}
	seen := map[Rotation]bool{}
	for i, r := range all {
		if !r.Valid() {
			t.Errorf("rotation %d is not valid: %v", i, r)
		}
		if seen[r] {
			t.Errorf("rotation %d is a duplicate", i)
		}
		seen[r] = true
		if r.Tag() != i {
			t.Errorf("rotation %d has tag %d", i, r.Tag())
		}
		if r.Mul(r.Transpose()) != Identity {
			t.Errorf("rotation %d times its transpose is not identity", i)
		}
	}
	for _, a := range all {
		for _, b := range all {
			if a.Mul(b).Tag() < 0 {
				t.Fatalf("rotations are not closed under composition")
			}
		}
	}
}

func TestInvalidRotation(t *testing.T) {
	mirror := Rotation{{-1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	if mirror.Valid() {
		t.Error("A reflection should not be a valid rotation")
	}
	if mirror.Tag() != -1 {
		t.Error("A reflection should have no tag")
	}
	skew := Rotation{{1, 1, 0}, {0, 1, 0}, {0, 0, 1}}
	if skew.Valid() {
		t.Error("A skewed basis should not be valid")
	}
}

func TestQuarterTurnOrderFour(t *testing.T) {
	for _, a := range []Axis{X, Y, Z} {
		for _, k := range []int{1, -1} {
			q := QuarterTurn(a, k)
			r := Identity
			for i := 0; i < 4; i++ {
				r = q.Mul(r)
			}
			if r != Identity {
				t.Errorf("quarter turn about %v (%d) x 4 should be identity", a, k)
			}
			if q.Mul(QuarterTurn(a, -k)) != Identity {
				t.Errorf("quarter turn about %v should cancel its inverse", a)
			}
		}
	}
}

func TestClockwiseConvention(t *testing.T) {
	// Looking at U from above, a clockwise turn carries the front to the left.
	if got := TurnRotation(U, CW).Apply(Vec{0, 0, 1}); got != (Vec{-1, 0, 0}) {
		t.Errorf("U CW should carry front to left, got %v", got)
	}
	// R clockwise carries the front to the top.
	if got := TurnRotation(R, CW).Apply(Vec{0, 0, 1}); got != (Vec{0, 1, 0}) {
		t.Errorf("R CW should carry front to up, got %v", got)
	}
	// F clockwise carries the top to the right.
	if got := TurnRotation(F, CW).Apply(Vec{0, 1, 0}); got != (Vec{1, 0, 0}) {
		t.Errorf("F CW should carry up to right, got %v", got)
	}
	// The opposite face turns the other way about the shared axis.
	for _, f := range Faces {
		if TurnRotation(f, CW) != TurnRotation(f.Opposite(), CCW) {
			t.Errorf("%v CW should equal %v CCW as a rotation", f, f.Opposite())
		}
	}
}

func TestSelectCardinality(t *testing.T) {
	g := NewGrid()
	for _, f := range Faces {
		slice, err := g.Select(f)
		if err != nil {
			t.Fatalf("select %v: %v", f, err)
		}
		if len(slice) != 9 {
			t.Errorf("%v should select 9 cubies, got %d", f, len(slice))
		}
		for i, c := range slice {
			if c.Index == (Index{1, 1, 1}) {
				t.Errorf("%v selected the body centre", f)
			}
			if c.Index.Get(f.Axis()) != f.Layer() {
				t.Errorf("%v selected cubie %d outside its layer", f, c.ID)
			}
			if i > 0 && slice[i-1].ID >= c.ID {
				t.Errorf("%v selection is not ordered by id", f)
			}
		}
	}
}

func TestSelectIsDeterministic(t *testing.T) {
	g := NewGrid()
	turn(t, g, Move{Face: R, Direction: CW})
	a, _ := g.Select(U)
	b, _ := g.Select(U)
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("two selections without a turn should be identical")
		}
	}
}

func TestSelectInvalidFace(t *testing.T) {
	g := NewGrid()
	for _, f := range []Face{0, 7, -1} {
		if _, err := g.Select(f); !errors.Is(err, ErrInvalidFace) {
			t.Errorf("Select(%d) should fail with ErrInvalidFace, got %v", f, err)
		}
	}
}

func TestFaceFromNormal(t *testing.T) {
	for _, f := range Faces {
		got, ok := FaceFromNormal(f.Normal())
		if !ok || got != f {
			t.Errorf("FaceFromNormal(%v) = %v, want %v", f.Normal(), got, f)
		}
		if FaceFor(f.Axis(), f.Sign()) != f {
			t.Errorf("FaceFor round trip failed for %v", f)
		}
	}
	if _, ok := FaceFromNormal(Vec{1, 1, 0}); ok {
		t.Error("a diagonal should not map to a face")
	}
}

func TestFaceTurnsReturnAfterFour(t *testing.T) {
	for _, f := range Faces {
		for _, d := range []Direction{CW, CCW} {
			g := NewGrid()
			for i := 0; i < 4; i++ {
				turn(t, g, Move{Face: f, Direction: d})
				if err := g.Validate(); err != nil {
					t.Fatalf("%v %v turn %d: %v", f, d, i, err)
				}
			}
			if !g.IsSolved() {
				t.Errorf("%v %v x 4 should return to solved", f, d)
				t.Log(g.Facelets().String())
			}
		}
	}
}

func TestSexyMove_6Times_ReturnsToSolved(t *testing.T) {
	// (R U R' U') x 6 = identity
	g := NewGrid()
	seq, err := ParseMoves("R U R' U'")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 6; i++ {
		for _, m := range seq {
			turn(t, g, m)
		}
	}
	if !g.IsSolved() {
		t.Error("Sexy move x 6 should return to solved")
		t.Log(g.Facelets().String())
	}
}

func TestFaceletsAfterU(t *testing.T) {
	g := NewGrid()
	turn(t, g, Move{Face: U, Direction: CW})
	fl := g.Facelets()
	if fl.IsSolved() {
		t.Fatal("Facelets should not be solved after U")
	}
	for i := 0; i < 3; i++ {
		if fl.At(F, i) != Red {
			t.Errorf("F sticker %d should be red after U, got %v", i, fl.At(F, i))
		}
		if fl.At(L, i) != Green {
			t.Errorf("L sticker %d should be green after U, got %v", i, fl.At(L, i))
		}
	}
	for i := 3; i < 9; i++ {
		if fl.At(F, i) != Green {
			t.Errorf("F sticker %d should stay green after U, got %v", i, fl.At(F, i))
		}
	}
	for i := 0; i < 9; i++ {
		if fl.At(U, i) != White {
			t.Errorf("U sticker %d should stay white after U", i)
		}
	}
}

func TestStickerIndex(t *testing.T) {
	for _, f := range Faces {
		right, up := ViewBasis(f)
		if right.Cross(up) != f.Normal() {
			t.Errorf("%v view basis is not right-handed", f)
		}
		seen := map[Index]bool{}
		for i := 0; i < 9; i++ {
			idx := StickerIndex(f, i)
			if !InSlice(f, idx) {
				t.Errorf("%v sticker %d maps outside the face layer: %v", f, i, idx)
			}
			seen[idx] = true
		}
		if len(seen) != 9 {
			t.Errorf("%v stickers should map to 9 distinct cubies", f)
		}
		if got := StickerIndex(f, 4); got != IndexOf(f.Normal()) {
			t.Errorf("%v centre sticker maps to %v", f, got)
		}
	}
}

func TestNetString(t *testing.T) {
	s := NewGrid().Facelets().String()
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) != 9 {
		t.Fatalf("net should have 9 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "      W W W") {
		t.Errorf("first line should show U, got %q", lines[0])
	}
	if lines[3] != "O O O G G G R R R B B B " {
		t.Errorf("middle band mismatch: %q", lines[3])
	}
}

func TestSnapCoord(t *testing.T) {
	const spacing = 1.02
	cases := []struct {
		v    float64
		want int
	}{
		{-1.02, 0}, {-0.9, 0}, {-0.4, 1}, {0, 1}, {0.49, 1}, {0.6, 2}, {1.02, 2}, {3, 2}, {-3, 0},
	}
	for _, tc := range cases {
		if got := SnapCoord(tc.v, spacing); got != tc.want {
			t.Errorf("SnapCoord(%v) = %d, want %d", tc.v, got, tc.want)
		}
	}
}

func TestSnapRotationRecoversPerturbed(t *testing.T) {
	wobble := mgl64.QuatRotate(0.05, mgl64.Vec3{1, 2, 3}.Normalize()).Mat4().Mat3()
	for i, r := range All() {
		m := wobble.Mul3(r.Mat3())
		got, ok := SnapRotation(m)
		if !ok {
			t.Fatalf("rotation %d: snap failed", i)
		}
		if got != r {
			t.Errorf("rotation %d: snapped to %v, want %v", i, got, r)
		}
	}
}

func TestSnapRotationFromQuarterTurnFloat(t *testing.T) {
	// A float quarter turn about Y carries tiny residue off the axes.
	q := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0})
	got, ok := SnapRotation(q.Mat4().Mat3())
	if !ok || got != QuarterTurn(Y, 1) {
		t.Errorf("SnapRotation = %v (%v), want %v", got, ok, QuarterTurn(Y, 1))
	}
}

func TestSnapRotationDegenerate(t *testing.T) {
	m := mgl64.Mat3FromCols(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 0, 0})
	if _, ok := SnapRotation(m); ok {
		t.Error("parallel columns should not snap")
	}
}

func TestRotationQuatRoundTrip(t *testing.T) {
	for i, r := range All() {
		got, ok := SnapRotation(r.Quat().Mat4().Mat3())
		if !ok || got != r {
			t.Errorf("rotation %d does not survive a quaternion round trip", i)
		}
	}
}

func TestPlaceRejectsInvalid(t *testing.T) {
	g := NewGrid()
	if err := g.Place(27, Index{}, Identity); !errors.Is(err, ErrInvalidCubie) {
		t.Error("Place should reject an unknown id")
	}
	if err := g.Place(0, Index{X: 3}, Identity); !errors.Is(err, ErrInvalidCubie) {
		t.Error("Place should reject an index outside the lattice")
	}
	if err := g.Place(0, Index{}, Rotation{}); !errors.Is(err, ErrInvalidCubie) {
		t.Error("Place should reject a non-rotation")
	}
}

func TestValidateDetectsCollision(t *testing.T) {
	g := NewGrid()
	_ = g.Place(0, Index{X: 2, Y: 2, Z: 2}, Identity)
	if err := g.Validate(); !errors.Is(err, ErrInvariant) {
		t.Errorf("Validate should report a collision, got %v", err)
	}
}

func TestKinds(t *testing.T) {
	counts := map[Kind]int{}
	for _, c := range NewGrid().Cubies() {
		counts[c.Kind()]++
	}
	want := map[Kind]int{Core: 1, Center: 6, Edge: 12, Corner: 8}
	for k, n := range want {
		if counts[k] != n {
			t.Errorf("expected %d %v cubies, got %d", n, k, counts[k])
		}
	}
}

func TestParseMoves(t *testing.T) {
	moves, err := ParseMoves("R U' F2 b")
	if err != nil {
		t.Fatal(err)
	}
	if got := FormatMoves(moves); got != "R U' F F B" {
		t.Errorf("FormatMoves = %q", got)
	}
	if _, err := ParseMoves("R X"); !errors.Is(err, ErrInvalidNotation) {
		t.Errorf("expected ErrInvalidNotation, got %v", err)
	}
	if _, err := ParseMove("R2"); !errors.Is(err, ErrInvalidNotation) {
		t.Error("ParseMove should reject a half turn")
	}
}

func TestInvertSequence(t *testing.T) {
	moves, _ := ParseMoves("R U F'")
	if got := FormatMoves(InvertSequence(moves)); got != "F U' R'" {
		t.Errorf("InvertSequence = %q", got)
	}

	g := NewGrid()
	for _, m := range moves {
		turn(t, g, m)
	}
	for _, m := range InvertSequence(moves) {
		turn(t, g, m)
	}
	if !g.IsSolved() {
		t.Error("a sequence followed by its inverse should be solved")
	}
}
