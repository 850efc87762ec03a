// Package cube models a 3x3x3 puzzle as 27 cubies on an integer lattice.
//
// Positions are exact lattice indices and orientations are one of the 24
// enumerated cube rotations. Floating point transforms only exist for
// presentation and are snapped back onto the lattice (see SnapIndex and
// SnapRotation) before they are stored.
package cube

import "fmt"

const (
	// Size is the number of cubies along each edge.
	Size = 3
	// Count is the number of cubies, including the hidden body centre.
	Count = Size * Size * Size
)

// Cubie is one of the 27 sub-cubes.
type Cubie struct {
	ID          int      // stable identity, 0..26
	Index       Index    // current lattice indices
	Orientation Rotation // current orientation, local -> world
	Origin      Index    // indices in the solved configuration
}

// Kind classifies a cubie by how many outer layers it currently sits in.
type Kind int

const (
	Core   Kind = 0
	Center Kind = 1
	Edge   Kind = 2
	Corner Kind = 3
)

func (k Kind) String() string {
	switch k {
	case Core:
		return "core"
	case Center:
		return "center"
	case Edge:
		return "edge"
	case Corner:
		return "corner"
	default:
		return "unknown"
	}
}

// Kind returns the number of outer slices the cubie belongs to.
func (c Cubie) Kind() Kind {
	n := 0
	for _, v := range []int{c.Index.X, c.Index.Y, c.Index.Z} {
		if v == 0 || v == Size-1 {
			n++
		}
	}
	return Kind(n)
}

// Grid owns the 27 cubies. Only the turn engine moves cubies, through Place
// and Reset.
type Grid struct {
	cubies [Count]Cubie
}

// NewGrid returns a grid in the solved configuration.
func NewGrid() *Grid {
	g := &Grid{}
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			for z := 0; z < Size; z++ {
				id := x*Size*Size + y*Size + z
				idx := Index{X: x, Y: y, Z: z}
				g.cubies[id] = Cubie{ID: id, Index: idx, Orientation: Identity, Origin: idx}
			}
		}
	}
	return g
}

// Cubie returns a copy of cubie id.
func (g *Grid) Cubie(id int) Cubie {
	return g.cubies[id]
}

// Cubies returns a copy of all cubies ordered by id.
func (g *Grid) Cubies() []Cubie {
	out := make([]Cubie, Count)
	copy(out, g.cubies[:])
	return out
}

// At returns the cubie currently at idx.
func (g *Grid) At(idx Index) (Cubie, bool) {
	for _, c := range g.cubies {
		if c.Index == idx {
			return c, true
		}
	}
	return Cubie{}, false
}

// Place moves cubie id to idx with orientation o. A turn places its nine
// cubies one at a time, so Place does not check the bijection.
func (g *Grid) Place(id int, idx Index, o Rotation) error {
	if id < 0 || id >= Count {
		return fmt.Errorf("%w: id %d", ErrInvalidCubie, id)
	}
	if !idx.Valid() {
		return fmt.Errorf("%w: index %v", ErrInvalidCubie, idx)
	}
	if !o.Valid() {
		return fmt.Errorf("%w: orientation %v", ErrInvalidCubie, o)
	}
	g.cubies[id].Index = idx
	g.cubies[id].Orientation = o
	return nil
}

// Reset returns every cubie to its origin with identity orientation.
func (g *Grid) Reset() {
	for i := range g.cubies {
		g.cubies[i].Index = g.cubies[i].Origin
		g.cubies[i].Orientation = Identity
	}
}

// IsSolved reports whether every cubie is at its origin with identity
// orientation. Face centres spun in place are not solved by this measure;
// use Facelets().IsSolved() for the visual check.
func (g *Grid) IsSolved() bool {
	for _, c := range g.cubies {
		if c.Index != c.Origin || c.Orientation != Identity {
			return false
		}
	}
	return true
}

// Equal reports whether both grids hold identical indices and orientations.
func (g *Grid) Equal(o *Grid) bool {
	return g.cubies == o.cubies
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := *g
	return &c
}

// Validate checks the grid invariants: the indices form a bijection onto the
// lattice, every orientation is a cube rotation, every face selects nine
// cubies, each cubie lies in as many slices as its kind says and the body
// centre is never selected.
func (g *Grid) Validate() error {
	seen := make(map[Index]int, Count)
	for _, c := range g.cubies {
		if !c.Index.Valid() {
			return fmt.Errorf("%w: cubie %d outside lattice at %v", ErrInvariant, c.ID, c.Index)
		}
		if prev, dup := seen[c.Index]; dup {
			return fmt.Errorf("%w: cubies %d and %d share %v", ErrInvariant, prev, c.ID, c.Index)
		}
		seen[c.Index] = c.ID
		if !c.Orientation.Valid() {
			return fmt.Errorf("%w: cubie %d has orientation %v", ErrInvariant, c.ID, c.Orientation)
		}
	}

	membership := make(map[int]int, Count)
	for _, f := range Faces {
		slice, err := g.Select(f)
		if err != nil {
			return err
		}
		if len(slice) != Size*Size {
			return fmt.Errorf("%w: face %s selects %d cubies", ErrInvariant, f, len(slice))
		}
		for _, c := range slice {
			if c.Index == (Index{X: 1, Y: 1, Z: 1}) {
				return fmt.Errorf("%w: face %s selects the body centre", ErrInvariant, f)
			}
			membership[c.ID]++
		}
	}
	for _, c := range g.cubies {
		if membership[c.ID] != int(c.Kind()) {
			return fmt.Errorf("%w: cubie %d in %d slices, want %d", ErrInvariant, c.ID, membership[c.ID], c.Kind())
		}
	}
	return nil
}
