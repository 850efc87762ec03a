package cube

// Select returns the nine cubies currently forming face f's outer layer,
// ordered by cubie id. Membership is an exact integer comparison of the
// cubie's index on the face's axis against the face's extreme layer, so it is
// recomputed from live indices on every call.
//
// The returned pointers alias the grid; callers other than the turn engine
// must treat them as read-only.
func (g *Grid) Select(f Face) ([]*Cubie, error) {
	if !f.Valid() {
		return nil, ErrInvalidFace
	}
	axis, layer := f.Axis(), f.Layer()
	out := make([]*Cubie, 0, Size*Size)
	for i := range g.cubies {
		if g.cubies[i].Index.Get(axis) == layer {
			out = append(out, &g.cubies[i])
		}
	}
	return out, nil
}

// InSlice reports whether a cubie at idx belongs to face f's layer.
func InSlice(f Face, idx Index) bool {
	return f.Valid() && idx.Get(f.Axis()) == f.Layer()
}
