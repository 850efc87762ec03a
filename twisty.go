// Package twisty simulates a 3x3x3 twisty puzzle: an exact cube state, animated
// quarter turns of the six outer layers, and a swipe interpreter that turns
// pointer gestures on the rendered cube into face turns.
//
// # Features
//
//   - Drift-free state: lattice indices and the 24 discrete cube rotations
//   - Animated turns with one turn in flight at a time
//   - Shuffles and sequences played strictly in order
//   - Swipe gestures resolved by one rule for every face pair
//   - Per-cubie transforms for any renderer
//
// # Quick Start
//
// Create a puzzle and drive its frame loop:
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//
//	p := twisty.New()
//	go p.Run(ctx)
//
//	p.OnTurn(func(m twisty.Move, src twisty.Source) {
//	    fmt.Println("Turn:", m.Notation(), src)
//	})
//
//	c, err := p.RotateFace(twisty.FaceR, twisty.CW, true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	c.Wait(ctx)
//
// # Shuffling
//
//	job, _ := p.Shuffle(25, true)
//	scramble, _ := job.Wait(ctx)
//	fmt.Println("Scramble:", twisty.FormatMoves(scramble))
//
//	undo, _ := p.Play(twisty.InvertSequence(scramble), true)
//	undo.Wait(ctx)
//	fmt.Println("Solved:", p.IsSolved())
//
// # Gestures
//
// A scene picker supplies the hit point and surface normal under the pointer;
// the puzzle does the rest:
//
//	p.SetCamera(camera)
//	p.PointerDown(0, &twisty.Hit{Point: pt, Normal: n})
//	p.PointerMove(0, dx, dy)
//	p.PointerUp(0)
//
// # Rendering
//
// Transforms returns the position and orientation of all 27 cubies, updated
// continuously while a turn animates. Facelets and Net give the sticker
// colors for flat renderers.
package twisty
