package sequencer

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/SeamusWaldron/twisty/internal/cube"
	"github.com/SeamusWaldron/twisty/internal/engine"
)

var animated = Options{Animated: true}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func newTestSequencer(t *testing.T, seed uint64) (*Sequencer, *engine.Engine, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	eng := engine.New(cube.NewGrid(), engine.Config{
		TurnDuration: engine.DefaultTurnDuration,
		Now:          clock.Now,
		Rand:         rand.New(rand.NewPCG(seed, seed+1)),
	})
	return New(eng, nil), eng, clock
}

// run advances 60Hz frames until the job resolves, checking that the
// engine never reports two turns at once.
func run(t *testing.T, s *Sequencer, clock *fakeClock, j *Job) {
	t.Helper()
	for i := 0; i < 100000 && !j.Resolved(); i++ {
		clock.t = clock.t.Add(16 * time.Millisecond)
		s.Advance(clock.t)
	}
	if !j.Resolved() {
		t.Fatal("job never resolved")
	}
}

func TestShuffleThenInverseSolves(t *testing.T) {
	s, eng, clock := newTestSequencer(t, 42)
	j, err := s.Shuffle(25, animated)
	if err != nil {
		t.Fatal(err)
	}
	run(t, s, clock, j)
	if j.Err() != nil {
		t.Fatalf("shuffle: %v", j.Err())
	}
	scramble := j.Moves()
	if len(scramble) != 25 {
		t.Fatalf("shuffle reported %d moves, want 25", len(scramble))
	}
	if err := eng.Grid().Validate(); err != nil {
		t.Fatal(err)
	}

	undo, err := s.Play(cube.InvertSequence(scramble), animated)
	if err != nil {
		t.Fatal(err)
	}
	run(t, s, clock, undo)
	if !eng.Grid().IsSolved() {
		t.Error("replaying the inverted scramble should solve the grid")
	}
}

func TestShuffleInvalidCount(t *testing.T) {
	s, _, _ := newTestSequencer(t, 1)
	for _, n := range []int{0, -1} {
		if _, err := s.Shuffle(n, animated); !errors.Is(err, ErrInvalidCount) {
			t.Errorf("Shuffle(%d) error = %v, want ErrInvalidCount", n, err)
		}
	}
}

func TestTurnsNeverOverlap(t *testing.T) {
	s, eng, clock := newTestSequencer(t, 7)
	commits := 0
	eng.OnCommit(func(engine.Commit) { commits++ })

	j, err := s.Shuffle(10, animated)
	if err != nil {
		t.Fatal(err)
	}
	// Each animated turn spans several frames, so a frame can commit at
	// most one turn and start the next.
	for !j.Resolved() {
		before := commits
		clock.t = clock.t.Add(16 * time.Millisecond)
		s.Advance(clock.t)
		if commits-before > 1 {
			t.Fatalf("%d turns committed in one frame", commits-before)
		}
	}
	if commits != 10 {
		t.Errorf("commits = %d, want 10", commits)
	}
}

func TestJobsRunInOrder(t *testing.T) {
	s, eng, clock := newTestSequencer(t, 3)
	var order []string
	eng.OnCommit(func(c engine.Commit) { order = append(order, c.Move.Notation()) })

	first, _ := cube.ParseMoves("R U")
	second, _ := cube.ParseMoves("F' L")
	a, err := s.Play(first, animated)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Play(second, animated)
	if err != nil {
		t.Fatal(err)
	}
	if s.Pending() != 2 {
		t.Errorf("Pending() = %d, want 2", s.Pending())
	}
	run(t, s, clock, b)
	if !a.Resolved() {
		t.Error("first job should finish before the second")
	}
	want := []string{"R", "U", "F'", "L"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("turn %d = %s, want %s", i, order[i], want[i])
		}
	}
	if s.Busy() {
		t.Error("sequencer should be idle")
	}
}

func TestPlayWaitsForBusyEngine(t *testing.T) {
	s, eng, clock := newTestSequencer(t, 5)
	c, err := eng.RotateFace(cube.D, cube.CW, true)
	if err != nil {
		t.Fatal(err)
	}
	moves, _ := cube.ParseMoves("B")
	j, err := s.Play(moves, Options{Animated: true, Source: "replay"})
	if err != nil {
		t.Fatal(err)
	}
	if j.current != nil {
		t.Error("job should not start while the engine is busy")
	}
	run(t, s, clock, j)
	if !c.Resolved() || c.Rejected() {
		t.Error("the external turn should have committed")
	}
	if got := j.Moves(); len(got) != 1 || got[0].Face != cube.B {
		t.Errorf("job moves = %v, want [B]", got)
	}
	if j.Source() != "replay" {
		t.Errorf("Source() = %q", j.Source())
	}
}

func TestInstantShuffle(t *testing.T) {
	s, eng, _ := newTestSequencer(t, 9)
	j, err := s.Shuffle(50, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !j.Resolved() {
		t.Fatal("instant shuffle should resolve within the call")
	}
	if len(j.Moves()) != 50 {
		t.Errorf("moves = %d, want 50", len(j.Moves()))
	}
	if err := eng.Grid().Validate(); err != nil {
		t.Error(err)
	}
}

func TestClearCancelsQueuedJobs(t *testing.T) {
	s, _, clock := newTestSequencer(t, 11)
	j, err := s.Shuffle(5, animated)
	if err != nil {
		t.Fatal(err)
	}
	clock.t = clock.t.Add(16 * time.Millisecond)
	s.Advance(clock.t)
	s.Clear()
	if !j.Resolved() || !errors.Is(j.Err(), ErrCancelled) {
		t.Errorf("cleared job err = %v, want ErrCancelled", j.Err())
	}
	if s.Busy() {
		t.Error("Clear should empty the queue")
	}
}

func TestPlayRejectsInvalidMove(t *testing.T) {
	s, _, _ := newTestSequencer(t, 1)
	if _, err := s.Play([]cube.Move{{Face: 9, Direction: cube.CW}}, animated); !errors.Is(err, cube.ErrInvalidFace) {
		t.Errorf("error = %v, want ErrInvalidFace", err)
	}
}
