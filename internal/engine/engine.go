// Package engine turns the outer layers of a cube.Grid.
//
// The engine is a two-state machine (Idle, Turning). A turn selects its slice,
// rotates it as a rigid body about the face's outward normal while the frame
// driver calls Advance, and on completion snaps every moved cubie back onto
// the lattice. The grid is only written at that moment, or by ResetSolved.
//
// An Engine is not safe for concurrent use; it is meant to be owned by one
// frame loop.
package engine

import (
	"io"
	"log"
	"math"
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SeamusWaldron/twisty/internal/cube"
)

// DefaultTurnDuration is how long an animated quarter turn takes.
const DefaultTurnDuration = 140 * time.Millisecond

// DefaultSpacing is the distance between neighbouring cubie centres.
const DefaultSpacing = 1.02

// State is the engine's turn state.
type State int

const (
	Idle State = iota
	Turning
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Turning:
		return "turning"
	default:
		return "unknown"
	}
}

// Config configures an Engine. Zero fields take defaults.
type Config struct {
	TurnDuration time.Duration
	Spacing      float64
	Now          func() time.Time
	Rand         *rand.Rand
	Logger       *log.Logger
}

func (c Config) withDefaults() Config {
	if c.TurnDuration < 0 {
		c.TurnDuration = 0
	}
	if c.Spacing <= 0 {
		c.Spacing = DefaultSpacing
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		c.Rand = rand.New(rand.NewPCG(seed, seed>>7|1))
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard, "", 0)
	}
	return c
}

// Engine executes one quarter turn at a time on a grid.
type Engine struct {
	grid   *cube.Grid
	cfg    Config
	log    *log.Logger
	state  State
	active *activeTurn

	onCommit func(Commit)
}

// SourceRandom tags turns started by RandomTurn.
const SourceRandom = "random"

// Request asks for one quarter turn. Source is an opaque tag carried through
// to the Completion and the commit callback.
type Request struct {
	Move     cube.Move
	Animated bool
	Source   string
}

// Commit describes a committed turn.
type Commit struct {
	Move   cube.Move
	Source string
}

type activeTurn struct {
	move     cube.Move
	source   string
	ids      []int
	target   mgl64.Quat
	start    time.Time
	progress float64
	done     *Completion
}

// New returns an idle engine driving grid. A zero TurnDuration in cfg makes
// every turn instantaneous; use DefaultConfig for the standard timing.
func New(grid *cube.Grid, cfg Config) *Engine {
	cfg = cfg.withDefaults()
	return &Engine{
		grid:  grid,
		cfg:   cfg,
		log:   cfg.Logger,
		state: Idle,
	}
}

// DefaultConfig returns the standard engine timing and spacing.
func DefaultConfig() Config {
	return Config{TurnDuration: DefaultTurnDuration, Spacing: DefaultSpacing}
}

// Grid returns the grid the engine drives. Callers must not mutate it.
func (e *Engine) Grid() *cube.Grid {
	return e.grid
}

// State returns the current state.
func (e *Engine) State() State {
	return e.state
}

// Busy reports whether a turn is in flight.
func (e *Engine) Busy() bool {
	return e.state == Turning
}

// Spacing returns the distance between cubie centres.
func (e *Engine) Spacing() float64 {
	return e.cfg.Spacing
}

// Active returns the in-flight move and its progress in [0, 1].
func (e *Engine) Active() (cube.Move, float64, bool) {
	if e.active == nil {
		return cube.Move{}, 0, false
	}
	return e.active.move, e.active.progress, true
}

// OnCommit sets a callback fired after every committed turn.
func (e *Engine) OnCommit(fn func(Commit)) {
	e.onCommit = fn
}

// RotateFace starts a quarter turn of face f. An invalid face or direction is
// a programming error and returns an error. If a turn is already in flight
// the call is a no-op and the returned Completion is already resolved with
// Rejected() true. When animated is false, or the engine has no turn
// duration, the turn commits before RotateFace returns.
func (e *Engine) RotateFace(f cube.Face, d cube.Direction, animated bool) (*Completion, error) {
	return e.Submit(Request{Move: cube.Move{Face: f, Direction: d}, Animated: animated})
}

// Submit is RotateFace for a tagged request.
func (e *Engine) Submit(r Request) (*Completion, error) {
	if !r.Move.Face.Valid() {
		return nil, cube.ErrInvalidFace
	}
	if !r.Move.Direction.Valid() {
		return nil, cube.ErrInvalidDirection
	}
	move := cube.Move{Face: r.Move.Face, Direction: r.Move.Direction}
	if e.state == Turning {
		e.log.Printf("turn %s rejected: %s in flight", move, e.active.move)
		return rejected(move, r.Source), nil
	}
	return e.begin(move, r.Animated, r.Source)
}

// RandomMove draws a uniformly random face and direction.
func (e *Engine) RandomMove() cube.Move {
	m := cube.Move{
		Face:      cube.Faces[e.cfg.Rand.IntN(len(cube.Faces))],
		Direction: cube.CW,
	}
	if e.cfg.Rand.IntN(2) == 1 {
		m.Direction = cube.CCW
	}
	return m
}

// RandomTurn turns a uniformly random face in a uniformly random direction.
// The Completion reports the move played; it is rejected when busy.
func (e *Engine) RandomTurn(animated bool) *Completion {
	if e.state == Turning {
		return rejected(cube.Move{}, SourceRandom)
	}
	c, _ := e.begin(e.RandomMove(), animated, SourceRandom)
	return c
}

func (e *Engine) begin(move cube.Move, animated bool, source string) (*Completion, error) {
	slice, err := e.grid.Select(move.Face)
	if err != nil {
		return nil, err
	}
	ids := make([]int, len(slice))
	for i, c := range slice {
		ids[i] = c.ID
	}

	angle := float64(move.Direction.Quarter()) * math.Pi / 2
	e.active = &activeTurn{
		move:   move,
		source: source,
		ids:    ids,
		target: mgl64.QuatRotate(angle, move.Face.Normal().Float()),
		start:  e.cfg.Now(),
		done:   newCompletion(move, source),
	}
	e.state = Turning

	done := e.active.done
	if !animated || e.cfg.TurnDuration == 0 {
		e.finish()
	}
	return done, nil
}

// Advance is the per-frame callback. It moves the in-flight turn forward to
// now and commits it once its elapsed fraction reaches 1.
func (e *Engine) Advance(now time.Time) {
	if e.state != Turning {
		return
	}
	k := float64(now.Sub(e.active.start)) / float64(e.cfg.TurnDuration)
	if k < 0 {
		k = 0
	}
	if k >= 1 {
		e.finish()
		return
	}
	e.active.progress = k
}

// ResetSolved restores every cubie to its origin and identity orientation.
// A turn in flight is committed first so its Completion still resolves.
func (e *Engine) ResetSolved() {
	if e.state == Turning {
		e.finish()
	}
	e.grid.Reset()
	e.log.Printf("reset to solved")
}

// finish snaps the slice onto the lattice at the full quarter turn and
// returns the engine to Idle.
func (e *Engine) finish() {
	t := e.active
	pivot := t.target.Mat4().Mat3()
	exact := t.move.Rotation()

	for _, id := range t.ids {
		c := e.grid.Cubie(id)
		pos := t.target.Rotate(c.Index.Position(e.cfg.Spacing))
		idx := cube.SnapIndex(pos, e.cfg.Spacing)
		o, ok := cube.SnapRotation(pivot.Mul3(c.Orientation.Mat3()))
		if !ok {
			e.log.Printf("turn %s: cubie %d orientation did not snap, using exact rotation", t.move, id)
			o = exact.Mul(c.Orientation)
		}
		if err := e.grid.Place(id, idx, o); err != nil {
			e.log.Printf("turn %s: %v", t.move, err)
		}
	}

	t.progress = 1
	e.active = nil
	e.state = Idle

	move := t.move.WithTime(e.cfg.Now())
	e.log.Printf("turn %s committed", move)
	t.done.resolve(move)
	if e.onCommit != nil {
		e.onCommit(Commit{Move: move, Source: t.source})
	}
}
