package twisty

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SeamusWaldron/twisty/internal/cube"
	"github.com/SeamusWaldron/twisty/internal/engine"
	"github.com/SeamusWaldron/twisty/internal/gesture"
	"github.com/SeamusWaldron/twisty/internal/sequencer"
)

// Shuffle bounds.
const (
	DefaultShuffleCount = 25
	MaxShuffleCount     = 200
)

// ClampShuffle bounds a requested shuffle length to 1..limit. A limit below
// 1 means MaxShuffleCount.
func ClampShuffle(n, limit int) int {
	if limit < 1 {
		limit = MaxShuffleCount
	}
	if n < 1 {
		return 1
	}
	if n > limit {
		return limit
	}
	return n
}

// Source says who asked for a turn.
type Source string

const (
	SourceAPI     Source = "api"
	SourceKey     Source = "key"
	SourceGesture Source = "gesture"
	SourceShuffle Source = sequencer.SourceShuffle
	SourcePlay    Source = sequencer.SourcePlay
	SourceUndo    Source = "undo"
	SourceRandom  Source = engine.SourceRandom
	SourceReplay  Source = "replay"
)

type (
	// Completion resolves when a requested turn commits or is rejected.
	Completion = engine.Completion
	// Job resolves when a queued sequence has fully played.
	Job = sequencer.Job
	// Transform is the presentation pose of one cubie.
	Transform = engine.Transform
	// State is the turn state.
	State = engine.State
	// Cubie is one of the 27 sub-cubes.
	Cubie = cube.Cubie
	// Hit is a scene picker result.
	Hit = gesture.Hit
	// Camera supplies the world directions of the screen axes.
	Camera = gesture.Camera
	// GestureCommand is a resolved swipe.
	GestureCommand = gesture.Command
	// GestureReason says why a swipe was accepted or ignored.
	GestureReason = gesture.Reason
)

const (
	Idle    = engine.Idle
	Turning = engine.Turning
)

// Gesture outcomes.
const (
	GestureAccepted    = gesture.Accepted
	GestureNoHit       = gesture.NoHit
	GestureGrazing     = gesture.Grazing
	GestureTap         = gesture.Tap
	GestureMultiTouch  = gesture.MultiTouch
	GestureMiddleLayer = gesture.MiddleLayer
	GestureCancelled   = gesture.Cancelled
)

// Puzzle is a complete simulated puzzle: the cube state, its turn engine, a
// sequencer for shuffles and a gesture interpreter. All methods are safe for
// concurrent use. Animation advances only when Step is called, either by
// Run or by an external frame loop.
//
// Callbacks run on the goroutine that caused them, after the puzzle's lock
// is released, so they may call back into the puzzle.
type Puzzle struct {
	mu   sync.Mutex
	opts *options
	log  *log.Logger

	grid *cube.Grid
	eng  *engine.Engine
	seq  *sequencer.Sequencer
	gest *gesture.Interpreter

	history []Move
	solved  bool

	// resetting suppresses OnSolved for the turn ResetSolved commits.
	resetting bool

	// Callbacks
	onTurn    func(Move, Source)
	onSolved  func()
	onGesture func(GestureCommand, GestureReason)

	notify []func()
}

// New creates a solved puzzle.
func New(opts ...Option) *Puzzle {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	o.gesture.Spacing = o.spacing

	p := &Puzzle{
		opts:   o,
		log:    o.log(),
		grid:   cube.NewGrid(),
		solved: true,
	}
	p.eng = engine.New(p.grid, engine.Config{
		TurnDuration: o.turnDuration,
		Spacing:      o.spacing,
		Now:          o.now,
		Rand:         o.random(),
		Logger:       p.log,
	})
	p.eng.OnCommit(p.handleCommit)
	p.seq = sequencer.New(p.eng, p.log)
	p.gest = gesture.New(o.gesture, nil, p.log)
	return p
}

func (p *Puzzle) lock() {
	p.mu.Lock()
}

// unlock releases the lock and runs callbacks queued while it was held.
func (p *Puzzle) unlock() {
	pending := p.notify
	p.notify = nil
	p.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}

// handleCommit runs inside engine calls, with the lock held.
func (p *Puzzle) handleCommit(c engine.Commit) {
	src := Source(c.Source)
	if p.opts.moveHistory {
		if src == SourceUndo && len(p.history) > 0 {
			p.history = p.history[:len(p.history)-1]
		} else {
			p.history = append(p.history, c.Move)
		}
	}
	if cb := p.onTurn; cb != nil {
		m := c.Move
		p.notify = append(p.notify, func() { cb(m, src) })
	}

	solved := p.grid.Facelets().IsSolved()
	if solved && !p.solved && !p.resetting {
		p.log.Printf("solved after %s", c.Move)
		if cb := p.onSolved; cb != nil {
			p.notify = append(p.notify, cb)
		}
	}
	p.solved = solved
}

// Event callbacks

// OnTurn sets a callback that fires for every committed turn.
func (p *Puzzle) OnTurn(cb func(Move, Source)) {
	p.lock()
	defer p.unlock()
	p.onTurn = cb
}

// OnSolved sets a callback that fires when a turn leaves the puzzle solved.
// ResetSolved does not fire it, even when it commits a turn in flight.
func (p *Puzzle) OnSolved(cb func()) {
	p.lock()
	defer p.unlock()
	p.onSolved = cb
}

// OnGesture sets a callback that fires when a swipe is released, accepted or
// not.
func (p *Puzzle) OnGesture(cb func(GestureCommand, GestureReason)) {
	p.lock()
	defer p.unlock()
	p.onGesture = cb
}

// Turns

// RotateFace starts a quarter turn. Invalid faces and directions return an
// error. A request made while another turn is in flight is not queued: the
// returned Completion is already resolved and reports Rejected.
func (p *Puzzle) RotateFace(f Face, d Direction, animated bool) (*Completion, error) {
	return p.RotateFaceAs(SourceAPI, f, d, animated)
}

// RotateFaceAs is RotateFace with the source reported to OnTurn.
func (p *Puzzle) RotateFaceAs(src Source, f Face, d Direction, animated bool) (*Completion, error) {
	p.lock()
	defer p.unlock()
	return p.eng.Submit(engine.Request{
		Move:     Move{Face: f, Direction: d},
		Animated: animated,
		Source:   string(src),
	})
}

// RandomTurn turns a random face in a random direction. The Completion
// reports the move played.
func (p *Puzzle) RandomTurn(animated bool) *Completion {
	p.lock()
	defer p.unlock()
	return p.eng.RandomTurn(animated)
}

// Shuffle queues n random turns, played one after another. n must be at
// least 1; callers taking user input should apply ClampShuffle first.
func (p *Puzzle) Shuffle(n int, animated bool) (*Job, error) {
	p.lock()
	defer p.unlock()
	p.log.Printf("shuffle %d", n)
	return p.seq.Shuffle(n, sequencer.Options{Animated: animated, Source: string(SourceShuffle)})
}

// Play queues moves, played one after another.
func (p *Puzzle) Play(moves []Move, animated bool) (*Job, error) {
	return p.PlayAs(SourcePlay, moves, animated)
}

// PlayAs is Play with the source reported to OnTurn.
func (p *Puzzle) PlayAs(src Source, moves []Move, animated bool) (*Job, error) {
	p.lock()
	defer p.unlock()
	return p.seq.Play(moves, sequencer.Options{Animated: animated, Source: string(src)})
}

// Undo turns back the last committed turn. ok is false when there is nothing
// to undo or history is disabled. A busy engine rejects the request like any
// other turn.
func (p *Puzzle) Undo(animated bool) (c *Completion, ok bool) {
	p.lock()
	defer p.unlock()
	if !p.opts.moveHistory || len(p.history) == 0 {
		return nil, false
	}
	last := p.history[len(p.history)-1].Inverse()
	c, err := p.eng.Submit(engine.Request{Move: last, Animated: animated, Source: string(SourceUndo)})
	if err != nil {
		return nil, false
	}
	return c, true
}

// ResetSolved returns the puzzle to the solved state at once. Queued jobs are
// cancelled, a turn in flight is committed first, and history is cleared.
func (p *Puzzle) ResetSolved() {
	p.lock()
	defer p.unlock()
	p.resetting = true
	p.eng.ResetSolved()
	p.resetting = false
	p.seq.Clear()
	p.gest.Cancel()
	p.history = nil
	p.solved = true
}

// Frame loop

// Step advances animation to now and starts queued turns.
func (p *Puzzle) Step(now time.Time) {
	p.lock()
	defer p.unlock()
	p.seq.Advance(now)
}

// Run calls Step at the configured frame rate until ctx is done.
func (p *Puzzle) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.FrameInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.Step(p.opts.now())
		}
	}
}

// FrameInterval returns the time between frames Run uses.
func (p *Puzzle) FrameInterval() time.Duration {
	return time.Second / time.Duration(p.opts.frameRate)
}

// Spacing returns the distance between cubie centres.
func (p *Puzzle) Spacing() float64 {
	return p.opts.spacing
}

// MaxShuffle returns the configured shuffle bound.
func (p *Puzzle) MaxShuffle() int {
	return p.opts.maxShuffle
}

// State

// State returns Turning while a turn is in flight.
func (p *Puzzle) State() State {
	p.lock()
	defer p.unlock()
	return p.eng.State()
}

// Busy reports whether a turn is in flight or queued.
func (p *Puzzle) Busy() bool {
	p.lock()
	defer p.unlock()
	return p.eng.Busy() || p.seq.Busy()
}

// Active returns the in-flight move and its progress in [0, 1].
func (p *Puzzle) Active() (Move, float64, bool) {
	p.lock()
	defer p.unlock()
	return p.eng.Active()
}

// IsSolved reports whether every face shows a single color. Centre pieces
// may be spun in place.
func (p *Puzzle) IsSolved() bool {
	p.lock()
	defer p.unlock()
	return p.grid.Facelets().IsSolved()
}

// IsPristine reports whether every cubie is at its origin with its original
// orientation, centres included.
func (p *Puzzle) IsPristine() bool {
	p.lock()
	defer p.unlock()
	return p.grid.IsSolved()
}

// Frame is everything a renderer needs for one frame, read at one instant.
type Frame struct {
	State      State
	Active     Move
	Progress   float64
	Turning    bool
	Solved     bool
	Transforms []Transform
}

// Frame returns a consistent snapshot of the turn state and cubie poses.
func (p *Puzzle) Frame() Frame {
	p.lock()
	defer p.unlock()
	f := Frame{
		State:      p.eng.State(),
		Solved:     p.grid.Facelets().IsSolved(),
		Transforms: p.eng.Transforms(),
	}
	f.Active, f.Progress, f.Turning = p.eng.Active()
	return f
}

// Transforms returns the pose of every cubie for rendering.
func (p *Puzzle) Transforms() []Transform {
	p.lock()
	defer p.unlock()
	return p.eng.Transforms()
}

// Cubies returns the committed state of every cubie, ordered by id.
func (p *Puzzle) Cubies() []Cubie {
	p.lock()
	defer p.unlock()
	return p.grid.Cubies()
}

// Facelets returns the sticker colors of the committed state.
func (p *Puzzle) Facelets() Facelets {
	p.lock()
	defer p.unlock()
	return p.grid.Facelets()
}

// Net returns the unfolded sticker net as text.
func (p *Puzzle) Net() string {
	return p.Facelets().String()
}

// Validate checks the cube state invariants.
func (p *Puzzle) Validate() error {
	p.lock()
	defer p.unlock()
	return p.grid.Validate()
}

// Moves returns the committed turns since the last reset.
func (p *Puzzle) Moves() []Move {
	p.lock()
	defer p.unlock()
	out := make([]Move, len(p.history))
	copy(out, p.history)
	return out
}

// Gestures

// SetCamera sets the camera basis used for pointer deltas.
func (p *Puzzle) SetCamera(c Camera) {
	p.lock()
	defer p.unlock()
	p.gest.SetCamera(c)
}

// SetInvertGestures sets the global swipe direction toggle.
func (p *Puzzle) SetInvertGestures(v bool) {
	p.lock()
	defer p.unlock()
	p.gest.SetInvert(v)
}

// PointerDown starts tracking a pointer. hit is nil when the pointer is not
// over the cube.
func (p *Puzzle) PointerDown(pointer int, hit *Hit) {
	p.lock()
	defer p.unlock()
	p.gest.Down(pointer, hit)
}

// PointerMove adds screen motion in pixels.
func (p *Puzzle) PointerMove(pointer int, dx, dy float64) {
	p.lock()
	defer p.unlock()
	p.gest.Move(pointer, dx, dy)
}

// PointerMoveWorld adds motion already expressed in world units.
func (p *Puzzle) PointerMoveWorld(pointer int, d mgl64.Vec3) {
	p.lock()
	defer p.unlock()
	p.gest.MoveWorld(pointer, d)
}

// PointerUp releases a pointer. A completed swipe starts an animated turn and
// returns its Completion; ignored gestures return nil.
func (p *Puzzle) PointerUp(pointer int) *Completion {
	p.lock()
	defer p.unlock()

	tracking := p.gest.Tracks(pointer)
	cmd, ok := p.gest.Up(pointer)
	if !tracking {
		return nil
	}
	if cb := p.onGesture; cb != nil {
		reason := p.gest.LastReason()
		p.notify = append(p.notify, func() { cb(cmd, reason) })
	}
	if !ok {
		return nil
	}
	c, err := p.eng.Submit(engine.Request{
		Move:     Move{Face: cmd.Face, Direction: cmd.Direction},
		Animated: true,
		Source:   string(SourceGesture),
	})
	if err != nil {
		p.log.Printf("gesture %s: %v", cmd, err)
		return nil
	}
	return c
}

// PointerCancel abandons any gesture in progress.
func (p *Puzzle) PointerCancel() {
	p.lock()
	defer p.unlock()
	p.gest.Cancel()
}
