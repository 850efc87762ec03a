package gesture

import (
	"io"
	"log"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SeamusWaldron/twisty/internal/cube"
)

// Hit is a picker result: the nearest intersection with the cube and the
// outward surface normal there.
type Hit struct {
	Point  mgl64.Vec3
	Normal mgl64.Vec3
}

// Camera supplies the world-space directions of the screen axes.
type Camera interface {
	Basis() (right, up mgl64.Vec3)
}

// FixedCamera is a Camera with a constant basis.
type FixedCamera struct {
	Right, Up mgl64.Vec3
}

// Basis implements Camera.
func (c FixedCamera) Basis() (right, up mgl64.Vec3) {
	return c.Right, c.Up
}

// State is the interpreter's tracking state.
type State int

const (
	Idle State = iota
	Tracking
)

func (s State) String() string {
	if s == Tracking {
		return "tracking"
	}
	return "idle"
}

// Interpreter accumulates one swipe at a time. It is not safe for concurrent
// use; pointer events are expected to be delivered one by one.
type Interpreter struct {
	cfg    Config
	camera Camera
	log    *log.Logger

	state    State
	pointers map[int]bool
	pointer  int
	touched  cube.Face
	point    mgl64.Vec3
	disp     mgl64.Vec3

	last Reason
}

// New returns an idle interpreter. A nil camera looks down -Z with +Y up.
func New(cfg Config, camera Camera, logger *log.Logger) *Interpreter {
	if camera == nil {
		camera = FixedCamera{Right: mgl64.Vec3{1, 0, 0}, Up: mgl64.Vec3{0, 1, 0}}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Interpreter{
		cfg:      cfg,
		camera:   camera,
		log:      logger,
		pointers: map[int]bool{},
	}
}

// SetCamera replaces the camera used for screen deltas.
func (in *Interpreter) SetCamera(c Camera) {
	if c != nil {
		in.camera = c
	}
}

// Config returns the interpreter's configuration.
func (in *Interpreter) Config() Config {
	return in.cfg
}

// SetInvert sets the global direction toggle.
func (in *Interpreter) SetInvert(v bool) {
	in.cfg.Invert = v
}

// State returns the tracking state.
func (in *Interpreter) State() State {
	return in.state
}

// LastReason returns the outcome of the most recent gesture.
func (in *Interpreter) LastReason() Reason {
	return in.last
}

// Down registers a pointer contact. hit is nil when the picker found no
// intersection. A second concurrent pointer disengages tracking.
func (in *Interpreter) Down(pointer int, hit *Hit) {
	in.pointers[pointer] = true
	if len(in.pointers) > 1 {
		if in.state == Tracking {
			in.discard(MultiTouch)
		}
		return
	}
	if hit == nil {
		in.discard(NoHit)
		return
	}
	face, ok := FaceFromNormal(hit.Normal, in.cfg.MinNormalAlignment)
	if !ok {
		in.discard(Grazing)
		return
	}
	in.state = Tracking
	in.pointer = pointer
	in.touched = face
	in.point = hit.Point
	in.disp = mgl64.Vec3{}
}

// Move adds a screen-space motion sample in pixels. Screen y grows down.
func (in *Interpreter) Move(pointer int, dx, dy float64) {
	if !in.Tracks(pointer) {
		return
	}
	right, up := in.camera.Basis()
	d := right.Mul(dx).Sub(up.Mul(dy)).Mul(in.cfg.UnitsPerPixel)
	in.disp = in.disp.Add(Project(d, in.touched))
}

// MoveWorld adds a displacement already expressed in world units.
func (in *Interpreter) MoveWorld(pointer int, d mgl64.Vec3) {
	if !in.Tracks(pointer) {
		return
	}
	in.disp = in.disp.Add(Project(d, in.touched))
}

// Up releases a pointer. It returns a command when the released pointer
// completes a valid swipe.
func (in *Interpreter) Up(pointer int) (Command, bool) {
	delete(in.pointers, pointer)
	if !in.Tracks(pointer) {
		return Command{}, false
	}
	cmd, reason := Resolve(in.cfg, in.touched, in.point, in.disp)
	in.state = Idle
	in.last = reason
	if reason != Accepted {
		in.log.Printf("gesture on %s discarded: %s", in.touched, reason)
		return Command{}, false
	}
	in.log.Printf("gesture on %s -> %s", in.touched, cmd)
	return cmd, true
}

// Cancel drops every pointer and returns to Idle.
func (in *Interpreter) Cancel() {
	in.pointers = map[int]bool{}
	if in.state == Tracking {
		in.discard(Cancelled)
	}
}

// Tracks reports whether pointer is the one being tracked.
func (in *Interpreter) Tracks(pointer int) bool {
	return in.state == Tracking && in.pointer == pointer
}

func (in *Interpreter) discard(r Reason) {
	in.state = Idle
	in.last = r
	in.disp = mgl64.Vec3{}
	in.log.Printf("gesture discarded: %s", r)
}
