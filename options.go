package twisty

import (
	"io"
	"log"
	"math/rand/v2"
	"time"

	"github.com/SeamusWaldron/twisty/internal/config"
	"github.com/SeamusWaldron/twisty/internal/engine"
	"github.com/SeamusWaldron/twisty/internal/gesture"
)

// Option configures a Puzzle.
type Option func(*options)

type options struct {
	turnDuration time.Duration
	frameRate    int
	spacing      float64
	seed         uint64
	rng          *rand.Rand
	logger       *log.Logger
	now          func() time.Time
	gesture      gesture.Config
	moveHistory  bool
	maxShuffle   int
}

func defaultOptions() *options {
	return &options{
		turnDuration: engine.DefaultTurnDuration,
		frameRate:    60,
		spacing:      engine.DefaultSpacing,
		now:          time.Now,
		gesture:      gesture.DefaultConfig(),
		moveHistory:  true,
		maxShuffle:   MaxShuffleCount,
	}
}

func (o *options) random() *rand.Rand {
	if o.rng != nil {
		return o.rng
	}
	seed := o.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func (o *options) log() *log.Logger {
	if o.logger != nil {
		return o.logger
	}
	return log.New(io.Discard, "", 0)
}

// WithTurnDuration sets how long an animated quarter turn takes.
// Zero makes every turn instantaneous.
func WithTurnDuration(d time.Duration) Option {
	return func(o *options) {
		o.turnDuration = d
	}
}

// WithFrameRate sets the rate at which Run advances animation.
func WithFrameRate(hz int) Option {
	return func(o *options) {
		if hz > 0 {
			o.frameRate = hz
		}
	}
}

// WithSpacing sets the distance between neighbouring cubie centres.
func WithSpacing(s float64) Option {
	return func(o *options) {
		if s > 0 {
			o.spacing = s
		}
	}
}

// WithSeed makes random turns reproducible. Zero seeds from the clock.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithRand supplies the random source for random turns and shuffles.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rng = r
	}
}

// WithLogger sets a logger for diagnostics. By default nothing is logged.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithClock replaces time.Now, mainly for tests that step frames by hand.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithGesture sets the gesture thresholds and target rule.
func WithGesture(cfg gesture.Config) Option {
	return func(o *options) {
		o.gesture = cfg
	}
}

// WithMoveHistory enables or disables move history tracking.
// When enabled (default), all committed turns are stored and accessible via
// Moves(), and Undo works. Disable this for long sessions to reduce memory
// usage.
func WithMoveHistory(enabled bool) Option {
	return func(o *options) {
		o.moveHistory = enabled
	}
}

// WithMaxShuffle sets the bound ClampShuffle applies.
func WithMaxShuffle(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxShuffle = n
		}
	}
}

// FromConfig applies a loaded configuration file.
func FromConfig(c config.Config) Option {
	return func(o *options) {
		o.turnDuration = c.TurnDuration()
		if c.Turn.FrameRateHz > 0 {
			o.frameRate = c.Turn.FrameRateHz
		}
		if c.Lattice.Spacing > 0 {
			o.spacing = c.Lattice.Spacing
		}
		o.seed = c.Seed
		if c.Shuffle.MaxCount > 0 {
			o.maxShuffle = c.Shuffle.MaxCount
		}

		g := gesture.DefaultConfig()
		g.MinSwipe = c.Gesture.MinSwipe
		g.UnitsPerPixel = c.Gesture.UnitsPerPixel
		g.Invert = c.Gesture.InvertDirection
		g.MinNormalAlignment = c.Gesture.MinNormalAlignment
		if rule, err := gesture.ParseTargetRule(c.Gesture.TargetRule); err == nil {
			g.Rule = rule
		}
		o.gesture = g
	}
}
