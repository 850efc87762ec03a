// Package sequencer serializes turns onto an engine.
//
// Jobs run in submission order. A job starts its next turn only once the
// engine is idle, so no two turns ever overlap.
package sequencer

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"github.com/SeamusWaldron/twisty/internal/cube"
	"github.com/SeamusWaldron/twisty/internal/engine"
)

var (
	// ErrInvalidCount is returned by Shuffle for n < 1.
	ErrInvalidCount = errors.New("sequencer: shuffle count must be at least 1")

	// ErrCancelled resolves jobs dropped by Clear.
	ErrCancelled = errors.New("sequencer: job cancelled")
)

// Sequencer queues jobs of turns and feeds them to an engine one at a time.
type Sequencer struct {
	eng   *engine.Engine
	log   *log.Logger
	queue []*Job
}

// New returns a sequencer driving eng. A nil logger discards.
func New(eng *engine.Engine, logger *log.Logger) *Sequencer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Sequencer{eng: eng, log: logger}
}

// Source tags used when Options.Source is empty.
const (
	SourceShuffle = "shuffle"
	SourcePlay    = "play"
)

// Options control how a job's turns are played.
type Options struct {
	Animated bool
	// Source tags every turn of the job.
	Source string
}

// Shuffle queues n random turns.
func (s *Sequencer) Shuffle(n int, opt Options) (*Job, error) {
	if n < 1 {
		return nil, ErrInvalidCount
	}
	if opt.Source == "" {
		opt.Source = SourceShuffle
	}
	j := newJob(KindShuffle, nil, n, opt)
	s.submit(j)
	return j, nil
}

// Play queues a fixed sequence of turns. An empty sequence resolves at once.
func (s *Sequencer) Play(moves []cube.Move, opt Options) (*Job, error) {
	for _, m := range moves {
		if !m.Face.Valid() {
			return nil, cube.ErrInvalidFace
		}
		if !m.Direction.Valid() {
			return nil, cube.ErrInvalidDirection
		}
	}
	planned := make([]cube.Move, len(moves))
	copy(planned, moves)
	if opt.Source == "" {
		opt.Source = SourcePlay
	}
	j := newJob(KindPlay, planned, len(planned), opt)
	s.submit(j)
	return j, nil
}

func (s *Sequencer) submit(j *Job) {
	s.queue = append(s.queue, j)
	s.log.Printf("queued %s of %d turns", j.kind, j.total)
	s.pump()
}

// Advance drives the engine to now and starts queued turns that have become
// runnable. It is the frame callback for everything above the engine.
func (s *Sequencer) Advance(now time.Time) {
	s.eng.Advance(now)
	s.pump()
}

// Busy reports whether any job is queued or running.
func (s *Sequencer) Busy() bool {
	return len(s.queue) > 0
}

// Pending returns the number of unfinished jobs.
func (s *Sequencer) Pending() int {
	return len(s.queue)
}

// Clear drops every queued job. A turn already in flight still commits and
// is recorded in its job before the job resolves with ErrCancelled.
func (s *Sequencer) Clear() {
	for _, j := range s.queue {
		j.settle()
		j.resolve(ErrCancelled)
	}
	s.queue = nil
}

func (s *Sequencer) pump() {
	for len(s.queue) > 0 {
		j := s.queue[0]

		switch j.settle() {
		case turnPending:
			return
		case turnRejected:
			// Someone else turned the engine; retry next frame.
			return
		}

		if j.count() >= j.total {
			s.queue = s.queue[1:]
			s.log.Printf("%s finished: %s", j.kind, cube.FormatMoves(j.Moves()))
			j.resolve(nil)
			continue
		}

		if s.eng.Busy() {
			return
		}
		c, err := s.next(j)
		if err != nil {
			s.queue = s.queue[1:]
			j.resolve(err)
			continue
		}
		j.mu.Lock()
		j.current = c
		j.mu.Unlock()
		if !c.Resolved() {
			return
		}
	}
}

func (s *Sequencer) next(j *Job) (*engine.Completion, error) {
	var m cube.Move
	if j.kind == KindShuffle {
		m = s.eng.RandomMove()
	} else {
		m = j.planned[j.count()]
	}
	return s.eng.Submit(engine.Request{Move: m, Animated: j.opt.Animated, Source: j.opt.Source})
}

// Kind says how a job picks its turns.
type Kind int

const (
	KindPlay Kind = iota
	KindShuffle
)

func (k Kind) String() string {
	if k == KindShuffle {
		return "shuffle"
	}
	return "play"
}

// Job is the completion token for a queued sequence. Its accessors may be
// called from any goroutine while the sequencer runs it.
type Job struct {
	kind    Kind
	planned []cube.Move
	total   int
	opt     Options
	done    chan struct{}

	mu      sync.Mutex
	played  []cube.Move
	current *engine.Completion
	err     error
}

type turnState int

const (
	turnNone turnState = iota
	turnPending
	turnRejected
	turnCommitted
)

// settle records the job's current turn once the engine has resolved it.
func (j *Job) settle() turnState {
	j.mu.Lock()
	defer j.mu.Unlock()
	c := j.current
	if c == nil {
		return turnNone
	}
	if !c.Resolved() {
		return turnPending
	}
	j.current = nil
	if c.Rejected() {
		return turnRejected
	}
	j.played = append(j.played, c.Move())
	return turnCommitted
}

func (j *Job) count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.played)
}

func newJob(kind Kind, planned []cube.Move, total int, opt Options) *Job {
	return &Job{
		kind:    kind,
		planned: planned,
		total:   total,
		opt:     opt,
		done:    make(chan struct{}),
	}
}

func (j *Job) resolve(err error) {
	j.mu.Lock()
	j.current = nil
	j.err = err
	j.mu.Unlock()
	close(j.done)
}

// Kind returns how the job picks its turns.
func (j *Job) Kind() Kind { return j.kind }

// Source returns the tag carried by the job's turns.
func (j *Job) Source() string { return j.opt.Source }

// Total returns the number of turns the job will play.
func (j *Job) Total() int { return j.total }

// Done is closed when every turn has committed or the job was cancelled.
func (j *Job) Done() <-chan struct{} { return j.done }

// Resolved reports whether Done is closed, without blocking.
func (j *Job) Resolved() bool {
	select {
	case <-j.done:
		return true
	default:
		return false
	}
}

// Err returns ErrCancelled for a cleared job. Read it after Done.
func (j *Job) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Moves returns the turns committed so far, in order, with commit times.
func (j *Job) Moves() []cube.Move {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]cube.Move, len(j.played))
	copy(out, j.played)
	return out
}

// Wait blocks until the job resolves or ctx is done and returns the turns
// the job committed.
func (j *Job) Wait(ctx context.Context) ([]cube.Move, error) {
	select {
	case <-j.done:
		return j.Moves(), j.Err()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
