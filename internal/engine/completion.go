package engine

import (
	"context"

	"github.com/SeamusWaldron/twisty/internal/cube"
)

// Completion is the token returned for a requested turn. Done is closed once
// the turn has committed, or immediately when the request was rejected.
type Completion struct {
	move     cube.Move
	source   string
	done     chan struct{}
	rejected bool
}

func newCompletion(m cube.Move, source string) *Completion {
	return &Completion{move: m, source: source, done: make(chan struct{})}
}

func rejected(m cube.Move, source string) *Completion {
	c := &Completion{move: m, source: source, done: make(chan struct{}), rejected: true}
	close(c.done)
	return c
}

func (c *Completion) resolve(m cube.Move) {
	c.move = m
	close(c.done)
}

// Done returns a channel closed when the turn is resolved.
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

// Resolved reports whether Done is closed, without blocking.
func (c *Completion) Resolved() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Rejected reports whether the request was dropped because another turn was
// in flight.
func (c *Completion) Rejected() bool {
	return c.rejected
}

// Source returns the request's tag.
func (c *Completion) Source() string {
	return c.source
}

// Move returns the requested move; after commit it carries the commit time.
// Read it only after Done is closed.
func (c *Completion) Move() cube.Move {
	return c.move
}

// Wait blocks until the turn resolves or ctx is done.
func (c *Completion) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
