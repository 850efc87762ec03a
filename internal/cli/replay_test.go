package cli

import (
	"testing"

	"github.com/SeamusWaldron/twisty"
	"github.com/SeamusWaldron/twisty/internal/journal"
)

func turnEvent(ms int64, face string, dir int) journal.Event {
	return journal.Event{ElapsedMs: ms, Type: journal.EventTurn, Face: face, Direction: dir, Source: "key"}
}

func TestReplayerAppliesJournal(t *testing.T) {
	l := &journal.Log{Events: []journal.Event{
		turnEvent(100, "R", 1),
		turnEvent(200, "U", -1),
		{ElapsedMs: 250, Type: journal.EventGesture, Note: "tap"},
		{ElapsedMs: 300, Type: journal.EventReset},
		turnEvent(400, "F", 1),
		{ElapsedMs: 500, Type: journal.EventShuffle, Count: 1, Note: "F"},
	}}
	p := twisty.New()
	r := newReplayer(p, l)

	for !r.done() {
		if err := r.apply(false); err != nil {
			t.Fatal(err)
		}
	}
	if r.turns != 3 {
		t.Errorf("turns = %d, want 3", r.turns)
	}
	if got := twisty.FormatMoves(p.Moves()); got != "F" {
		t.Errorf("moves after reset = %q, want F", got)
	}
	if r.note != "shuffled 1" {
		t.Errorf("note = %q", r.note)
	}

	r.rewind()
	if r.next != 0 || !p.IsPristine() {
		t.Error("rewind should restart from a solved puzzle")
	}
}

func TestReplayerRejectsBadTurn(t *testing.T) {
	l := &journal.Log{Events: []journal.Event{turnEvent(0, "Q", 1)}}
	r := newReplayer(twisty.New(), l)
	if err := r.apply(false); err == nil {
		t.Error("expected error for unknown face")
	}
}
