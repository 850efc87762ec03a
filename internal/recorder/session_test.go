package recorder

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/SeamusWaldron/twisty/internal/cube"
	"github.com/SeamusWaldron/twisty/internal/journal"
	"github.com/SeamusWaldron/twisty/internal/storage"
)

func newTestSession(t *testing.T) (*Session, *storage.DB, *StateFile) {
	t.Helper()
	dir := t.TempDir()
	db, err := storage.Open(filepath.Join(dir, "twisty.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	sf, err := NewStateFile(filepath.Join(dir, "state.json"))
	if err != nil {
		t.Fatal(err)
	}
	return NewSession(db, sf), db, sf
}

func TestSessionRecordsTurns(t *testing.T) {
	s, db, sf := newTestSession(t)
	w, err := journal.Create(t.TempDir(), "", false)
	if err != nil {
		t.Fatal(err)
	}
	s.SetJournal(w)

	var seen []string
	s.SetTurnCallback(func(m cube.Move, source string) { seen = append(seen, m.Notation()+"/"+source) })

	// Outside a session nothing is stored.
	if err := s.RecordTurn(cube.Move{Face: cube.R, Direction: cube.CW}, SourceKey); err != nil {
		t.Fatal(err)
	}

	id, err := s.Start("", "", "test")
	if err != nil {
		t.Fatal(err)
	}
	if s.State() != StateRecording || sf.ActiveSessionID() != id {
		t.Fatalf("state = %s, active = %q", s.State(), sf.ActiveSessionID())
	}
	if _, err := s.Start("", "", "test"); !errors.Is(err, ErrAlreadyRecording) {
		t.Errorf("second Start error = %v", err)
	}

	scramble, _ := cube.ParseMoves("F B' L")
	for _, m := range scramble {
		if err := s.RecordTurn(m, SourceShuffle); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.RecordShuffle(scramble); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordTurn(cube.Move{Face: cube.U, Direction: cube.CCW, Time: time.Now()}, SourceGesture); err != nil {
		t.Fatal(err)
	}
	s.RecordReset()

	if s.TurnCount() != 4 {
		t.Errorf("TurnCount = %d, want 4", s.TurnCount())
	}
	if err := s.End(); err != nil {
		t.Fatal(err)
	}
	if err := s.End(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("second End error = %v", err)
	}
	if sf.HasActiveSession() {
		t.Error("End should clear the active session")
	}
	w.Close()

	if len(seen) != 4 || seen[3] != "U'/gesture" {
		t.Errorf("callbacks = %v", seen)
	}

	sess, err := storage.NewSessionRepository(db).Get(id)
	if err != nil || sess == nil {
		t.Fatalf("Get = %v, %v", sess, err)
	}
	if sess.ScrambleText == nil || *sess.ScrambleText != "F B' L" {
		t.Errorf("scramble = %v", sess.ScrambleText)
	}
	if sess.EndedAt == nil {
		t.Error("session should be ended")
	}

	l, err := journal.Load(w.Path())
	if err != nil {
		t.Fatal(err)
	}
	moves, err := l.Moves()
	if err != nil || len(moves) != 4 {
		t.Errorf("journal moves = %v, %v", moves, err)
	}
}

func TestResume(t *testing.T) {
	s, db, _ := newTestSession(t)
	id, err := s.Start("", "", "")
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range []cube.Face{cube.R, cube.U} {
		if err := s.RecordTurn(cube.Move{Face: f, Direction: cube.CW}, SourceKey); err != nil {
			t.Fatal(err)
		}
	}

	// A new process picks the session up where it stopped.
	resumed := NewSession(db, nil)
	if err := resumed.Resume(id); err != nil {
		t.Fatal(err)
	}
	if resumed.TurnCount() != 2 {
		t.Errorf("TurnCount = %d, want 2", resumed.TurnCount())
	}
	if err := resumed.RecordTurn(cube.Move{Face: cube.F, Direction: cube.CW}, SourceKey); err != nil {
		t.Fatalf("turn after resume: %v", err)
	}
	if err := resumed.End(); err != nil {
		t.Fatal(err)
	}
	if err := NewSession(db, nil).Resume(id); err == nil {
		t.Error("resuming an ended session should fail")
	}
}

func TestStateFilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "state.json")
	sf, err := NewStateFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := sf.SetActiveSession("abc"); err != nil {
		t.Fatal(err)
	}
	again, err := NewStateFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if again.ActiveSessionID() != "abc" {
		t.Errorf("ActiveSessionID = %q", again.ActiveSessionID())
	}
}
