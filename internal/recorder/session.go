package recorder

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/SeamusWaldron/twisty/internal/cube"
	"github.com/SeamusWaldron/twisty/internal/journal"
	"github.com/SeamusWaldron/twisty/internal/storage"
)

// Turn sources stored with every recorded turn.
const (
	SourceKey     = "key"
	SourceGesture = "gesture"
	SourceShuffle = "shuffle"
	SourceUndo    = "undo"
	SourceReplay  = "replay"
	SourceAPI     = "api"
)

var (
	ErrAlreadyRecording = errors.New("recorder: session already in progress")
	ErrNotRecording     = errors.New("recorder: no session in progress")
)

// SessionState represents the current state of a recording session.
type SessionState int

const (
	StateIdle SessionState = iota
	StateRecording
	StateEnded
)

// String returns the string representation of the session state.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Session records committed turns of one play session.
type Session struct {
	stateFile *StateFile
	journal   *journal.Writer
	log       *log.Logger
	now       func() time.Time

	mu        sync.RWMutex
	state     SessionState
	sessionID string
	startTime time.Time
	turnIndex int

	sessionRepo *storage.SessionRepository
	turnRepo    *storage.TurnRepository

	onTurn func(cube.Move, string)
}

// NewSession creates a new session manager. stateFile may be nil.
func NewSession(db *storage.DB, stateFile *StateFile) *Session {
	return &Session{
		stateFile:   stateFile,
		log:         log.New(io.Discard, "", 0),
		now:         time.Now,
		state:       StateIdle,
		sessionRepo: storage.NewSessionRepository(db),
		turnRepo:    storage.NewTurnRepository(db),
	}
}

// SetJournal mirrors every recorded event into w.
func (s *Session) SetJournal(w *journal.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journal = w
}

// SetLogger sets the diagnostic logger.
func (s *Session) SetLogger(l *log.Logger) {
	if l != nil {
		s.log = l
	}
}

// SetTurnCallback sets the callback for recorded turns.
func (s *Session) SetTurnCallback(cb func(m cube.Move, source string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTurn = cb
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SessionID returns the current session ID.
func (s *Session) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}

// Elapsed returns the time since the session started.
func (s *Session) Elapsed() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateRecording {
		return 0
	}
	return s.now().Sub(s.startTime)
}

// TurnCount returns the number of turns recorded.
func (s *Session) TurnCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.turnIndex
}

// Start opens a new session.
func (s *Session) Start(scramble, notes, appVersion string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRecording {
		return "", ErrAlreadyRecording
	}

	start := s.now()
	id, err := s.sessionRepo.Create(start, scramble, notes, appVersion)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	s.sessionID = id
	s.startTime = start
	s.turnIndex = 0
	s.state = StateRecording

	if s.stateFile != nil {
		if err := s.stateFile.SetActiveSession(id); err != nil {
			s.log.Printf("state file: %v", err)
		}
	}
	return id, nil
}

// RecordTurn stores a committed turn. Outside a session it is a no-op.
func (s *Session) RecordTurn(m cube.Move, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return nil
	}
	if m.Time.IsZero() {
		m.Time = s.now()
	}
	if _, err := s.turnRepo.Create(s.sessionID, s.turnIndex, m, source); err != nil {
		return fmt.Errorf("failed to store turn: %w", err)
	}
	s.turnIndex++

	if s.journal != nil {
		if err := s.journal.Turn(m, source); err != nil {
			s.log.Printf("journal: %v", err)
		}
	}
	if s.onTurn != nil {
		s.onTurn(m, source)
	}
	return nil
}

// RecordShuffle stores a completed shuffle as the session's scramble.
func (s *Session) RecordShuffle(moves []cube.Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return nil
	}
	if err := s.sessionRepo.SetScramble(s.sessionID, cube.FormatMoves(moves)); err != nil {
		return err
	}
	if s.journal != nil {
		if err := s.journal.Shuffle(moves); err != nil {
			s.log.Printf("journal: %v", err)
		}
	}
	return nil
}

// RecordReset journals a reset to solved.
func (s *Session) RecordReset() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == StateRecording && s.journal != nil {
		if err := s.journal.Reset(); err != nil {
			s.log.Printf("journal: %v", err)
		}
	}
}

// RecordGesture journals the outcome of a gesture.
func (s *Session) RecordGesture(outcome string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == StateRecording && s.journal != nil {
		if err := s.journal.Gesture(outcome); err != nil {
			s.log.Printf("journal: %v", err)
		}
	}
}

// End closes the session.
func (s *Session) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return ErrNotRecording
	}
	if err := s.sessionRepo.End(s.sessionID, s.now()); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	s.state = StateEnded

	if s.stateFile != nil {
		if err := s.stateFile.ClearActiveSession(); err != nil {
			s.log.Printf("state file: %v", err)
		}
		if s.journal != nil {
			if err := s.stateFile.SetLastJournal(s.journal.Path()); err != nil {
				s.log.Printf("state file: %v", err)
			}
		}
	}
	return nil
}

// Resume reopens an interrupted session.
func (s *Session) Resume(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessionRepo.Get(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if sess == nil {
		return fmt.Errorf("session not found: %s", sessionID)
	}
	if sess.EndedAt != nil {
		return fmt.Errorf("session already ended")
	}

	n, err := s.turnRepo.CountBySession(sessionID)
	if err != nil {
		return err
	}

	s.sessionID = sessionID
	s.startTime = sess.StartedAt
	s.turnIndex = n
	s.state = StateRecording
	return nil
}
