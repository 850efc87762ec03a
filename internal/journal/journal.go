// Package journal writes play sessions as JSON lines, optionally zstd
// compressed, and reads them back for replay.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/SeamusWaldron/twisty/internal/cube"
)

// Version is the journal format version written in the header.
const Version = "1.0"

// EventType identifies the type of journaled event.
type EventType string

const (
	EventTurn    EventType = "turn"
	EventReset   EventType = "reset"
	EventShuffle EventType = "shuffle"
	EventGesture EventType = "gesture"
)

// Header is the first line of every journal.
type Header struct {
	Type      string    `json:"type"`
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	SessionID string    `json:"session_id,omitempty"`
}

// Event is a single journaled event.
type Event struct {
	Timestamp time.Time `json:"ts"`
	ElapsedMs int64     `json:"elapsed_ms"`
	Type      EventType `json:"type"`
	Face      string    `json:"face,omitempty"`
	Direction int       `json:"direction,omitempty"`
	Source    string    `json:"source,omitempty"`
	Count     int       `json:"count,omitempty"`
	Note      string    `json:"note,omitempty"`
}

// Move returns the turn carried by a turn event.
func (e Event) Move() (cube.Move, error) {
	if e.Type != EventTurn {
		return cube.Move{}, fmt.Errorf("journal: %s event has no move", e.Type)
	}
	f, err := cube.ParseFace(e.Face)
	if err != nil {
		return cube.Move{}, err
	}
	d := cube.Direction(e.Direction)
	if !d.Valid() {
		return cube.Move{}, cube.ErrInvalidDirection
	}
	return cube.Move{Face: f, Direction: d, Time: e.Timestamp}, nil
}

// Writer appends events to a journal file.
type Writer struct {
	mu    sync.Mutex
	start time.Time
	now   func() time.Time
	f     *os.File
	enc   *zstd.Encoder
	w     *bufio.Writer
}

// Create starts a new journal in dir named after the current time. With
// compress the file is written as .jsonl.zst.
func Create(dir, sessionID string, compress bool) (*Writer, error) {
	return create(dir, sessionID, compress, time.Now)
}

func create(dir, sessionID string, compress bool, now func() time.Time) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	start := now()
	name := fmt.Sprintf("session_%s.jsonl", start.Format("20060102_150405.000"))
	if compress {
		name += ".zst"
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to create journal: %w", err)
	}

	jw := &Writer{start: start, now: now, f: f}
	var out io.Writer = f
	if compress {
		enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		jw.enc = enc
		out = enc
	}
	jw.w = bufio.NewWriterSize(out, 32*1024)

	header := Header{Type: "header", Version: Version, CreatedAt: start, SessionID: sessionID}
	if err := jw.write(header); err != nil {
		_ = jw.Close()
		return nil, err
	}
	return jw, nil
}

// Turn journals a committed turn.
func (jw *Writer) Turn(m cube.Move, source string) error {
	e := jw.event(EventTurn)
	if !m.Time.IsZero() {
		e.Timestamp = m.Time
		e.ElapsedMs = m.Time.Sub(jw.start).Milliseconds()
	}
	e.Face = m.Face.String()
	e.Direction = int(m.Direction)
	e.Source = source
	return jw.write(e)
}

// Reset journals a reset to solved.
func (jw *Writer) Reset() error {
	return jw.write(jw.event(EventReset))
}

// Shuffle journals a completed shuffle. The turns themselves are journaled
// individually as they commit.
func (jw *Writer) Shuffle(moves []cube.Move) error {
	e := jw.event(EventShuffle)
	e.Count = len(moves)
	e.Note = cube.FormatMoves(moves)
	return jw.write(e)
}

// Gesture journals the outcome of a pointer gesture.
func (jw *Writer) Gesture(outcome string) error {
	e := jw.event(EventGesture)
	e.Note = outcome
	return jw.write(e)
}

func (jw *Writer) event(t EventType) Event {
	now := jw.now()
	return Event{Timestamp: now, ElapsedMs: now.Sub(jw.start).Milliseconds(), Type: t}
}

func (jw *Writer) write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	jw.mu.Lock()
	defer jw.mu.Unlock()
	if jw.w == nil {
		return os.ErrClosed
	}
	if _, err := jw.w.Write(append(data, '\n')); err != nil {
		return err
	}
	return jw.w.Flush()
}

// Path returns the journal file path.
func (jw *Writer) Path() string {
	return jw.f.Name()
}

// Close flushes and closes the journal.
func (jw *Writer) Close() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()
	if jw.w == nil {
		return nil
	}
	var errs []error
	errs = append(errs, jw.w.Flush())
	if jw.enc != nil {
		errs = append(errs, jw.enc.Close())
	}
	errs = append(errs, jw.f.Close())
	jw.w = nil
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Log is a journal read back from disk.
type Log struct {
	Header
	Events []Event
}

// Moves returns the turns of the journal in order.
func (l *Log) Moves() ([]cube.Move, error) {
	var moves []cube.Move
	for _, e := range l.Events {
		if e.Type != EventTurn {
			continue
		}
		m, err := e.Move()
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}

// Load reads a journal. Files ending in .zst are decompressed.
func Load(path string) (*Log, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		r = dec
	}

	l := &Log{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if lineNum == 1 {
			if err := json.Unmarshal(line, &l.Header); err != nil {
				return nil, fmt.Errorf("failed to parse header: %w", err)
			}
			if l.Header.Type != "header" {
				return nil, fmt.Errorf("journal: %s has no header", path)
			}
			continue
		}
		var e Event
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("failed to parse event at line %d: %w", lineNum, err)
		}
		l.Events = append(l.Events, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	return l, nil
}

// List returns the journal file names in dir, oldest first. A missing
// directory has no journals.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".jsonl") || strings.HasSuffix(e.Name(), ".jsonl.zst") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
