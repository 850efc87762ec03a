package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/SeamusWaldron/twisty/internal/cube"
)

// TurnRecord is a committed turn in the database.
type TurnRecord struct {
	TurnID    int64
	SessionID string
	TurnIndex int
	TsMs      int64
	Face      string
	Direction int
	Notation  string
	Source    string
}

// Move converts the record back to a move.
func (r TurnRecord) Move() (cube.Move, error) {
	f, err := cube.ParseFace(r.Face)
	if err != nil {
		return cube.Move{}, err
	}
	d := cube.Direction(r.Direction)
	if !d.Valid() {
		return cube.Move{}, fmt.Errorf("%w: direction %d", cube.ErrInvalidDirection, r.Direction)
	}
	return cube.Move{Face: f, Direction: d, Time: time.UnixMilli(r.TsMs)}, nil
}

// TurnRepository provides CRUD operations for turns.
type TurnRepository struct {
	db *DB
}

// NewTurnRepository creates a new turn repository.
func NewTurnRepository(db *DB) *TurnRepository {
	return &TurnRepository{db: db}
}

const insertTurn = `
	INSERT INTO turns (session_id, turn_index, ts_ms, face, direction, notation, source)
	VALUES (?, ?, ?, ?, ?, ?, ?)
`

// Create stores a turn and returns its ID.
func (r *TurnRepository) Create(sessionID string, index int, m cube.Move, source string) (int64, error) {
	result, err := r.db.Exec(insertTurn,
		sessionID, index, m.Time.UnixMilli(), m.Face.String(), int(m.Direction), m.Notation(), source)
	if err != nil {
		return 0, fmt.Errorf("failed to create turn: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get turn ID: %w", err)
	}
	return id, nil
}

// CreateBatch stores several turns in one transaction, indexed from
// startIndex.
func (r *TurnRepository) CreateBatch(sessionID string, moves []cube.Move, startIndex int, source string) error {
	return r.db.Transaction(func(tx *sql.Tx) error {
		for i, m := range moves {
			_, err := tx.Exec(insertTurn,
				sessionID, startIndex+i, m.Time.UnixMilli(), m.Face.String(), int(m.Direction), m.Notation(), source)
			if err != nil {
				return fmt.Errorf("failed to create turn %d: %w", startIndex+i, err)
			}
		}
		return nil
	})
}

// GetBySession retrieves all turns of a session in order.
func (r *TurnRepository) GetBySession(sessionID string) ([]TurnRecord, error) {
	rows, err := r.db.Query(`
		SELECT turn_id, session_id, turn_index, ts_ms, face, direction, notation, source
		FROM turns
		WHERE session_id = ?
		ORDER BY turn_index
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get turns: %w", err)
	}
	defer rows.Close()

	var turns []TurnRecord
	for rows.Next() {
		var t TurnRecord
		if err := rows.Scan(&t.TurnID, &t.SessionID, &t.TurnIndex, &t.TsMs, &t.Face, &t.Direction, &t.Notation, &t.Source); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// CountBySession returns the number of turns in a session.
func (r *TurnRepository) CountBySession(sessionID string) (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM turns WHERE session_id = ?", sessionID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count turns: %w", err)
	}
	return count, nil
}

// ToMoves converts records to moves. The first bad record is an error.
func ToMoves(records []TurnRecord) ([]cube.Move, error) {
	moves := make([]cube.Move, len(records))
	for i, r := range records {
		m, err := r.Move()
		if err != nil {
			return nil, fmt.Errorf("turn %d: %w", r.TurnIndex, err)
		}
		moves[i] = m
	}
	return moves, nil
}
