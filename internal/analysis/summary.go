// Package analysis computes statistics over recorded turn sequences.
package analysis

import (
	"time"

	"github.com/SeamusWaldron/twisty/internal/cube"
	"github.com/SeamusWaldron/twisty/internal/notation"
)

// PauseThreshold is the gap between turns counted as a pause.
const PauseThreshold = 1500 * time.Millisecond

// SessionSummary contains statistics for a single session.
type SessionSummary struct {
	SessionID         string           `json:"session_id"`
	DurationMs        int64            `json:"duration_ms"`
	TotalTurns        int              `json:"total_turns"`
	CondensedSteps    int              `json:"condensed_steps"`
	Efficiency        float64          `json:"efficiency"`
	TPSOverall        float64          `json:"tps_overall"`
	LongestPauseMs    int64            `json:"longest_pause_ms"`
	PauseCount        int              `json:"pause_count"`
	AvgTurnDurationMs float64          `json:"avg_turn_duration_ms"`
	Profile           *MovementProfile `json:"profile"`
}

// Summarize computes the summary of one session. Moves should carry commit
// timestamps; without them the timing fields are zero.
func Summarize(sessionID string, moves []cube.Move, duration time.Duration) SessionSummary {
	s := SessionSummary{
		SessionID:         sessionID,
		DurationMs:        duration.Milliseconds(),
		TotalTurns:        len(moves),
		CondensedSteps:    len(notation.Simplify(moves)),
		TPSOverall:        CalculateTPS(moves, duration),
		LongestPauseMs:    FindLongestPause(moves).Milliseconds(),
		PauseCount:        CountPausesOver(moves, PauseThreshold),
		AvgTurnDurationMs: float64(CalculateAvgTurnDuration(moves)) / float64(time.Millisecond),
		Profile:           AnalyzeMovementProfile(moves),
	}
	if s.TotalTurns > 0 {
		s.Efficiency = float64(s.CondensedSteps) / float64(s.TotalTurns)
	}
	return s
}

// PauseInfo represents a pause between two turns.
type PauseInfo struct {
	AfterTurnIndex int           `json:"after_turn_index"`
	Duration       time.Duration `json:"duration"`
}

func gap(moves []cube.Move, i int) time.Duration {
	if moves[i].Time.IsZero() || moves[i-1].Time.IsZero() {
		return 0
	}
	return moves[i].Time.Sub(moves[i-1].Time)
}

// AnalyzePauses finds every gap of at least threshold.
func AnalyzePauses(moves []cube.Move, threshold time.Duration) []PauseInfo {
	var pauses []PauseInfo
	for i := 1; i < len(moves); i++ {
		if g := gap(moves, i); g >= threshold {
			pauses = append(pauses, PauseInfo{AfterTurnIndex: i - 1, Duration: g})
		}
	}
	return pauses
}

// CalculateTPS calculates turns per second.
func CalculateTPS(moves []cube.Move, duration time.Duration) float64 {
	if duration <= 0 {
		return 0
	}
	return float64(len(moves)) / duration.Seconds()
}

// CalculateAvgTurnDuration calculates the average time between turns.
func CalculateAvgTurnDuration(moves []cube.Move) time.Duration {
	if len(moves) < 2 || moves[0].Time.IsZero() || moves[len(moves)-1].Time.IsZero() {
		return 0
	}
	total := moves[len(moves)-1].Time.Sub(moves[0].Time)
	return total / time.Duration(len(moves)-1)
}

// FindLongestPause finds the longest gap between turns.
func FindLongestPause(moves []cube.Move) time.Duration {
	var longest time.Duration
	for i := 1; i < len(moves); i++ {
		if g := gap(moves, i); g > longest {
			longest = g
		}
	}
	return longest
}

// CountPausesOver counts gaps longer than threshold.
func CountPausesOver(moves []cube.Move, threshold time.Duration) int {
	count := 0
	for i := 1; i < len(moves); i++ {
		if gap(moves, i) > threshold {
			count++
		}
	}
	return count
}

// MovementProfile records which faces and directions are used.
type MovementProfile struct {
	FaceCounts      map[string]int `json:"face_counts"`
	DirectionCounts map[string]int `json:"direction_counts"`
	MostUsedFace    cube.Face      `json:"most_used_face"`
	FacePairs       map[string]int `json:"face_pairs"` // e.g. "RU" -> count
}

// AnalyzeMovementProfile counts faces, directions and consecutive face pairs.
func AnalyzeMovementProfile(moves []cube.Move) *MovementProfile {
	profile := &MovementProfile{
		FaceCounts:      make(map[string]int),
		DirectionCounts: make(map[string]int),
		FacePairs:       make(map[string]int),
	}

	for i, m := range moves {
		profile.FaceCounts[m.Face.String()]++
		profile.DirectionCounts[m.Direction.String()]++
		if i > 0 {
			profile.FacePairs[moves[i-1].Face.String()+m.Face.String()]++
		}
	}

	// Ties go to the lower face id.
	best := 0
	for _, f := range cube.Faces {
		if n := profile.FaceCounts[f.String()]; n > best {
			best = n
			profile.MostUsedFace = f
		}
	}
	return profile
}
