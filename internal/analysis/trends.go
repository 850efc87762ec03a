package analysis

import (
	"math"
	"sort"
	"time"
)

// SessionData is the minimal per-session input for trend analysis. Turns
// counts only turns the player made, not shuffles or replays.
type SessionData struct {
	SessionID  string
	StartedAt  time.Time
	DurationMs int64
	Turns      int
}

// TPS returns the session's turns per second.
func (s SessionData) TPS() float64 {
	if s.DurationMs <= 0 {
		return 0
	}
	return float64(s.Turns) / (float64(s.DurationMs) / 1000)
}

// TrendReport contains trend analysis across sessions.
type TrendReport struct {
	TotalSessions     int       `json:"total_sessions"`
	CompletedSessions int       `json:"completed_sessions"`
	DateRange         DateRange `json:"date_range"`

	AvgDurationMs float64 `json:"avg_duration_ms"`
	AvgTurns      float64 `json:"avg_turns"`
	AvgTPS        float64 `json:"avg_tps"`

	Fastest SessionStats `json:"fastest"`
	Slowest SessionStats `json:"slowest"`

	// Change in TPS from the first quarter of sessions to the last, in percent.
	ImprovementPct   float64 `json:"improvement_pct"`
	ConsistencyScore float64 `json:"consistency_score"`

	// Rolling TPS averages over the last 5, 10, 25 and 50 sessions.
	RollingTPS map[int]float64 `json:"rolling_tps"`

	Sessions []SessionStats `json:"sessions"`
}

// DateRange represents a date range.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SessionStats is one session in trend context.
type SessionStats struct {
	SessionID  string  `json:"session_id"`
	Timestamp  string  `json:"timestamp"`
	DurationMs int64   `json:"duration_ms"`
	Turns      int     `json:"turns"`
	TPS        float64 `json:"tps"`
}

func statsOf(s SessionData) SessionStats {
	return SessionStats{
		SessionID:  s.SessionID,
		Timestamp:  s.StartedAt.Format(time.RFC3339),
		DurationMs: s.DurationMs,
		Turns:      s.Turns,
		TPS:        s.TPS(),
	}
}

// AnalyzeTrends analyzes turn speed across sessions. Sessions that never
// ended or have no turns are counted but otherwise ignored.
func AnalyzeTrends(sessions []SessionData) *TrendReport {
	report := &TrendReport{
		TotalSessions: len(sessions),
		RollingTPS:    make(map[int]float64),
		Sessions:      make([]SessionStats, 0, len(sessions)),
	}
	if len(sessions) == 0 {
		return report
	}

	sorted := make([]SessionData, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartedAt.Before(sorted[j].StartedAt)
	})
	report.DateRange = DateRange{
		Start: sorted[0].StartedAt.Format(time.RFC3339),
		End:   sorted[len(sorted)-1].StartedAt.Format(time.RFC3339),
	}

	var completed []SessionData
	var totalDuration, totalTurns int64
	var totalTPS float64
	for _, s := range sorted {
		if s.DurationMs <= 0 || s.Turns == 0 {
			continue
		}
		completed = append(completed, s)
		totalDuration += s.DurationMs
		totalTurns += int64(s.Turns)
		totalTPS += s.TPS()
		report.Sessions = append(report.Sessions, statsOf(s))

		if len(completed) == 1 || s.TPS() > report.Fastest.TPS {
			report.Fastest = statsOf(s)
		}
		if len(completed) == 1 || s.TPS() < report.Slowest.TPS {
			report.Slowest = statsOf(s)
		}
	}

	report.CompletedSessions = len(completed)
	if len(completed) == 0 {
		return report
	}

	n := float64(len(completed))
	report.AvgDurationMs = float64(totalDuration) / n
	report.AvgTurns = float64(totalTurns) / n
	report.AvgTPS = totalTPS / n
	report.ImprovementPct = calculateImprovement(completed)
	report.ConsistencyScore = calculateConsistency(completed)

	for _, k := range []int{5, 10, 25, 50} {
		if len(completed) >= k {
			var sum float64
			for _, s := range completed[len(completed)-k:] {
				sum += s.TPS()
			}
			report.RollingTPS[k] = sum / float64(k)
		}
	}
	return report
}

// calculateImprovement compares mean TPS of the first and last quarter.
func calculateImprovement(sessions []SessionData) float64 {
	if len(sessions) < 4 {
		return 0
	}
	q := len(sessions) / 4

	var first, last float64
	for i := 0; i < q; i++ {
		first += sessions[i].TPS()
	}
	for i := len(sessions) - q; i < len(sessions); i++ {
		last += sessions[i].TPS()
	}
	if first <= 0 {
		return 0
	}
	return (last - first) / first * 100
}

// calculateConsistency maps the coefficient of variation of TPS onto 0-100,
// where 100 means every session ran at the same speed.
func calculateConsistency(sessions []SessionData) float64 {
	if len(sessions) < 2 {
		return 100
	}

	var sum float64
	for _, s := range sessions {
		sum += s.TPS()
	}
	mean := sum / float64(len(sessions))
	if mean <= 0 {
		return 100
	}

	var sumSquares float64
	for _, s := range sessions {
		d := s.TPS() - mean
		sumSquares += d * d
	}
	cv := math.Sqrt(sumSquares/float64(len(sessions))) / mean

	return math.Max(0, math.Min(100, 100-cv*100))
}
