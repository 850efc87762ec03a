package analysis

import (
	"testing"
	"time"

	"github.com/SeamusWaldron/twisty/internal/cube"
)

func timed(notation string, gaps ...time.Duration) []cube.Move {
	moves, err := cube.ParseMoves(notation)
	if err != nil {
		panic(err)
	}
	t := time.UnixMilli(1_700_000_000_000)
	for i := range moves {
		if i > 0 {
			t = t.Add(gaps[(i-1)%len(gaps)])
		}
		moves[i].Time = t
	}
	return moves
}

func TestTokenRoundTrip(t *testing.T) {
	seen := make(map[uint8]bool)
	for _, f := range cube.Faces {
		for _, d := range []cube.Direction{cube.CW, cube.CCW} {
			m := cube.Move{Face: f, Direction: d}
			tok := Token(m)
			if tok > 11 {
				t.Fatalf("Token(%s) = %d, out of range", m.Notation(), tok)
			}
			if seen[tok] {
				t.Fatalf("Token(%s) = %d collides", m.Notation(), tok)
			}
			seen[tok] = true
			if back := MoveFromToken(tok); back.Face != f || back.Direction != d {
				t.Errorf("MoveFromToken(%d) = %s, want %s", tok, back.Notation(), m.Notation())
			}
		}
	}
}

func TestRollingHashMatchesFreshHash(t *testing.T) {
	tokens := []uint8{3, 1, 4, 1, 5, 9, 2, 6}
	rolling := NewRollingHash(3)
	for i, tok := range tokens {
		rolling.Roll(tok)
		if !rolling.Ready() {
			continue
		}
		fresh := NewRollingHash(3)
		for _, w := range tokens[i-2 : i+1] {
			fresh.Add(w)
		}
		if rolling.Hash() != fresh.Hash() {
			t.Fatalf("window ending at %d: rolling hash %d, fresh %d", i, rolling.Hash(), fresh.Hash())
		}
	}
}

func TestMineNGramsFindsSexyMove(t *testing.T) {
	moves := timed("R U R' U' R U R' U' R U R' U'", 100*time.Millisecond)
	report := MineNGrams(moves, 2, 4, 3)

	four := report.TopNGrams[4]
	if len(four) == 0 {
		t.Fatal("no 4-grams found")
	}
	top := four[0]
	if got := top.Sequence; len(got) != 4 || got[0] != "R" || got[1] != "U" || got[2] != "R'" || got[3] != "U'" {
		t.Errorf("top 4-gram = %v, want [R U R' U']", got)
	}
	if top.Count != 3 {
		t.Errorf("count = %d, want 3", top.Count)
	}
	if occ := top.Occurrences; len(occ) != 3 || occ[1].StartIndex != 4 || occ[1].TsMs != 400 {
		t.Errorf("occurrences = %+v", occ)
	}
}

func TestMineNGramsIgnoresSingletons(t *testing.T) {
	report := MineNGrams(timed("R U F L", time.Second), 2, 3, 5)
	if len(report.TopNGrams) != 0 {
		t.Errorf("expected no repeats, got %+v", report.TopNGrams)
	}
	if r := MineNGrams(nil, 2, 3, 5); len(r.TopNGrams) != 0 {
		t.Error("empty input produced n-grams")
	}
}

func TestMineNGramsAcrossSessions(t *testing.T) {
	a := MineNGrams(timed("R U R U", time.Second), 2, 2, 5)
	b := MineNGrams(timed("R U F R U", time.Second), 2, 2, 5)
	merged := MineNGramsAcrossSessions(map[string]*NGramReport{"a": a, "b": b}, 5)

	top := merged.TopNGrams[2]
	if len(top) == 0 || top[0].Sequence[0] != "R" || top[0].Sequence[1] != "U" {
		t.Fatalf("top bigram = %+v", top)
	}
	if top[0].Count != 4 {
		t.Errorf("merged count = %d, want 4", top[0].Count)
	}
	if top[0].Occurrences[0].SessionID != "a" {
		t.Errorf("first occurrence session = %q", top[0].Occurrences[0].SessionID)
	}
}

func TestSummarize(t *testing.T) {
	moves := timed("R R R R U F'", 200*time.Millisecond, 200*time.Millisecond, 200*time.Millisecond, 2*time.Second, 300*time.Millisecond)
	sum := Summarize("s1", moves, 3*time.Second)

	if sum.TotalTurns != 6 {
		t.Errorf("TotalTurns = %d", sum.TotalTurns)
	}
	// R R R R cancels out entirely.
	if sum.CondensedSteps != 2 {
		t.Errorf("CondensedSteps = %d, want 2", sum.CondensedSteps)
	}
	if sum.TPSOverall != 2 {
		t.Errorf("TPS = %v, want 2", sum.TPSOverall)
	}
	if sum.LongestPauseMs != 2000 {
		t.Errorf("LongestPauseMs = %d", sum.LongestPauseMs)
	}
	if sum.PauseCount != 1 {
		t.Errorf("PauseCount = %d", sum.PauseCount)
	}
	if sum.AvgTurnDurationMs != 580 {
		t.Errorf("AvgTurnDurationMs = %v, want 580", sum.AvgTurnDurationMs)
	}
	if sum.Profile.MostUsedFace != cube.R || sum.Profile.FaceCounts["R"] != 4 {
		t.Errorf("profile = %+v", sum.Profile)
	}
	if sum.Profile.FacePairs["RR"] != 3 || sum.Profile.FacePairs["UF"] != 1 {
		t.Errorf("pairs = %v", sum.Profile.FacePairs)
	}
}

func TestSummarizeWithoutTimestamps(t *testing.T) {
	moves, _ := cube.ParseMoves("R U")
	sum := Summarize("s", moves, 0)
	if sum.TPSOverall != 0 || sum.LongestPauseMs != 0 || sum.AvgTurnDurationMs != 0 {
		t.Errorf("timing without timestamps: %+v", sum)
	}
	if pauses := AnalyzePauses(moves, time.Millisecond); len(pauses) != 0 {
		t.Errorf("pauses = %v", pauses)
	}
}

func TestAnalyzeTrends(t *testing.T) {
	day := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var sessions []SessionData
	// Eight sessions getting steadily faster: 1, 2, ... 8 turns per second.
	for i := 8; i >= 1; i-- {
		sessions = append(sessions, SessionData{
			SessionID:  string(rune('a' + i - 1)),
			StartedAt:  day.Add(time.Duration(i) * time.Hour),
			DurationMs: 10_000,
			Turns:      i * 10,
		})
	}
	sessions = append(sessions, SessionData{SessionID: "open", StartedAt: day})

	report := AnalyzeTrends(sessions)
	if report.TotalSessions != 9 || report.CompletedSessions != 8 {
		t.Fatalf("counts = %d/%d", report.TotalSessions, report.CompletedSessions)
	}
	if report.Sessions[0].SessionID != "a" {
		t.Errorf("sessions not sorted by start: first %q", report.Sessions[0].SessionID)
	}
	if report.Fastest.SessionID != "h" || report.Slowest.SessionID != "a" {
		t.Errorf("fastest %q slowest %q", report.Fastest.SessionID, report.Slowest.SessionID)
	}
	if report.AvgTPS != 4.5 {
		t.Errorf("AvgTPS = %v", report.AvgTPS)
	}
	// First quarter averages 1.5 TPS, last quarter 7.5.
	if report.ImprovementPct != 400 {
		t.Errorf("ImprovementPct = %v, want 400", report.ImprovementPct)
	}
	if got := report.RollingTPS[5]; got != 6 {
		t.Errorf("RollingTPS[5] = %v, want 6", got)
	}
	if _, ok := report.RollingTPS[10]; ok {
		t.Error("RollingTPS[10] set with only 8 sessions")
	}
	if report.ConsistencyScore <= 0 || report.ConsistencyScore >= 100 {
		t.Errorf("ConsistencyScore = %v", report.ConsistencyScore)
	}
}

func TestAnalyzeTrendsSteadyPlayer(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	sessions := []SessionData{
		{SessionID: "1", StartedAt: start, DurationMs: 4000, Turns: 8},
		{SessionID: "2", StartedAt: start.Add(time.Hour), DurationMs: 8000, Turns: 16},
	}
	report := AnalyzeTrends(sessions)
	if report.ConsistencyScore != 100 {
		t.Errorf("ConsistencyScore = %v, want 100", report.ConsistencyScore)
	}
	if report.ImprovementPct != 0 {
		t.Errorf("ImprovementPct = %v with two sessions", report.ImprovementPct)
	}
}
