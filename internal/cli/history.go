package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twisty/internal/analysis"
	"github.com/SeamusWaldron/twisty/internal/notation"
	"github.com/SeamusWaldron/twisty/internal/recorder"
	"github.com/SeamusWaldron/twisty/internal/storage"
)

var (
	listLimit  int
	showLast   bool
	showNGrams int
)

var sessionsCmd = &cobra.Command{
	Use:     "sessions",
	Aliases: []string{"history"},
	Short:   "Manage recorded play sessions",
	Long:    `Commands for listing, inspecting and closing recorded play sessions.`,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sessions",
	Long:  `Display a list of recent play sessions with basic statistics.`,
	RunE:  runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show details of a session",
	Long: `Display a session's metadata, its scramble and its turn sequence.

Use --last to show the most recent session.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSessionsShow,
}

var sessionsEndCmd = &cobra.Command{
	Use:   "end",
	Short: "End an interrupted session",
	Long:  `Close the session left open by a play session that did not exit cleanly.`,
	RunE:  runSessionsEnd,
}

var sessionsTrendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show turn speed across sessions",
	Long: `Compare turn speed across recent sessions. Only turns made by the player
count: shuffles and replays are left out.`,
	RunE: runSessionsTrends,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session and its turns",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsListCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum number of sessions to display")

	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsShowCmd.Flags().BoolVar(&showLast, "last", false, "Show the most recent session")
	sessionsShowCmd.Flags().IntVar(&showNGrams, "ngrams", 3, "Repeated sequences to list per length (0 to skip)")

	sessionsCmd.AddCommand(sessionsTrendsCmd)
	sessionsTrendsCmd.Flags().IntVar(&listLimit, "limit", 50, "Number of recent sessions to compare")

	sessionsCmd.AddCommand(sessionsEndCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	sessionRepo := storage.NewSessionRepository(db)
	turnRepo := storage.NewTurnRepository(db)

	sessions, err := sessionRepo.List(listLimit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet")
		fmt.Println("Record one with: twisty play --record")
		return nil
	}

	fmt.Printf("Recent sessions (showing %d):\n", len(sessions))
	fmt.Println()
	fmt.Printf("%-36s  %-20s  %-10s  %-6s  %-6s  %s\n", "ID", "Started", "Duration", "Turns", "TPS", "Notes")
	fmt.Println("------------------------------------  --------------------  ----------  ------  ------  -----")

	for _, s := range sessions {
		duration := "-"
		turns := "-"
		tps := "-"

		if s.DurationMs != nil {
			duration = formatDuration(s.Duration())
		}
		n, _ := turnRepo.CountBySession(s.SessionID)
		if n > 0 {
			turns = fmt.Sprintf("%d", n)
			if s.DurationMs != nil && *s.DurationMs > 0 {
				tps = fmt.Sprintf("%.2f", float64(n)/s.Duration().Seconds())
			}
		}

		notes := ""
		if s.Notes != nil {
			notes = *s.Notes
			if len(notes) > 30 {
				notes = notes[:27] + "..."
			}
		}
		status := ""
		if s.EndedAt == nil {
			status = " (active)"
		}

		fmt.Printf("%-36s  %-20s  %-10s  %-6s  %-6s  %s%s\n",
			s.SessionID,
			s.StartedAt.Format("2006-01-02 15:04:05"),
			duration,
			turns,
			tps,
			notes,
			status,
		)
	}
	return nil
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	sessionRepo := storage.NewSessionRepository(db)
	turnRepo := storage.NewTurnRepository(db)

	var s *storage.Session
	switch {
	case showLast:
		s, err = sessionRepo.Latest()
	case len(args) > 0:
		s, err = sessionRepo.Get(args[0])
	default:
		return fmt.Errorf("please provide a session ID or use --last")
	}
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if s == nil {
		return fmt.Errorf("session not found")
	}

	records, err := turnRepo.GetBySession(s.SessionID)
	if err != nil {
		return fmt.Errorf("failed to get turns: %w", err)
	}
	moves, err := storage.ToMoves(records)
	if err != nil {
		return err
	}

	fmt.Println("Session Details")
	fmt.Println("===============")
	fmt.Println()
	fmt.Printf("ID:      %s\n", s.SessionID)
	fmt.Printf("Started: %s\n", s.StartedAt.Format("2006-01-02 15:04:05"))
	if s.EndedAt != nil {
		fmt.Printf("Ended:   %s\n", s.EndedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("Length:  %s\n", formatDuration(s.Duration()))
	} else {
		fmt.Println("Ended:   (active)")
	}
	if s.ScrambleText != nil {
		fmt.Printf("Scramble: %s\n", *s.ScrambleText)
	}
	if s.Notes != nil {
		fmt.Printf("Notes:   %s\n", *s.Notes)
	}
	fmt.Println()

	bySource := make(map[string]int)
	for _, r := range records {
		bySource[r.Source]++
	}
	fmt.Printf("Turns: %d", len(records))
	for _, src := range []string{recorder.SourceKey, recorder.SourceGesture, recorder.SourceShuffle, recorder.SourceUndo} {
		if n := bySource[src]; n > 0 {
			fmt.Printf("  %s=%d", src, n)
		}
	}
	fmt.Println()
	if len(moves) > 0 {
		fmt.Println()
		fmt.Println(notation.Condense(moves))
		fmt.Println()
		printSummary(analysis.Summarize(s.SessionID, moves, s.Duration()))
	}
	if showNGrams > 0 {
		printNGrams(analysis.MineNGrams(moves, 2, 4, showNGrams))
	}
	return nil
}

func printSummary(sum analysis.SessionSummary) {
	fmt.Println("Statistics")
	fmt.Println("----------")
	fmt.Printf("Condensed:     %d steps (%.0f%% of turns)\n", sum.CondensedSteps, sum.Efficiency*100)
	if sum.TPSOverall > 0 {
		fmt.Printf("Turns/sec:     %.2f\n", sum.TPSOverall)
	}
	if sum.AvgTurnDurationMs > 0 {
		fmt.Printf("Avg gap:       %.0fms\n", sum.AvgTurnDurationMs)
	}
	if sum.LongestPauseMs > 0 {
		fmt.Printf("Longest pause: %s (%d over %s)\n",
			formatDuration(time.Duration(sum.LongestPauseMs)*time.Millisecond), sum.PauseCount, analysis.PauseThreshold)
	}
	if p := sum.Profile; p != nil && p.MostUsedFace.Valid() {
		fmt.Printf("Most used:     %s (%d turns)\n", p.MostUsedFace, p.FaceCounts[p.MostUsedFace.String()])
	}
}

func printNGrams(report *analysis.NGramReport) {
	for n := 2; n <= 4; n++ {
		ngrams := report.TopNGrams[n]
		if len(ngrams) == 0 {
			continue
		}
		fmt.Printf("\nRepeated %d-turn sequences:\n", n)
		for _, ng := range ngrams {
			fmt.Printf("  %-12s x%d\n", strings.Join(ng.Sequence, " "), ng.Count)
		}
	}
}

// playerTurns counts turns the player made by hand.
func playerTurns(records []storage.TurnRecord) int {
	n := 0
	for _, r := range records {
		switch r.Source {
		case recorder.SourceShuffle, recorder.SourceReplay:
		default:
			n++
		}
	}
	return n
}

func runSessionsTrends(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := storage.NewSessionRepository(db).List(listLimit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	turnRepo := storage.NewTurnRepository(db)

	data := make([]analysis.SessionData, 0, len(sessions))
	for _, s := range sessions {
		records, err := turnRepo.GetBySession(s.SessionID)
		if err != nil {
			return fmt.Errorf("failed to get turns: %w", err)
		}
		data = append(data, analysis.SessionData{
			SessionID:  s.SessionID,
			StartedAt:  s.StartedAt,
			DurationMs: s.Duration().Milliseconds(),
			Turns:      playerTurns(records),
		})
	}

	report := analysis.AnalyzeTrends(data)
	if report.CompletedSessions == 0 {
		fmt.Println("No finished sessions with turns yet")
		return nil
	}

	fmt.Printf("Sessions: %d finished of %d (%s to %s)\n",
		report.CompletedSessions, report.TotalSessions, report.DateRange.Start[:10], report.DateRange.End[:10])
	fmt.Println()
	fmt.Printf("Average:     %.2f TPS, %.0f turns, %s\n",
		report.AvgTPS, report.AvgTurns, formatDuration(time.Duration(report.AvgDurationMs)*time.Millisecond))
	fmt.Printf("Fastest:     %.2f TPS (%s)\n", report.Fastest.TPS, report.Fastest.SessionID)
	fmt.Printf("Slowest:     %.2f TPS (%s)\n", report.Slowest.TPS, report.Slowest.SessionID)
	fmt.Printf("Consistency: %.0f/100\n", report.ConsistencyScore)
	if report.CompletedSessions >= 4 {
		fmt.Printf("Improvement: %+.1f%%\n", report.ImprovementPct)
	}
	for _, k := range []int{5, 10, 25, 50} {
		if v, ok := report.RollingTPS[k]; ok {
			fmt.Printf("Last %-3d     %.2f TPS\n", k, v)
		}
	}
	return nil
}

func runSessionsEnd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	stateFile, err := recorder.NewDefaultStateFile()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	if !stateFile.HasActiveSession() {
		return fmt.Errorf("no active session")
	}
	id := stateFile.ActiveSessionID()

	session := recorder.NewSession(db, stateFile)
	if err := session.Resume(id); err != nil {
		return fmt.Errorf("failed to resume session: %w", err)
	}
	turns := session.TurnCount()
	elapsed := session.Elapsed()
	if err := session.End(); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	fmt.Printf("Session ended: %s\n", id)
	fmt.Printf("Turns: %d over %s\n", turns, formatDuration(elapsed.Round(time.Millisecond)))
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := storage.NewSessionRepository(db).Delete(args[0]); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	fmt.Printf("Deleted session %s\n", args[0])
	return nil
}
