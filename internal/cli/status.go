package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twisty/internal/journal"
	"github.com/SeamusWaldron/twisty/internal/recorder"
	"github.com/SeamusWaldron/twisty/internal/storage"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and recording status",
	Long:  `Display the database in use, recorded sessions, any interrupted session and available journals.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	stateFile, err := recorder.NewDefaultStateFile()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	state := stateFile.State()

	fmt.Println("twisty status")
	fmt.Println("=============")
	fmt.Println()

	fmt.Printf("Turn duration: %s at %d fps\n", cfg.TurnDuration(), cfg.Turn.FrameRateHz)
	fmt.Printf("Gesture rule:  %s\n", cfg.Gesture.TargetRule)
	fmt.Println()

	fmt.Printf("Database: %s\n", cfg.DBPath())
	db, err := openDB(cfg)
	if err == nil {
		defer db.Close()
		if v, err := db.CurrentVersion(); err == nil {
			fmt.Printf("Schema version: %d\n", v)
		}
		sessions, _ := storage.NewSessionRepository(db).List(10000)
		if len(sessions) > 0 {
			fmt.Printf("Last session: %s\n", sessions[0].StartedAt.Format("2006-01-02 15:04:05"))
		}
		fmt.Printf("Total sessions: %d\n", len(sessions))
	} else {
		fmt.Printf("  %v\n", err)
	}
	fmt.Println()

	if state.ActiveSessionID != "" {
		fmt.Printf("Interrupted session: %s\n", state.ActiveSessionID)
		fmt.Println("  (Use 'twisty sessions end' to close it)")
	} else {
		fmt.Println("No active session")
	}
	fmt.Println()

	names, err := journal.List(cfg.JournalDir())
	if err != nil {
		return err
	}
	fmt.Printf("Journals: %d in %s\n", len(names), cfg.JournalDir())
	if state.LastJournal != "" {
		fmt.Printf("Last journal: %s\n", state.LastJournal)
	}
	return nil
}
