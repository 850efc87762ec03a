package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twisty/internal/storage"
)

var (
	exportSessionID string
	exportFormat    string
	exportOutput    string
	exportLast      bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export session data",
	Long:  `Export session data in various formats.`,
}

var exportTurnsCmd = &cobra.Command{
	Use:   "turns",
	Short: "Export turns from a session",
	Long: `Export the turn sequence of a session in text or JSON format.

Examples:
  twisty export turns --last
  twisty export turns --id <session_id> --format json
  twisty export turns --id <session_id> --format txt -o turns.txt`,
	RunE: runExportTurns,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.AddCommand(exportTurnsCmd)
	exportTurnsCmd.Flags().StringVar(&exportSessionID, "id", "", "Session ID to export")
	exportTurnsCmd.Flags().BoolVar(&exportLast, "last", false, "Export the last session")
	exportTurnsCmd.Flags().StringVar(&exportFormat, "format", "txt", "Export format (txt, json)")
	exportTurnsCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
}

// turnJSON is the exported form of one turn.
type turnJSON struct {
	TurnIndex int    `json:"turn_index"`
	TsMs      int64  `json:"ts_ms"`
	Face      string `json:"face"`
	Direction int    `json:"direction"`
	Notation  string `json:"notation"`
	Source    string `json:"source"`
}

func formatTurns(records []storage.TurnRecord, format string) (string, error) {
	switch strings.ToLower(format) {
	case "txt":
		notations := make([]string, len(records))
		for i, r := range records {
			notations[i] = r.Notation
		}
		return strings.Join(notations, " "), nil

	case "json":
		turns := make([]turnJSON, len(records))
		for i, r := range records {
			turns[i] = turnJSON{
				TurnIndex: r.TurnIndex,
				TsMs:      r.TsMs,
				Face:      r.Face,
				Direction: r.Direction,
				Notation:  r.Notation,
				Source:    r.Source,
			}
		}
		data, err := json.MarshalIndent(turns, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("unknown format: %s (use txt or json)", format)
}

func runExportTurns(cmd *cobra.Command, args []string) error {
	if exportSessionID == "" && !exportLast {
		return fmt.Errorf("specify --id or --last")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	sessionID := exportSessionID
	if exportLast {
		s, err := storage.NewSessionRepository(db).Latest()
		if err != nil {
			return fmt.Errorf("failed to get last session: %w", err)
		}
		if s == nil {
			return fmt.Errorf("no sessions found")
		}
		sessionID = s.SessionID
	}

	records, err := storage.NewTurnRepository(db).GetBySession(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get turns: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no turns found for session %s", sessionID)
	}

	output, err := formatTurns(records, exportFormat)
	if err != nil {
		return err
	}

	if exportOutput == "" {
		fmt.Println(output)
		return nil
	}

	dir := filepath.Dir(exportOutput)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(exportOutput, []byte(output+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Printf("Exported %d turns to %s\n", len(records), exportOutput)
	return nil
}
