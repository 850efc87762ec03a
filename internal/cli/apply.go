package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twisty"
	"github.com/SeamusWaldron/twisty/internal/notation"
)

var applyCmd = &cobra.Command{
	Use:   "apply <moves>",
	Short: "Apply a move sequence to a solved puzzle",
	Long: `Apply a sequence in standard notation to a solved puzzle and print the
result. Half turns (R2) are played as two quarter turns.

Examples:
  twisty apply "R U R' U'"
  twisty apply --describe "F2 B2"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runApply,
}

var applyDescribe bool

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().BoolVar(&applyDescribe, "describe", false, "Describe every step in plain words")
}

func runApply(cmd *cobra.Command, args []string) error {
	moves, err := twisty.ParseMoves(strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("invalid notation: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p := twisty.New(twisty.FromConfig(cfg), twisty.WithLogger(stderrLogger()))
	if _, err := p.Play(moves, false); err != nil {
		return err
	}

	steps := notation.Simplify(moves)
	fmt.Printf("Applied %d quarter turns: %s\n", len(moves), notation.Format(steps))
	if applyDescribe {
		for i, s := range steps {
			fmt.Printf("  %2d. %-3s %s\n", i+1, s.Notation(), notation.Describe(s))
		}
	}
	fmt.Println()
	fmt.Print(p.Net())
	fmt.Println()
	if p.IsSolved() {
		fmt.Println("Solved")
	} else {
		fmt.Println("Not solved")
	}
	return nil
}
