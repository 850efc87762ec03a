package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twisty"
	"github.com/SeamusWaldron/twisty/internal/notation"
)

var shuffleCmd = &cobra.Command{
	Use:   "shuffle [count]",
	Short: "Print a random scramble",
	Long: `Shuffle a solved puzzle with random quarter turns and print the scramble,
the sequence that undoes it and the resulting net.

Examples:
  twisty shuffle
  twisty shuffle 40 --seed 7`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShuffle,
}

var shuffleSeed uint64

func init() {
	rootCmd.AddCommand(shuffleCmd)
	shuffleCmd.Flags().Uint64Var(&shuffleSeed, "seed", 0, "Random seed (0 picks one)")
}

func runShuffle(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	n := cfg.Shuffle.DefaultCount
	if len(args) == 1 {
		if n, err = strconv.Atoi(args[0]); err != nil {
			return fmt.Errorf("invalid count %q: %w", args[0], err)
		}
	}

	opts := []twisty.Option{twisty.FromConfig(cfg), twisty.WithLogger(stderrLogger())}
	if shuffleSeed != 0 {
		opts = append(opts, twisty.WithSeed(shuffleSeed))
	}
	p := twisty.New(opts...)
	n = twisty.ClampShuffle(n, p.MaxShuffle())

	job, err := p.Shuffle(n, false)
	if err != nil {
		return err
	}
	if !job.Resolved() {
		return fmt.Errorf("shuffle did not complete")
	}
	moves := job.Moves()

	fmt.Printf("Scramble (%d turns): %s\n", len(moves), notation.Condense(moves))
	fmt.Printf("Undo:                %s\n", notation.Condense(twisty.InvertSequence(moves)))
	fmt.Println()
	fmt.Print(p.Net())
	return nil
}
