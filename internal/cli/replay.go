package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twisty"
	"github.com/SeamusWaldron/twisty/internal/journal"
	"github.com/SeamusWaldron/twisty/internal/notation"
)

var replayCmd = &cobra.Command{
	Use:   "replay [journal]",
	Short: "Replay a recorded session",
	Long: `Replay a session journal recorded with 'twisty play --record'.

If no journal is specified, lists available journals.

Usage:
  twisty replay                        # List available journals
  twisty replay <journal>              # Replay a journal
  twisty replay <journal> --speed 2.0  # Replay at 2x speed
  twisty replay <journal> --step       # Step through events manually`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

var (
	replaySpeed float64
	replayStep  bool
)

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Float64VarP(&replaySpeed, "speed", "s", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVarP(&replayStep, "step", "t", false, "Step through events manually")
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dir := cfg.JournalDir()

	if len(args) == 0 {
		return listJournals(dir)
	}

	path := args[0]
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	l, err := journal.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load journal: %w", err)
	}

	fmt.Printf("Loaded journal: %s\n", path)
	fmt.Printf("Created: %s\n", l.CreatedAt.Format(time.RFC3339))
	fmt.Printf("Events: %d\n", len(l.Events))

	logger, closeLog, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	p := twisty.New(twisty.FromConfig(cfg), twisty.WithLogger(logger))
	model := newReplayModel(newReplayer(p, l), cfg.FrameInterval(), replaySpeed, replayStep)
	prog := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("replay error: %w", err)
	}
	return nil
}

func listJournals(dir string) error {
	names, err := journal.List(dir)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("No journals found. Record a session first with: twisty play --record")
		return nil
	}

	fmt.Println("Available journals:")
	fmt.Println()
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println()
	fmt.Println("Usage: twisty replay <journal>")
	return nil
}

// replayer feeds journal events into a puzzle.
type replayer struct {
	puzzle *twisty.Puzzle
	log    *journal.Log
	next   int
	turns  int
	note   string
}

func newReplayer(p *twisty.Puzzle, l *journal.Log) *replayer {
	return &replayer{puzzle: p, log: l}
}

func (r *replayer) done() bool {
	return r.next >= len(r.log.Events)
}

// peek returns the next event.
func (r *replayer) peek() (journal.Event, bool) {
	if r.done() {
		return journal.Event{}, false
	}
	return r.log.Events[r.next], true
}

// apply plays the next event. Turns are queued so an animated turn never
// overlaps the previous one.
func (r *replayer) apply(animated bool) error {
	e, ok := r.peek()
	if !ok {
		return nil
	}
	r.next++

	switch e.Type {
	case journal.EventTurn:
		m, err := e.Move()
		if err != nil {
			return err
		}
		if _, err := r.puzzle.PlayAs(twisty.SourceReplay, []twisty.Move{m}, animated); err != nil {
			return err
		}
		r.turns++
		r.note = fmt.Sprintf("%s (%s)", m.Notation(), e.Source)
	case journal.EventReset:
		r.puzzle.ResetSolved()
		r.note = "reset"
	case journal.EventShuffle:
		r.note = fmt.Sprintf("shuffled %d", e.Count)
	case journal.EventGesture:
		r.note = "gesture: " + e.Note
	}
	return nil
}

// rewind returns to the start of the journal with a solved puzzle.
func (r *replayer) rewind() {
	r.puzzle.ResetSolved()
	r.next = 0
	r.turns = 0
	r.note = ""
}

type replayEventMsg struct{ index int }

type replayModel struct {
	r        *replayer
	interval time.Duration
	speed    float64
	stepMode bool
	paused   bool
	last     int64
	err      error
	quitting bool
}

func newReplayModel(r *replayer, interval time.Duration, speed float64, stepMode bool) *replayModel {
	if speed <= 0 {
		speed = 1
	}
	return &replayModel{
		r:        r,
		interval: interval,
		speed:    speed,
		stepMode: stepMode,
		paused:   stepMode,
	}
}

func (m *replayModel) Init() tea.Cmd {
	if m.stepMode {
		return m.frame()
	}
	return tea.Batch(m.frame(), m.scheduleNextEvent())
}

func (m *replayModel) frame() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *replayModel) scheduleNextEvent() tea.Cmd {
	e, ok := m.r.peek()
	if !ok {
		return nil
	}
	var delay time.Duration
	if m.last > 0 || m.r.next > 0 {
		delay = time.Duration(float64(e.ElapsedMs-m.last)/m.speed) * time.Millisecond
	}
	if delay < 0 {
		delay = 0
	}
	index := m.r.next
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return replayEventMsg{index: index}
	})
}

func (m *replayModel) step() {
	if e, ok := m.r.peek(); ok {
		m.last = e.ElapsedMs
	}
	if err := m.r.apply(true); err != nil {
		m.err = err
	}
}

func (m *replayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case " ", "n":
			if m.stepMode || m.paused {
				m.step()
			} else {
				m.paused = true
			}

		case "p":
			m.paused = !m.paused
			if !m.paused && !m.stepMode {
				return m, m.scheduleNextEvent()
			}

		case "r":
			m.r.rewind()
			m.last = 0
			if !m.paused {
				return m, m.scheduleNextEvent()
			}

		case "+", "=":
			m.speed *= 2
			if m.speed > 16 {
				m.speed = 16
			}

		case "-":
			m.speed /= 2
			if m.speed < 0.25 {
				m.speed = 0.25
			}
		}

	case frameMsg:
		m.r.puzzle.Step(time.Time(msg))
		return m, m.frame()

	case replayEventMsg:
		// Stale ticks from before a pause or rewind are dropped.
		if m.paused || msg.index != m.r.next {
			return m, nil
		}
		m.step()
		return m, m.scheduleNextEvent()
	}
	return m, nil
}

func (m *replayModel) View() string {
	if m.quitting {
		return "Replay ended.\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("twisty replay"))
	b.WriteString("\n\n")

	progress := fmt.Sprintf("Event %d/%d", m.r.next, len(m.r.log.Events))
	if m.paused {
		progress += " [PAUSED]"
	}
	if m.stepMode {
		progress += " [STEP MODE]"
	}
	b.WriteString(statusStyle.Render(progress))
	b.WriteString(fmt.Sprintf(" (%.2gx speed)  %s", m.speed, formatDuration(time.Duration(m.last)*time.Millisecond)))
	b.WriteString("\n\n")

	b.WriteString(renderNet(m.r.puzzle.Facelets()))
	b.WriteString("\n")

	if m.r.puzzle.IsSolved() {
		b.WriteString(solvedStyle.Render("SOLVED"))
	} else {
		b.WriteString(statusStyle.Render("scrambled"))
	}
	b.WriteString(fmt.Sprintf("  Turns: %d\n", m.r.turns))

	if moves := m.r.puzzle.Moves(); len(moves) > 0 {
		start := 0
		if len(moves) > 20 {
			start = len(moves) - 20
			b.WriteString("... ")
		}
		b.WriteString(moveStyle.Render(notation.Condense(moves[start:])))
		b.WriteString("\n")
	}
	if m.r.note != "" {
		b.WriteString(statusStyle.Render("Last: " + m.r.note))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}
	if m.r.done() {
		b.WriteString(statusStyle.Render("End of journal"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := "SPACE/n=pause  p=resume  r=restart  +/-=speed  q=quit"
	if m.stepMode || m.paused {
		help = "SPACE/n=next event  p=resume  r=restart  q=quit"
	}
	b.WriteString(helpStyle.Render(help))
	b.WriteString("\n")
	return b.String()
}
