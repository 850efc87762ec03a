package cli

import (
	"fmt"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twisty"
	"github.com/SeamusWaldron/twisty/internal/config"
	"github.com/SeamusWaldron/twisty/internal/cube"
	"github.com/SeamusWaldron/twisty/internal/journal"
	"github.com/SeamusWaldron/twisty/internal/notation"
	"github.com/SeamusWaldron/twisty/internal/recorder"
	"github.com/SeamusWaldron/twisty/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the puzzle in the terminal",
	Long: `Start an interactive TUI showing the unfolded puzzle.

Keyboard shortcuts:
  r l u d f b  - Turn a face clockwise
  R L U D F B  - Turn a face counter-clockwise
  s            - Shuffle
  z            - Undo the last turn
  x            - Reset to solved
  i            - Invert gesture direction
  n            - Toggle notation style
  q/Esc        - Quit

Drag a sticker with the mouse to turn the layer under it.`,
	RunE: runPlay,
}

var (
	playRecord  bool
	playShuffle int
	playNotes   string
)

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().BoolVar(&playRecord, "record", false, "Record the session to the database and a journal")
	playCmd.Flags().IntVar(&playShuffle, "shuffle", 0, "Shuffle this many turns before play starts")
	playCmd.Flags().StringVar(&playNotes, "notes", "", "Notes for the recorded session")
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	solvedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	moveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Messages
type frameMsg time.Time

// drag is a mouse drag that started on a sticker.
type drag struct {
	face   cube.Face
	startX int
	startY int
	lastX  int
	lastY  int
}

type playModel struct {
	puzzle   *twisty.Puzzle
	cfg      config.Config
	interval time.Duration
	log      *log.Logger

	// Recording
	session *recorder.Session
	journal *journal.Writer
	shuffle *twisty.Job

	// UI
	drag     *drag
	personal bool
	invert   bool
	solved   bool
	status   string
	err      error
	quitting bool
}

func newPlayModel(p *twisty.Puzzle, cfg config.Config, logger *log.Logger) *playModel {
	m := &playModel{
		puzzle:   p,
		cfg:      cfg,
		interval: cfg.FrameInterval(),
		log:      logger,
		invert:   cfg.Gesture.InvertDirection,
		solved:   true,
	}
	p.OnTurn(m.turned)
	p.OnSolved(func() {
		m.solved = true
		m.status = "Solved!"
	})
	p.OnGesture(func(cmd twisty.GestureCommand, reason twisty.GestureReason) {
		if m.session != nil {
			m.session.RecordGesture(reason.String())
		}
		if reason != twisty.GestureAccepted {
			m.status = "gesture ignored: " + reason.String()
		}
	})
	return m
}

// record starts a recorded session mirrored into a journal.
func (m *playModel) record(db *storage.DB, stateFile *recorder.StateFile) error {
	m.session = recorder.NewSession(db, stateFile)
	m.session.SetLogger(m.log)
	id, err := m.session.Start("", playNotes, version)
	if err != nil {
		return err
	}
	w, err := journal.Create(m.cfg.JournalDir(), id, m.cfg.Journal.Compress)
	if err != nil {
		m.log.Printf("journal disabled: %v", err)
		return nil
	}
	m.journal = w
	m.session.SetJournal(w)
	return nil
}

func (m *playModel) turned(mv twisty.Move, src twisty.Source) {
	if !m.puzzle.IsSolved() {
		m.solved = false
		m.status = ""
	}
	if m.session == nil {
		return
	}
	if err := m.session.RecordTurn(mv, string(src)); err != nil {
		m.err = err
	}
}

func (m *playModel) Init() tea.Cmd {
	return m.frame()
}

func (m *playModel) frame() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.key(msg.String())

	case tea.MouseMsg:
		m.mouse(msg)

	case frameMsg:
		m.puzzle.Step(time.Time(msg))
		m.checkShuffle()
		return m, m.frame()
	}
	return m, nil
}

func (m *playModel) key(k string) tea.Cmd {
	switch k {
	case "q", "esc", "ctrl+c":
		m.quit()
		return tea.Quit

	case "r", "l", "u", "d", "f", "b", "R", "L", "U", "D", "F", "B":
		face, err := cube.ParseFace(k)
		if err != nil {
			return nil
		}
		dir := cube.CW
		if strings.ToUpper(k) == k {
			dir = cube.CCW
		}
		c, err := m.puzzle.RotateFaceAs(twisty.SourceKey, face, dir, true)
		if err != nil {
			m.err = err
		} else if c.Rejected() {
			m.status = "busy"
		}

	case "s":
		if m.shuffle != nil && !m.shuffle.Resolved() {
			return nil
		}
		n := twisty.ClampShuffle(m.cfg.Shuffle.DefaultCount, m.puzzle.MaxShuffle())
		job, err := m.puzzle.Shuffle(n, true)
		if err != nil {
			m.err = err
			return nil
		}
		m.shuffle = job
		m.status = fmt.Sprintf("shuffling %d", n)

	case "z":
		if c, ok := m.puzzle.Undo(true); !ok {
			m.status = "nothing to undo"
		} else if c.Rejected() {
			m.status = "busy"
		}

	case "x":
		m.puzzle.ResetSolved()
		m.solved = true
		m.status = "reset"
		if m.session != nil {
			m.session.RecordReset()
		}

	case "i":
		m.invert = !m.invert
		m.puzzle.SetInvertGestures(m.invert)

	case "n":
		m.personal = !m.personal
	}
	return nil
}

func (m *playModel) mouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		f, i, ok := pickSticker(msg.X, msg.Y)
		if !ok {
			m.puzzle.PointerDown(0, nil)
			m.drag = nil
			return
		}
		m.drag = &drag{face: f, startX: msg.X, startY: msg.Y, lastX: msg.X, lastY: msg.Y}
		m.puzzle.PointerDown(0, stickerHit(f, i, m.puzzle.Spacing()))

	case tea.MouseActionMotion:
		if m.drag == nil {
			return
		}
		d := dragDelta(m.drag.face, msg.X-m.drag.lastX, msg.Y-m.drag.lastY, m.puzzle.Spacing())
		m.drag.lastX, m.drag.lastY = msg.X, msg.Y
		m.puzzle.PointerMoveWorld(0, d)

	case tea.MouseActionRelease:
		m.puzzle.PointerUp(0)
		m.drag = nil
	}
}

// checkShuffle records a finished shuffle as the session scramble.
func (m *playModel) checkShuffle() {
	if m.shuffle == nil || !m.shuffle.Resolved() {
		return
	}
	job := m.shuffle
	m.shuffle = nil
	if err := job.Err(); err != nil {
		m.status = "shuffle cancelled"
		return
	}
	m.status = "scramble: " + notation.Condense(job.Moves())
	if m.session != nil {
		if err := m.session.RecordShuffle(job.Moves()); err != nil {
			m.err = err
		}
	}
}

func (m *playModel) quit() {
	m.quitting = true
	m.puzzle.PointerCancel()
	if m.session != nil {
		if err := m.session.End(); err != nil {
			m.log.Printf("end session: %v", err)
		}
	}
	if m.journal != nil {
		if err := m.journal.Close(); err != nil {
			m.log.Printf("close journal: %v", err)
		}
	}
}

func (m *playModel) View() string {
	if m.quitting {
		msg := "Goodbye!\n"
		if m.session != nil {
			msg += fmt.Sprintf("Session %s: %d turns\n", m.session.SessionID(), m.session.TurnCount())
		}
		if m.journal != nil {
			msg += fmt.Sprintf("Journal saved to: %s\n", m.journal.Path())
		}
		return msg
	}

	var b strings.Builder

	// The net starts at row netTop; keep the header at that height.
	b.WriteString(titleStyle.Render("twisty"))
	b.WriteString("\n\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	b.WriteString(renderNet(m.puzzle.Facelets()))
	b.WriteString("\n")

	if mv, k, ok := m.puzzle.Active(); ok {
		b.WriteString(fmt.Sprintf("Turning %s %s\n", m.describe(mv), progressBar(k, 20)))
	} else {
		b.WriteString("\n")
	}

	moves := m.puzzle.Moves()
	b.WriteString(fmt.Sprintf("Moves: %d\n", len(moves)))
	if len(moves) > 0 {
		start := 0
		if len(moves) > 20 {
			start = len(moves) - 20
			b.WriteString("... ")
		}
		b.WriteString(moveStyle.Render(notation.Condense(moves[start:])))
		b.WriteString("\n")
		b.WriteString(statusStyle.Render("Last: " + m.describe(moves[len(moves)-1])))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("rludfb=turn  RLUDFB=reverse  s=shuffle  z=undo  x=reset  i=invert  n=notation  q=quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *playModel) statusLine() string {
	var parts []string
	if m.solved {
		parts = append(parts, solvedStyle.Render("SOLVED"))
	} else {
		parts = append(parts, statusStyle.Render("scrambled"))
	}
	if m.session != nil {
		parts = append(parts, errorStyle.Render("REC "+formatDuration(m.session.Elapsed())))
	}
	if m.invert {
		parts = append(parts, statusStyle.Render("inverted"))
	}
	if m.status != "" {
		parts = append(parts, statusStyle.Render(m.status))
	}
	return strings.Join(parts, "  ")
}

func (m *playModel) describe(mv cube.Move) string {
	if m.personal {
		return notation.DescribeMove(mv)
	}
	return mv.Notation()
}

func progressBar(k float64, width int) string {
	n := int(k * float64(width))
	if n > width {
		n = width
	}
	return "[" + strings.Repeat("#", n) + strings.Repeat(" ", width-n) + "]"
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	p := twisty.New(twisty.FromConfig(cfg), twisty.WithLogger(logger))
	model := newPlayModel(p, cfg, logger)

	if playRecord {
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		stateFile, err := recorder.NewDefaultStateFile()
		if err != nil {
			return fmt.Errorf("failed to load state: %w", err)
		}
		if err := model.record(db, stateFile); err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}
	}

	if playShuffle > 0 {
		n := twisty.ClampShuffle(playShuffle, p.MaxShuffle())
		job, err := p.Shuffle(n, false)
		if err != nil {
			return err
		}
		model.shuffle = job
		model.checkShuffle()
	}

	prog := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("play error: %w", err)
	}
	return nil
}
