package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Spinner marks one running release step.
type Spinner interface {
	SetTitle(title string)
	// Stop ends the step and reports how long it took. Safe to call twice.
	Stop()
}

// Progress starts a Spinner per step.
type Progress interface {
	Spinner(title string) Spinner
}

// stepProgress animates steps on a terminal and prints plain lines otherwise.
type stepProgress struct {
	theme    *Theme
	headless *HeadlessManager
	out      io.Writer
	now      func() time.Time
}

// NewProgress writes step progress to os.Stderr, keeping stdout for the
// release report.
func NewProgress(theme *Theme, hm *HeadlessManager) Progress {
	return newStepProgress(theme, hm, os.Stderr)
}

func newStepProgress(theme *Theme, hm *HeadlessManager, w io.Writer) *stepProgress {
	return &stepProgress{theme: theme, headless: hm, out: w, now: time.Now}
}

// Spinner starts a step. NO_COLOR falls back to plain lines as well.
func (p *stepProgress) Spinner(title string) Spinner {
	if p.headless.IsHeadless() || p.theme.NoColor {
		return startLineSpinner(title, p.out, p.now)
	}
	return startTeaSpinner(p.theme, title, p.out, p.now)
}

// formatElapsed rounds a step duration for display.
func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}

// --- terminal ---

type titleMsg string

type stopMsg struct{}

// stepModel renders "<spinner> title 1.2s" while running and a check mark
// once stopped, so finished steps stay on screen as a list.
type stepModel struct {
	spin     spinner.Model
	mark     lipgloss.Style
	title    string
	started  time.Time
	now      func() time.Time
	finished bool
}

func newStepModel(theme *Theme, title string, now func() time.Time) stepModel {
	s := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Primary))
	return stepModel{
		spin:    s,
		mark:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)),
		title:   title,
		started: now(),
		now:     now,
	}
}

func (m stepModel) Init() tea.Cmd {
	return m.spin.Tick
}

func (m stepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case titleMsg:
		m.title = string(msg)
		return m, nil
	case stopMsg:
		m.finished = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m stepModel) View() string {
	took := formatElapsed(m.now().Sub(m.started))
	if m.finished {
		return fmt.Sprintf("%s %s %s\n", m.mark.Render("✓"), m.title, took)
	}
	return fmt.Sprintf("%s %s %s\n", m.spin.View(), m.title, took)
}

// teaSpinner runs a stepModel in its own bubbletea program.
type teaSpinner struct {
	program *tea.Program
	once    sync.Once
}

// @MX:WARN: [AUTO] the program goroutine lives until Stop; callers must Stop every spinner they start
// @MX:REASON: [AUTO] a leaked spinner keeps redrawing over the next step's output
func startTeaSpinner(theme *Theme, title string, w io.Writer, now func() time.Time) *teaSpinner {
	// No input: the spinner must not steal keystrokes from the step it decorates.
	p := tea.NewProgram(newStepModel(theme, title, now), tea.WithOutput(w), tea.WithInput(nil))
	go func() {
		_, _ = p.Run()
	}()
	return &teaSpinner{program: p}
}

func (s *teaSpinner) SetTitle(title string) {
	s.program.Send(titleMsg(title))
}

func (s *teaSpinner) Stop() {
	s.once.Do(func() {
		s.program.Send(stopMsg{})
		s.program.Wait()
	})
}

// --- plain lines ---

// lineSpinner prints "title..." on start and "title done (1.2s)" on Stop.
type lineSpinner struct {
	out     io.Writer
	now     func() time.Time
	started time.Time
	title   string
	once    sync.Once
}

func startLineSpinner(title string, w io.Writer, now func() time.Time) *lineSpinner {
	s := &lineSpinner{out: w, now: now, started: now(), title: title}
	_, _ = fmt.Fprintf(w, "%s...\n", title)
	return s
}

func (s *lineSpinner) SetTitle(title string) {
	s.title = title
	_, _ = fmt.Fprintf(s.out, "%s...\n", title)
}

func (s *lineSpinner) Stop() {
	s.once.Do(func() {
		_, _ = fmt.Fprintf(s.out, "%s done (%s)\n", s.title, formatElapsed(s.now().Sub(s.started)))
	})
}
