package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/moneyspice/internal/engine"
	"github.com/Veraticus/moneyspice/internal/model"
	"github.com/Veraticus/moneyspice/internal/selection"
	"github.com/Veraticus/moneyspice/internal/tui/themes"
)

// Selector runs one bubbletea program per transaction. It also implements
// engine.Reporter to learn each transaction's position and to print results
// between programs.
type Selector struct {
	input  io.Reader
	output io.Writer
	theme  themes.Theme
	pos    Position
	dryRun bool
	opts   []tea.ProgramOption
	mu     sync.Mutex
}

// Option configures a Selector.
type Option func(*Selector)

// WithInput sets the key input, os.Stdin by default.
func WithInput(r io.Reader) Option {
	return func(s *Selector) { s.input = r }
}

// WithOutput sets the output, os.Stdout by default.
func WithOutput(w io.Writer) Option {
	return func(s *Selector) { s.output = w }
}

// WithTheme sets the theme.
func WithTheme(t themes.Theme) Option {
	return func(s *Selector) { s.theme = t }
}

// WithProgramOptions passes extra options to every program.
func WithProgramOptions(opts ...tea.ProgramOption) Option {
	return func(s *Selector) { s.opts = append(s.opts, opts...) }
}

// NewSelector creates a TUI selector.
func NewSelector(opts ...Option) *Selector {
	s := &Selector{
		input:  os.Stdin,
		output: os.Stdout,
		theme:  themes.Default,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select runs the session program until it produces an outcome. A canceled
// context ends the session with Quit.
func (s *Selector) Select(ctx context.Context, txn model.Transaction, m *selection.Machine) (model.SelectionOutcome, error) {
	if ctx.Err() != nil {
		return model.Quit(), nil
	}

	s.mu.Lock()
	pos := s.pos
	s.mu.Unlock()

	opts := append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithInput(s.input),
		tea.WithOutput(s.output),
	}, s.opts...)

	final, err := tea.NewProgram(NewModel(m, txn, pos, s.theme), opts...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || ctx.Err() != nil {
			return model.Quit(), nil
		}
		return model.SelectionOutcome{}, fmt.Errorf("interactive selector failed: %w", err)
	}

	fm, ok := final.(Model)
	if !ok {
		return model.Quit(), nil
	}
	return fm.Outcome(), nil
}

// RunStarted implements engine.Reporter.
func (s *Selector) RunStarted(total int, cfg engine.Config) {
	s.mu.Lock()
	s.dryRun = cfg.DryRun
	s.pos = Position{Total: total}
	s.mu.Unlock()

	header := fmt.Sprintf("Found %d uncategorized transactions", total)
	if cfg.DryRun {
		header += " (dry run)"
	}
	s.println(s.theme.Title.Render("💰 " + header))
}

// TransactionStarted implements engine.Reporter.
func (s *Selector) TransactionStarted(index, total int, _ model.Transaction) {
	s.mu.Lock()
	s.pos = Position{Index: index, Total: total}
	s.mu.Unlock()
}

// TransactionFinished implements engine.Reporter.
func (s *Selector) TransactionFinished(txn model.Transaction, outcome model.SelectionOutcome, err error) {
	s.mu.Lock()
	dryRun := s.dryRun
	s.mu.Unlock()

	name := s.theme.Bold.Render(txn.Name)
	switch {
	case err != nil:
		s.println(s.theme.StatusError.Render("✗ ") + name + ": " + err.Error())
	case outcome.Kind == model.OutcomeAccepted && dryRun:
		s.println(s.theme.Subtle.Render("~ ") + name + " → " + outcome.Category.DisplayPath() + s.theme.Subtle.Render(" (dry run)"))
	case outcome.Kind == model.OutcomeAccepted:
		s.println(s.theme.StatusSuccess.Render("✓ ") + name + " → " + outcome.Category.DisplayPath())
	case outcome.Kind == model.OutcomeSkipped:
		s.println(s.theme.StatusWarning.Render("↷ ") + name + s.theme.Subtle.Render(" skipped"))
	}
}

// RunFinished implements engine.Reporter.
func (s *Selector) RunFinished(stats engine.Stats) {
	rateStyle := s.theme.StatusError
	switch rate := stats.SuccessRate(); {
	case rate >= 80:
		rateStyle = s.theme.StatusSuccess
	case rate >= 60:
		rateStyle = s.theme.StatusWarning
	}

	summary := fmt.Sprintf("Processed %d · categorized %d · skipped %d · errors %d",
		stats.Processed, stats.Categorized, stats.Skipped, stats.Errors)
	if stats.Processed > 0 {
		summary += " · " + rateStyle.Render(fmt.Sprintf("%.1f%%", stats.SuccessRate()))
	}
	s.println(s.theme.RoundedBox.Render(summary))
}

func (s *Selector) println(line string) {
	if _, err := fmt.Fprintln(s.output, line); err != nil {
		slog.Warn("Failed to write to terminal", "error", err)
	}
}
