package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/moneyspice/internal/model"
	"github.com/Veraticus/moneyspice/internal/selection"
)

const previewSize = 5

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.transactionView()}

	switch m.state.Mode {
	case selection.ModeShowSuggestions:
		sections = append(sections, m.suggestionsView())
	case selection.ModeSearchInput:
		sections = append(sections, m.searchInputView())
	case selection.ModeSearchResults:
		sections = append(sections, m.resultsView())
	case selection.ModeTerminated:
	}

	if m.state.Notice != "" {
		sections = append(sections, m.theme.StatusWarning.Render("⚠ "+m.state.Notice))
	}
	sections = append(sections, m.help.ShortHelpView(m.keymap.ShortHelp(m.state.Mode)))

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m Model) transactionView() string {
	t := m.txn
	title := "Transaction"
	if m.pos.Total > 0 {
		title = fmt.Sprintf("Transaction %d/%d", m.pos.Index, m.pos.Total)
	}

	amountStyle := m.theme.StatusSuccess
	if t.Amount < 0 {
		amountStyle = m.theme.StatusError
	}

	lines := []string{
		m.theme.Title.Render(title),
		fmt.Sprintf("%s  %s", formatDate(t), amountStyle.Render(t.FormattedAmount())),
		m.theme.Bold.Render(t.Name),
	}
	if t.Purpose != "" {
		lines = append(lines, m.theme.Subtle.Render(t.Purpose))
	}
	if t.AccountName != "" {
		lines = append(lines, m.theme.Subtle.Render(t.AccountName))
	}

	width := max(m.width-4, 20)
	return m.theme.RoundedBox.MaxWidth(width).Render(strings.Join(lines, "\n"))
}

func formatDate(t model.Transaction) string {
	d := t.BookingDate
	if d.IsZero() {
		d = t.ValueDate
	}
	if d.IsZero() {
		return "unknown date"
	}
	return d.Format("02.01.2006")
}

func (m Model) suggestionsView() string {
	suggestions := m.machine.Suggestions()
	if len(suggestions) == 0 {
		return m.theme.Subtle.Render("No suggestions. Press s to search.")
	}

	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Suggestions"))
	for i, s := range suggestions {
		fmt.Fprintf(&b, "\n%s %s", m.theme.Key.Render(choiceKey(i)), s.Category.DisplayPath())
		if s.Candidate.Confidence != nil {
			b.WriteString(m.theme.Subtle.Render(fmt.Sprintf("  %.0f%%", s.Candidate.Score()*100)))
		}
		if s.Candidate.Reasoning != "" {
			b.WriteString("\n  " + m.theme.Subtle.Render(s.Candidate.Reasoning))
		}
	}
	return b.String()
}

func (m Model) searchInputView() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	preview := m.state.Preview
	for _, c := range preview[:min(len(preview), previewSize)] {
		b.WriteString("\n  " + m.theme.Subtle.Render(c.DisplayPath()))
	}
	return b.String()
}

func (m Model) resultsView() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render(fmt.Sprintf("Results for %q", m.state.Query)))
	for i, c := range m.state.Results {
		fmt.Fprintf(&b, "\n%s %s", m.theme.Key.Render(choiceKey(i)), c.DisplayPath())
	}
	return b.String()
}

// choiceKey is the key that selects the i-th listed entry.
func choiceKey(i int) string {
	if i == 9 {
		return "0"
	}
	return fmt.Sprintf("%d", i+1)
}
