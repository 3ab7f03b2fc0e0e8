package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/moneyspice/internal/engine"
	"github.com/Veraticus/moneyspice/internal/model"
	"github.com/Veraticus/moneyspice/internal/selection"
)

const (
	previewSize = 3
	rule        = "═"
)

// crlfWriter translates line feeds for terminals in raw mode, which do not
// return the carriage on their own.
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	s := strings.ReplaceAll(string(p), "\n", "\r\n")
	if _, err := io.WriteString(c.w, s); err != nil {
		return 0, err
	}
	return len(p), nil
}

// NewOutput returns w, adapted for a terminal in raw mode when raw is set.
func NewOutput(w io.Writer, raw bool) io.Writer {
	if raw {
		return crlfWriter{w: w}
	}
	return w
}

// Renderer draws selection sessions. With inline set the search line is
// rewritten in place on every keystroke; otherwise only changes of mode or
// notice are printed.
type Renderer struct {
	w      io.Writer
	last   *selection.State
	inline bool
}

// NewRenderer creates a renderer writing to w.
func NewRenderer(w io.Writer, inline bool) *Renderer {
	return &Renderer{w: w, inline: inline}
}

// Reset forgets the previously drawn state; call it when a new session starts.
func (r *Renderer) Reset() {
	r.last = nil
}

// Transaction draws the header for one transaction.
func (r *Renderer) Transaction(index, total int, txn model.Transaction) {
	r.printf("\n%s\n%s\n", TitleStyle.Render(strings.Repeat(rule, 60)),
		BoldStyle.Render(fmt.Sprintf("Transaction %d/%d", index, total)))
	r.printf("%s\n", RenderBox("Transaction Details", FormatTransaction(txn)))
}

// State draws a selection state.
func (r *Renderer) State(s selection.State, suggestions []model.ValidatedSuggestion) {
	prev := r.last
	r.last = &s

	if s.Mode == selection.ModeSearchInput && r.inline {
		if prev == nil || prev.Mode != selection.ModeSearchInput {
			r.printf("\n%s\n", FormatKey("Enter", "search")+"  "+FormatKey("Esc", "back")+"  "+FormatKey("q", "quit (empty query)"))
		}
		if s.Notice != "" && (prev == nil || prev.Notice != s.Notice) {
			r.printf("\r\x1b[K%s\n", FormatWarning(s.Notice))
		}
		r.printf("\r\x1b[K%s%s%s", FormatPrompt(SearchIcon+" Search"), s.Query, formatPreview(s.Preview))
		return
	}

	if sameScreen(prev, s) {
		return
	}
	if prev != nil && prev.Mode == selection.ModeSearchInput && r.inline {
		r.printf("\n")
	}

	switch s.Mode {
	case selection.ModeShowSuggestions:
		r.printf("%s\n", FormatSuggestions(suggestions))
		if s.Notice != "" {
			r.printf("%s\n", FormatWarning(s.Notice))
		}
		options := []string{FormatKey("s", "search"), FormatKey("n", "skip"), FormatKey("q", "quit")}
		if len(suggestions) > 0 {
			options = append([]string{FormatKey(fmt.Sprintf("1-%d", min(len(suggestions), 9)), "accept")}, options...)
		}
		r.printf("%s\n", strings.Join(options, "  "))
	case selection.ModeSearchInput:
		if s.Notice != "" {
			r.printf("%s\n", FormatWarning(s.Notice))
		}
		r.printf("%s\n", FormatPrompt(SearchIcon+" Search (empty line with q quits)"))
	case selection.ModeSearchResults:
		r.printf("%s\n", FormatResults(s.Query, s.Results))
		r.printf("%s\n", strings.Join([]string{
			FormatKey(fmt.Sprintf("1-%s", choiceKey(min(len(s.Results), 10)-1)), "accept"),
			FormatKey("b", "new search"),
			FormatKey("r", "back to suggestions"),
			FormatKey("q", "quit"),
		}, "  "))
	case selection.ModeTerminated:
	}
}

func sameScreen(prev *selection.State, s selection.State) bool {
	if prev == nil || prev.Mode != s.Mode || prev.Notice != s.Notice {
		return false
	}
	return s.Mode != selection.ModeSearchResults || prev.Query == s.Query
}

// Summary draws the end-of-run summary.
func (r *Renderer) Summary(stats engine.Stats) {
	r.printf("%s\n", RenderBox(ChartIcon+" Summary", FormatSummary(stats)))
}

func (r *Renderer) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(r.w, format, args...); err != nil {
		slog.Warn("Failed to write to terminal", "error", err)
	}
}

// FormatTransaction lists the fields of a transaction that help categorize it.
func FormatTransaction(txn model.Transaction) string {
	var b strings.Builder
	date := txn.BookingDate
	if date.IsZero() {
		date = txn.ValueDate
	}
	amount := txn.FormattedAmount()
	if txn.Amount < 0 {
		amount = ErrorStyle.Render(amount)
	} else {
		amount = SuccessStyle.Render(amount)
	}

	fmt.Fprintf(&b, "Date:    %s\n", formatDate(date))
	fmt.Fprintf(&b, "Amount:  %s\n", amount)
	fmt.Fprintf(&b, "Name:    %s", BoldStyle.Render(txn.Name))
	if txn.AccountName != "" {
		fmt.Fprintf(&b, "\nAccount: %s", txn.AccountName)
	}
	if txn.Purpose != "" {
		fmt.Fprintf(&b, "\nPurpose: %s", txn.Purpose)
	}
	if txn.BookingText != "" {
		fmt.Fprintf(&b, "\nType:    %s", txn.BookingText)
	}
	if txn.Comment != "" {
		fmt.Fprintf(&b, "\nComment: %s", txn.Comment)
	}
	return b.String()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Format("02.01.2006")
}

// FormatSuggestions lists a suggestion set with its selection keys.
func FormatSuggestions(suggestions []model.ValidatedSuggestion) string {
	if len(suggestions) == 0 {
		return RobotIcon + " " + SubtleStyle.Render("No suggestions available.")
	}

	var b strings.Builder
	b.WriteString(RobotIcon + " " + BoldStyle.Render("Suggestions:"))
	for i, s := range suggestions {
		fmt.Fprintf(&b, "\n  %s %s", KeyStyle.Render(choiceKey(i)+"."), s.Category.DisplayPath())
		if s.Candidate.Confidence != nil {
			b.WriteString(" " + confidenceStyle(s.Candidate.Score()).Render(fmt.Sprintf("(%.0f%%)", s.Candidate.Score()*100)))
		}
		if s.Candidate.Reasoning != "" {
			fmt.Fprintf(&b, "\n     %s", SubtleStyle.Render(s.Candidate.Reasoning))
		}
	}
	return b.String()
}

// FormatResults lists search results with their selection keys; the tenth
// result is selected with 0.
func FormatResults(query string, results []model.Category) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", SearchIcon, BoldStyle.Render(fmt.Sprintf("Results for %q:", query)))
	for i, c := range results {
		fmt.Fprintf(&b, "\n  %s %s", KeyStyle.Render(choiceKey(i)+"."), c.DisplayPath())
	}
	return b.String()
}

func choiceKey(i int) string {
	if i == 9 {
		return "0"
	}
	return fmt.Sprintf("%d", i+1)
}

func formatPreview(preview []model.Category) string {
	if len(preview) == 0 {
		return ""
	}
	names := make([]string, 0, previewSize)
	for _, c := range preview[:min(len(preview), previewSize)] {
		names = append(names, c.Name)
	}
	return "  " + SubtleStyle.Render("→ "+strings.Join(names, ", "))
}

func confidenceStyle(score float64) lipgloss.Style {
	switch {
	case score >= 0.8:
		return SuccessStyle
	case score >= 0.5:
		return WarningStyle
	default:
		return SubtleStyle
	}
}

// FormatOutcome describes what happened to a transaction.
func FormatOutcome(outcome model.SelectionOutcome, dryRun bool, err error) string {
	switch {
	case err != nil:
		return FormatError(fmt.Sprintf("Failed to apply category: %v", err))
	case outcome.Kind == model.OutcomeAccepted && dryRun:
		return FormatInfo("Dry run: would categorize as " + outcome.Category.DisplayPath())
	case outcome.Kind == model.OutcomeAccepted:
		return FormatSuccess("Categorized as " + outcome.Category.DisplayPath())
	case outcome.Kind == model.OutcomeSkipped:
		return WarningStyle.Render(SkipIcon + "  Skipped")
	default:
		return SubtleStyle.Render("Exiting...")
	}
}

// FormatSummary renders run statistics. The success rate is green from 80%,
// yellow from 60% and red below.
func FormatSummary(stats engine.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Transactions processed: %s\n", BoldStyle.Render(fmt.Sprint(stats.Processed)))
	fmt.Fprintf(&b, "Categorized:            %s\n", SuccessStyle.Render(fmt.Sprint(stats.Categorized)))
	fmt.Fprintf(&b, "Skipped:                %s\n", WarningStyle.Render(fmt.Sprint(stats.Skipped)))
	fmt.Fprintf(&b, "Errors:                 %s", ErrorStyle.Render(fmt.Sprint(stats.Errors)))

	if stats.Processed > 0 {
		rate := stats.SuccessRate()
		style, icon := ErrorStyle, "📈"
		switch {
		case rate >= 80:
			style, icon = SuccessStyle, "🎉"
		case rate >= 60:
			style, icon = WarningStyle, "👍"
		}
		fmt.Fprintf(&b, "\n%s Success rate:         %s", icon, style.Render(fmt.Sprintf("%.1f%%", rate)))
	}
	if stats.Duration > 0 {
		fmt.Fprintf(&b, "\nTime taken:             %s", stats.Duration.Round(time.Second))
	}
	return b.String()
}
