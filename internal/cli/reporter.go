package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/Veraticus/moneyspice/internal/engine"
	"github.com/Veraticus/moneyspice/internal/model"
)

// Reporter prints run progress and implements engine.Reporter.
type Reporter struct {
	writer      io.Writer
	renderer    *Renderer
	progressBar *progressbar.ProgressBar
	showBar     bool
	dryRun      bool
}

// NewReporter creates a reporter. The progress bar is drawn after every
// transaction when showBar is set.
func NewReporter(w io.Writer, renderer *Renderer, showBar bool) *Reporter {
	return &Reporter{
		writer:   w,
		renderer: renderer,
		showBar:  showBar,
	}
}

// RunStarted announces the run.
func (r *Reporter) RunStarted(total int, cfg engine.Config) {
	r.dryRun = cfg.DryRun

	to := "today"
	if cfg.ToDate != nil {
		to = cfg.ToDate.Format(time.DateOnly)
	}
	r.println(FormatTitle(fmt.Sprintf("Found %d uncategorized transactions", total)))
	r.println(SubtleStyle.Render(fmt.Sprintf("Date range: %s to %s", cfg.FromDate.Format(time.DateOnly), to)))
	if cfg.DryRun {
		r.println(FormatInfo("DRY RUN: no changes will be made"))
	}
	if cfg.TestMode {
		r.println(FormatInfo("TEST MODE: one transaction will be skipped automatically"))
	}

	if r.showBar {
		r.initProgressBar(total)
	}
}

// TransactionStarted draws the transaction header.
func (r *Reporter) TransactionStarted(index, total int, txn model.Transaction) {
	r.renderer.Transaction(index, total, txn)
}

// TransactionFinished reports the outcome and advances the progress bar.
func (r *Reporter) TransactionFinished(_ model.Transaction, outcome model.SelectionOutcome, err error) {
	r.println(FormatOutcome(outcome, r.dryRun, err))
	if r.progressBar != nil && outcome.Kind != model.OutcomeQuit {
		if err := r.progressBar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
		r.println("")
	}
}

// RunFinished prints the summary.
func (r *Reporter) RunFinished(stats engine.Stats) {
	r.println("")
	r.renderer.Summary(stats)
}

func (r *Reporter) initProgressBar(total int) {
	r.progressBar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Categorizing...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func (r *Reporter) println(s string) {
	if _, err := fmt.Fprintln(r.writer, s); err != nil {
		slog.Warn("Failed to write to terminal", "error", err)
	}
}
