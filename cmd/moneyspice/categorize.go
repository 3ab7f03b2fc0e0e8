package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/moneyspice/internal/cli"
	"github.com/Veraticus/moneyspice/internal/common"
	"github.com/Veraticus/moneyspice/internal/engine"
	"github.com/Veraticus/moneyspice/internal/tui"
	"github.com/Veraticus/moneyspice/internal/tui/themes"
)

// UI modes.
const (
	uiAuto  = "auto"
	uiTUI   = "tui"
	uiPlain = "plain"
)

func categorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorize",
		Short: "Categorize uncategorized MoneyMoney transactions",
		Long: `Walk through uncategorized transactions one at a time.

For every transaction the language model proposes categories. Press a number
to accept one, s to search the catalog, n to skip or q to stop.

Examples:
  moneyspice categorize                          # last 30 days
  moneyspice categorize --from-date 2025-01-01   # since January
  moneyspice categorize --dry-run                # do not write to MoneyMoney
  moneyspice categorize --test                   # smoke test: one transaction, skipped`,
		RunE: runCategorize,
	}

	cmd.Flags().String("from-date", "", "first booking date, YYYY-MM-DD (default: 30 days ago)")
	cmd.Flags().String("to-date", "", "last booking date, YYYY-MM-DD (default: today)")
	cmd.Flags().Bool("dry-run", false, "preview without writing categories to MoneyMoney")
	cmd.Flags().Bool("test", false, "non-interactive smoke test: skip one transaction and exit")
	cmd.Flags().Bool("no-cache", false, "ask the model again even when suggestions are cached")
	cmd.Flags().String("ui", uiAuto, "interface: auto, tui or plain")

	_ = viper.BindPFlag("ui.mode", cmd.Flags().Lookup("ui"))

	return cmd
}

func runCategorize(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := engineConfig(cmd, viper.GetViper(), time.Now())
	if err != nil {
		return err
	}

	suggester, err := createSuggester()
	if err != nil {
		return common.NewUserError("Language model is not configured", err)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer closeStorage(store)

	interrupts := cli.NewInterruptHandler(os.Stderr)
	ctx = interrupts.HandleInterrupts(ctx, cfg.DryRun)
	defer interrupts.Stop()

	ui, err := newUI(cfg.TestMode, viper.GetString("ui.mode"), os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	defer ui.close()

	e := engine.New(createFinanceApp(), suggester, ui.selector, cfg,
		engine.WithCache(store),
		engine.WithDecisionLog(store),
		engine.WithReporter(ui.reporter),
		engine.WithLogger(slog.Default()))

	stats, err := e.Run(ctx)
	switch {
	case errors.Is(err, engine.ErrNoSuggestions):
		return common.NewUserError("TEST FAILED: no AI suggestions were provided; check the model server and configuration", err)
	case errors.Is(err, common.ErrNoTransactions):
		return common.NewUserError("TEST FAILED: no uncategorized transactions in the selected date range", err)
	case errors.Is(err, common.ErrAppUnavailable):
		return common.NewUserError("MoneyMoney is not available; start it and unlock the database", err)
	case err != nil:
		return fmt.Errorf("categorization failed: %w", err)
	}

	if interrupts.WasInterrupted() {
		slog.Info("Run stopped by signal", "processed", stats.Processed, "categorized", stats.Categorized)
	}
	if cfg.TestMode {
		slog.Info("Test passed: suggestions were provided", "processed", stats.Processed)
	}
	return nil
}

// engineConfig assembles the run configuration from flags and viper.
func engineConfig(cmd *cobra.Command, v *viper.Viper, now time.Time) (engine.Config, error) {
	cfg := engine.DefaultConfig()
	cfg.FromDate = now.AddDate(0, 0, -30)
	cfg.Match = matchConfig(v)
	cfg.Search = searchConfig(v)
	cfg.Selection = selectionConfig(v)

	flags := cmd.Flags()
	if from, _ := flags.GetString("from-date"); from != "" {
		d, err := time.ParseInLocation(time.DateOnly, from, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("%w: --from-date must be YYYY-MM-DD", common.ErrInvalidConfig)
		}
		cfg.FromDate = d
	}
	if to, _ := flags.GetString("to-date"); to != "" {
		d, err := time.ParseInLocation(time.DateOnly, to, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("%w: --to-date must be YYYY-MM-DD", common.ErrInvalidConfig)
		}
		if d.Before(cfg.FromDate) {
			return cfg, fmt.Errorf("%w: --to-date is before --from-date", common.ErrInvalidConfig)
		}
		cfg.ToDate = &d
	}

	cfg.DryRun, _ = flags.GetBool("dry-run")
	cfg.TestMode, _ = flags.GetBool("test")
	noCache, _ := flags.GetBool("no-cache")
	cfg.UseCache = v.GetBool("cache.enabled") && !noCache

	return cfg, nil
}

// sessionUI bundles the selector and reporter for one interface mode.
type sessionUI struct {
	selector engine.Selector
	reporter engine.Reporter
	closer   io.Closer
}

func (u sessionUI) close() {
	if u.closer == nil {
		return
	}
	if err := u.closer.Close(); err != nil {
		slog.Warn("Failed to restore terminal", "error", err)
	}
}

func newUI(testMode bool, mode string, in *os.File, out io.Writer) (sessionUI, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	interactive := cli.IsTerminal(in)

	switch {
	case testMode:
		r := cli.NewRenderer(out, false)
		return sessionUI{selector: cli.NewScriptedSelector("n", r), reporter: cli.NewReporter(out, r, false)}, nil

	case mode == uiTUI || (mode == uiAuto && interactive):
		s := tui.NewSelector(
			tui.WithInput(in),
			tui.WithOutput(out),
			tui.WithTheme(themes.ByName(viper.GetString("ui.theme"))),
		)
		return sessionUI{selector: s, reporter: s}, nil

	case mode == uiPlain && interactive:
		keys, err := cli.NewTerminalKeys(in)
		if err != nil {
			return sessionUI{}, err
		}
		w := cli.NewOutput(out, true)
		r := cli.NewRenderer(w, true)
		return sessionUI{
			selector: cli.NewKeySelector(keys, r),
			reporter: cli.NewReporter(w, r, true),
			closer:   keys,
		}, nil

	case mode == uiPlain || mode == uiAuto:
		r := cli.NewRenderer(out, false)
		return sessionUI{
			selector: cli.NewKeySelector(cli.NewLineKeys(in), r),
			reporter: cli.NewReporter(out, r, false),
		}, nil

	default:
		return sessionUI{}, fmt.Errorf("%w: unknown ui mode %q", common.ErrInvalidConfig, mode)
	}
}
