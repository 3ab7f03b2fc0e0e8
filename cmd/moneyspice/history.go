package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/moneyspice/internal/cli"
	"github.com/Veraticus/moneyspice/internal/model"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent categorization decisions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}

			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStorage(store)

			decisions, err := store.RecentDecisions(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(decisions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No decisions recorded yet."))
				return nil
			}
			return writeHistory(cmd.OutOrStdout(), decisions)
		},
	}

	cmd.Flags().Int("limit", 20, "number of decisions to show")
	return cmd
}

func writeHistory(w io.Writer, decisions []model.Decision) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tTRANSACTION\tOUTCOME\tCATEGORY\tSTAGE")
	for _, d := range decisions {
		outcome := d.Outcome.String()
		if d.DryRun {
			outcome += " (dry run)"
		}
		stage := "-"
		if d.Stage != 0 {
			stage = d.Stage.String()
		} else if d.Outcome == model.OutcomeAccepted {
			stage = "search"
		}
		category := d.CategoryPath
		if category == "" {
			category = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			d.DecidedAt.Local().Format(time.DateTime), d.TransactionID, outcome, category, stage)
	}
	return tw.Flush()
}
