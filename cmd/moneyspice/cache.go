package main

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/moneyspice/internal/cli"
	"github.com/Veraticus/moneyspice/internal/storage"
)

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached model suggestions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show what the suggestion cache holds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStorage(store)

			stats, err := store.SuggestionStats(cmd.Context())
			if err != nil {
				return err
			}
			writeCacheStats(cmd.OutOrStdout(), store.Path(), stats)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached suggestion",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStorage(store)

			n, err := store.ClearSuggestions(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Cleared %d cached suggestion sets", n)))
			return nil
		},
	})

	return cmd
}

func writeCacheStats(w io.Writer, path string, stats *storage.CacheStats) {
	fmt.Fprintln(w, cli.FormatTitle("Suggestion cache"))
	fmt.Fprintf(w, "Database: %s\n", path)
	fmt.Fprintf(w, "Entries:  %d\n", stats.Entries)
	if stats.Entries == 0 {
		return
	}
	fmt.Fprintf(w, "Oldest:   %s\n", stats.Oldest.Local().Format(time.DateTime))
	fmt.Fprintf(w, "Newest:   %s\n", stats.Newest.Local().Format(time.DateTime))

	models := make([]string, 0, len(stats.Models))
	for m := range stats.Models {
		models = append(models, m)
	}
	slices.Sort(models)
	fmt.Fprintln(w, "Models:")
	for _, m := range models {
		fmt.Fprintf(w, "  %-30s %d\n", m, stats.Models[m])
	}
}
