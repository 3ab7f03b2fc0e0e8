package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/moneyspice/internal/catalog"
	"github.com/Veraticus/moneyspice/internal/cli"
	"github.com/Veraticus/moneyspice/internal/common"
	"github.com/Veraticus/moneyspice/internal/config"
	"github.com/Veraticus/moneyspice/internal/moneymoney"
	"github.com/Veraticus/moneyspice/internal/search"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Inspect the MoneyMoney category catalog",
		Long:  `List, search and export the category hierarchy used for suggestions.`,
	}

	cmd.PersistentFlags().String("from-file", "", "read the catalog from a YAML or JSON file instead of MoneyMoney")

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(searchCategoriesCmd())
	cmd.AddCommand(exportCategoriesCmd())

	return cmd
}

func loadTree(cmd *cobra.Command) (*catalog.Tree, error) {
	fromFile, _ := cmd.Flags().GetString("from-file")
	raw, err := loadRawCategories(cmd.Context(), fromFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	tree, err := catalog.Build(raw)
	if err != nil {
		return nil, err
	}
	if tree.Len() == 0 {
		return nil, common.ErrNoCategories
	}
	return tree, nil
}

func listCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the category tree",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tree, err := loadTree(cmd)
			if err != nil {
				return err
			}
			depth, _ := cmd.Flags().GetInt("depth")
			writeTree(cmd.OutOrStdout(), tree, depth)
			return nil
		},
	}
	cmd.Flags().Int("depth", 0, "maximum depth to show (0 = all)")
	return cmd
}

// writeTree prints the hierarchy with groups in bold.
func writeTree(w io.Writer, tree *catalog.Tree, depth int) {
	var walk func(id string, level int)
	line := func(name string, level int, group bool) {
		label := name
		if group {
			label = cli.BoldStyle.Render(name + "/")
		}
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", level), label)
	}
	walk = func(id string, level int) {
		if depth > 0 && level >= depth {
			return
		}
		for _, c := range tree.Children(id) {
			line(c.Name, level, c.IsGroup)
			walk(c.ID, level+1)
		}
	}

	for _, root := range tree.Roots() {
		line(root.Name, 0, root.IsGroup)
		walk(root.ID, 1)
	}
}

func searchCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search assignable categories the way the interactive search does",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := loadTree(cmd)
			if err != nil {
				return err
			}

			engine := search.NewEngine(tree, searchConfig(viper.GetViper()))
			results, err := engine.Search(strings.Join(args, " "))
			if err != nil {
				return common.NewUserError(fmt.Sprintf("Type at least %d characters to search", engine.MinQueryLength()), err)
			}

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No matching categories."))
				return nil
			}
			for i, c := range results {
				fmt.Fprintf(out, "%2d. %s\n", i+1, c.DisplayPath())
			}
			return nil
		},
	}
}

func exportCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Save the catalog to a YAML file for offline use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromFile, _ := cmd.Flags().GetString("from-file")
			raw, err := loadRawCategories(cmd.Context(), fromFile)
			if err != nil {
				return fmt.Errorf("failed to load categories: %w", err)
			}
			if _, err := catalog.Build(raw); err != nil {
				return err
			}

			path := config.ExpandPath(args[0])
			if err := moneymoney.SaveCatalogFile(path, raw); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Saved %d categories to %s", len(raw), path)))
			return nil
		},
	}
}
