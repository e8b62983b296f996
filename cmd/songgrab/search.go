package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/songgrab/internal/search"
	"github.com/pdiddy/songgrab/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search Bilibili and list download candidates",
	Long: `Search runs a single video search and prints the candidates with their
length and whether they fit under the duration ceiling. Nothing is
downloaded. Use it to check what fetch would try for a title.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

var searchFlagKeys = map[string]string{
	"page":         "search.page",
	"page-size":    "search.page_size",
	"max-duration": "batch.max_duration",
}

func init() {
	d := types.DefaultConfig()
	searchCmd.Flags().Int("page", d.Search.Page, "result page")
	searchCmd.Flags().Int("page-size", d.Search.PageSize, "results per page")
	searchCmd.Flags().Int("max-duration", d.Batch.MaxDuration, "duration ceiling in seconds")
	searchCmd.Flags().Bool("json", false, "output candidates as JSON")
	searchCmd.Flags().Bool("fit-only", false, "list only candidates under the ceiling")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()
	if err := bindFlags(v, cmd.Flags(), searchFlagKeys); err != nil {
		return err
	}
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}

	client, err := newSearchClient(cmd, cfg)
	if err != nil {
		return err
	}
	if err := client.WarmUp(cmd.Context()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not fetch homepage cookies: %v\n", err)
	}

	candidates, err := client.Search(cmd.Context(), args[0], cfg.Search.Page, cfg.Search.PageSize)
	if err != nil {
		return fmt.Errorf("search failed for %q: %w", args[0], err)
	}
	if fitOnly, _ := cmd.Flags().GetBool("fit-only"); fitOnly {
		candidates = search.Filter(candidates, cfg.Batch.MaxDuration)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return search.FormatJSON(candidates, cmd.OutOrStdout())
	}
	search.FormatTable(candidates, cfg.Batch.MaxDuration, cmd.OutOrStdout())
	return nil
}
