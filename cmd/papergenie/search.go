package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/papergenie/internal/feed"
	"github.com/pdiddy/papergenie/internal/httputil"
	"github.com/pdiddy/papergenie/internal/observability"
	"github.com/pdiddy/papergenie/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "List arXiv papers for a query without summarizing them",
	Long: `Search queries the arXiv Atom feed and prints the matching papers in feed
order with the citation key each would get in a report. Nothing is fetched or
written.`,
	Example: `  papergenie search -q "reinforcement learning" -n 10
  papergenie search -q "protein folding" --format csl > refs.yaml`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringP("query", "q", "", "topic to search for (required)")
	searchCmd.Flags().IntP("count", "n", defaultCount, fmt.Sprintf("number of papers, 1 to %d", maxCount))
	searchCmd.Flags().String("format", "table", "output format: table, json or csl")
	_ = searchCmd.MarkFlagRequired("query")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	query, _ := cmd.Flags().GetString("query")
	count, _ := cmd.Flags().GetInt("count")
	format, _ := cmd.Flags().GetString("format")
	if err := validateCount(count); err != nil {
		return err
	}
	render, err := searchRenderer(format)
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg.Log, cmd.ErrOrStderr())
	client := feed.NewClient(cfg.Feed, httputil.New(cfg.HTTP), logger)

	papers, err := client.Search(cmd.Context(), strings.TrimSpace(query), count)
	if err != nil {
		return err
	}
	return render(papers, printer.Out())
}

func searchRenderer(format string) (func([]*types.Paper, io.Writer) error, error) {
	switch strings.ToLower(format) {
	case "table", "":
		return func(p []*types.Paper, w io.Writer) error {
			feed.FormatTable(p, w)
			return nil
		}, nil
	case "json":
		return feed.FormatJSON, nil
	case "csl", "yaml":
		return feed.FormatCSL, nil
	}
	return nil, fmt.Errorf("unknown format %q (want table, json or csl)", format)
}
