package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/papergenie/internal/observability"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Search, summarize and write a report for a topic",
	Long: `Run searches arXiv for the query, then for each paper in feed order fetches
the PDF, extracts its text, summarizes the first characters and formats a
BibTeX citation. The digest is printed and the report is written to
report.path.

A paper whose PDF is missing, too short or fails to summarize is kept with a
sentinel summary; only a feed failure or a report write failure aborts.`,
	Example: `  papergenie run --query "graph neural networks" --count 5
  papergenie run -q "diffusion models" --report Summaries.md`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringP("query", "q", "", "topic to search for (required)")
	runCmd.Flags().IntP("count", "n", defaultCount, fmt.Sprintf("number of papers, 1 to %d", maxCount))
	runCmd.Flags().String("report", "", "report path (.docx or .md); overrides report.path")
	runCmd.Flags().String("summarizer", "", "summarizer backend: huggingface, claude or lead")
	runCmd.Flags().String("extractor", "", "extraction backend: pdf or markitdown")
	_ = runCmd.MarkFlagRequired("query")

	_ = viper.BindPFlag("report.path", runCmd.Flags().Lookup("report"))
	_ = viper.BindPFlag("summarize.backend", runCmd.Flags().Lookup("summarizer"))
	_ = viper.BindPFlag("extract.backend", runCmd.Flags().Lookup("extractor"))

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	query, _ := cmd.Flags().GetString("query")
	count, _ := cmd.Flags().GetInt("count")
	query = strings.TrimSpace(query)
	if query == "" {
		return fmt.Errorf("--query must not be blank")
	}
	if err := validateCount(count); err != nil {
		return err
	}

	logger := observability.NewLogger(cfg.Log, cmd.ErrOrStderr())
	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	printer.Info("Searching arXiv for %q (%d papers)...", query, count)
	res, err := a.pipeline.Run(cmd.Context(), query, count)
	if err != nil {
		return err
	}

	if len(res.Papers) == 0 {
		printer.Warning("No papers matched %q", query)
	} else {
		printer.Header("Digest")
		fmt.Fprint(printer.Out(), res.Digest)
	}
	printer.Stats(res.Stats)
	printer.Success("Report written to %s", res.ReportPath)
	return nil
}
