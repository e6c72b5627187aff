// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the papergenie CLI: search arXiv,
// summarize the matching papers and write a report with citations.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/papergenie/internal/observability"
	"github.com/pdiddy/papergenie/internal/secrets"
	"github.com/pdiddy/papergenie/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Populated by the root command's PersistentPreRunE.
var (
	cfg     *types.Config
	printer *Printer
)

var rootCmd = &cobra.Command{
	Use:   "papergenie",
	Short: "Summarize arXiv papers for a topic into a cited report",
	Long: `papergenie queries the arXiv Atom feed for a topic, downloads each paper's
PDF, extracts and summarizes its text, and writes a report (DOCX or Markdown)
with a BibTeX citation per paper.

Subcommands: run (full pipeline), search (metadata only), serve (HTTP API).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = c

		noColor, _ := cmd.Flags().GetBool("no-color")
		printer = NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), ResolveColors(noColor))

		logger := observability.NewLogger(cfg.Log, cmd.ErrOrStderr())
		s, err := secrets.Load(secrets.DefaultDir, logger)
		if err != nil {
			return err
		}
		if names := s.Names(); len(names) > 0 {
			logger.Debug().Strs("keys", names).Msg("loaded secrets")
		}
		cfg.Summarize.APIKey = s.APIKey(cfg.Summarize.Backend, cfg.Summarize.APIKey)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./papergenie.yaml or ~/.config/papergenie/papergenie.yaml)")
	pf.String("log-level", "", "log level: trace, debug, info, warn, error")
	pf.String("log-format", "", "log format: console or json")
	pf.Bool("no-color", false, "disable colored output")

	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", pf.Lookup("log-format"))

	setDefaults(viper.GetViper())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("papergenie")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "papergenie"))
		}
	}

	bindEnv(viper.GetViper())

	// A missing config file is fine; defaults and env cover everything.
	_ = viper.ReadInConfig()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if printer == nil {
			printer = NewPrinter(os.Stdout, os.Stderr, ResolveColors(false))
		}
		printer.Error("%v", err)
		os.Exit(1)
	}
}
