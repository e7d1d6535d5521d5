// Package cmd implements the CLI commands for archivefeed using Cobra.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/gaurav-prasanna/archivefeed/core/config"
	"github.com/gaurav-prasanna/archivefeed/core/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	flagConfig   string
	flagLogLevel string

	v      = viper.New()
	cfg    *config.Config
	logger = logging.New(os.Stderr, "info")
)

var rootCmd = &cobra.Command{
	Use:   "archivefeed",
	Short: "archivefeed — turn a static blog archive into an importable RSS feed",
	Long: `archivefeed scrapes the archive listing pages of a static blog, merges the
articles it finds into the blog's existing feed, and writes an RSS 2.0 file
whose image and link URLs survive import into a newsletter platform.

Usage:
  archivefeed scrape <base_url> <existing_feed_filename> [flags]
  archivefeed cleanup <hostname> <file1> [file2 ...]`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(v, flagConfig)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = logging.New(os.Stderr, cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (YAML, TOML or JSON)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	_ = v.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
}

// minArgs rejects invocations with fewer than n positional arguments and
// reports the command's usage line.
func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return fmt.Errorf("usage: %s", cmd.UseLine())
		}
		return nil
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
