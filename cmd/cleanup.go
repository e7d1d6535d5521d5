package cmd

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/archivefeed/core/fetch"
	"github.com/gaurav-prasanna/archivefeed/core/normalize"
	"github.com/gaurav-prasanna/archivefeed/core/output"
	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup <hostname> <file1> [file2 ...]",
	Short: "Normalize already-downloaded archive pages in place",
	Long: `Cleanup rewrites relative image sources in each file to scheme-relative
URLs on <hostname> and rewraps legacy "first image" paragraphs. A file is
only rewritten when something changed.

Example:
  archivefeed cleanup blog.example.com archives/*.html`,
	Args: minArgs(2),
	RunE: runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	hostname := args[0]

	fetcher := fetch.NewFileFetcher()
	normalizer := normalize.New()
	writer, err := output.New("")
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	for _, path := range args[1:] {
		result, err := fetcher.Fetch(cmd.Context(), path)
		if err != nil {
			return err
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(result.HTML))
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}

		if !normalizer.Normalize(doc, hostname) {
			logger.Debug("nothing to clean up", "file", path)
			continue
		}
		if err := writer.RewritePage(path, doc); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "cleaned up", path)
	}
	return nil
}
