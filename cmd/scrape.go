package cmd

import (
	"fmt"
	"net/url"

	"github.com/gaurav-prasanna/archivefeed/core/config"
	"github.com/gaurav-prasanna/archivefeed/core/extract"
	"github.com/gaurav-prasanna/archivefeed/core/feed"
	"github.com/gaurav-prasanna/archivefeed/core/fetch"
	"github.com/gaurav-prasanna/archivefeed/core/normalize"
	"github.com/gaurav-prasanna/archivefeed/core/output"
	"github.com/gaurav-prasanna/archivefeed/crawl"
	"github.com/spf13/cobra"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <base_url> <existing_feed_filename>",
	Short: "Crawl the archive and merge new articles into the existing feed",
	Long: `Scrape loads <base_url><existing_feed_filename> as the prior feed, crawls
<base_url> and every archive page linked from it, and writes the merged feed
as RSS 2.0.

Examples:
  archivefeed scrape https://blog.example.com/ index.xml
  archivefeed scrape https://blog.example.com/ index.xml --output feed.xml --max-pages 200`,
	Args: minArgs(2),
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	flags := scrapeCmd.Flags()
	flags.String("output", output.DefaultFeedFile, "Output feed file")
	flags.String("archive-prefix", crawl.DefaultArchivePrefix, "Href prefix of archive listing links")
	flags.Int("max-pages", 1000, "Maximum number of pages to crawl (0 = unbounded)")
	flags.String("user-agent", "", "User-Agent header for requests (default: Go client default)")
	flags.Bool("respect-robots", false, "Skip archive pages disallowed by robots.txt")

	_ = v.BindPFlag(config.KeyOutput, flags.Lookup("output"))
	_ = v.BindPFlag(config.KeyArchivePrefix, flags.Lookup("archive-prefix"))
	_ = v.BindPFlag(config.KeyMaxPages, flags.Lookup("max-pages"))
	_ = v.BindPFlag(config.KeyUserAgent, flags.Lookup("user-agent"))
	_ = v.BindPFlag(config.KeyRespectRobots, flags.Lookup("respect-robots"))
}

func runScrape(cmd *cobra.Command, args []string) error {
	baseURL := args[0]
	feedURL := baseURL + args[1]

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid URL: %s (must include scheme, e.g. https://example.com/)", baseURL)
	}
	ctx := cmd.Context()

	prior, err := feed.Load(ctx, feedURL, cfg.UserAgent)
	if err != nil {
		return err
	}
	merger := feed.NewMerger(prior)
	logger.Info("loaded existing feed", "url", feedURL, "entries", merger.Len())

	fetcher := fetch.New(cfg.UserAgent)
	opts := crawl.Options{
		ArchivePrefix: cfg.ArchivePrefix,
		MaxPages:      cfg.MaxPages,
	}
	if cfg.RespectRobots {
		opts.Robots = crawl.NewRobotsGate(fetcher, cfg.UserAgent, logger)
	}
	crawler := crawl.New(fetcher, normalize.New(), extract.New(), opts, logger)

	stats, err := crawler.Crawl(ctx, baseURL, merger)
	if err != nil {
		return fmt.Errorf("crawl: %w", err)
	}
	logger.Info("crawl finished",
		"pages", stats.Pages,
		"dead_pages", stats.DeadPages,
		"added", stats.Added,
		"updated", stats.Updated,
		"skipped", stats.Skipped,
	)

	canon, err := output.NewCanonicalizer(baseURL)
	if err != nil {
		return err
	}
	canon.Apply(merger.Feed())

	writer, err := output.New("")
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}
	path, err := writer.WriteFeed(cfg.Output, merger.Feed(), merger.Language())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Written: %s\n", path)
	return nil
}
