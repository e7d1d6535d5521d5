// Package crawl walks the archive listing pages of a site and feeds every
// article it finds into a feed.Merger.
//
// Traversal is iterative: a Session owns the frontier, its visited set and
// the merger, and each page is processed to completion before the next is
// taken off the frontier, in the same order a recursive walk would use.
// Only links whose raw href starts with the archive prefix are followed.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/archivefeed/core"
	"github.com/gaurav-prasanna/archivefeed/core/extract"
	"github.com/gaurav-prasanna/archivefeed/core/feed"
	"github.com/gaurav-prasanna/archivefeed/core/fetch"
)

// DefaultArchivePrefix is the href prefix of archive listing links.
const DefaultArchivePrefix = "archives"

// Options tune a Crawler.
type Options struct {
	ArchivePrefix string
	MaxPages      int         // 0 means unbounded
	Robots        *RobotsGate // nil disables robots.txt checks
}

// Stats summarises a crawl. DeadPages counts archive links that answered
// with a non-2xx status.
type Stats struct {
	Pages     int
	DeadPages int
	Added     int
	Updated   int
	Skipped   int
}

// Crawler scrapes archive pages.
type Crawler struct {
	fetcher    core.Fetcher
	normalizer core.PageNormalizer
	extractor  core.ArticleExtractor
	opts       Options
	log        *slog.Logger
}

// New creates a Crawler.
func New(fetcher core.Fetcher, normalizer core.PageNormalizer, extractor core.ArticleExtractor, opts Options, log *slog.Logger) *Crawler {
	if opts.ArchivePrefix == "" {
		opts.ArchivePrefix = DefaultArchivePrefix
	}
	return &Crawler{
		fetcher:    fetcher,
		normalizer: normalizer,
		extractor:  extractor,
		opts:       opts,
		log:        log,
	}
}

// Session is the state of one crawl.
type Session struct {
	Merger   *feed.Merger
	Frontier *Frontier
	Stats    Stats
}

// Crawl visits startURL and every archive page reachable from it, depth
// first, adding or updating entries in merger. Archive pages that answer
// with a non-2xx status are skipped; a transport failure or a malformed
// date aborts the crawl.
func (c *Crawler) Crawl(ctx context.Context, startURL string, merger *feed.Merger) (Stats, error) {
	s := &Session{Merger: merger, Frontier: NewFrontier()}
	s.Frontier.Push(NormalizeURL(startURL))

	for {
		if c.opts.MaxPages > 0 && s.Stats.Pages+s.Stats.DeadPages >= c.opts.MaxPages {
			if s.Frontier.Pending() > 0 {
				c.log.Warn("page limit reached", "max_pages", c.opts.MaxPages, "pending", s.Frontier.Pending())
			}
			break
		}
		if err := ctx.Err(); err != nil {
			return s.Stats, err
		}

		pageURL, ok := s.Frontier.Next()
		if !ok {
			break
		}
		if c.opts.Robots != nil && !c.opts.Robots.Allowed(ctx, pageURL) {
			c.log.Info("disallowed by robots.txt", "url", pageURL)
			continue
		}
		if err := c.crawlPage(ctx, s, pageURL); err != nil {
			return s.Stats, err
		}
	}
	return s.Stats, nil
}

func (c *Crawler) crawlPage(ctx context.Context, s *Session, pageURL string) error {
	c.log.Debug("fetching page", "url", pageURL)
	result, err := c.fetcher.Fetch(ctx, pageURL)
	var statusErr *fetch.StatusError
	if errors.As(err, &statusErr) {
		c.log.Warn("skipping dead archive page", "url", pageURL, "status", statusErr.StatusCode)
		s.Stats.DeadPages++
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	s.Stats.Pages++

	base, err := url.Parse(pageURL)
	if err != nil {
		return fmt.Errorf("parsing page URL: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(result.HTML))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", pageURL, err)
	}

	c.normalizer.Normalize(doc, base.Hostname())

	var articleErr error
	c.extractor.Articles(doc).EachWithBreak(func(_ int, article *goquery.Selection) bool {
		articleErr = c.processArticle(s, base, article)
		return articleErr == nil
	})
	if articleErr != nil {
		return articleErr
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !IsArchiveLink(href, c.opts.ArchivePrefix) {
			return
		}
		if next := resolveURL(href, base); next != "" {
			links = append(links, NormalizeURL(next))
		}
	})
	s.Frontier.Push(links...)
	return nil
}

// processArticle resolves the title first; an article whose title matches
// a known entry is treated as an update before the date is checked.
func (c *Crawler) processArticle(s *Session, base *url.URL, article *goquery.Selection) error {
	title, href := c.extractor.TitleAndLink(article)
	var link string
	if href != "" {
		link = resolveURL(href, base)
	}

	if title == "" {
		if link != "" {
			c.log.Warn("skipping because of missing title", "guid", link)
		} else {
			c.log.Warn("skipping one of the articles because of missing title", "url", base.String())
		}
		s.Stats.Skipped++
		return nil
	}
	if _, ok := s.Merger.Lookup(title); ok {
		c.log.Info("updating existing entry", "title", title)
	}

	dateText, ok := c.extractor.PublishDate(article)
	if !ok {
		c.log.Warn("skipping because no published date", "title", title)
		s.Stats.Skipped++
		return nil
	}
	published, err := extract.ParseDate(dateText)
	if err != nil {
		return fmt.Errorf("article %q on %s: %w", title, base.String(), err)
	}

	description := c.extractor.Description(article)
	if description == "" {
		c.log.Warn("skipping because no description", "title", title)
		s.Stats.Skipped++
		return nil
	}

	updated := s.Merger.Upsert(core.Article{
		Title:       title,
		Link:        link,
		Published:   published,
		Description: description,
	})
	if updated {
		s.Stats.Updated++
	} else {
		s.Stats.Added++
	}
	return nil
}
