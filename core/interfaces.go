// Package core defines the pipeline interfaces for archivefeed.
// Each stage (fetch, normalize, extract) is a small interface so the
// crawler and the cleanup command can share the same implementations.
package core

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// FetchResult holds the raw HTML and response metadata from a fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	HTML       string
}

// Article is one entry scraped from an archive page.
// Title is the merge key; Link doubles as the guid.
type Article struct {
	Title       string
	Link        string
	Published   time.Time
	Description string
}

// Fetcher retrieves raw HTML from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// PageNormalizer rewrites a parsed page in place and reports whether
// anything changed.
type PageNormalizer interface {
	Normalize(doc *goquery.Document, hostname string) bool
}

// ArticleExtractor locates article blocks on an archive page and reads
// their fields.
type ArticleExtractor interface {
	Articles(doc *goquery.Document) *goquery.Selection
	TitleAndLink(article *goquery.Selection) (title string, href string)
	PublishDate(article *goquery.Selection) (text string, found bool)
	Description(article *goquery.Selection) string
}
