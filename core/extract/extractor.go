// Package extract implements the ArticleExtractor interface.
// It reads article entries out of an archive listing page using the
// fixed markup of the archive export:
//
//	div#main-content > div.article
//	  .index-title > a > span          title and link
//	  div.article-info > div.timestamp  publish date ("Mon DD, YYYY")
//	  div.article-summary               description HTML
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/gaurav-prasanna/archivefeed/core/normalize"
)

var (
	titleLinkSelector = cascadia.MustCompile(".index-title > a:nth-child(1)")
	titleSelector     = cascadia.MustCompile("span:nth-child(1)")
	timestampSelector = cascadia.MustCompile("div.article-info > div.timestamp > a:nth-child(1)")
)

// ArchiveExtractor reads articles from archive listing pages.
type ArchiveExtractor struct{}

// New creates an ArchiveExtractor.
func New() *ArchiveExtractor {
	return &ArchiveExtractor{}
}

// Articles returns every article block on the page.
func (e *ArchiveExtractor) Articles(doc *goquery.Document) *goquery.Selection {
	return doc.FindMatcher(normalize.ArticleSelector)
}

// TitleAndLink returns the article title and the raw (possibly relative)
// href of its title anchor. Either may be empty.
func (e *ArchiveExtractor) TitleAndLink(article *goquery.Selection) (string, string) {
	anchor := article.FindMatcher(titleLinkSelector).First()
	if anchor.Length() == 0 {
		return "", ""
	}
	var title string
	if span := anchor.FindMatcher(titleSelector).First(); span.Length() > 0 {
		title = span.Text()
	}
	href, _ := anchor.Attr("href")
	return title, href
}

// PublishDate returns the raw timestamp text of the article.
func (e *ArchiveExtractor) PublishDate(article *goquery.Selection) (string, bool) {
	ts := article.FindMatcher(timestampSelector).First()
	if ts.Length() == 0 {
		return "", false
	}
	return ts.Text(), true
}

// Description serializes every child of the summary block and strips
// invisible characters. It returns "" when the article has no summary.
func (e *ArchiveExtractor) Description(article *goquery.Selection) string {
	summary := article.FindMatcher(normalize.SummarySelector).First()
	if summary.Length() == 0 {
		return ""
	}
	var b strings.Builder
	summary.Contents().Each(func(_ int, child *goquery.Selection) {
		html, err := goquery.OuterHtml(child)
		if err != nil {
			return
		}
		b.WriteString(html)
	})
	return StripInvisible(b.String())
}
