// Package normalize implements the PageNormalizer interface.
// It repairs two quirks of the legacy archive export so the pages import
// cleanly elsewhere: relative image sources become scheme-relative URLs on
// the site's host, and a "first image" paragraph is rewrapped in the
// graphic container markup the rest of the archive uses.
package normalize

import (
	"fmt"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Selectors for the archive page structure.
var (
	imageSelector      = cascadia.MustCompile("span, img")
	ArticleSelector    = cascadia.MustCompile("div#main-content > div.article")
	SummarySelector    = cascadia.MustCompile("div.article-summary")
	firstImageSelector = cascadia.MustCompile("img.first")
)

// sourceAttrs are the attributes that may carry an image location.
var sourceAttrs = []string{"src", "data-img-src", "data-img-src-hr"}

const firstImageWrapper = `<div class="first graphic-container wide center ImageElement">` +
	`<div class="graphic"><div class="figure-content">%s</div></div></div>`

// HTMLNormalizer rewrites archive pages in place.
type HTMLNormalizer struct{}

// New creates an HTMLNormalizer.
func New() *HTMLNormalizer {
	return &HTMLNormalizer{}
}

// Normalize applies both rewrites to doc and reports whether anything
// was changed.
func (n *HTMLNormalizer) Normalize(doc *goquery.Document, hostname string) bool {
	changed := n.rewriteImageSources(doc, hostname)
	if n.rewrapFirstImages(doc) {
		changed = true
	}
	return changed
}

func (n *HTMLNormalizer) rewriteImageSources(doc *goquery.Document, hostname string) bool {
	changed := false
	doc.FindMatcher(imageSelector).Each(func(_ int, s *goquery.Selection) {
		for _, attr := range sourceAttrs {
			src, ok := s.Attr(attr)
			if !ok || src == "" || IsAbsolute(src) {
				continue
			}
			s.SetAttr(attr, SchemeRelative(hostname, src))
			changed = true
		}
	})
	return changed
}

// rewrapFirstImages replaces <p><img class="first"></p> children of an
// article summary with the three-level graphic container.
func (n *HTMLNormalizer) rewrapFirstImages(doc *goquery.Document) bool {
	changed := false
	doc.FindMatcher(ArticleSelector).Each(func(_ int, article *goquery.Selection) {
		summary := article.FindMatcher(SummarySelector).First()
		if summary.Length() == 0 {
			return
		}
		summary.Contents().Each(func(_ int, child *goquery.Selection) {
			if goquery.NodeName(child) != "p" {
				return
			}
			img := child.FindMatcher(firstImageSelector).First()
			if img.Length() == 0 {
				return
			}
			inner, err := goquery.OuterHtml(img.Clone().RemoveClass("first"))
			if err != nil {
				return
			}
			child.ReplaceWithHtml(fmt.Sprintf(firstImageWrapper, inner))
			changed = true
		})
	})
	return changed
}

// IsAbsolute reports whether src already names a scheme or is
// scheme-relative.
func IsAbsolute(src string) bool {
	return strings.HasPrefix(src, "http://") ||
		strings.HasPrefix(src, "https://") ||
		strings.HasPrefix(src, "//")
}

// SchemeRelative roots a relative source at hostname.
// "../../_Media/a.jpeg" on example.com becomes "//example.com/_Media/a.jpeg".
func SchemeRelative(hostname, src string) string {
	cleaned := strings.TrimLeft(path.Clean(src), "./")
	return "//" + hostname + "/" + cleaned
}
