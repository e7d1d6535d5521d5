// Package crawl — URL rules.
// Decides which links are archive pages and builds the dedup key for them.
package crawl

import (
	"net/url"
	"strings"
)

// IsArchiveLink reports whether a raw href points at another archive
// listing. The check is on the href as written in the page, before
// resolution.
func IsArchiveLink(href, prefix string) bool {
	return prefix != "" && strings.HasPrefix(href, prefix)
}

// NormalizeURL strips the fragment for deduplication. The path is left
// alone: a trailing slash changes how relative links on the page resolve.
func NormalizeURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	parsed.Fragment = ""
	return parsed.String()
}

// resolveURL resolves a potentially relative URL against a base.
func resolveURL(href string, base *url.URL) string {
	// Skip mailto, javascript, etc.
	if strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "tel:") || strings.HasPrefix(href, "#") {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(parsed)
	// Strip fragments.
	resolved.Fragment = ""
	return resolved.String()
}
