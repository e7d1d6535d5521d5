package output

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gorilla/feeds"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// urlAttrs are the attributes rewritten inside entry descriptions.
var urlAttrs = []string{"src", "href", "data-img-src", "data-img-src-hr"}

// Canonicalizer moves the URLs of a feed onto the site's canonical form,
// derived from the URL the run started from:
//
//   - when the start URL is https, http links to the start host (or its
//     www counterpart) are upgraded to https;
//   - when the start host's subdomain is not "www", links to
//     www.<domain>.<suffix> are pointed at the start host instead.
//
// Only URL-valued fields and URL attributes are touched.
type Canonicalizer struct {
	secure      bool
	hostname    string
	counterpart string
	wwwHost     string
	fqdn        string
}

// NewCanonicalizer builds a Canonicalizer for startURL.
func NewCanonicalizer(startURL string) (*Canonicalizer, error) {
	parsed, err := url.Parse(startURL)
	if err != nil {
		return nil, fmt.Errorf("parsing start URL: %w", err)
	}
	hostname := strings.ToLower(parsed.Hostname())
	if hostname == "" {
		return nil, fmt.Errorf("start URL %q has no host", startURL)
	}

	c := &Canonicalizer{
		secure:   parsed.Scheme == "https",
		hostname: hostname,
	}
	if rest, ok := strings.CutPrefix(hostname, "www."); ok {
		c.counterpart = rest
	} else {
		c.counterpart = "www." + hostname
	}

	parts := SplitHost(hostname)
	if parts.Subdomain != "www" && parts.Domain != "" && parts.Suffix != "" {
		c.wwwHost = "www." + parts.Domain + "." + parts.Suffix
		c.fqdn = parts.FQDN
	}
	return c, nil
}

// URL returns raw in canonical form, or raw unchanged when no rule applies.
func (c *Canonicalizer) URL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return raw
	}
	if parsed.Scheme != "" && parsed.Scheme != "http" && parsed.Scheme != "https" {
		return raw
	}

	host := strings.ToLower(parsed.Hostname())
	changed := false
	if c.secure && parsed.Scheme == "http" && (host == c.hostname || host == c.counterpart) {
		parsed.Scheme = "https"
		changed = true
	}
	if c.wwwHost != "" && host == c.wwwHost && host != c.fqdn {
		parsed.Host = c.fqdn
		if port := parsed.Port(); port != "" {
			parsed.Host += ":" + port
		}
		changed = true
	}
	if !changed {
		return raw
	}
	return parsed.String()
}

// HTML rewrites URL attributes inside an HTML fragment. The fragment is
// returned byte-for-byte when nothing needs rewriting.
func (c *Canonicalizer) HTML(fragment string) string {
	if fragment == "" {
		return fragment
	}
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return fragment
	}
	for _, n := range nodes {
		context.AppendChild(n)
	}

	changed := false
	root := goquery.NewDocumentFromNode(context)
	for _, attr := range urlAttrs {
		root.Find("[" + attr + "]").Each(func(_ int, s *goquery.Selection) {
			value, _ := s.Attr(attr)
			if rewritten := c.URL(value); rewritten != value {
				s.SetAttr(attr, rewritten)
				changed = true
			}
		})
	}
	if !changed {
		return fragment
	}

	var buf bytes.Buffer
	for n := context.FirstChild; n != nil; n = n.NextSibling {
		if err := html.Render(&buf, n); err != nil {
			return fragment
		}
	}
	return buf.String()
}

// Apply canonicalizes the feed link and every entry's id, link and
// description in place.
func (c *Canonicalizer) Apply(feed *feeds.Feed) {
	if feed.Link != nil {
		feed.Link.Href = c.URL(feed.Link.Href)
	}
	for _, item := range feed.Items {
		item.Id = c.URL(item.Id)
		if item.Link != nil {
			item.Link.Href = c.URL(item.Link.Href)
		}
		item.Description = c.HTML(item.Description)
		item.Content = c.HTML(item.Content)
	}
}
