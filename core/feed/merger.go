// Package feed holds the in-memory feed that a scrape run builds: it is
// seeded from the previously published feed and then extended or updated
// with articles found on the archive pages. Entries are keyed by title.
package feed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gaurav-prasanna/archivefeed/core"
	"github.com/gorilla/feeds"
	"github.com/mmcdole/gofeed"
)

// Load fetches and parses the prior feed. RSS and Atom are detected
// automatically.
func Load(ctx context.Context, feedURL string, userAgent string) (*gofeed.Feed, error) {
	fp := gofeed.NewParser()
	if userAgent != "" {
		fp.UserAgent = userAgent
	}
	prior, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing feed %s: %w", feedURL, err)
	}
	return prior, nil
}

// Parse reads a prior feed from r.
func Parse(r io.Reader) (*gofeed.Feed, error) {
	prior, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}
	return prior, nil
}

// Merger owns the feed being built and its title index.
type Merger struct {
	feed     *feeds.Feed
	language string
	byTitle  map[string]*feeds.Item
}

// NewMerger seeds a Merger with every entry of prior, in order.
func NewMerger(prior *gofeed.Feed) *Merger {
	m := &Merger{
		feed: &feeds.Feed{
			Title:       prior.Title,
			Link:        &feeds.Link{Href: prior.Link},
			Description: prior.Description,
			Subtitle:    prior.Description,
			Updated:     time.Now().UTC(),
		},
		language: prior.Language,
		byTitle:  make(map[string]*feeds.Item, len(prior.Items)),
	}
	if m.feed.Description == "" {
		m.feed.Description = m.feed.Title
	}

	for _, entry := range prior.Items {
		item := fromPrior(entry)
		m.feed.Items = append(m.feed.Items, item)
		m.byTitle[item.Title] = item
	}
	return m
}

func fromPrior(entry *gofeed.Item) *feeds.Item {
	link := entry.Link
	if link == "" {
		link = entry.GUID
	}
	description := entry.Description
	if description == "" {
		description = entry.Content
	}

	item := &feeds.Item{
		Id:          link,
		Title:       entry.Title,
		Link:        &feeds.Link{Href: link},
		Description: description,
	}
	switch {
	case entry.PublishedParsed != nil:
		item.Created = entry.PublishedParsed.UTC()
	case entry.UpdatedParsed != nil:
		item.Created = entry.UpdatedParsed.UTC()
	}
	if name, email := author(entry); name != "" || email != "" {
		item.Author = &feeds.Author{Name: name, Email: email}
	}
	return item
}

func author(entry *gofeed.Item) (name, email string) {
	p := entry.Author
	if len(entry.Authors) > 0 && entry.Authors[0] != nil {
		p = entry.Authors[0]
	}
	if p == nil {
		return "", ""
	}
	return p.Name, p.Email
}

// Lookup returns the entry with the given title.
func (m *Merger) Lookup(title string) (*feeds.Item, bool) {
	item, ok := m.byTitle[title]
	return item, ok
}

// Upsert adds a as a new entry, or refreshes the description of the entry
// that already carries its title. It reports whether an existing entry was
// updated. A prior link and publish date are kept.
func (m *Merger) Upsert(a core.Article) bool {
	if item, ok := m.byTitle[a.Title]; ok {
		item.Description = a.Description
		if item.Link == nil || item.Link.Href == "" {
			item.Link = &feeds.Link{Href: a.Link}
			item.Id = a.Link
		}
		if item.Created.IsZero() {
			item.Created = a.Published
		}
		return true
	}

	item := &feeds.Item{
		Id:          a.Link,
		Title:       a.Title,
		Link:        &feeds.Link{Href: a.Link},
		Description: a.Description,
		Created:     a.Published,
	}
	m.feed.Items = append(m.feed.Items, item)
	m.byTitle[a.Title] = item
	return false
}

// Feed returns the feed being built.
func (m *Merger) Feed() *feeds.Feed {
	return m.feed
}

// Language returns the language carried over from the prior feed.
func (m *Merger) Language() string {
	return m.language
}

// Len returns the number of entries.
func (m *Merger) Len() int {
	return len(m.feed.Items)
}
