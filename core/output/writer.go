// Package output writes what a run produces: the merged RSS feed, and
// archive pages rewritten in place by the cleanup command.
package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/PuerkitoBio/goquery"
	"github.com/gorilla/feeds"
)

// DefaultFeedFile is the file the merged feed is written to.
const DefaultFeedFile = "updated_rss.xml"

const pubDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// Writer writes output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// RenderFeed serializes feed as pretty-printed RSS 2.0. Item dates are
// written as "Fri, 07 Mar 2014 00:00:00 GMT", and an item author with an
// email address as "email (name)".
func RenderFeed(feed *feeds.Feed, language string) (string, error) {
	rss := (&feeds.Rss{Feed: feed}).RssFeed()
	rss.Language = language
	for i, item := range feed.Items {
		if !item.Created.IsZero() {
			rss.Items[i].PubDate = item.Created.UTC().Format(pubDateLayout)
		}
		if item.Author != nil && item.Author.Email != "" {
			rss.Items[i].Author = rssAuthor(item.Author)
		}
	}
	data, err := feeds.ToXML(rss)
	if err != nil {
		return "", fmt.Errorf("rendering RSS: %w", err)
	}
	return data, nil
}

func rssAuthor(a *feeds.Author) string {
	if a.Name == "" {
		return a.Email
	}
	return fmt.Sprintf("%s (%s)", a.Email, a.Name)
}

// WriteFeed renders feed and writes it to name inside the output
// directory, replacing any existing file. The write is not atomic.
func (w *Writer) WriteFeed(name string, feed *feeds.Feed, language string) (string, error) {
	if name == "" {
		name = DefaultFeedFile
	}
	data, err := RenderFeed(feed, language)
	if err != nil {
		return "", err
	}

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.OutputDir, name)
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// RewritePage serializes doc over the file at path.
func (w *Writer) RewritePage(path string, doc *goquery.Document) error {
	data, err := doc.Html()
	if err != nil {
		return fmt.Errorf("serializing %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	return nil
}
