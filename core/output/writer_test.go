package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gorilla/feeds"
)

func sampleFeed() *feeds.Feed {
	return &feeds.Feed{
		Title:       "Example Blog",
		Link:        &feeds.Link{Href: "https://blog.example.com/"},
		Description: "Notes",
		Items: []*feeds.Item{{
			Id:          "https://blog.example.com/hello.html",
			Title:       "Hello World",
			Link:        &feeds.Link{Href: "https://blog.example.com/hello.html"},
			Description: "<p>hi</p>",
			Created:     time.Date(2014, time.March, 7, 0, 0, 0, 0, time.UTC),
		}},
	}
}

func TestWriter_WriteFeed(t *testing.T) {
	w, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	path, err := w.WriteFeed("", sampleFeed(), "en")
	if err != nil {
		t.Fatalf("WriteFeed: %v", err)
	}
	if filepath.Base(path) != DefaultFeedFile {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{
		`<rss version="2.0"`,
		"<language>en</language>",
		"<title>Hello World</title>",
		"<link>https://blog.example.com/hello.html</link>",
		"https://blog.example.com/hello.html</guid>",
		"&lt;p&gt;hi&lt;/p&gt;",
		"<pubDate>Fri, 07 Mar 2014 00:00:00 GMT</pubDate>",
		"\n  <channel>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("feed output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "<item>") != 1 {
		t.Errorf("expected one item:\n%s", out)
	}
}

func TestWriter_RewritePage(t *testing.T) {
	dir := t.TempDir()
	w, _ := New(dir)
	path := filepath.Join(dir, "page.html")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body><img src="//example.com/a.jpg"></body></html>`))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.RewritePage(path, doc); err != nil {
		t.Fatalf("RewritePage: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `src="//example.com/a.jpg"`) {
		t.Errorf("page = %s", data)
	}
}

func TestRenderFeed_ItemAuthor(t *testing.T) {
	f := sampleFeed()
	second := *f.Items[0]
	second.Title = "Name Only"
	second.Author = &feeds.Author{Name: "Ann"}
	f.Items[0].Author = &feeds.Author{Name: "Jo", Email: "jo@example.com"}
	f.Items = append(f.Items, &second)

	out, err := RenderFeed(f, "")
	if err != nil {
		t.Fatalf("RenderFeed: %v", err)
	}
	for _, want := range []string{"<author>jo@example.com (Jo)</author>", "<author>Ann</author>"} {
		if !strings.Contains(out, want) {
			t.Errorf("feed output missing %q:\n%s", want, out)
		}
	}
}
