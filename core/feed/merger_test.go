package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gaurav-prasanna/archivefeed/core"
)

const priorRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Example Blog</title>
  <link>https://blog.example.com/</link>
  <description>Notes</description>
  <language>en</language>
  <item>
    <title>Hello World</title>
    <link>https://blog.example.com/2014/hello.html</link>
    <guid>https://blog.example.com/2014/hello.html</guid>
    <description>&lt;p&gt;old&lt;/p&gt;</description>
    <pubDate>Fri, 07 Mar 2014 00:00:00 GMT</pubDate>
    <author>jo@example.com (Jo)</author>
  </item>
  <item>
    <title>Second</title>
    <link>https://blog.example.com/2014/second.html</link>
    <description>two</description>
  </item>
</channel>
</rss>`

const priorAtom = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Blog</title>
  <link href="https://atom.example.com/"/>
  <id>urn:x</id>
  <updated>2014-03-07T00:00:00Z</updated>
  <entry>
    <title>Only</title>
    <link href="https://atom.example.com/only.html"/>
    <id>urn:only</id>
    <published>2014-03-07T00:00:00Z</published>
    <updated>2014-03-07T00:00:00Z</updated>
    <summary>summary text</summary>
    <author><name>Ann</name></author>
  </entry>
</feed>`

func mustMerger(t *testing.T, src string) *Merger {
	t.Helper()
	prior, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return NewMerger(prior)
}

func TestNewMerger_SeedsEntries(t *testing.T) {
	m := mustMerger(t, priorRSS)

	if m.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", m.Len())
	}
	f := m.Feed()
	if f.Title != "Example Blog" || f.Link.Href != "https://blog.example.com/" || f.Description != "Notes" {
		t.Errorf("feed metadata = %q %q %q", f.Title, f.Link.Href, f.Description)
	}
	if m.Language() != "en" {
		t.Errorf("language = %q", m.Language())
	}

	hello, ok := m.Lookup("Hello World")
	if !ok {
		t.Fatal("Hello World not indexed")
	}
	if hello.Id != "https://blog.example.com/2014/hello.html" || hello.Link.Href != hello.Id {
		t.Errorf("id/link = %q %q", hello.Id, hello.Link.Href)
	}
	if hello.Description != "<p>old</p>" {
		t.Errorf("description = %q", hello.Description)
	}
	if !hello.Created.Equal(time.Date(2014, time.March, 7, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("created = %v", hello.Created)
	}
	if hello.Author == nil || hello.Author.Name != "Jo" || hello.Author.Email != "jo@example.com" {
		t.Errorf("author = %+v, want Jo <jo@example.com>", hello.Author)
	}

	second, _ := m.Lookup("Second")
	if !second.Created.IsZero() || second.Author != nil {
		t.Errorf("Second should have no date or author: %v %v", second.Created, second.Author)
	}
}

func TestNewMerger_DescriptionFallsBackToTitle(t *testing.T) {
	src := strings.Replace(priorRSS, "<description>Notes</description>", "", 1)
	m := mustMerger(t, src)
	if m.Feed().Description != "Example Blog" {
		t.Errorf("description = %q, want feed title", m.Feed().Description)
	}
}

func TestNewMerger_Atom(t *testing.T) {
	m := mustMerger(t, priorAtom)
	item, ok := m.Lookup("Only")
	if !ok {
		t.Fatal("Only not indexed")
	}
	if item.Link.Href != "https://atom.example.com/only.html" || item.Description != "summary text" {
		t.Errorf("item = %q %q", item.Link.Href, item.Description)
	}
	if item.Author == nil || item.Author.Name != "Ann" {
		t.Errorf("author = %v", item.Author)
	}
	if m.Feed().Description != "Atom Blog" {
		t.Errorf("description = %q", m.Feed().Description)
	}
}

func TestMerger_Upsert(t *testing.T) {
	m := mustMerger(t, priorRSS)
	published := time.Date(2020, time.January, 2, 0, 0, 0, 0, time.UTC)

	updated := m.Upsert(core.Article{
		Title:       "Hello World",
		Link:        "https://blog.example.com/other.html",
		Published:   published,
		Description: "<p>new</p>",
	})
	if !updated {
		t.Error("expected Hello World to be an update")
	}
	if m.Len() != 2 {
		t.Fatalf("update should not append, len = %d", m.Len())
	}
	hello, _ := m.Lookup("Hello World")
	if hello.Description != "<p>new</p>" {
		t.Errorf("description = %q", hello.Description)
	}
	if hello.Link.Href != "https://blog.example.com/2014/hello.html" {
		t.Errorf("prior link should be kept, got %q", hello.Link.Href)
	}
	if hello.Created.Year() != 2014 {
		t.Errorf("prior date should be kept, got %v", hello.Created)
	}

	second, _ := m.Lookup("Second")
	m.Upsert(core.Article{Title: "Second", Link: "x", Published: published, Description: "d"})
	if !second.Created.Equal(published) {
		t.Errorf("missing date should be filled, got %v", second.Created)
	}

	if m.Upsert(core.Article{Title: "Brand New", Link: "https://blog.example.com/new.html", Published: published, Description: "n"}) {
		t.Error("new article reported as update")
	}
	if m.Len() != 3 {
		t.Fatalf("len = %d, want 3", m.Len())
	}
	last := m.Feed().Items[2]
	if last.Title != "Brand New" || last.Id != "https://blog.example.com/new.html" {
		t.Errorf("appended item = %q %q", last.Title, last.Id)
	}
	if !m.Upsert(core.Article{Title: "Brand New", Link: "y", Published: published, Description: "again"}) {
		t.Error("second sighting of a new title should update it")
	}
}

func TestLoad_FetchesOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(priorRSS))
	}))
	defer srv.Close()

	prior, err := Load(context.Background(), srv.URL+"/index.xml", "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(prior.Items) != 2 {
		t.Errorf("items = %d", len(prior.Items))
	}

	srv404 := httptest.NewServer(http.NotFoundHandler())
	defer srv404.Close()
	if _, err := Load(context.Background(), srv404.URL+"/index.xml", ""); err == nil {
		t.Error("expected error for missing feed")
	}
}
