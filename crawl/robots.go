package crawl

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/gaurav-prasanna/archivefeed/core"
	"github.com/temoto/robotstxt"
)

// RobotsGate answers whether a page may be crawled according to its
// host's robots.txt. Each host's rules are fetched once.
type RobotsGate struct {
	fetcher core.Fetcher
	agent   string
	log     *slog.Logger
	hosts   map[string]*robotstxt.RobotsData
}

// NewRobotsGate creates a gate that tests rules for agent.
func NewRobotsGate(fetcher core.Fetcher, agent string, log *slog.Logger) *RobotsGate {
	if agent == "" {
		agent = "archivefeed"
	}
	return &RobotsGate{
		fetcher: fetcher,
		agent:   agent,
		log:     log,
		hosts:   make(map[string]*robotstxt.RobotsData),
	}
}

// Allowed reports whether pageURL may be fetched. A host whose robots.txt
// cannot be fetched or parsed allows everything.
func (g *RobotsGate) Allowed(ctx context.Context, pageURL string) bool {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return false
	}

	key := parsed.Scheme + "://" + parsed.Host
	robots, seen := g.hosts[key]
	if !seen {
		robots = g.load(ctx, key)
		g.hosts[key] = robots
	}
	if robots == nil {
		return true
	}
	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	return robots.TestAgent(path, g.agent)
}

func (g *RobotsGate) load(ctx context.Context, origin string) *robotstxt.RobotsData {
	res, err := g.fetcher.Fetch(ctx, origin+"/robots.txt")
	if err != nil {
		g.log.Debug("no robots.txt", "origin", origin, "error", err)
		return nil
	}
	robots, err := robotstxt.FromString(res.HTML)
	if err != nil {
		g.log.Debug("unparsable robots.txt", "origin", origin, "error", err)
		return nil
	}
	return robots
}
