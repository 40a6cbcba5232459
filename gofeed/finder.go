// Package gofeed implements postfetch.FeedFinder with syndication feed
// discovery: feeds advertised by the page or found at common paths are
// parsed with mmcdole/gofeed and their item links returned.
package gofeed

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/postfetch"
	"github.com/mmcdole/gofeed"
)

// Compile-time interface verification.
var _ postfetch.FeedFinder = (*FeedFinder)(nil)

// DefaultTimeout bounds each feed request.
const DefaultTimeout = 10 * time.Second

// DefaultPaths are tried relative to the site root when the page advertises
// no feed.
var DefaultPaths = []string{
	"/feed",
	"/rss",
	"/feed.xml",
	"/rss.xml",
	"/atom.xml",
	"/index.xml",
	"/feeds/posts/default",
}

// feedTypes are the link types of advertised feeds.
var feedTypes = map[string]bool{
	"application/rss+xml":   true,
	"application/atom+xml":  true,
	"application/feed+json": true,
	"application/json":      true,
	"application/xml":       true,
	"text/xml":              true,
}

// FeedFinder returns the item links of the first feed it can parse for a
// page.
type FeedFinder struct {
	client    *http.Client
	userAgent string
	paths     []string
}

// Option configures a FeedFinder.
type Option func(*FeedFinder)

// WithClient sets the HTTP client used for feed requests.
func WithClient(c *http.Client) Option {
	return func(f *FeedFinder) {
		f.client = c
	}
}

// WithUserAgent sets the User-Agent header of feed requests.
func WithUserAgent(ua string) Option {
	return func(f *FeedFinder) {
		f.userAgent = ua
	}
}

// WithPaths replaces the common feed paths tried for pages without an
// advertised feed.
func WithPaths(paths ...string) Option {
	return func(f *FeedFinder) {
		f.paths = paths
	}
}

// NewFeedFinder creates a new FeedFinder.
func NewFeedFinder(opts ...Option) *FeedFinder {
	f := &FeedFinder{
		client: &http.Client{Timeout: DefaultTimeout},
		paths:  DefaultPaths,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the finder's identifier.
func (f *FeedFinder) Name() string {
	return "gofeed"
}

// FindFeedURLs returns the item links of the page's feed. A page that is
// itself a feed yields its own items. No feed is not an error.
func (f *FeedFinder) FindFeedURLs(ctx context.Context, pageURL, html string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, postfetch.Errorf(postfetch.EINVALID, "invalid page URL: %v", err)
	}

	if feed, err := f.parser().ParseString(html); err == nil {
		if links := itemLinks(base, feed); len(links) > 0 {
			return links, nil
		}
	}

	for _, feedURL := range f.candidates(base, html) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		feed, err := f.parser().ParseURLWithContext(feedURL, ctx)
		if err != nil {
			continue
		}
		ref, err := url.Parse(feedURL)
		if err != nil {
			continue
		}
		if links := itemLinks(ref, feed); len(links) > 0 {
			return links, nil
		}
	}

	return nil, nil
}

func (f *FeedFinder) parser() *gofeed.Parser {
	p := gofeed.NewParser()
	p.Client = f.client
	if f.userAgent != "" {
		p.UserAgent = f.userAgent
	}
	return p
}

// candidates returns the advertised feeds of the page, then the common
// feed paths of its site, without duplicates.
func (f *FeedFinder) candidates(base *url.URL, html string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}

	for _, u := range advertisedFeeds(base, html) {
		add(u)
	}
	if base.Host == "" {
		return out
	}
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}
	for _, p := range f.paths {
		add(root.ResolveReference(&url.URL{Path: p}).String())
	}
	return out
}

// advertisedFeeds returns the feed links declared in the page head.
func advertisedFeeds(base *url.URL, html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var out []string
	doc.Find("link[href]").Each(func(_ int, sel *goquery.Selection) {
		rel := strings.ToLower(sel.AttrOr("rel", ""))
		typ := strings.ToLower(strings.TrimSpace(sel.AttrOr("type", "")))
		if !strings.Contains(rel, "alternate") || !feedTypes[typ] {
			return
		}
		if u := resolve(base, sel.AttrOr("href", "")); u != "" {
			out = append(out, u)
		}
	})
	return out
}

// itemLinks returns the item links of a feed resolved against base, in feed
// order and without duplicates.
func itemLinks(base *url.URL, feed *gofeed.Feed) []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range feed.Items {
		link := item.Link
		if link == "" && len(item.Links) > 0 {
			link = item.Links[0]
		}
		u := resolve(base, link)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}

func resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
