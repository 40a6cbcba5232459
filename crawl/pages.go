package crawl

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/fwojciec/postfetch"
	"github.com/fwojciec/postfetch/goquery"
)

var _ postfetch.PageSource = (*PageDiscoverer)(nil)

// MaxCandidatePages caps the discovered pages tried before the start page.
// The same cap applies to pages on other domains during discovery.
const MaxCandidatePages = 3

// PageDiscoverer fetches a start page and, when asked, the blog-like pages
// it links to.
type PageDiscoverer struct {
	Fetcher postfetch.Fetcher

	// Limiter, if set, paces requests per domain.
	Limiter postfetch.DomainLimiter

	// NewURLSet, if set, creates the set used to skip already fetched URLs.
	NewURLSet func() postfetch.URLSet

	Logger *slog.Logger
}

// Pages returns the pages worth trying for startURL: same-domain candidates
// (most recently discovered first), then cross-domain candidates filling up
// to MaxCandidatePages, then the start page. An unreachable or blank start
// page is ENOTFOUND.
func (d *PageDiscoverer) Pages(ctx context.Context, startURL string, lookForBlog bool) ([]*postfetch.Page, error) {
	html, err := d.fetch(ctx, startURL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		d.logger().Debug("start page unreachable", "url", startURL, "error", err)
		return nil, postfetch.Errorf(postfetch.ENOTFOUND, postfetch.MsgPageNotFound)
	}
	if strings.TrimSpace(html) == "" {
		return nil, postfetch.Errorf(postfetch.ENOTFOUND, postfetch.MsgPageNotFound)
	}

	start := &postfetch.Page{URL: startURL, HTML: html}
	if !lookForBlog {
		return []*postfetch.Page{start}, nil
	}

	links, err := goquery.BlogLinks(startURL, html)
	if err != nil {
		d.logger().Debug("blog link scan failed", "url", startURL, "error", err)
		return []*postfetch.Page{start}, nil
	}

	seen := d.urlSet()
	seen.Add(startURL)

	var same, cross []*postfetch.Page
	for _, link := range links {
		if len(same) == MaxCandidatePages {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sameDomain := postfetch.SameDomain(startURL, link.URL)
		if !sameDomain && len(cross) == MaxCandidatePages {
			continue
		}
		if !seen.Add(link.URL) {
			continue
		}

		html, err := d.fetch(ctx, link.URL)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			d.logger().Debug("skip candidate page", "url", link.URL, "error", err)
			continue
		}

		page := &postfetch.Page{URL: link.URL, HTML: html}
		if sameDomain {
			same = append(same, page)
		} else {
			cross = append(cross, page)
		}
	}

	slices.Reverse(same)
	slices.Reverse(cross)
	pages := same
	if n := MaxCandidatePages - len(same); n > 0 {
		pages = append(pages, cross[:min(n, len(cross))]...)
	}
	d.logger().Debug("pages to try", "url", startURL, "count", len(pages)+1)
	return append(pages, start), nil
}

func (d *PageDiscoverer) fetch(ctx context.Context, url string) (string, error) {
	if d.Limiter != nil {
		if err := d.Limiter.Wait(ctx, postfetch.Domain(url)); err != nil {
			return "", err
		}
	}
	return d.Fetcher.Fetch(ctx, url)
}

func (d *PageDiscoverer) urlSet() postfetch.URLSet {
	if d.NewURLSet != nil {
		return d.NewURLSet()
	}
	return make(mapSet)
}

func (d *PageDiscoverer) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return discardLogger
}

var discardLogger = slog.New(slog.DiscardHandler)

// mapSet is an exact URLSet.
type mapSet map[string]bool

func (s mapSet) Add(url string) bool {
	if s[url] {
		return false
	}
	s[url] = true
	return true
}
