package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/postfetch"
)

// FeedAnchors clusters the page links that point at the given post URLs,
// one seed per distinct target. The page itself and XML documents are
// ignored. It returns nil when no link matches.
func (d *Document) FeedAnchors(postURLs []string) []Candidate {
	root := postfetch.NormalizeURL(d.url, "")

	wanted := make(map[string]bool, len(postURLs))
	for _, u := range postURLs {
		n := postfetch.NormalizeURL(u, "")
		if n == "" || n == root || strings.HasSuffix(strings.ToLower(n), ".xml") {
			continue
		}
		wanted[n] = true
	}
	if len(wanted) == 0 {
		return nil
	}

	scheme := d.base.Scheme
	if scheme == "" {
		scheme = "https"
	}

	var seeds []Seed
	used := make(map[string]bool)
	d.doc.Find("body a[href]").Each(func(_ int, a *goquery.Selection) {
		n := postfetch.NormalizeURL(a.AttrOr("href", ""), d.url)
		if n == root || !wanted[n] || used[n] {
			return
		}
		used[n] = true
		seeds = append(seeds, Seed{Node: a.Get(0), URL: scheme + "://" + n})
	})
	return d.Climb(seeds)
}
