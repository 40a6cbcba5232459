package goquery

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/postfetch"
	"github.com/fwojciec/postfetch/pattern"
)

// Compile-time interface verification.
var _ postfetch.FeedFinder = (*LinkFinder)(nil)

// minSlugWords is the number of hyphen-separated words that makes a path
// segment look like an article slug.
const minSlugWords = 4

// nonArticleSegments are path segments of pages that never hold a post.
var nonArticleSegments = map[string]bool{
	"login":    true,
	"signin":   true,
	"signup":   true,
	"register": true,
	"search":   true,
	"contact":  true,
	"about":    true,
	"privacy":  true,
	"terms":    true,
	"tag":      true,
	"tags":     true,
	"category": true,
	"author":   true,
	"page":     true,
	"feed":     true,
	"rss":      true,
	"sitemap":  true,
	"admin":    true,
	"wp-admin": true,
	"account":  true,
	"cart":     true,
	"checkout": true,
}

var nonArticleExtensions = []string{
	".pdf", ".xml", ".json", ".css", ".js", ".png", ".jpg", ".jpeg",
	".gif", ".svg", ".ico", ".woff", ".zip", ".mp3", ".mp4",
}

// datePath matches paths like /2024/02/14/headline or /2024/02/headline.
var datePath = regexp.MustCompile(`/\d{4}/\d{2}(/\d{2})?/[^/]+`)

// LinkFinder discovers post URLs from the article-like same-site links of a
// page. It needs no network access.
type LinkFinder struct{}

// NewLinkFinder creates a new LinkFinder.
func NewLinkFinder() *LinkFinder {
	return &LinkFinder{}
}

// Name returns the finder's identifier.
func (f *LinkFinder) Name() string {
	return "links"
}

// FindFeedURLs returns the article-like links of the page in document order.
func (f *LinkFinder) FindFeedURLs(_ context.Context, pageURL, html string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, postfetch.Errorf(postfetch.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, postfetch.Errorf(postfetch.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var urls []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" || seen[resolved] {
			return
		}
		if !postfetch.SameDomain(pageURL, resolved) || !isArticleURL(resolved) {
			return
		}

		seen[resolved] = true
		urls = append(urls, resolved)
	})

	return urls, nil
}

// isArticleURL applies path heuristics to decide whether a URL is likely a
// single post.
func isArticleURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	path := strings.TrimRight(u.Path, "/")
	if path == "" {
		return false
	}

	lower := strings.ToLower(path)
	segments := strings.Split(strings.TrimLeft(lower, "/"), "/")
	for _, seg := range segments {
		if nonArticleSegments[seg] {
			return false
		}
	}
	for _, ext := range nonArticleExtensions {
		if strings.HasSuffix(lower, ext) {
			return false
		}
	}

	if len(segments) == 1 && !isLongSlug(segments[0]) {
		return false
	}

	if datePath.MatchString(path) {
		return true
	}
	for _, seg := range segments[:len(segments)-1] {
		if pattern.HasURLPostTerm(seg) {
			return true
		}
	}
	for _, seg := range segments {
		if isLongSlug(seg) {
			return true
		}
	}
	return false
}

func isLongSlug(segment string) bool {
	return len(strings.Split(segment, "-")) >= minSlugWords
}

// BlogLink is a link whose text suggests a post listing.
type BlogLink struct {
	URL  string
	Text string
}

// BlogLinks returns the links of a page whose text contains a blog term
// ("blog", "news", "latest" ...), resolved against pageURL, in document order.
func BlogLinks(pageURL, html string) ([]BlogLink, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, postfetch.Errorf(postfetch.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, postfetch.Errorf(postfetch.EINVALID, "failed to parse HTML: %v", err)
	}

	var links []BlogLink
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if isNonHTTPLink(href) {
			return
		}
		text := strings.TrimSpace(sel.Text())
		if !pattern.HasBlogLinkTerm(text) {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		links = append(links, BlogLink{URL: base.ResolveReference(ref).String(), Text: text})
	})

	return links, nil
}

// resolveURL returns href resolved against base without its fragment, or ""
// when it does not parse or points back at base.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	u := base.ResolveReference(ref)
	u.Fragment = ""

	self := *base
	self.Fragment = ""
	if u.String() == self.String() {
		return ""
	}
	return u.String()
}

// pagelessSchemes never lead to a page.
var pagelessSchemes = []string{"javascript:", "mailto:", "tel:", "data:"}

func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	for _, scheme := range pagelessSchemes {
		if strings.HasPrefix(href, scheme) {
			return true
		}
	}
	return false
}
