package postfetch

import "context"

// FeedFinder discovers post URLs for a page from some external signal
// (syndication feeds, article-like links).
type FeedFinder interface {
	// FindFeedURLs returns the post URLs discovered for the page, most
	// relevant first. An empty result is not an error.
	FindFeedURLs(ctx context.Context, pageURL, html string) ([]string, error)

	// Name returns the finder's identifier (e.g., "gofeed", "links").
	Name() string
}
