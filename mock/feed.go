package mock

import (
	"context"

	"github.com/fwojciec/postfetch"
)

var _ postfetch.FeedFinder = (*FeedFinder)(nil)

// FeedFinder is a mock implementation of postfetch.FeedFinder.
type FeedFinder struct {
	FindFeedURLsFn func(ctx context.Context, pageURL, html string) ([]string, error)
	NameFn         func() string
}

func (f *FeedFinder) FindFeedURLs(ctx context.Context, pageURL, html string) ([]string, error) {
	return f.FindFeedURLsFn(ctx, pageURL, html)
}

func (f *FeedFinder) Name() string {
	return f.NameFn()
}
