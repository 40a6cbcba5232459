package mock

import (
	"context"

	"github.com/fwojciec/postfetch"
)

// Compile-time interface verification.
var (
	_ postfetch.PageSource = (*PageSource)(nil)
	_ postfetch.Finder     = (*Finder)(nil)
)

// PageSource is a mock implementation of postfetch.PageSource.
type PageSource struct {
	PagesFn func(ctx context.Context, startURL string, lookForBlog bool) ([]*postfetch.Page, error)
}

func (s *PageSource) Pages(ctx context.Context, startURL string, lookForBlog bool) ([]*postfetch.Page, error) {
	return s.PagesFn(ctx, startURL, lookForBlog)
}

// Finder is a mock implementation of postfetch.Finder.
type Finder struct {
	FindPostsFn func(ctx context.Context, req *postfetch.Request) (*postfetch.Result, error)
}

func (f *Finder) FindPosts(ctx context.Context, req *postfetch.Request) (*postfetch.Result, error) {
	return f.FindPostsFn(ctx, req)
}
