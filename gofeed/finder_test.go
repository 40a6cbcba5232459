package gofeed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/postfetch/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Example blog</title>
<link>https://example.com/</link>
<description>Posts</description>
<item><title>One</title><link>https://example.com/posts/one</link></item>
<item><title>Two</title><link>/posts/two</link></item>
<item><title>Two again</title><link>https://example.com/posts/one</link></item>
</channel>
</rss>`

const atomFeed = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
<title>Example</title>
<id>urn:example</id>
<updated>2023-01-05T00:00:00Z</updated>
<entry><title>A</title><id>urn:a</id><updated>2023-01-05T00:00:00Z</updated><link href="https://example.com/a"/></entry>
<entry><title>B</title><id>urn:b</id><updated>2023-01-04T00:00:00Z</updated><link href="https://example.com/b"/></entry>
</feed>`

func TestFeedFinder_Name(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "gofeed", gofeed.NewFeedFinder().Name())
}

func TestFeedFinder_FindFeedURLs(t *testing.T) {
	t.Parallel()

	t.Run("follows the advertised feed", func(t *testing.T) {
		t.Parallel()

		var gotUA atomic.Value
		mux := http.NewServeMux()
		mux.HandleFunc("/blog/rss.xml", func(w http.ResponseWriter, r *http.Request) {
			gotUA.Store(r.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = w.Write([]byte(rssFeed))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		html := `<html><head><link rel="alternate" type="application/rss+xml" href="/blog/rss.xml"></head><body></body></html>`
		f := gofeed.NewFeedFinder(gofeed.WithClient(server.Client()), gofeed.WithUserAgent("postfetch-test"))

		urls, err := f.FindFeedURLs(context.Background(), server.URL+"/blog", html)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/posts/one", server.URL + "/posts/two"}, urls)
		assert.Equal(t, "postfetch-test", gotUA.Load())
	})

	t.Run("tries common feed paths", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/atom.xml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/atom+xml")
			_, _ = w.Write([]byte(atomFeed))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		f := gofeed.NewFeedFinder(gofeed.WithClient(server.Client()))

		urls, err := f.FindFeedURLs(context.Background(), server.URL+"/", "<html><body></body></html>")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, urls)
	})

	t.Run("reads a page that is itself a feed", func(t *testing.T) {
		t.Parallel()

		f := gofeed.NewFeedFinder(gofeed.WithPaths())

		urls, err := f.FindFeedURLs(context.Background(), "https://example.com/rss", rssFeed)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/posts/one", "https://example.com/posts/two"}, urls)
	})

	t.Run("returns nothing when no feed exists", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		f := gofeed.NewFeedFinder(gofeed.WithClient(server.Client()))

		urls, err := f.FindFeedURLs(context.Background(), server.URL+"/", "<html><body></body></html>")

		require.NoError(t, err)
		assert.Empty(t, urls)
	})

	t.Run("returns the context error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		f := gofeed.NewFeedFinder(gofeed.WithClient(server.Client()))

		_, err := f.FindFeedURLs(ctx, server.URL+"/", "<html><body></body></html>")

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("rejects an invalid page URL", func(t *testing.T) {
		t.Parallel()

		_, err := gofeed.NewFeedFinder().FindFeedURLs(context.Background(), "://bad", "")

		assert.Error(t, err)
	})
}
