package crawl_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/postfetch"
	"github.com/fwojciec/postfetch/crawl"
	"github.com/fwojciec/postfetch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fetcherReturning(html string, err error) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, _ string) (string, error) {
			return html, err
		},
		CloseFn: func() error { return nil },
	}
}

func TestRetryFetcher(t *testing.T) {
	t.Parallel()

	delays := []time.Duration{time.Millisecond, time.Millisecond}

	t.Run("retries until a fetch succeeds", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		inner := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				if calls.Add(1) < 3 {
					return "", errors.New("connection reset")
				}
				return "<html>ok</html>", nil
			},
		}
		f := &crawl.RetryFetcher{Fetcher: inner, Delays: delays}

		html, err := f.Fetch(context.Background(), "https://example.com/")

		require.NoError(t, err)
		assert.Equal(t, "<html>ok</html>", html)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("returns the last error after all attempts", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		inner := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				calls.Add(1)
				return "", errors.New("bad gateway")
			},
		}
		f := &crawl.RetryFetcher{Fetcher: inner, Delays: delays}

		_, err := f.Fetch(context.Background(), "https://example.com/")

		require.EqualError(t, err, "bad gateway")
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("does not retry missing pages", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		inner := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				calls.Add(1)
				return "", postfetch.Errorf(postfetch.ENOTFOUND, "page not found")
			},
		}
		f := &crawl.RetryFetcher{Fetcher: inner, Delays: delays}

		_, err := f.Fetch(context.Background(), "https://example.com/missing")

		assert.Equal(t, postfetch.ENOTFOUND, postfetch.ErrorCode(err))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		inner := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				cancel()
				return "", errors.New("timeout")
			},
		}
		f := &crawl.RetryFetcher{Fetcher: inner, Delays: []time.Duration{time.Hour}}

		_, err := f.Fetch(ctx, "https://example.com/")

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFallbackFetcher(t *testing.T) {
	t.Parallel()

	t.Run("uses the primary result", func(t *testing.T) {
		t.Parallel()

		fallback := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				t.Error("fallback should not be called")
				return "", nil
			},
		}
		f := &crawl.FallbackFetcher{Primary: fetcherReturning("<p>direct</p>", nil), Fallback: fallback}

		html, err := f.Fetch(context.Background(), "https://example.com/")

		require.NoError(t, err)
		assert.Equal(t, "<p>direct</p>", html)
	})

	t.Run("falls back when the primary fails", func(t *testing.T) {
		t.Parallel()

		f := &crawl.FallbackFetcher{
			Primary:  fetcherReturning("", errors.New("HTTP 403")),
			Fallback: fetcherReturning("<p>rendered</p>", nil),
		}

		html, err := f.Fetch(context.Background(), "https://example.com/")

		require.NoError(t, err)
		assert.Equal(t, "<p>rendered</p>", html)
	})

	t.Run("falls back on a blank document", func(t *testing.T) {
		t.Parallel()

		f := &crawl.FallbackFetcher{
			Primary:  fetcherReturning("  \n", nil),
			Fallback: fetcherReturning("<p>rendered</p>", nil),
		}

		html, err := f.Fetch(context.Background(), "https://example.com/")

		require.NoError(t, err)
		assert.Equal(t, "<p>rendered</p>", html)
	})

	t.Run("returns the primary error without a fallback", func(t *testing.T) {
		t.Parallel()

		f := &crawl.FallbackFetcher{Primary: fetcherReturning("", errors.New("HTTP 403"))}

		_, err := f.Fetch(context.Background(), "https://example.com/")

		assert.EqualError(t, err, "HTTP 403")
	})

	t.Run("does not fall back after cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		fallback := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				t.Error("fallback should not be called")
				return "", nil
			},
		}
		f := &crawl.FallbackFetcher{Primary: fetcherReturning("", context.Canceled), Fallback: fallback}

		_, err := f.Fetch(ctx, "https://example.com/")

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("closes both fetchers", func(t *testing.T) {
		t.Parallel()

		primary := fetcherReturning("", nil)
		primary.CloseFn = func() error { return errors.New("primary close") }
		var fallbackClosed atomic.Bool
		fallback := &mock.Fetcher{CloseFn: func() error {
			fallbackClosed.Store(true)
			return nil
		}}
		f := &crawl.FallbackFetcher{Primary: primary, Fallback: fallback}

		err := f.Close()

		assert.EqualError(t, err, "primary close")
		assert.True(t, fallbackClosed.Load())
	})
}

func TestLazyFetcher(t *testing.T) {
	t.Parallel()

	t.Run("builds the fetcher once on first use", func(t *testing.T) {
		t.Parallel()

		var builds atomic.Int32
		f := &crawl.LazyFetcher{New: func() (postfetch.Fetcher, error) {
			builds.Add(1)
			return fetcherReturning("<p>rendered</p>", nil), nil
		}}
		assert.False(t, f.Started())

		for range 3 {
			html, err := f.Fetch(context.Background(), "https://example.com/")
			require.NoError(t, err)
			assert.Equal(t, "<p>rendered</p>", html)
		}

		assert.True(t, f.Started())
		assert.Equal(t, int32(1), builds.Load())
	})

	t.Run("remembers a failed build", func(t *testing.T) {
		t.Parallel()

		var builds atomic.Int32
		f := &crawl.LazyFetcher{New: func() (postfetch.Fetcher, error) {
			builds.Add(1)
			return nil, errors.New("no browser")
		}}

		_, err1 := f.Fetch(context.Background(), "https://example.com/")
		_, err2 := f.Fetch(context.Background(), "https://example.com/")

		assert.EqualError(t, err1, "no browser")
		assert.EqualError(t, err2, "no browser")
		assert.Equal(t, int32(1), builds.Load())
	})

	t.Run("close without use builds nothing", func(t *testing.T) {
		t.Parallel()

		f := &crawl.LazyFetcher{New: func() (postfetch.Fetcher, error) {
			t.Error("fetcher should not be built")
			return nil, nil
		}}

		require.NoError(t, f.Close())

		_, err := f.Fetch(context.Background(), "https://example.com/")
		assert.Equal(t, postfetch.EINVALID, postfetch.ErrorCode(err))
	})

	t.Run("close closes the built fetcher", func(t *testing.T) {
		t.Parallel()

		var closed atomic.Int32
		inner := fetcherReturning("<p>ok</p>", nil)
		inner.CloseFn = func() error {
			closed.Add(1)
			return nil
		}
		f := &crawl.LazyFetcher{New: func() (postfetch.Fetcher, error) { return inner, nil }}

		_, err := f.Fetch(context.Background(), "https://example.com/")
		require.NoError(t, err)

		require.NoError(t, f.Close())
		require.NoError(t, f.Close())
		assert.Equal(t, int32(1), closed.Load())
	})
}
