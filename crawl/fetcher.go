package crawl

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/postfetch"
)

// Compile-time interface verification.
var (
	_ postfetch.Fetcher = (*RetryFetcher)(nil)
	_ postfetch.Fetcher = (*FallbackFetcher)(nil)
	_ postfetch.Fetcher = (*LazyFetcher)(nil)
)

// DefaultRetryDelays returns the backoff delays for fetch retries. They stay
// well inside the page acquisition timeout.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{250 * time.Millisecond, 500 * time.Millisecond}
}

// RetryFetcher retries failed fetches after each of Delays. Missing pages
// and invalid URLs are not retried.
type RetryFetcher struct {
	Fetcher postfetch.Fetcher
	Delays  []time.Duration
	Logger  *slog.Logger
}

// Fetch retrieves url, retrying transient failures.
func (f *RetryFetcher) Fetch(ctx context.Context, url string) (string, error) {
	maxAttempts := len(f.Delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		html, err := f.Fetcher.Fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 || !retryable(err) {
			break
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}

		if f.Logger != nil {
			f.Logger.Debug("retry", "url", url, "attempt", attempt+2, "error", err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.Delays[attempt]):
		}
	}

	return "", lastErr
}

// Close closes the wrapped fetcher.
func (f *RetryFetcher) Close() error {
	return f.Fetcher.Close()
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	switch postfetch.ErrorCode(err) {
	case postfetch.ENOTFOUND, postfetch.EINVALID:
		return false
	}
	return true
}

// FallbackFetcher fetches with Primary and retries the URL with Fallback
// when Primary fails or returns a blank document. Cancellation is returned
// as is.
type FallbackFetcher struct {
	Primary  postfetch.Fetcher
	Fallback postfetch.Fetcher
	Logger   *slog.Logger
}

// Fetch retrieves url with Primary, then Fallback.
func (f *FallbackFetcher) Fetch(ctx context.Context, url string) (string, error) {
	html, err := f.Primary.Fetch(ctx, url)
	if err == nil && strings.TrimSpace(html) != "" {
		return html, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if f.Fallback == nil {
		if err == nil {
			return html, nil
		}
		return "", err
	}

	if f.Logger != nil {
		f.Logger.Debug("fallback fetch", "url", url, "error", err)
	}
	return f.Fallback.Fetch(ctx, url)
}

// Close closes both fetchers.
func (f *FallbackFetcher) Close() error {
	var errs []error
	if err := f.Primary.Close(); err != nil {
		errs = append(errs, err)
	}
	if f.Fallback != nil {
		if err := f.Fallback.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LazyFetcher builds its fetcher on first use. It keeps the headless browser
// from starting for requests that never need it.
type LazyFetcher struct {
	New func() (postfetch.Fetcher, error)

	mu      sync.Mutex
	fetcher postfetch.Fetcher
	err     error
	closed  bool
}

// Fetch builds the fetcher if needed and retrieves url with it. A failed
// build is remembered and returned by every later call.
func (f *LazyFetcher) Fetch(ctx context.Context, url string) (string, error) {
	fetcher, err := f.get()
	if err != nil {
		return "", err
	}
	return fetcher.Fetch(ctx, url)
}

func (f *LazyFetcher) get() (postfetch.Fetcher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, postfetch.Errorf(postfetch.EINVALID, "fetcher closed")
	}
	if f.fetcher == nil && f.err == nil {
		f.fetcher, f.err = f.New()
	}
	return f.fetcher, f.err
}

// Close closes the built fetcher, if any. Later fetches fail.
func (f *LazyFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true
	if f.fetcher == nil {
		return nil
	}
	return f.fetcher.Close()
}

// Started reports whether the fetcher has been built.
func (f *LazyFetcher) Started() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetcher != nil
}
