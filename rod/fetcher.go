// Package rod implements postfetch.Fetcher with a headless Chrome driven by
// go-rod. Pages are opened with go-rod/stealth so that sites rejecting
// automated browsers still serve their posts.
package rod

import (
	"context"
	"time"

	"github.com/fwojciec/postfetch"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// DefaultFetchTimeout bounds a single page load.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements postfetch.Fetcher at compile time.
var _ postfetch.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager  *BrowserManager
	timeout  time.Duration
	stealth  bool
	maxPages int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the timeout of a single page load.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithStealth toggles the stealth evasions. They are on by default.
func WithStealth(enabled bool) Option {
	return func(f *Fetcher) {
		f.stealth = enabled
	}
}

// WithBrowserPages sets how many pages the browser serves before it is
// relaunched.
func WithBrowserPages(n int64) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// NewFetcher launches a headless browser.
// Close must be called when the Fetcher is no longer needed.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:  DefaultFetchTimeout,
		stealth:  true,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}

	m, err := NewBrowserManager(WithMaxPages(f.maxPages))
	if err != nil {
		return nil, err
	}
	f.manager = m
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser := f.manager.Acquire()
	if browser == nil {
		return "", postfetch.Errorf(postfetch.EINVALID, "fetcher closed")
	}

	page, err := f.openPage(browser)
	if err != nil {
		return "", err
	}
	defer page.Close()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	return page.HTML()
}

func (f *Fetcher) openPage(browser *rod.Browser) (*rod.Page, error) {
	if f.stealth {
		return stealth.Page(browser)
	}
	return browser.Page(proto.TargetCreateTarget{})
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}
