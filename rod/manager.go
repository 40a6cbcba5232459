package rod

import (
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the number of pages served before the browser is
// relaunched.
const DefaultMaxPages = 75

// BrowserManager owns a headless Chrome process and relaunches it after
// maxPages pages, since Chrome memory grows under sustained use and never
// returns to its baseline.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    int64
	maxPages int64
	closed   bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the number of pages after which the browser is
// relaunched.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// NewBrowserManager launches a headless browser.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(bm)
	}

	b, l, err := launch()
	if err != nil {
		return nil, err
	}
	bm.browser, bm.launcher = b, l
	return bm, nil
}

// Acquire returns the browser for one page, relaunching it first when the
// page budget is spent. It returns nil after Close.
func (bm *BrowserManager) Acquire() *rod.Browser {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	if bm.pages >= bm.maxPages {
		bm.relaunch()
	}
	bm.pages++
	return bm.browser
}

// Close shuts the browser down. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true
	return shutdown(bm.browser, bm.launcher)
}

// LauncherPID returns the process ID of the browser launcher, or 0 after
// Close.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed || bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}

// relaunch swaps in a fresh browser. The old one is kept when the launch
// fails. Must be called with mu held.
func (bm *BrowserManager) relaunch() {
	b, l, err := launch()
	if err != nil {
		return
	}
	_ = shutdown(bm.browser, bm.launcher)
	bm.browser, bm.launcher = b, l
	bm.pages = 0
}

func launch() (*rod.Browser, *launcher.Launcher, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return b, l, nil
}

func shutdown(b *rod.Browser, l *launcher.Launcher) error {
	var err error
	if b != nil {
		err = b.Close()
	}
	if l != nil {
		l.Kill()
	}
	return err
}
