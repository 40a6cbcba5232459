package postfetch

import "context"

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// URLSet tracks URLs that have already been seen.
type URLSet interface {
	// Add records the URL and reports whether it was new.
	Add(url string) bool
}
