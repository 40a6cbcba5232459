package crawl

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/postfetch"
	"golang.org/x/time/rate"
)

var _ postfetch.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces out requests to each site during page discovery.
// Sites are keyed by host without "www.", matching postfetch.SameDomain, so
// a blog on www.example.com and its bare host share one bucket.
type DomainLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
}

// NewDomainLimiter returns a limiter allowing rps requests per second to
// each site, without bursts. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &DomainLimiter{
		buckets: make(map[string]*rate.Limiter),
		limit:   limit,
	}
}

// Wait blocks until a request to domain is allowed or ctx is done. domain
// may be a host or a full page URL.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	key := siteKey(domain)

	d.mu.Lock()
	bucket, ok := d.buckets[key]
	if !ok {
		bucket = rate.NewLimiter(d.limit, 1)
		d.buckets[key] = bucket
	}
	d.mu.Unlock()

	return bucket.Wait(ctx)
}

func siteKey(domain string) string {
	if strings.Contains(domain, "://") {
		return postfetch.Domain(domain)
	}
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "www.")
}
