// Package bloom implements postfetch.URLSet with a Bloom filter.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/postfetch"
)

var _ postfetch.URLSet = (*URLSet)(nil)

// URLSet remembers normalized URLs in a Bloom filter. A false positive makes
// a new URL look seen; a seen URL is never reported as new.
type URLSet struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewURLSet creates a set sized for n expected URLs with the given false
// positive rate.
func NewURLSet(n uint, fpRate float64) *URLSet {
	return &URLSet{f: bloom.NewWithEstimates(n, fpRate)}
}

// Add records the URL and reports whether it was new. URLs differing only
// in scheme, "www.", query, fragment or trailing slash are the same URL.
func (s *URLSet) Add(url string) bool {
	key := postfetch.NormalizeURL(url, "")
	if key == "" {
		key = url
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.f.TestOrAddString(key)
}

// EstimatedCount returns the approximate number of URLs in the set.
func (s *URLSet) EstimatedCount() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint(s.f.ApproximatedSize())
}
