package postfetch

import (
	"net/url"
	"regexp"
	"strings"
)

var schemePrefix = regexp.MustCompile(`^(?:[a-zA-Z][a-zA-Z0-9+.\-]*:)?//`)

// NormalizeURL reduces a URL to a comparable form: fragment, query, leading
// scheme, surrounding slashes and a leading "www." are removed. When base is
// non-empty, a relative raw URL is first resolved against it.
//
// NormalizeURL(NormalizeURL(u, ""), "") == NormalizeURL(u, "") for every u.
func NormalizeURL(raw, base string) string {
	s := strings.TrimSpace(raw)
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	if base != "" {
		s = ResolveURL(base, s)
	}
	for {
		next := strings.TrimSpace(s)
		next = schemePrefix.ReplaceAllString(next, "")
		next = strings.Trim(next, "/")
		next = strings.TrimPrefix(next, "www.")
		if next == s {
			return s
		}
		s = next
	}
}

// ResolveURL resolves href against base. It returns href unchanged when
// either fails to parse.
func ResolveURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}

// Domain returns the host of a URL without a leading "www.", lowercased.
// It returns "" when the URL has no host.
func Domain(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// SameDomain reports whether two URLs share a host, ignoring "www.".
func SameDomain(a, b string) bool {
	da := Domain(a)
	return da != "" && da == Domain(b)
}
