package goquery

import (
	"cmp"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/postfetch/pattern"
	"golang.org/x/net/html"
)

// Seed is a starting node for clustering.
type Seed struct {
	Node *html.Node

	// URL pins the seed to one link target. A pinned seed never collects
	// further URLs while climbing.
	URL string
}

// Candidate is one post-like block found by a strategy.
type Candidate struct {
	Node  *html.Node
	Text  string
	URL   string
	Dates []string
}

// Found is the outcome of a strategy that located a candidate set.
// A nil *Found means nothing was found.
type Found struct {
	Candidates []Candidate

	// Valid is the gate verdict, or nil when the set was not gated.
	Valid *bool
}

// clusterState tracks one seed while climbing.
type clusterState struct {
	node   *html.Node
	text   string
	urls   map[string]bool
	pinned bool
}

func (d *Document) newClusterState(seed Seed) clusterState {
	s := clusterState{node: seed.Node, urls: make(map[string]bool)}
	if seed.URL != "" {
		s.pinned = true
		s.urls[seed.URL] = true
		s.text = strings.TrimSpace(nodeText(seed.Node))
		return s
	}

	if a := linkAncestor(seed.Node); a.Length() > 0 {
		if u := d.resolve(a.AttrOr("href", "")); u != "" {
			s.urls[u] = true
		}
		s.text = strings.TrimSpace(nodeText(a.Get(0)))
		return s
	}

	d.addURLs(s.urls, seed.Node)
	s.text = strings.TrimSpace(nodeText(seed.Node))
	return s
}

func (d *Document) addURLs(urls map[string]bool, n *html.Node) {
	for _, h := range hrefs(n) {
		if u := d.resolve(h); u != "" {
			urls[u] = true
		}
	}
}

// advance moves a state to its parent element. It reports false when the
// state has no parent element left.
func (d *Document) advance(s clusterState) (clusterState, bool) {
	p := s.node.Parent
	if p == nil || p.Type != html.ElementNode {
		return s, false
	}

	next := clusterState{
		node:   p,
		text:   strings.TrimSpace(nodeText(p)),
		urls:   make(map[string]bool, len(s.urls)),
		pinned: s.pinned,
	}
	for u := range s.urls {
		next.urls[u] = true
	}
	if !s.pinned {
		d.addURLs(next.urls, p)
	}
	return next, true
}

// settled reports whether the states have climbed far enough to tell the
// posts apart.
func settled(states []clusterState) bool {
	texts := make(map[string]bool)
	urls := make(map[string]bool)
	allHaveURL := true
	for _, s := range states {
		texts[s.text] = true
		for u := range s.urls {
			urls[u] = true
		}
		if len(s.urls) == 0 {
			allHaveURL = false
		}
	}

	if len(texts) > 1 && len(urls) > 1 && allHaveURL {
		return true
	}
	return len(states) == 1 && states[0].text != "" && len(urls) > 0
}

// Climb walks every seed up the tree in lock-step until the seeds carry
// distinct texts and distinct URLs, then resolves overlaps and picks one URL
// per candidate. It returns nil when the tree runs out before the seeds can
// be told apart.
func (d *Document) Climb(seeds []Seed) []Candidate {
	if len(seeds) == 0 {
		return nil
	}

	states := make([]clusterState, len(seeds))
	for i, seed := range seeds {
		states[i] = d.newClusterState(seed)
	}

	for !settled(states) {
		for i := range states {
			next, ok := d.advance(states[i])
			if !ok {
				if len(states) > 1 || len(states[0].urls) == 0 {
					return nil
				}
				return candidates(states)
			}
			states[i] = next
		}
	}

	return candidates(states)
}

// candidates turns settled states into candidates, keeping only the
// outermost of any nested or identical nodes.
func candidates(states []clusterState) []Candidate {
	modal := modalURLs(states)

	var out []Candidate
	for i, s := range states {
		if overlaps(states, i) {
			continue
		}
		out = append(out, Candidate{
			Node:  s.node,
			Text:  s.text,
			URL:   pickURL(s.urls, modal),
			Dates: pattern.Dates(s.text),
		})
	}
	return out
}

func overlaps(states []clusterState, i int) bool {
	n := states[i].node
	for j, other := range states {
		if j == i {
			continue
		}
		if other.node == n && j < i {
			return true
		}
		if goquery.Contains(other.node, n) {
			return true
		}
	}
	return false
}

// modalURLs returns the URLs shared by the most candidates, unless every URL
// is shared equally.
func modalURLs(states []clusterState) map[string]bool {
	counts := make(map[string]int)
	for _, s := range states {
		for u := range s.urls {
			counts[u]++
		}
	}

	top := 0
	for _, c := range counts {
		if c > top {
			top = c
		}
	}

	modal := make(map[string]bool)
	for u, c := range counts {
		if c == top {
			modal[u] = true
		}
	}
	if len(modal) == len(counts) {
		return nil
	}
	return modal
}

// pickURL returns the longest non-modal URL, falling back to every URL when
// all of them are modal. Ties go to the lexicographically smaller URL.
func pickURL(urls, modal map[string]bool) string {
	pool := make([]string, 0, len(urls))
	for u := range urls {
		if !modal[u] {
			pool = append(pool, u)
		}
	}
	if len(pool) == 0 {
		for u := range urls {
			pool = append(pool, u)
		}
	}
	if len(pool) == 0 {
		return ""
	}

	slices.SortFunc(pool, func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return pool[0]
}
