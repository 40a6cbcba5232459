package goquery

import (
	"cmp"
	"context"
	"math"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/postfetch/pattern"
	"golang.org/x/net/html"
)

// Signature summarizes the elements sharing one class attribute.
type Signature struct {
	Class string
	Count int

	// WordCount sums member word counts, not counting each member's first
	// date expression.
	WordCount int

	// AllHaveDate is set when every member carries a date outside its links.
	AllHaveDate bool

	// AllHaveTerm is set when the class, or a class inside every member,
	// mentions a post-related keyword.
	AllHaveTerm bool
}

// AvgWordCount returns the mean member word count.
func (s Signature) AvgWordCount() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.WordCount) / float64(s.Count)
}

// Signatures builds the class histogram of the page, in order of first
// appearance.
func (d *Document) Signatures() []Signature {
	index := make(map[string]int)
	var sigs []Signature

	d.doc.Find("[class]").Each(func(_ int, el *goquery.Selection) {
		class := classOf(el)
		if class == "" {
			return
		}

		i, ok := index[class]
		if !ok {
			i = len(sigs)
			index[class] = i
			sigs = append(sigs, Signature{Class: class, AllHaveDate: true, AllHaveTerm: true})
		}
		sig := &sigs[i]
		sig.Count++

		n := el.Get(0)
		text := nodeText(n)
		dates := pattern.Dates(pattern.StripNavMarkup(render(n)))
		if len(dates) > 0 {
			sig.WordCount += wordCount(strings.ReplaceAll(text, dates[0], ""))
		} else {
			sig.WordCount += wordCount(text)
			sig.AllHaveDate = false
		}

		if sig.AllHaveTerm && !pattern.HasPostTerm(class) && !hasTermClass(el) {
			sig.AllHaveTerm = false
		}
	})
	return sigs
}

// hasTermClass reports whether any element below s has a keyword-bearing class.
func hasTermClass(s *goquery.Selection) bool {
	return s.Find("[class]").FilterFunction(func(_ int, e *goquery.Selection) bool {
		return pattern.HasPostTerm(classOf(e))
	}).Length() > 0
}

// rankSignatures orders the signatures passing keep by member count, then
// average word count, then class. A single-member leader is replaced by the
// signature closest to half the page's word count.
func rankSignatures(sigs []Signature, keep func(Signature) bool, pageWords int) []Signature {
	var ranked []Signature
	for _, s := range sigs {
		if keep(s) {
			ranked = append(ranked, s)
		}
	}
	slices.SortStableFunc(ranked, func(a, b Signature) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		if c := cmp.Compare(b.AvgWordCount(), a.AvgWordCount()); c != 0 {
			return c
		}
		return strings.Compare(a.Class, b.Class)
	})

	if len(ranked) == 0 || ranked[0].Count != 1 {
		return ranked
	}

	target := float64(pageWords) / 2
	best := 0
	for i, s := range ranked {
		if math.Abs(s.AvgWordCount()-target) < math.Abs(ranked[best].AvgWordCount()-target) {
			best = i
		}
	}
	leader := ranked[best]
	ranked = slices.Delete(ranked, best, best+1)
	return slices.Insert(ranked, 0, leader)
}

// SignatureOrder returns the classes to try: the top date-bearing class,
// then the top keyword-bearing class when it differs.
func (d *Document) SignatureOrder() []string {
	sigs := d.Signatures()
	pageWords := d.WordCount()

	var order []string
	byDate := rankSignatures(sigs, func(s Signature) bool { return s.AllHaveDate }, pageWords)
	if len(byDate) > 0 {
		order = append(order, byDate[0].Class)
	}
	byTerm := rankSignatures(sigs, func(s Signature) bool { return s.AllHaveTerm }, pageWords)
	if len(byTerm) > 0 && (len(order) == 0 || byTerm[0].Class != order[0]) {
		order = append(order, byTerm[0].Class)
	}
	return order
}

// classMembers returns the elements whose class is exactly class, leaving
// out members nested inside another member.
func (d *Document) classMembers(class string) []*html.Node {
	members := d.doc.Find("[class]").FilterFunction(func(_ int, el *goquery.Selection) bool {
		return classOf(el) == class
	})
	return members.NotSelection(members.Find("*")).Nodes
}

// ClassSignature clusters the elements of the best-ranked class signatures,
// then of the largest dated sibling group, and returns the first set the
// gate accepts. With force set it returns the last gated set even when the
// gate rejected it.
func (d *Document) ClassSignature(ctx context.Context, gate *Gate, force bool) (*Found, error) {
	var groups [][]*html.Node
	for _, class := range d.SignatureOrder() {
		groups = append(groups, d.classMembers(class))
	}
	if siblings := d.SiblingGroup(); siblings != nil {
		groups = append(groups, siblings)
	}

	var last *Found
	for _, members := range groups {
		found, err := d.tryMembers(ctx, gate, members)
		if err != nil {
			return nil, err
		}
		if found == nil {
			continue
		}
		if Accepted(found.Valid) {
			return found, nil
		}
		last = found
	}

	if force {
		return last, nil
	}
	return nil, nil
}

// tryMembers clusters members and gates the result. It returns nil when
// clustering fails or leaves a candidate without text.
func (d *Document) tryMembers(ctx context.Context, gate *Gate, members []*html.Node) (*Found, error) {
	seeds := make([]Seed, len(members))
	for i, m := range members {
		seeds[i] = Seed{Node: m}
	}

	cands := d.Climb(seeds)
	if len(cands) == 0 {
		return nil, nil
	}
	for _, c := range cands {
		if c.Text == "" {
			return nil, nil
		}
	}

	valid, err := gate.Accept(ctx, cands)
	if err != nil {
		return nil, err
	}
	return &Found{Candidates: cands, Valid: valid}, nil
}
