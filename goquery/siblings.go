package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/postfetch/pattern"
	"golang.org/x/net/html"
)

const minSiblingGroup = 5

// siblingExcluded lists tags never grouped as siblings.
var siblingExcluded = map[string]bool{
	"html":   true,
	"body":   true,
	"header": true,
}

type siblingKey struct {
	parent *html.Node
	tag    string
}

// SiblingGroup returns the largest group of same-tag siblings with at least
// five members, every one of them carrying a date. Ties go to the group
// that appears first. It returns nil when no group qualifies.
func (d *Document) SiblingGroup() []*html.Node {
	index := make(map[siblingKey]int)
	var groups [][]*html.Node

	d.doc.Find("*").Each(func(_ int, el *goquery.Selection) {
		tag := goquery.NodeName(el)
		n := el.Get(0)
		if siblingExcluded[tag] || n.Parent == nil {
			return
		}
		key := siblingKey{parent: n.Parent, tag: tag}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], n)
	})

	var best []*html.Node
	for _, g := range groups {
		if len(g) < minSiblingGroup || len(g) <= len(best) {
			continue
		}
		if allDated(g) {
			best = g
		}
	}
	return best
}

func allDated(nodes []*html.Node) bool {
	for _, n := range nodes {
		if !pattern.HasDate(nodeText(n)) {
			return false
		}
	}
	return true
}
