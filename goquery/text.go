package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// hiddenText lists elements whose contents are never visible text.
var hiddenText = map[string]bool{
	"script":   true,
	"style":    true,
	"template": true,
	"noscript": true,
}

// headingSelector matches the tags treated as a post title.
const headingSelector = "h1, h2, h3"

// nodeText returns the concatenated visible text below n.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if hiddenText[n.Data] {
				return
			}
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// strippedStrings returns the trimmed, non-empty text nodes below n in
// document order, leaving out the subtree rooted at skip.
func strippedStrings(n, skip *html.Node) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if skip != nil && n == skip {
			return
		}
		switch n.Type {
		case html.TextNode:
			if s := strings.TrimSpace(n.Data); s != "" {
				out = append(out, s)
			}
			return
		case html.ElementNode:
			if hiddenText[n.Data] {
				return
			}
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// collapse joins the words of s with single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// selection wraps a parsed node for goquery traversal.
func selection(n *html.Node) *goquery.Selection {
	return goquery.NewDocumentFromNode(n).Selection
}

// classOf returns the class attribute normalized to single spaces.
func classOf(s *goquery.Selection) string {
	return collapse(s.AttrOr("class", ""))
}

// hrefs returns the href values of n, when it is a link, and of every link below it.
func hrefs(n *html.Node) []string {
	var out []string
	selection(n).Find("a[href]").AddBackFiltered("a[href]").Each(func(_ int, a *goquery.Selection) {
		out = append(out, a.AttrOr("href", ""))
	})
	return out
}

// linkAncestor returns the nearest enclosing link with an href.
func linkAncestor(n *html.Node) *goquery.Selection {
	return selection(n).Parent().Closest("a[href]")
}

// render serializes n back to HTML.
func render(n *html.Node) string {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return ""
	}
	return b.String()
}
