// Package goquery implements the structural extraction strategies over
// documents parsed with goquery: DOM clustering, article, feed-anchor and
// class-signature detection, post assembly and link-based post discovery.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/postfetch"
	"golang.org/x/net/html"
)

// Document is a parsed page shared by all strategies for one extraction.
// It is never mutated after parsing.
type Document struct {
	url  string
	base *url.URL
	doc  *goquery.Document
	text string
}

// NewDocument parses html fetched from pageURL.
func NewDocument(pageURL, rawHTML string) (*Document, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, postfetch.Errorf(postfetch.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, postfetch.Errorf(postfetch.EINVALID, "failed to parse HTML: %v", err)
	}

	d := &Document{url: pageURL, base: base, doc: doc}
	if len(doc.Nodes) > 0 {
		d.text = nodeText(doc.Nodes[0])
	}
	return d, nil
}

// URL returns the page URL.
func (d *Document) URL() string { return d.url }

// Text returns the visible text of the whole page.
func (d *Document) Text() string { return d.text }

// WordCount returns the number of whitespace-separated words in the page text.
func (d *Document) WordCount() int { return wordCount(d.text) }

// Page returns the classifier's view of the document.
func (d *Document) Page() *postfetch.PageSample {
	return &postfetch.PageSample{URL: d.url, Text: d.text}
}

// Find returns the elements matching a CSS selector in document order.
func (d *Document) Find(selector string) []*html.Node {
	return d.doc.Find(selector).Nodes
}

// resolve resolves href against the page URL. It returns "" for hrefs that
// cannot be parsed.
func (d *Document) resolve(href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return d.base.ResolveReference(ref).String()
}
