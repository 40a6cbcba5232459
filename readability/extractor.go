// Package readability implements postfetch.Extractor with go-readability.
// The article text is laid out one content block per line, the form the
// main-content result reports.
package readability

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/postfetch"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements postfetch.Extractor at compile time.
var _ postfetch.Extractor = (*Extractor)(nil)

// blockSelector matches the elements that become one line of text.
const blockSelector = "h1, h2, h3, h4, h5, h6, p, li, pre, blockquote, td, th, figcaption"

// Extractor finds a page's main article with go-readability.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article of rawHTML. A page without readable text is
// ENOTFOUND.
func (e *Extractor) Extract(rawHTML string) (*postfetch.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, postfetch.Errorf(postfetch.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	text := blockText(article.Content)
	if text == "" {
		text = strings.TrimSpace(article.TextContent)
	}
	if text == "" {
		return nil, postfetch.Errorf(postfetch.ENOTFOUND, "no readable content")
	}

	return &postfetch.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
		Text:        text,
	}, nil
}

// blockText returns the text of the innermost blocks of content, one per
// line.
func blockText(content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}

	var lines []string
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		if s.Find(blockSelector).Length() > 0 {
			return
		}
		if line := strings.Join(strings.Fields(s.Text()), " "); line != "" {
			lines = append(lines, line)
		}
	})
	return strings.Join(lines, "\n")
}
