// Package trafilatura implements postfetch.Extractor with go-trafilatura.
// It backs the main-content result returned when no post set is found.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/postfetch"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements postfetch.Extractor at compile time.
var _ postfetch.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor. The readability and dom-distiller
// fallbacks are enabled.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback: true,
		},
	}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*postfetch.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, postfetch.Errorf(postfetch.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &postfetch.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
		Text:        strings.TrimSpace(result.ContentText),
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
