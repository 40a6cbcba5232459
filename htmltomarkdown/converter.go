// Package htmltomarkdown implements postfetch.Converter with
// html-to-markdown. Main content rendered this way keeps its headings and
// list structure as separate lines.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/postfetch"
)

// Ensure Converter implements postfetch.Converter at compile time.
var _ postfetch.Converter = (*Converter)(nil)

// mediaSelector matches elements that carry no text for a content line.
const mediaSelector = "img, picture, svg, video, audio, iframe"

// Converter renders main content as Markdown text lines.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a Converter with CommonMark and table support.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert renders html as Markdown without media elements.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", postfetch.Errorf(postfetch.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", postfetch.Errorf(postfetch.EINVALID, "failed to parse HTML: %v", err)
	}
	doc.Find(mediaSelector).Remove()

	body, err := doc.Find("body").Html()
	if err != nil {
		return "", err
	}
	return c.conv.ConvertString(body)
}
