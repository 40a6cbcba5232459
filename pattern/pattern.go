// Package pattern holds the lexical detectors used by the extraction
// strategies: date and time expressions, post-related keywords and blog link
// terms.
package pattern

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	sep = `\s*[.\s,/-]\s*`

	month = `(?:january|february|march|april|may|june|july|august|september|october|november|december` +
		`|sept|jan|feb|mar|apr|jun|jul|aug|sep|oct|nov|dec|1[0-2]|0?[1-9])`
	day  = `(?:3[01]|[12][0-9]|0?[1-9])(?:st|nd|rd|th)?`
	year = `(?:19[0-9]{2}|20[0-9]{2}|'?[0-9]{2})`

	clock = `(?:at(?:` + sep + `)+)?(?:2[0-3]|[01]?[0-9]):[0-5][0-9](?:\s*[ap]m)?`

	amount = `(?:[0-9]{1,2}|an?|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve` +
		`|thirteen|fourteen|fifteen|sixteen|seventeen|eighteen|nineteen|twenty|thirty|forty|fifty|sixty)`
	unit     = `(?:minutes?|mins?|hours?|hrs?|days?|weeks?|months?|years?)`
	relative = amount + sep + unit + `(?:` + sep + amount + sep + unit + `)?` + sep + `ago`
)

var (
	dateTime = regexp.MustCompile(`(?i)\b(?:` +
		`(?:` + month + sep + day + `(?:` + sep + year + `)?(?:` + sep + clock + `)?)` +
		`|(?:` + day + sep + month + `(?:` + sep + year + `)?(?:` + sep + clock + `)?)` +
		`|(?:` + year + sep + month + sep + day + `(?:` + sep + clock + `)?)` +
		`|(?:` + relative + `)` +
		`|(?:` + clock + `)` +
		`)`)

	postTerm = regexp.MustCompile(`(?i)post|entry|blog|article|story|update|tags|keywords|title|share|twitter|whatsapp|reddit`)

	urlPostTerm = regexp.MustCompile(`(?i)post|entry|blog|article|news|updates|recent|stories|latest|journal`)

	anchorElement = regexp.MustCompile(`(?is)<a\b[^>]*\bhref\b[^>]*>.*?</a>`)
	svgElement    = regexp.MustCompile(`(?is)<svg\b.*?</svg>`)
)

// blogLinkTerms are link words that suggest a page listing posts.
var blogLinkTerms = map[string]bool{
	"recent":  true,
	"latest":  true,
	"updates": true,
	"posts":   true,
	"blog":    true,
	"news":    true,
}

// Dates returns every date or time expression in s, in order of appearance.
func Dates(s string) []string {
	return dateTime.FindAllString(s, -1)
}

// HasDate reports whether s contains a date or time expression.
func HasDate(s string) bool {
	return dateTime.MatchString(s)
}

// Shape returns the non-alphanumeric skeleton of a date expression, so that
// "Jan 5, 2023" and "Feb 10, 2024" share the shape " , ".
func Shape(date string) string {
	var b strings.Builder
	for _, r := range date {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// StripNavMarkup removes links and inline SVG from serialized markup so that
// link timestamps and icon paths are not taken for dates.
func StripNavMarkup(markup string) string {
	markup = anchorElement.ReplaceAllString(markup, "")
	return svgElement.ReplaceAllString(markup, "")
}

// HasPostTerm reports whether s contains a post-related keyword.
func HasPostTerm(s string) bool {
	return postTerm.MatchString(s)
}

// PostTerms returns the distinct post-related keywords in s, lowercased, in
// order of first appearance.
func PostTerms(s string) []string {
	return distinctLower(postTerm.FindAllString(s, -1))
}

// HasURLPostTerm reports whether a URL contains a term typical of post or
// listing URLs.
func HasURLPostTerm(url string) bool {
	return urlPostTerm.MatchString(url)
}

// HasBlogLinkTerm reports whether link text contains a word that suggests a
// post listing ("blog", "news", "latest" ...).
func HasBlogLinkTerm(text string) bool {
	for _, w := range strings.Fields(text) {
		if blogLinkTerms[strings.ToLower(w)] {
			return true
		}
	}
	return false
}

func distinctLower(matches []string) []string {
	seen := make(map[string]bool, len(matches))
	var out []string
	for _, m := range matches {
		m = strings.ToLower(m)
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}
