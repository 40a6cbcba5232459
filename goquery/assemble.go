package goquery

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/fwojciec/postfetch"
	"github.com/fwojciec/postfetch/pattern"
	"golang.org/x/net/html"
)

// DateLayout is the normalized form of post dates.
const DateLayout = "2006-01-02 15:04:05"

const noPostText = "No post text."

// clockOnly matches a date expression that is just a time of day.
var clockOnly = regexp.MustCompile(`(?i)^(?:at\W+)?((?:2[0-3]|[01]?[0-9]):[0-5][0-9])(?:\s*([ap]m))?$`)

// Assemble turns candidates into post records: it keeps the first
// opts.MaxPosts candidates, assigns dates from the date shape they all share
// and, when opts.Clean is set, splits each post into title and trimmed body
// lines.
func Assemble(cands []Candidate, opts postfetch.Options) []postfetch.PostRecord {
	if opts.MaxPosts > 0 && len(cands) > opts.MaxPosts {
		cands = cands[:opts.MaxPosts]
	}

	ref := opts.ReferenceTime
	if ref.IsZero() {
		ref = time.Now()
	}

	dates := sharedDates(cands, ref)
	out := make([]postfetch.PostRecord, len(cands))
	for i, c := range cands {
		rec := postfetch.PostRecord{URL: c.URL, Date: dates[i]}
		if opts.Clean {
			rec.Title, rec.Post = cleanPost(c.Node, opts.Trim)
		} else {
			rec.Post = []string{c.Text}
		}
		out[i] = rec
	}
	return out
}

type parsedDate struct {
	original string
	parsed   time.Time
}

// sharedDates returns one normalized date per candidate, or all nils when
// no date shape is present in every candidate.
func sharedDates(cands []Candidate, ref time.Time) []*string {
	out := make([]*string, len(cands))
	if len(cands) == 0 {
		return out
	}

	byShape := make(map[string]map[int][]parsedDate)
	for i, c := range cands {
		for _, m := range c.Dates {
			t, ok := parseDate(m, ref)
			if !ok {
				continue
			}
			shape := pattern.Shape(m)
			if byShape[shape] == nil {
				byShape[shape] = make(map[int][]parsedDate)
			}
			byShape[shape][i] = append(byShape[shape][i], parsedDate{original: m, parsed: t})
		}
	}

	target, ok := "", false
	for shape, members := range byShape {
		if len(members) != len(cands) {
			continue
		}
		if !ok || shape > target {
			target, ok = shape, true
		}
	}
	if !ok {
		return out
	}

	for i := range cands {
		var best parsedDate
		for _, d := range byShape[target][i] {
			if len(d.original) > len(best.original) {
				best = d
			}
		}
		s := best.parsed.Format(DateLayout)
		out[i] = &s
	}
	return out
}

// parseDate parses a matched date expression. Missing years come from ref,
// and a bare time of day falls on ref's date.
func parseDate(m string, ref time.Time) (time.Time, bool) {
	if g := clockOnly.FindStringSubmatch(strings.TrimSpace(m)); g != nil {
		layout, value := "15:04", g[1]
		if g[2] != "" {
			layout, value = "3:04pm", g[1]+strings.ToLower(g[2])
		}
		clock, err := time.Parse(layout, value)
		if err != nil {
			return time.Time{}, false
		}
		return time.Date(ref.Year(), ref.Month(), ref.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC), true
	}

	t, err := dateparse.ParseIn(m, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	if t.Year() == 0 {
		t = time.Date(ref.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	}
	return t, true
}

// cleanPost finds the post heading and returns its text as the title along
// with the remaining text lines trimmed to trim words.
func cleanPost(n *html.Node, trim int) (*string, []string) {
	heading := findHeading(n)

	var title *string
	if heading != nil {
		t := collapse(nodeText(heading))
		title = &t
	}

	post := trimLines(strippedStrings(n, heading), trim)
	if len(post) == 0 && title == nil {
		post = []string{noPostText}
	}
	return title, post
}

// findHeading returns the first h1-h3 below n, else the first element below
// n whose class mentions "title", else n itself when it is a link.
func findHeading(n *html.Node) *html.Node {
	sel := selection(n)
	if h := sel.Find(headingSelector).First(); h.Length() > 0 {
		return h.Get(0)
	}
	if h := sel.Find(`[class*="title"]`).First(); h.Length() > 0 {
		return h.Get(0)
	}
	if sel.Is("a") {
		return n
	}
	return nil
}

// trimLines keeps whole lines until the word budget runs out, then the
// leading words of the line that crosses it.
func trimLines(lines []string, trim int) []string {
	out := []string{}
	if trim <= 0 {
		return append(out, lines...)
	}

	count := 0
	for _, line := range lines {
		words := strings.Fields(line)
		if count+len(words) > trim {
			if rest := trim - count; rest > 0 {
				out = append(out, strings.Join(words[:rest], " "))
			}
			break
		}
		count += len(words)
		out = append(out, line)
	}
	return out
}

// Samples converts candidates into the classifier's view of them.
func Samples(cands []Candidate) []postfetch.PostSample {
	out := make([]postfetch.PostSample, len(cands))
	for i, c := range cands {
		out[i] = postfetch.PostSample{
			Text:         c.Text,
			Markup:       render(c.Node),
			ElementCount: selection(c.Node).Find("*").Length(),
		}
	}
	return out
}
