// Package features computes the numeric description of a candidate post set
// that the acceptance classifier works on.
package features

import (
	"math"
	"strings"

	"github.com/fwojciec/postfetch"
	"github.com/fwojciec/postfetch/pattern"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/rivo/uniseg"
)

// Version identifies the feature order below. Models trained against another
// version are rejected.
const Version = 1

// Feature indexes into a post-set vector.
const (
	PostTextProportion = iota
	AvgPostWordCount
	PropPostsWithDate
	DatesPerPost
	PropPostsWithPostTerm
	PostTermsPerPost
	AvgSentLength
	CVPostWordCount
	AvgPostSimilarity
	LexicalDiversity
	WordsPerLine
	MeanElementCount
	PostCount
)

// PostSetNames lists the post-set features in vector order.
var PostSetNames = []string{
	"post_text_proportion",
	"avg_post_word_count",
	"prop_posts_with_date",
	"dates_per_post",
	"prop_posts_with_post_term",
	"post_terms_per_post",
	"avg_sent_length",
	"cv_post_word_count",
	"avg_post_similarity",
	"lexical_diversity",
	"words_per_line",
	"mean_element_count",
	"post_count",
}

// asciiThreshold is the share of ASCII characters below which text is
// segmented with Unicode word boundaries instead of whitespace.
const asciiThreshold = 0.75

// PostSet returns the feature vector of posts found on page, in
// PostSetNames order. Every value is rounded to two decimals. An empty post
// set yields a zero vector.
func PostSet(page *postfetch.PageSample, posts []postfetch.PostSample) []float64 {
	v := make([]float64, len(PostSetNames))
	n := len(posts)
	if n == 0 {
		return v
	}

	var pageText string
	if page != nil {
		pageText = page.Text
	}
	tokenize := strings.Fields
	if asciiProportion(pageText) < asciiThreshold {
		tokenize = segmentWords
	}

	var (
		wordCounts    = make([]float64, n)
		totalWords    int
		withDate      int
		dateCount     int
		withTerm      int
		termCount     int
		sentenceCount int
		elementCount  int
		lineCount     int
		vocabulary    = make(map[string]bool)
	)
	for i, p := range posts {
		words := tokenize(p.Text)
		wordCounts[i] = float64(len(words))
		totalWords += len(words)
		for _, w := range words {
			vocabulary[w] = true
		}

		dates := distinct(pattern.Dates(p.Text))
		dateCount += len(dates)
		if len(dates) > 0 {
			withDate++
		}

		terms := pattern.PostTerms(p.Markup)
		termCount += len(terms)
		if len(terms) > 0 {
			withTerm++
		}

		sentenceCount += len(sentences(p.Text))
		elementCount += p.ElementCount
		lineCount += len(strings.Split(p.Text, "\n"))
	}

	count := float64(n)
	avgWords := float64(totalWords) / count

	v[PostTextProportion] = ratio(float64(totalWords), float64(len(tokenize(pageText))))
	v[AvgPostWordCount] = avgWords
	v[PropPostsWithDate] = float64(withDate) / count
	v[DatesPerPost] = float64(dateCount) / count
	v[PropPostsWithPostTerm] = float64(withTerm) / count
	v[PostTermsPerPost] = float64(termCount) / count
	v[AvgSentLength] = ratio(float64(totalWords), float64(sentenceCount))
	v[CVPostWordCount] = ratio(stdev(wordCounts, avgWords), round(avgWords))
	v[AvgPostSimilarity] = avgSimilarity(posts)
	v[LexicalDiversity] = ratio(float64(len(vocabulary)), float64(totalWords))
	v[WordsPerLine] = ratio(float64(totalWords), float64(lineCount))
	v[MeanElementCount] = float64(elementCount) / count
	v[PostCount] = count

	for i := range v {
		v[i] = round(v[i])
	}
	return v
}

// Named returns the vector keyed by feature name.
func Named(v []float64) map[string]float64 {
	m := make(map[string]float64, len(v))
	for i, x := range v {
		if i < len(PostSetNames) {
			m[PostSetNames[i]] = x
		}
	}
	return m
}

func asciiProportion(s string) float64 {
	if s == "" {
		return 1
	}
	var ascii, total int
	for _, r := range s {
		total++
		if r <= 127 {
			ascii++
		}
	}
	return float64(ascii) / float64(total)
}

// segmentWords splits s at Unicode word boundaries and drops the
// whitespace-only segments.
func segmentWords(s string) []string {
	var words []string
	state := -1
	for len(s) > 0 {
		var word string
		word, s, state = uniseg.FirstWordInString(s, state)
		if strings.TrimSpace(word) != "" {
			words = append(words, word)
		}
	}
	return words
}

// avgSimilarity returns the mean pairwise similarity ratio of the post
// texts, or 1 for a single post.
func avgSimilarity(posts []postfetch.PostSample) float64 {
	if len(posts) < 2 {
		return 1
	}

	chars := make([][]string, len(posts))
	for i, p := range posts {
		chars[i] = strings.Split(p.Text, "")
	}

	var sum float64
	var pairs int
	for i := 0; i < len(chars); i++ {
		for j := i + 1; j < len(chars); j++ {
			sum += similarity(chars[i], chars[j])
			pairs++
		}
	}
	return sum / float64(pairs)
}

func similarity(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	return difflib.NewMatcher(a, b).Ratio()
}

// stdev returns the sample standard deviation, or 0 for fewer than two values.
func stdev(xs []float64, mean float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var ss float64
	for _, x := range xs {
		ss += (x - mean) * (x - mean)
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func round(x float64) float64 {
	return math.Round(x*100) / 100
}

func distinct(xs []string) []string {
	seen := make(map[string]bool, len(xs))
	var out []string
	for _, x := range xs {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	return out
}
