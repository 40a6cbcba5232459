// Package crawl runs the post extraction cascade: it acquires candidate
// pages for a start URL and tries each extraction strategy on them in turn.
package crawl

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/fwojciec/postfetch"
	"github.com/fwojciec/postfetch/goquery"
)

var _ postfetch.Finder = (*Finder)(nil)

// minFeedURLs is the fewest discovered post URLs worth clustering.
const minFeedURLs = 2

// Finder tries, on every candidate page: article elements, the primary feed
// finder, the secondary feed finder, class signatures and, on the last page
// only, the page's main content. The first set found wins.
type Finder struct {
	Pages postfetch.PageSource

	// Feeds is trusted structurally: its sets are returned without
	// consulting the classifier.
	Feeds postfetch.FeedFinder

	// Links sets are gated like the DOM strategies.
	Links postfetch.FeedFinder

	// Classifier gates candidate sets. Without one every set is accepted
	// and reported with a nil verdict.
	Classifier postfetch.Classifier

	Extractor postfetch.Extractor

	// Converter, if set, renders the extracted content HTML into the main
	// content lines instead of using the extracted plain text.
	Converter postfetch.Converter

	Logger *slog.Logger
}

// FindPosts runs the cascade for req. Page acquisition failures are
// ENOTFOUND or ETIMEOUT; a page that yields nothing at all is ENOTFOUND
// with postfetch.MsgNoContentFound.
func (f *Finder) FindPosts(ctx context.Context, req *postfetch.Request) (*postfetch.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	pages, err := f.pages(ctx, req)
	if err != nil {
		return nil, err
	}

	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var res *postfetch.Result
		if req.ClassOnly {
			res, err = f.classOnly(ctx, req, page)
		} else {
			res, err = f.tryPage(ctx, req, page, i == len(pages)-1)
		}
		if err != nil {
			return nil, err
		}
		if res != nil {
			return res, nil
		}
	}

	return nil, postfetch.Errorf(postfetch.ENOTFOUND, postfetch.MsgNoContentFound)
}

type pagesResult struct {
	pages []*postfetch.Page
	err   error
}

// pages acquires the candidate pages under the page timeout. The deadline
// is enforced here even when the page source ignores its context.
func (f *Finder) pages(ctx context.Context, req *postfetch.Request) ([]*postfetch.Page, error) {
	if req.HTML != "" {
		return []*postfetch.Page{{URL: req.URL, HTML: req.HTML}}, nil
	}

	pctx, cancel := ctx, context.CancelFunc(func() {})
	if req.PageTimeout > 0 {
		pctx, cancel = context.WithTimeout(ctx, req.PageTimeout)
	}
	defer cancel()

	lookForBlog := req.LookForBlog && !req.ClassOnly
	ch := make(chan pagesResult, 1)
	go func() {
		pages, err := f.Pages.Pages(pctx, req.URL, lookForBlog)
		ch <- pagesResult{pages, err}
	}()

	var r pagesResult
	select {
	case r = <-ch:
	case <-pctx.Done():
		r.err = pctx.Err()
	}

	if r.err == nil && len(r.pages) > 0 {
		return r.pages, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if errors.Is(pctx.Err(), context.DeadlineExceeded) {
		return nil, postfetch.Errorf(postfetch.ETIMEOUT, postfetch.MsgPageTimedOut)
	}
	if r.err != nil {
		f.logger().Debug("page acquisition failed", "url", req.URL, "error", r.err)
	}
	return nil, postfetch.Errorf(postfetch.ENOTFOUND, postfetch.MsgPageNotFound)
}

// tryPage runs the strategies on one page. It returns nil when none of
// them found anything.
func (f *Finder) tryPage(ctx context.Context, req *postfetch.Request, page *postfetch.Page, last bool) (*postfetch.Result, error) {
	if strings.TrimSpace(page.HTML) == "" {
		return nil, nil
	}
	doc, err := goquery.NewDocument(page.URL, page.HTML)
	if err != nil {
		f.logger().Debug("skip unparseable page", "url", page.URL, "error", err)
		return nil, nil
	}
	gate := &goquery.Gate{Classifier: f.Classifier, Page: doc.Page()}

	if cands := doc.Articles(); len(cands) > 0 {
		valid, err := gate.Accept(ctx, cands)
		if err != nil {
			return nil, err
		}
		if goquery.Accepted(valid) {
			return f.postSet(req, doc, postfetch.MethodArticle, cands, valid), nil
		}
		f.logger().Debug("articles rejected", "url", page.URL)
	}

	cands, err := f.feedCandidates(ctx, f.Feeds, doc, page)
	if err != nil {
		return nil, err
	}
	if len(cands) > 0 {
		return f.postSet(req, doc, postfetch.MethodFeed, cands, nil), nil
	}

	cands, err = f.feedCandidates(ctx, f.Links, doc, page)
	if err != nil {
		return nil, err
	}
	if len(cands) > 0 {
		valid, err := gate.Accept(ctx, cands)
		if err != nil {
			return nil, err
		}
		if goquery.Accepted(valid) {
			return f.postSet(req, doc, postfetch.MethodLink, cands, valid), nil
		}
		f.logger().Debug("link feed rejected", "url", page.URL)
	}

	found, err := doc.ClassSignature(ctx, gate, false)
	if err != nil {
		return nil, err
	}
	if found != nil {
		return f.postSet(req, doc, postfetch.MethodClassBased, found.Candidates, found.Valid), nil
	}

	if last {
		return f.mainContent(req, doc, page), nil
	}
	return nil, nil
}

// classOnly runs the class-signature strategy alone, keeping the last
// rejected set.
func (f *Finder) classOnly(ctx context.Context, req *postfetch.Request, page *postfetch.Page) (*postfetch.Result, error) {
	if strings.TrimSpace(page.HTML) == "" {
		return nil, nil
	}
	doc, err := goquery.NewDocument(page.URL, page.HTML)
	if err != nil {
		f.logger().Debug("skip unparseable page", "url", page.URL, "error", err)
		return nil, nil
	}

	gate := &goquery.Gate{Classifier: f.Classifier, Page: doc.Page()}
	found, err := doc.ClassSignature(ctx, gate, true)
	if err != nil || found == nil {
		return nil, err
	}
	return f.postSet(req, doc, postfetch.MethodClassBased, found.Candidates, found.Valid), nil
}

// feedCandidates clusters the page links pointing at the URLs a feed
// finder discovered. Finder failures other than cancellation count as
// nothing found.
func (f *Finder) feedCandidates(ctx context.Context, finder postfetch.FeedFinder, doc *goquery.Document, page *postfetch.Page) ([]goquery.Candidate, error) {
	if finder == nil {
		return nil, nil
	}

	urls, err := finder.FindFeedURLs(ctx, page.URL, page.HTML)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		f.logger().Debug("feed finder failed", "finder", finder.Name(), "url", page.URL, "error", err)
		return nil, nil
	}
	if len(urls) < minFeedURLs {
		return nil, nil
	}
	return doc.FeedAnchors(urls), nil
}

// mainContent returns the page's extracted main content lines, or nil when
// there are none.
func (f *Finder) mainContent(req *postfetch.Request, doc *goquery.Document, page *postfetch.Page) *postfetch.Result {
	if f.Extractor == nil {
		return nil
	}
	extracted, err := f.Extractor.Extract(page.HTML)
	if err != nil {
		f.logger().Debug("main content extraction failed", "url", page.URL, "error", err)
		return nil
	}

	lines := f.contentLines(extracted)
	if len(lines) == 0 {
		return nil
	}

	res := &postfetch.Result{
		PostSet:     postfetch.PostSet{Method: postfetch.MethodMainContent, URL: page.URL},
		MainContent: lines,
	}
	if req.FullText {
		res.FullText = doc.Text()
	}
	return res
}

func (f *Finder) contentLines(extracted *postfetch.ExtractResult) []string {
	text := extracted.Text
	if f.Converter != nil && extracted.ContentHTML != "" {
		md, err := f.Converter.Convert(extracted.ContentHTML)
		if err == nil {
			text = md
		} else {
			f.logger().Debug("markdown conversion failed", "error", err)
		}
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func (f *Finder) postSet(req *postfetch.Request, doc *goquery.Document, method postfetch.Method, cands []goquery.Candidate, valid *bool) *postfetch.Result {
	f.logger().Debug("posts found", "method", method, "url", doc.URL(), "count", len(cands))

	res := &postfetch.Result{
		PostSet: postfetch.PostSet{
			Method: method,
			Valid:  valid,
			URL:    doc.URL(),
			Posts:  goquery.Assemble(cands, req.Options),
		},
	}
	if req.FullText {
		res.FullText = doc.Text()
	}
	return res
}

func (f *Finder) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return discardLogger
}
