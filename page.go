package postfetch

import (
	"context"
	"time"
)

// Default option values.
const (
	DefaultMaxPosts    = 5
	DefaultTrim        = 30
	DefaultPageTimeout = 20 * time.Second
)

// Page is a fetched HTML document.
type Page struct {
	URL  string
	HTML string
}

// Options controls a single extraction request.
type Options struct {
	// MaxPosts caps the number of records in a post set.
	MaxPosts int

	// Trim is the word budget for each post body.
	Trim int

	// Clean splits posts into title and body lines.
	// Without it a post is its raw text.
	Clean bool

	// LookForBlog enables discovery of blog-like pages linked from the start page.
	LookForBlog bool

	// ClassOnly runs only the class-signature strategy and returns the last
	// attempted set even when the classifier rejected it.
	ClassOnly bool

	// FullText attaches the plain text of the page to the result.
	FullText bool

	// PageTimeout bounds page acquisition.
	PageTimeout time.Duration

	// ReferenceTime supplies the fields a post date leaves out, such as the
	// year of "Jan 5" or the day of "10:30". Zero means the current time.
	ReferenceTime time.Time
}

// DefaultOptions returns the options used when none are specified.
func DefaultOptions() Options {
	return Options{
		MaxPosts:    DefaultMaxPosts,
		Trim:        DefaultTrim,
		Clean:       true,
		LookForBlog: true,
		PageTimeout: DefaultPageTimeout,
	}
}

// Validate returns an error if the options are out of range.
func (o Options) Validate() error {
	if o.MaxPosts < 1 {
		return Errorf(EINVALID, "max posts must be positive")
	}
	if o.Trim < 1 {
		return Errorf(EINVALID, "trim must be positive")
	}
	if o.PageTimeout < 0 {
		return Errorf(EINVALID, "page timeout must not be negative")
	}
	return nil
}

// Request is a single extraction request.
type Request struct {
	URL string

	// HTML, when set, is used as the only page and no fetching happens.
	HTML string

	Options
}

// Validate returns an error if the request cannot be served.
func (r *Request) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "request URL required")
	}
	return r.Options.Validate()
}

// PageSource acquires the pages worth trying for a start URL, in the order
// they should be tried. The start page is always last.
type PageSource interface {
	Pages(ctx context.Context, startURL string, lookForBlog bool) ([]*Page, error)
}

// Finder runs the extraction cascade for one request.
type Finder interface {
	// FindPosts returns the first accepted post set, main content, or an
	// application error (ENOTFOUND, ETIMEOUT).
	FindPosts(ctx context.Context, req *Request) (*Result, error)
}
