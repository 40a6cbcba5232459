package postfetch

// ExtractResult holds the main content extracted from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string

	// Text is the plain text of the main content.
	Text string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
// It backs the last-resort "main content" result.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}
