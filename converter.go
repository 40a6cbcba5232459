package postfetch

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms clean HTML (e.g., from an Extractor) into Markdown.
	Convert(html string) (string, error)
}
