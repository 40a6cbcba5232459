package mock

import "github.com/fwojciec/postfetch"

// Compile-time interface verification.
var (
	_ postfetch.Extractor = (*Extractor)(nil)
	_ postfetch.Converter = (*Converter)(nil)
)

// Extractor is a mock implementation of postfetch.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*postfetch.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*postfetch.ExtractResult, error) {
	return e.ExtractFn(html)
}

// Converter is a mock implementation of postfetch.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
