package postfetch

import (
	"context"
	"time"
)

// Extraction is a stored extraction result for a URL.
type Extraction struct {
	ID        string  `json:"id"`
	URL       string  `json:"url"`
	Method    Method  `json:"method"`
	Valid     *bool   `json:"validPostSet"`
	PostCount int     `json:"postCount"`
	Error     string  `json:"error"`
	Result    *Result `json:"result"`

	// ResultHash fingerprints the serialized result so repeated runs over an
	// unchanged page can be recognised.
	ResultHash string    `json:"resultHash"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewExtraction builds an extraction record from a result.
func NewExtraction(url string, r *Result) *Extraction {
	e := &Extraction{URL: url, Result: r}
	if r != nil {
		e.Method = r.Method
		e.Valid = r.Valid
		e.Error = r.Error
		e.PostCount = len(r.Posts)
	}
	return e
}

// Validate returns an error if the extraction contains invalid fields.
func (e *Extraction) Validate() error {
	if e.URL == "" {
		return Errorf(EINVALID, "extraction URL required")
	}
	if e.Result == nil {
		return Errorf(EINVALID, "extraction result required")
	}
	return nil
}

// ExtractionService represents a service for managing stored extractions.
type ExtractionService interface {
	// CreateExtraction stores a new extraction, assigning its ID, hash and timestamp.
	CreateExtraction(ctx context.Context, e *Extraction) error

	// FindExtractionByID retrieves an extraction by ID.
	// Returns ENOTFOUND if the extraction does not exist.
	FindExtractionByID(ctx context.Context, id string) (*Extraction, error)

	// FindExtractions retrieves extractions matching the filter, newest first.
	FindExtractions(ctx context.Context, filter ExtractionFilter) ([]*Extraction, error)

	// DeleteExtraction permanently removes an extraction.
	// Returns ENOTFOUND if the extraction does not exist.
	DeleteExtraction(ctx context.Context, id string) error
}

// ExtractionFilter represents a filter for FindExtractions.
type ExtractionFilter struct {
	ID     *string `json:"id"`
	URL    *string `json:"url"`
	Method *Method `json:"method"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
