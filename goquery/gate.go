package goquery

import (
	"context"

	"github.com/fwojciec/postfetch"
)

// Gate submits candidate sets to a classifier. A Gate without a classifier
// accepts everything without a verdict.
type Gate struct {
	Classifier postfetch.Classifier
	Page       *postfetch.PageSample
}

// Accept returns the classifier verdict for cands, or nil when no
// classifier is configured.
func (g *Gate) Accept(ctx context.Context, cands []Candidate) (*bool, error) {
	if g == nil || g.Classifier == nil {
		return nil, nil
	}
	pred, err := g.Classifier.Predict(ctx, g.Page, Samples(cands))
	if err != nil {
		return nil, err
	}
	ok := pred == postfetch.Accepted
	return &ok, nil
}

// Accepted reports whether a verdict lets a set through.
func Accepted(valid *bool) bool {
	return valid == nil || *valid
}
