package mock

import (
	"context"

	"github.com/fwojciec/postfetch"
)

var _ postfetch.Classifier = (*Classifier)(nil)

// Classifier is a mock implementation of postfetch.Classifier.
type Classifier struct {
	PredictFn func(ctx context.Context, page *postfetch.PageSample, posts []postfetch.PostSample) (int, error)
}

func (c *Classifier) Predict(ctx context.Context, page *postfetch.PageSample, posts []postfetch.PostSample) (int, error) {
	return c.PredictFn(ctx, page, posts)
}
