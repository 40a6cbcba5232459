package classify

import (
	"context"

	"github.com/fwojciec/postfetch"
	"github.com/fwojciec/postfetch/features"
)

// Compile-time interface verification.
var _ postfetch.Classifier = (*Rules)(nil)

// Rules accepts post sets whose features fall inside fixed bounds. It is the
// classifier used when no trained model is configured.
type Rules struct {
	// MinSignal is the share of posts that must carry a date or a post
	// keyword.
	MinSignal float64

	MinAvgWords float64
	MaxAvgWords float64

	// MaxSimilarity rejects sets of near-identical posts such as menus.
	MaxSimilarity float64

	// MaxTextProportion rejects sets that cover almost the whole page.
	MaxTextProportion float64
}

// DefaultRules returns the thresholds used by the CLI.
func DefaultRules() *Rules {
	return &Rules{
		MinSignal:         0.5,
		MinAvgWords:       3,
		MaxAvgWords:       400,
		MaxSimilarity:     0.9,
		MaxTextProportion: 0.95,
	}
}

// Predict returns postfetch.Accepted when every rule holds.
func (r *Rules) Predict(ctx context.Context, page *postfetch.PageSample, posts []postfetch.PostSample) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(posts) == 0 {
		return 0, nil
	}

	v := features.PostSet(page, posts)
	signal := max(v[features.PropPostsWithDate], v[features.PropPostsWithPostTerm])

	switch {
	case signal < r.MinSignal:
		return 0, nil
	case v[features.AvgPostWordCount] < r.MinAvgWords, v[features.AvgPostWordCount] > r.MaxAvgWords:
		return 0, nil
	case len(posts) > 1 && v[features.AvgPostSimilarity] > r.MaxSimilarity:
		return 0, nil
	case v[features.PostTextProportion] > r.MaxTextProportion:
		return 0, nil
	}
	return postfetch.Accepted, nil
}
