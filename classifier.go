package postfetch

import "context"

// PostSample is the classifier's view of one candidate post.
type PostSample struct {
	// Text is the candidate's visible text.
	Text string

	// Markup is the candidate's serialized HTML.
	Markup string

	// ElementCount is the number of elements in the candidate subtree.
	ElementCount int
}

// PageSample is the classifier's view of the page the posts came from.
type PageSample struct {
	URL  string
	Text string
}

// Classifier decides whether a candidate list of posts is a real post
// listing. A prediction of 1 accepts the set; anything else rejects it.
type Classifier interface {
	Predict(ctx context.Context, page *PageSample, posts []PostSample) (int, error)
}

// Accepted is the positive classifier label.
const Accepted = 1
