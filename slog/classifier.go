package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/postfetch"
)

// Ensure LoggingClassifier implements postfetch.Classifier.
var _ postfetch.Classifier = (*LoggingClassifier)(nil)

// LoggingClassifier wraps a Classifier with logging.
type LoggingClassifier struct {
	next   postfetch.Classifier
	logger *slog.Logger
}

// NewLoggingClassifier creates a new LoggingClassifier.
func NewLoggingClassifier(next postfetch.Classifier, logger *slog.Logger) *LoggingClassifier {
	return &LoggingClassifier{next: next, logger: logger}
}

// Predict delegates to the wrapped classifier and logs the verdict.
func (c *LoggingClassifier) Predict(ctx context.Context, page *postfetch.PageSample, posts []postfetch.PostSample) (pred int, err error) {
	defer func(begin time.Time) {
		c.logger.Info("classify",
			"url", page.URL,
			"posts", len(posts),
			"accepted", pred == postfetch.Accepted,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Predict(ctx, page, posts)
}
