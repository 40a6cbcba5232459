package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/postfetch"
)

// Ensure LoggingFeedFinder implements postfetch.FeedFinder.
var _ postfetch.FeedFinder = (*LoggingFeedFinder)(nil)

// LoggingFeedFinder wraps a FeedFinder with logging.
type LoggingFeedFinder struct {
	next   postfetch.FeedFinder
	logger *slog.Logger
}

// NewLoggingFeedFinder creates a new LoggingFeedFinder.
func NewLoggingFeedFinder(next postfetch.FeedFinder, logger *slog.Logger) *LoggingFeedFinder {
	return &LoggingFeedFinder{next: next, logger: logger}
}

// FindFeedURLs delegates to the wrapped finder and logs the outcome.
func (f *LoggingFeedFinder) FindFeedURLs(ctx context.Context, pageURL, html string) (urls []string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("feed discovery",
			"finder", f.next.Name(),
			"url", pageURL,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FindFeedURLs(ctx, pageURL, html)
}

// Name delegates to the wrapped finder.
func (f *LoggingFeedFinder) Name() string {
	return f.next.Name()
}
