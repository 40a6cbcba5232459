package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/postfetch"
)

// Ensure LoggingFinder implements postfetch.Finder.
var _ postfetch.Finder = (*LoggingFinder)(nil)

// LoggingFinder wraps a Finder with logging.
type LoggingFinder struct {
	next   postfetch.Finder
	logger *slog.Logger
}

// NewLoggingFinder creates a new LoggingFinder.
func NewLoggingFinder(next postfetch.Finder, logger *slog.Logger) *LoggingFinder {
	return &LoggingFinder{next: next, logger: logger}
}

// FindPosts delegates to the wrapped finder and logs the method that won.
func (f *LoggingFinder) FindPosts(ctx context.Context, req *postfetch.Request) (res *postfetch.Result, err error) {
	defer func(begin time.Time) {
		var method postfetch.Method
		var posts int
		if res != nil {
			method = res.Method
			posts = len(res.Posts)
		}
		f.logger.Info("find posts",
			"url", req.URL,
			"method", method,
			"posts", posts,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FindPosts(ctx, req)
}
