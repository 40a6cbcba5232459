// Package slog decorates postfetch services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/postfetch"
)

// Ensure LoggingFetcher implements postfetch.Fetcher.
var _ postfetch.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   postfetch.Fetcher
	name   string
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher. The name tells fetchers
// apart in the log (e.g., "http", "rod").
func NewLoggingFetcher(next postfetch.Fetcher, name string, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, name: name, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"fetcher", f.name,
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
