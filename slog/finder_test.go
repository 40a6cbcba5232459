package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/postfetch"
	"github.com/fwojciec/postfetch/mock"
	pfslog "github.com/fwojciec/postfetch/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFinder_FindPosts(t *testing.T) {
	t.Parallel()

	t.Run("logs the winning method", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Finder{
			FindPostsFn: func(_ context.Context, req *postfetch.Request) (*postfetch.Result, error) {
				return &postfetch.Result{PostSet: postfetch.PostSet{
					Method: postfetch.MethodArticle,
					URL:    req.URL,
					Posts:  make([]postfetch.PostRecord, 3),
				}}, nil
			},
		}

		res, err := pfslog.NewLoggingFinder(inner, logger).FindPosts(context.Background(), &postfetch.Request{URL: "https://example.com/"})

		require.NoError(t, err)
		assert.Equal(t, postfetch.MethodArticle, res.Method)
		output := buf.String()
		assert.Contains(t, output, "find posts")
		assert.Contains(t, output, "method=article")
		assert.Contains(t, output, "posts=3")
	})

	t.Run("logs application errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Finder{
			FindPostsFn: func(_ context.Context, _ *postfetch.Request) (*postfetch.Result, error) {
				return nil, postfetch.Errorf(postfetch.ETIMEOUT, postfetch.MsgPageTimedOut)
			},
		}

		_, err := pfslog.NewLoggingFinder(inner, logger).FindPosts(context.Background(), &postfetch.Request{URL: "https://example.com/"})

		require.Error(t, err)
		assert.Contains(t, buf.String(), "code=timeout")
	})
}
