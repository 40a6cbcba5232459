package postfetch_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/postfetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_MarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("encodes error results with only the error key", func(t *testing.T) {
		t.Parallel()

		r := postfetch.ErrorResult(postfetch.Errorf(postfetch.ETIMEOUT, postfetch.MsgPageTimedOut))

		data, err := json.Marshal(r)
		require.NoError(t, err)
		assert.JSONEq(t, `{"error":"Page timed out."}`, string(data))
	})

	t.Run("encodes main content with null validity", func(t *testing.T) {
		t.Parallel()

		r := &postfetch.Result{
			PostSet:     postfetch.PostSet{Method: postfetch.MethodMainContent, URL: "https://example.com"},
			MainContent: []string{"First line", "Second line"},
		}

		data, err := json.Marshal(r)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"method": "main content",
			"valid_post_set": null,
			"url": "https://example.com",
			"main_content": ["First line", "Second line"]
		}`, string(data))
	})

	t.Run("encodes post sets with optional titles and null dates", func(t *testing.T) {
		t.Parallel()

		valid := true
		title := "Hello"
		date := "2023-01-05 00:00:00"
		r := &postfetch.Result{PostSet: postfetch.PostSet{
			Method: postfetch.MethodClassBased,
			Valid:  &valid,
			URL:    "https://example.com/blog",
			Posts: []postfetch.PostRecord{
				{Title: &title, Post: []string{"Body"}, URL: "https://example.com/p1", Date: &date},
				{Post: []string{"Other"}, URL: "https://example.com/p2"},
			},
		}}

		data, err := json.Marshal(r)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"method": "class-based",
			"valid_post_set": true,
			"url": "https://example.com/blog",
			"posts": [
				{"title": "Hello", "post": ["Body"], "url": "https://example.com/p1", "date": "2023-01-05 00:00:00"},
				{"post": ["Other"], "url": "https://example.com/p2", "date": null}
			]
		}`, string(data))
	})

	t.Run("decodes what it encodes", func(t *testing.T) {
		t.Parallel()

		r := &postfetch.Result{
			PostSet: postfetch.PostSet{
				Method: postfetch.MethodFeed,
				URL:    "https://example.com",
				Posts:  []postfetch.PostRecord{{Post: []string{"a"}, URL: "https://example.com/a"}},
			},
			FullText: "page text",
		}

		data, err := json.Marshal(r)
		require.NoError(t, err)

		var got postfetch.Result
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, postfetch.MethodFeed, got.Method)
		assert.Nil(t, got.Valid)
		assert.Equal(t, "page text", got.FullText)
		require.Len(t, got.Posts, 1)
		assert.Equal(t, "https://example.com/a", got.Posts[0].URL)
	})
}
