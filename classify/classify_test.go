package classify_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/postfetch"
	"github.com/fwojciec/postfetch/classify"
	"github.com/fwojciec/postfetch/features"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dateStump votes for sets where most posts carry a date.
const dateStump = `{"nodes":[
	{"feature":0,"threshold":0.5,"left":1,"right":2},
	{"label":0},
	{"label":1}
]}`

func forestJSON(trees ...string) string {
	return `{"version":1,"features":["prop_posts_with_date"],"trees":[` + strings.Join(trees, ",") + `]}`
}

var (
	datedPosts = []postfetch.PostSample{
		{Text: "Jan 5, 2023 First post about gardening today"},
		{Text: "Feb 6, 2023 Second story on cooking pasta"},
	}
	menuPosts = []postfetch.PostSample{
		{Text: "Home"},
		{Text: "About"},
		{Text: "Contact"},
	}
	page = &postfetch.PageSample{
		URL:  "https://example.com/",
		Text: "Site header navigation footer Jan 5, 2023 First post about gardening today Feb 6, 2023 Second story on cooking pasta Home About Contact",
	}
)

func TestForest_Predict(t *testing.T) {
	t.Parallel()

	t.Run("accepts when most trees vote yes", func(t *testing.T) {
		t.Parallel()

		f, err := classify.ReadForest(strings.NewReader(forestJSON(dateStump, dateStump, `{"nodes":[{"label":0}]}`)))
		require.NoError(t, err)

		pred, err := f.Predict(context.Background(), page, datedPosts)

		require.NoError(t, err)
		assert.Equal(t, postfetch.Accepted, pred)
	})

	t.Run("rejects when most trees vote no", func(t *testing.T) {
		t.Parallel()

		f, err := classify.ReadForest(strings.NewReader(forestJSON(dateStump, dateStump, `{"nodes":[{"label":1}]}`)))
		require.NoError(t, err)

		pred, err := f.Predict(context.Background(), page, menuPosts)

		require.NoError(t, err)
		assert.Equal(t, 0, pred)
	})

	t.Run("rejects on a tied vote", func(t *testing.T) {
		t.Parallel()

		f, err := classify.ReadForest(strings.NewReader(forestJSON(`{"nodes":[{"label":1}]}`, `{"nodes":[{"label":0}]}`)))
		require.NoError(t, err)

		pred, err := f.Predict(context.Background(), page, datedPosts)

		require.NoError(t, err)
		assert.Equal(t, 0, pred)
	})

	t.Run("returns the context error", func(t *testing.T) {
		t.Parallel()

		f, err := classify.ReadForest(strings.NewReader(forestJSON(dateStump)))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = f.Predict(ctx, page, datedPosts)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewForest(t *testing.T) {
	t.Parallel()

	leaf := classify.Tree{Nodes: []classify.Node{{Label: 1}}}

	tests := []struct {
		name  string
		model classify.Model
	}{
		{"wrong version", classify.Model{Version: features.Version + 1, Trees: []classify.Tree{leaf}}},
		{"no trees", classify.Model{Version: features.Version}},
		{"unknown feature", classify.Model{Version: features.Version, Features: []string{"word_count"}, Trees: []classify.Tree{leaf}}},
		{"empty tree", classify.Model{Version: features.Version, Trees: []classify.Tree{{}}}},
		{"feature out of range", classify.Model{
			Version: features.Version,
			Trees:   []classify.Tree{{Nodes: []classify.Node{{Feature: 0, Left: 1, Right: 2}, {}, {}}}},
		}},
		{"child out of range", classify.Model{
			Version:  features.Version,
			Features: []string{"post_count"},
			Trees:    []classify.Tree{{Nodes: []classify.Node{{Feature: 0, Left: 1, Right: 5}, {}}}},
		}},
	}

	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := classify.NewForest(tt.model)

			require.Error(t, err)
			assert.Equal(t, postfetch.EINVALID, postfetch.ErrorCode(err))
		})
	}
}

func TestReadForest(t *testing.T) {
	t.Parallel()

	_, err := classify.ReadForest(strings.NewReader("{not json"))

	assert.Equal(t, postfetch.EINVALID, postfetch.ErrorCode(err))
}

func TestOpenForest(t *testing.T) {
	t.Parallel()

	t.Run("loads a model file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "model.json")
		require.NoError(t, os.WriteFile(path, []byte(forestJSON(dateStump)), 0o600))

		f, err := classify.OpenForest(path)
		require.NoError(t, err)

		pred, err := f.Predict(context.Background(), page, datedPosts)
		require.NoError(t, err)
		assert.Equal(t, postfetch.Accepted, pred)
	})

	t.Run("fails for a missing file", func(t *testing.T) {
		t.Parallel()

		_, err := classify.OpenForest(filepath.Join(t.TempDir(), "missing.json"))

		assert.Error(t, err)
	})
}

func TestRules_Predict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		posts []postfetch.PostSample
		want  int
	}{
		{"accepts dated posts", datedPosts, postfetch.Accepted},
		{"rejects menu items", menuPosts, 0},
		{"rejects identical posts", []postfetch.PostSample{
			{Text: "Jan 5, 2023 Same text here again"},
			{Text: "Jan 5, 2023 Same text here again"},
		}, 0},
		{"rejects an empty set", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pred, err := classify.DefaultRules().Predict(context.Background(), page, tt.posts)

			require.NoError(t, err)
			assert.Equal(t, tt.want, pred)
		})
	}
}
