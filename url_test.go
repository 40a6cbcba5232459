package postfetch_test

import (
	"testing"

	"github.com/fwojciec/postfetch"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		base string
		want string
	}{
		{name: "strips scheme and www", raw: "https://www.example.com/blog/", want: "example.com/blog"},
		{name: "strips fragment", raw: "https://example.com/a#comments", want: "example.com/a"},
		{name: "strips query", raw: "http://example.com/a?utm=1", want: "example.com/a"},
		{name: "strips protocol-relative prefix", raw: "//example.com/a", want: "example.com/a"},
		{name: "resolves relative against base", raw: "/posts/1", base: "https://example.com/blog", want: "example.com/posts/1"},
		{name: "keeps inner double slashes", raw: "https://example.com/a//b", want: "example.com/a//b"},
		{name: "keeps only www prefix removal", raw: "www.wwwexample.com", want: "wwwexample.com"},
		{name: "handles empty", raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, postfetch.NormalizeURL(tt.raw, tt.base))
		})
	}
}

func TestNormalizeURL_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"https://www.example.com/blog/",
		"HTTP://www.www.example.com//x//",
		"//cdn.example.com/feed.xml?x=1#y",
		"/relative/path/",
		"mailto:someone@example.com",
		"https://example.com/a//b/",
		"www./",
		"   https://example.com   ",
	}

	for _, in := range inputs {
		once := postfetch.NormalizeURL(in, "")
		assert.Equal(t, once, postfetch.NormalizeURL(once, ""), "input %q", in)
	}
}

func TestSameDomain(t *testing.T) {
	t.Parallel()

	assert.True(t, postfetch.SameDomain("https://www.example.com/a", "http://example.com/b"))
	assert.False(t, postfetch.SameDomain("https://example.com/a", "https://blog.example.com/b"))
	assert.False(t, postfetch.SameDomain("/a", "/b"))
}
