package readability_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/postfetch"
	"github.com/fwojciec/postfetch/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storyPage = `<!DOCTYPE html>
<html>
<head><title>Harbour walls repaired after winter storms</title></head>
<body>
<header><nav><a href="/">Home</a> <a href="/news">News</a></nav></header>
<article>
<h1>Harbour walls repaired after winter storms</h1>
<p>Work on the eastern harbour wall finished this week, three months after the January storms tore a gap in the breakwater.</p>
<p>The council said the repairs came in under budget and the slipway will reopen to small boats on Saturday morning.</p>
<p>Fishermen who had moved their boats to the neighbouring village are expected to return before the start of the summer season.</p>
</article>
<aside class="related"><a href="/news/other">Other news</a></aside>
<footer>Local News Network</footer>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts title, content and text", func(t *testing.T) {
		t.Parallel()

		result, err := readability.NewExtractor().Extract(storyPage)

		require.NoError(t, err)
		assert.Equal(t, "Harbour walls repaired after winter storms", result.Title)
		assert.Contains(t, result.ContentHTML, "eastern harbour wall")
		assert.Contains(t, result.Text, "slipway will reopen")
		assert.NotContains(t, result.Text, "Local News Network")
	})

	t.Run("puts each paragraph on its own line", func(t *testing.T) {
		t.Parallel()

		result, err := readability.NewExtractor().Extract(storyPage)

		require.NoError(t, err)
		lines := strings.Split(result.Text, "\n")
		assert.Contains(t, lines, "The council said the repairs came in under budget and the slipway will reopen to small boats on Saturday morning.")
		assert.Contains(t, lines, "Fishermen who had moved their boats to the neighbouring village are expected to return before the start of the summer season.")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := readability.NewExtractor().Extract("")

		require.Error(t, err)
		assert.Equal(t, postfetch.EINVALID, postfetch.ErrorCode(err))
	})
}
