package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/postfetch/bloom"
	"github.com/stretchr/testify/assert"
)

func TestURLSet_Add(t *testing.T) {
	t.Parallel()

	t.Run("reports new URLs once", func(t *testing.T) {
		t.Parallel()

		s := bloom.NewURLSet(1000, 0.01)

		assert.True(t, s.Add("https://example.com/blog"))
		assert.False(t, s.Add("https://example.com/blog"))
		assert.True(t, s.Add("https://example.com/news"))
	})

	t.Run("treats equivalent URLs as the same", func(t *testing.T) {
		t.Parallel()

		s := bloom.NewURLSet(1000, 0.01)

		assert.True(t, s.Add("https://example.com/blog"))
		assert.False(t, s.Add("http://www.example.com/blog/"))
		assert.False(t, s.Add("https://example.com/blog#latest"))
	})

	t.Run("keeps URLs without a normal form", func(t *testing.T) {
		t.Parallel()

		s := bloom.NewURLSet(1000, 0.01)

		assert.True(t, s.Add("/"))
		assert.False(t, s.Add("/"))
	})
}

func TestURLSet_EstimatedCount(t *testing.T) {
	t.Parallel()

	s := bloom.NewURLSet(1000, 0.01)
	assert.Equal(t, uint(0), s.EstimatedCount())

	for i := range 3 {
		s.Add(fmt.Sprintf("https://example.com/page%d", i))
	}
	s.Add("https://example.com/page0")

	count := s.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}
