package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/bdmscrape"
	"github.com/fwojciec/bdmscrape/bloom"
	"github.com/stretchr/testify/assert"
)

var _ bdmscrape.URLSet = (*bloom.Filter)(nil)

const articleURL = "https://www.blogdumoderateur.com/web/article-1/"

func TestFilter_AddAndTest(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.Test(articleURL))

	f.Add(articleURL)

	assert.True(t, f.Test(articleURL))
	assert.False(t, f.Test("https://www.blogdumoderateur.com/web/article-2/"))
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)
	assert.Equal(t, uint(0), f.EstimatedCount())

	for i := range 3 {
		f.Add(fmt.Sprintf("https://www.blogdumoderateur.com/web/article-%d/", i))
	}

	count := f.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestFilter_AddIsIdempotent(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	f.Add(articleURL)
	countAfterFirst := f.EstimatedCount()

	f.Add(articleURL)
	f.Add(articleURL)

	assert.Equal(t, countAfterFirst, f.EstimatedCount())
	assert.True(t, f.Test(articleURL))
}

func TestNewFilterFromURLs(t *testing.T) {
	t.Parallel()

	t.Run("contains every seed URL", func(t *testing.T) {
		t.Parallel()

		urls := make([]string, 50)
		for i := range urls {
			urls[i] = fmt.Sprintf("https://www.blogdumoderateur.com/tech/article-%d/", i)
		}

		f := bloom.NewFilterFromURLs(urls)

		for _, u := range urls {
			assert.True(t, f.Test(u), u)
		}
	})

	t.Run("empty seed yields an empty filter", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilterFromURLs(nil)

		assert.Equal(t, uint(0), f.EstimatedCount())
		assert.False(t, f.Test(articleURL))
	})
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const (
		numItems   = 10000
		fpRate     = 0.01
		testProbes = 10000
	)

	f := bloom.NewFilter(numItems, fpRate)
	for i := range numItems {
		f.Add(fmt.Sprintf("https://www.blogdumoderateur.com/added/%d/", i))
	}

	falsePositives := 0
	for i := range testProbes {
		if f.Test(fmt.Sprintf("https://www.blogdumoderateur.com/notadded/%d/", i)) {
			falsePositives++
		}
	}

	// Allow up to 2% for statistical variance.
	actualRate := float64(falsePositives) / float64(testProbes)
	assert.Less(t, actualRate, 0.02, "false positive rate %f exceeds 2%%", actualRate)
}
