// Package bloom provides article URL deduplication using Bloom filters.
package bloom

import (
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/bdmscrape"
)

var _ bdmscrape.URLSet = (*Filter)(nil)

// DefaultFalsePositiveRate is the false positive rate used by NewFilterFromURLs.
const DefaultFalsePositiveRate = 0.01

// minCapacity keeps small seeds from producing a saturated filter once new
// URLs are added during a run.
const minCapacity = 1000

// Filter is a probabilistic set of article URLs.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected URLs
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// NewFilterFromURLs creates a filter holding urls, sized for twice their
// number so URLs added during a run keep the false positive rate low.
func NewFilterFromURLs(urls []string) *Filter {
	n := uint(2 * len(urls))
	if n < minCapacity {
		n = minCapacity
	}
	f := NewFilter(n, DefaultFalsePositiveRate)
	for _, u := range urls {
		f.Add(u)
	}
	return f
}

// Add adds a URL to the filter.
func (f *Filter) Add(url string) {
	f.f.AddString(url)
}

// Test returns true if the URL might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(url string) bool {
	return f.f.TestString(url)
}

// EstimatedCount returns the approximate number of URLs in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
