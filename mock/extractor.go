package mock

import "github.com/fwojciec/bdmscrape"

var (
	_ bdmscrape.ListingExtractor = (*ListingExtractor)(nil)
	_ bdmscrape.DetailExtractor  = (*DetailExtractor)(nil)
	_ bdmscrape.MarkupDetector   = (*MarkupDetector)(nil)
)

// ListingExtractor is a mock implementation of bdmscrape.ListingExtractor.
type ListingExtractor struct {
	ExtractListingFn func(html string, pageURL string, category string) ([]*bdmscrape.Article, error)
}

func (e *ListingExtractor) ExtractListing(html string, pageURL string, category string) ([]*bdmscrape.Article, error) {
	return e.ExtractListingFn(html, pageURL, category)
}

// DetailExtractor is a mock implementation of bdmscrape.DetailExtractor.
type DetailExtractor struct {
	ExtractDetailFn func(html string) (*bdmscrape.ArticleDetail, error)
}

func (e *DetailExtractor) ExtractDetail(html string) (*bdmscrape.ArticleDetail, error) {
	return e.ExtractDetailFn(html)
}

// MarkupDetector is a mock implementation of bdmscrape.MarkupDetector.
type MarkupDetector struct {
	DetectFn func(html string) bdmscrape.Markup
}

func (d *MarkupDetector) Detect(html string) bdmscrape.Markup {
	return d.DetectFn(html)
}
