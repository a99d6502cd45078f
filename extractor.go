package bdmscrape

// Markup identifies a markup variant of the scraped site.
type Markup string

// Known markup variants.
const (
	MarkupUnknown Markup = ""
	MarkupCurrent Markup = "current"
	MarkupLegacy  Markup = "legacy"
)

// ListingExtractor extracts partial articles from a category listing page.
type ListingExtractor interface {
	// ExtractListing parses the listing HTML and returns one article per
	// article container, in document order. Only listing fields are set.
	// The pageURL is used to resolve relative article links.
	// A page without a primary content region yields no articles and no error.
	ExtractListing(html string, pageURL string, category string) ([]*Article, error)
}

// DetailExtractor extracts the detail fields of a single article page.
type DetailExtractor interface {
	// ExtractDetail parses the article HTML. Missing markup yields empty
	// fields, not an error; errors are reserved for unparseable input.
	ExtractDetail(html string) (*ArticleDetail, error)
}

// MarkupDetector identifies the markup variant of a page.
type MarkupDetector interface {
	// Detect returns MarkupUnknown if no variant is recognized.
	Detect(html string) Markup
}
