package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/bdmscrape"
)

var _ bdmscrape.MarkupDetector = (*Detector)(nil)

// Detector identifies the markup variant of listing and article pages.
// It checks for class names that only one theme of the site uses.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect analyzes HTML and returns the identified markup variant.
// Returns MarkupUnknown if the variant cannot be determined.
func (d *Detector) Detect(html string) bdmscrape.Markup {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return bdmscrape.MarkupUnknown
	}

	// Current theme: Bootstrap utility classes next to the WordPress ones.
	if d.hasSelector(doc, "div.entry-meta.ms-md-5") ||
		d.hasSelector(doc, "div.entry-content.row.justify-content-center") ||
		d.hasSelector(doc, "div.post-thumbnail.picture") ||
		d.hasSelector(doc, "span.favtag") {
		return bdmscrape.MarkupCurrent
	}

	// Legacy theme: stock WordPress class names.
	if d.hasSelector(doc, "div.entry-summary") ||
		d.hasSelector(doc, "span.cat-links") ||
		d.hasSelector(doc, "h2.entry-title") ||
		d.hasSelector(doc, "span.author.vcard") ||
		d.hasSelector(doc, "div.entry-content") {
		return bdmscrape.MarkupLegacy
	}

	return bdmscrape.MarkupUnknown
}

// hasSelector checks if the document contains at least one element matching the selector.
func (d *Detector) hasSelector(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}
