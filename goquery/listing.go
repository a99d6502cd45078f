package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/bdmscrape"
)

var _ bdmscrape.ListingExtractor = (*ListingExtractor)(nil)

// ListingExtractor extracts partial articles from listing pages using the
// selectors of a single Profile.
type ListingExtractor struct {
	profile Profile
}

// NewListingExtractor creates a new ListingExtractor for the profile.
func NewListingExtractor(profile Profile) *ListingExtractor {
	return &ListingExtractor{profile: profile}
}

// ExtractListing parses HTML and returns one article per container of the
// primary content region, in document order. Every field is extracted on
// its own; markup missing for one field leaves only that field empty.
func (e *ListingExtractor) ExtractListing(html string, pageURL string, category string) ([]*bdmscrape.Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, bdmscrape.Errorf(bdmscrape.EINVALID, "failed to parse HTML: %v", err)
	}

	articles := []*bdmscrape.Article{}

	region := doc.Find(e.profile.Region).First()
	if region.Length() == 0 {
		return articles, nil
	}

	base, _ := url.Parse(pageURL)

	region.Find(e.profile.Container).Each(func(_ int, container *goquery.Selection) {
		articles = append(articles, e.extractContainer(container, base, category))
	})

	return articles, nil
}

func (e *ListingExtractor) extractContainer(container *goquery.Selection, base *url.URL, category string) *bdmscrape.Article {
	a := &bdmscrape.Article{
		Category:      category,
		ArticleImages: bdmscrape.ArticleImages{},
	}

	a.Image = ResolveImage(tryGet(container, e.profile.ThumbnailPath...), e.profile.ImagePrefix)
	a.Subcategory = tryText(container, e.profile.SubcategoryPath...)
	a.Resume = tryText(container, e.profile.ExcerptPath...)
	a.Date = bdmscrape.NormalizeDate(tryText(container, e.profile.DatePath...))

	if href, ok := tryAttr(container, "href", e.profile.LinkPath...); ok {
		a.URL = resolveURL(base, href)
	}
	if link := tryGet(container, e.profile.LinkPath...); link != nil {
		if len(e.profile.TitlePath) == 0 {
			a.Title = collapseWhitespace(joinedText(link))
		} else {
			a.Title = tryText(link, e.profile.TitlePath...)
		}
	}

	return a
}

// resolveURL resolves href against base. Returns "" for empty hrefs,
// non-HTTP links and hrefs that cannot be parsed. A nil base leaves
// absolute hrefs unchanged and drops relative ones.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || isNonHTTPLink(href) {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if !ref.IsAbs() {
		return ""
	}
	return ref.String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") ||
		strings.HasPrefix(href, "#")
}
