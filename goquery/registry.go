package goquery

import (
	"sort"

	"github.com/fwojciec/bdmscrape"
)

var (
	_ bdmscrape.ListingExtractor = (*Registry)(nil)
	_ bdmscrape.DetailExtractor  = (*Registry)(nil)
)

// Registry manages markup profiles and picks one per page. It uses a
// MarkupDetector to identify the markup variant and falls back to a
// default profile when the variant is unknown or has no registered profile.
type Registry struct {
	detector  bdmscrape.MarkupDetector
	fallback  Profile
	profiles  map[bdmscrape.Markup]Profile
	converter bdmscrape.Converter
}

// NewRegistry creates a new Registry with the given detector and fallback profile.
func NewRegistry(detector bdmscrape.MarkupDetector, fallback Profile) *Registry {
	return &Registry{
		detector: detector,
		fallback: fallback,
		profiles: make(map[bdmscrape.Markup]Profile),
	}
}

// NewDefaultRegistry creates a Registry with the current and legacy
// profiles registered, falling back to the current profile.
func NewDefaultRegistry(detector bdmscrape.MarkupDetector) *Registry {
	r := NewRegistry(detector, CurrentProfile)
	r.Register(CurrentProfile)
	r.Register(LegacyProfile)
	return r
}

// SetConverter sets the Markdown converter passed to detail extractors.
func (r *Registry) SetConverter(c bdmscrape.Converter) {
	r.converter = c
}

// Get returns the profile registered for a markup variant.
func (r *Registry) Get(markup bdmscrape.Markup) (Profile, bool) {
	p, ok := r.profiles[markup]
	return p, ok
}

// GetForHTML detects the markup variant of the page and returns its profile.
func (r *Registry) GetForHTML(html string) Profile {
	if p, ok := r.profiles[r.detector.Detect(html)]; ok {
		return p
	}
	return r.fallback
}

// Register adds a profile keyed by its Markup.
// If a profile is already registered for the markup, it is replaced.
func (r *Registry) Register(p Profile) {
	r.profiles[p.Markup] = p
}

// List returns all registered markup variants in name order.
func (r *Registry) List() []bdmscrape.Markup {
	markups := make([]bdmscrape.Markup, 0, len(r.profiles))
	for m := range r.profiles {
		markups = append(markups, m)
	}
	sort.Slice(markups, func(i, j int) bool { return markups[i] < markups[j] })
	return markups
}

// ExtractListing extracts with the profile detected for the page.
func (r *Registry) ExtractListing(html string, pageURL string, category string) ([]*bdmscrape.Article, error) {
	return NewListingExtractor(r.GetForHTML(html)).ExtractListing(html, pageURL, category)
}

// ExtractDetail extracts with the profile detected for the page.
func (r *Registry) ExtractDetail(html string) (*bdmscrape.ArticleDetail, error) {
	return NewDetailExtractor(r.GetForHTML(html), WithConverter(r.converter)).ExtractDetail(html)
}
