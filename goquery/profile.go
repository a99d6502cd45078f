package goquery

import "github.com/fwojciec/bdmscrape"

// Profile names the selectors of one markup variant of the site.
//
// Paths are sequences of CSS selectors. Each step selects the first match
// below the previous step; a missing step makes the whole field empty.
type Profile struct {
	Markup bdmscrape.Markup

	// Listing page.
	Region          string
	Container       string
	ThumbnailPath   []string
	SubcategoryPath []string
	DatePath        []string
	LinkPath        []string
	// TitlePath is relative to the link. Empty means the link text.
	TitlePath   []string
	ExcerptPath []string

	// Detail page.
	AuthorPaths [][]string
	BodyPath    []string
	BodyText    string
	Strip       string

	// ImagePrefix is the prefix an image URL must have to be kept.
	ImagePrefix string
}

// CurrentProfile matches the markup the site serves today.
// Body text is taken from paragraphs only and images need an "http" prefix.
var CurrentProfile = Profile{
	Markup: bdmscrape.MarkupCurrent,

	Region:          "main",
	Container:       "article",
	ThumbnailPath:   []string{"div.post-thumbnail.picture.rounded-img", "img"},
	SubcategoryPath: []string{"div.entry-meta.ms-md-5.pt-md-0.pt-3", "span.favtag.color-b"},
	DatePath:        []string{"div.entry-meta.ms-md-5.pt-md-0.pt-3", "span.posted-on.t-def.px-3"},
	LinkPath:        []string{"div.entry-meta.ms-md-5.pt-md-0.pt-3", "header.entry-header.pt-1", "a"},
	TitlePath:       []string{"h3"},
	ExcerptPath:     []string{"div.entry-meta.ms-md-5.pt-md-0.pt-3", "div.entry-excerpt.t-def.t-size-def.pt-1"},

	AuthorPaths: [][]string{
		{"div.author-meta", "a.author-name"},
		{"span.byline"},
	},
	BodyPath: []string{"div.entry-content.row.justify-content-center"},
	BodyText: "p",
	Strip:    "script, style, iframe, form",

	ImagePrefix: "http",
}

// LegacyProfile matches the older theme of the site, which used plain
// WordPress class names. It keeps headings and list items in the body text
// and only accepts https image URLs.
var LegacyProfile = Profile{
	Markup: bdmscrape.MarkupLegacy,

	Region:          "main",
	Container:       "article",
	ThumbnailPath:   []string{"div.post-thumbnail", "img"},
	SubcategoryPath: []string{"span.cat-links"},
	DatePath:        []string{"span.posted-on"},
	LinkPath:        []string{"h2.entry-title", "a"},
	ExcerptPath:     []string{"div.entry-summary"},

	AuthorPaths: [][]string{
		{"span.author.vcard", "a"},
		{"span.byline"},
	},
	BodyPath: []string{"div.entry-content"},
	BodyText: "p, h2, h3, h4, li",
	Strip:    "script, style, iframe, form",

	ImagePrefix: "https://",
}
