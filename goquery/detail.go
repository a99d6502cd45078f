package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/bdmscrape"
	"golang.org/x/net/html"
)

var _ bdmscrape.DetailExtractor = (*DetailExtractor)(nil)

// DetailExtractor extracts author, body text and body images from article
// pages using the selectors of a single Profile.
type DetailExtractor struct {
	profile   Profile
	converter bdmscrape.Converter
}

// DetailOption configures a DetailExtractor.
type DetailOption func(*DetailExtractor)

// WithConverter renders the cleaned article body to Markdown with c.
func WithConverter(c bdmscrape.Converter) DetailOption {
	return func(e *DetailExtractor) {
		e.converter = c
	}
}

// NewDetailExtractor creates a new DetailExtractor for the profile.
func NewDetailExtractor(profile Profile, opts ...DetailOption) *DetailExtractor {
	e := &DetailExtractor{profile: profile}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractDetail parses HTML and returns the detail fields of the article.
// A page without a body container yields an author (if any), empty
// content and no images.
func (e *DetailExtractor) ExtractDetail(rawHTML string) (*bdmscrape.ArticleDetail, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, bdmscrape.Errorf(bdmscrape.EINVALID, "failed to parse HTML: %v", err)
	}

	detail := &bdmscrape.ArticleDetail{
		Author: e.extractAuthor(doc.Selection),
		Images: bdmscrape.ArticleImages{},
	}

	body := tryGet(doc.Selection, e.profile.BodyPath...)
	if body == nil {
		return detail, nil
	}

	// Work on a copy so the page document keeps its scripts and forms.
	body = body.Clone()
	if e.profile.Strip != "" {
		body.Find(e.profile.Strip).Remove()
	}

	detail.Content = e.extractText(body)
	detail.Images = e.extractImages(body)

	if e.converter != nil {
		if bodyHTML, err := goquery.OuterHtml(body); err == nil {
			if md, err := e.converter.Convert(bodyHTML); err == nil {
				detail.Markdown = strings.TrimSpace(md)
			}
		}
	}

	return detail, nil
}

// extractAuthor tries each author path in order; the first non-empty
// match wins.
func (e *DetailExtractor) extractAuthor(root *goquery.Selection) string {
	for _, path := range e.profile.AuthorPaths {
		if author := tryText(root, path...); author != "" {
			return author
		}
	}
	return ""
}

// extractText joins the text of the body text elements. Elements nested
// in another matched element are skipped so their text is not repeated.
func (e *DetailExtractor) extractText(body *goquery.Selection) string {
	var parts []string
	body.Find(e.profile.BodyText).Each(func(_ int, el *goquery.Selection) {
		if el.ParentsUntilSelection(body).Filter(e.profile.BodyText).Length() > 0 {
			return
		}
		if text := joinedText(el); text != "" {
			parts = append(parts, text)
		}
	})
	return collapseWhitespace(strings.Join(parts, " "))
}

// extractImages returns figure images first, then bare images that are not
// inside a figure. Each img element is reported at most once.
func (e *DetailExtractor) extractImages(body *goquery.Selection) bdmscrape.ArticleImages {
	images := bdmscrape.ArticleImages{}
	seen := make(map[*html.Node]bool)

	add := func(img *goquery.Selection, caption string) {
		seen[img.Get(0)] = true
		u := ResolveImage(img, e.profile.ImagePrefix)
		if u == "" {
			return
		}
		images = append(images, bdmscrape.ArticleImage{URL: u, Caption: caption})
	}

	body.Find("figure").Each(func(_ int, fig *goquery.Selection) {
		img := fig.Find("img").First()
		if img.Length() == 0 || seen[img.Get(0)] {
			return
		}
		caption := tryText(fig, "figcaption")
		if caption == "" {
			caption = imageCaption(img)
		}
		add(img, caption)
	})

	body.Find("img").Each(func(_ int, img *goquery.Selection) {
		if seen[img.Get(0)] || img.Closest("figure").Length() > 0 {
			return
		}
		add(img, imageCaption(img))
	})

	return images
}

// imageCaption returns the alt text of img, else its title, else "".
func imageCaption(img *goquery.Selection) string {
	if alt := strings.TrimSpace(img.AttrOr("alt", "")); alt != "" {
		return alt
	}
	return strings.TrimSpace(img.AttrOr("title", ""))
}
