package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// imageAttrs lists image URL attributes by priority. Lazy-loading markup
// keeps the real URL in data-lazy-src or data-src while src holds a
// placeholder.
var imageAttrs = []string{"data-lazy-src", "data-src", "src"}

// ResolveImage returns the first image URL attribute of img that starts
// with prefix, or "" if there is none. A nil or empty selection yields "".
func ResolveImage(img *goquery.Selection, prefix string) string {
	if img == nil || img.Length() == 0 {
		return ""
	}
	for _, attr := range imageAttrs {
		v, ok := img.Attr(attr)
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		if v != "" && strings.HasPrefix(v, prefix) {
			return v
		}
	}
	return ""
}
