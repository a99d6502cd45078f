package bdmscrape

import (
	"fmt"
	"strings"
)

// FormatArticles formats articles as numbered "Field: value" blocks for
// console reports. Blocks are separated by blank lines.
func FormatArticles(articles []*Article) string {
	if len(articles) == 0 {
		return ""
	}

	parts := make([]string, 0, len(articles))
	for i, a := range articles {
		parts = append(parts, fmt.Sprintf("Article %d:\n%s", i+1, FormatArticle(a)))
	}

	return strings.Join(parts, "\n\n")
}

// FormatArticle formats a single article, one field per line.
// Empty fields are shown as "(none)".
func FormatArticle(a *Article) string {
	var b strings.Builder
	field := func(name, value string) {
		if value == "" {
			value = "(none)"
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\n")
	}

	field("Title", a.Title)
	field("Image", a.Image)
	field("Subcategory", a.Subcategory)
	field("Resume", a.Resume)
	field("Date", a.Date)
	field("Author", a.Author)
	field("Content", a.Content)
	field("Article_images", formatImages(a.ArticleImages))
	field("Url", a.URL)
	field("Category", a.Category)

	return strings.TrimSuffix(b.String(), "\n")
}

func formatImages(imgs ArticleImages) string {
	parts := make([]string, 0, len(imgs))
	for _, img := range imgs {
		if img.Caption == "" {
			parts = append(parts, img.URL)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", img.URL, img.Caption))
	}
	return strings.Join(parts, ", ")
}
