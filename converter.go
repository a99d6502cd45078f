package bdmscrape

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be a cleaned article body (scripts, styles,
	// iframes and forms removed).
	Convert(html string) (string, error)
}
