// Package htmltomarkdown converts cleaned article bodies to Markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/bdmscrape"
	"golang.org/x/net/html"
)

// Ensure Converter implements bdmscrape.Converter at compile time.
var _ bdmscrape.Converter = (*Converter)(nil)

// lazyAttrs hold the real image URL when src is a lazy-loading placeholder.
var lazyAttrs = []string{"data-lazy-src", "data-src"}

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	// Runs before the commonmark image renderer.
	conv.Register.RendererFor("img", converter.TagTypeInline, renderLazyImage, converter.PriorityEarly)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", bdmscrape.Errorf(bdmscrape.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(result), nil
}

// renderLazyImage renders images whose src is a data URI placeholder using
// their lazy-loading attribute. Placeholders without a real URL are dropped.
func renderLazyImage(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	src := strings.TrimSpace(dom.GetAttributeOr(n, "src", ""))
	if src != "" && !strings.HasPrefix(src, "data:") {
		return converter.RenderTryNext
	}

	for _, attr := range lazyAttrs {
		lazy := strings.TrimSpace(dom.GetAttributeOr(n, attr, ""))
		if lazy == "" || strings.HasPrefix(lazy, "data:") {
			continue
		}
		alt := strings.TrimSpace(dom.GetAttributeOr(n, "alt", ""))
		alt = strings.NewReplacer("[", `\[`, "]", `\]`).Replace(alt)
		w.WriteString("![" + alt + "](" + lazy + ")")
		return converter.RenderSuccess
	}

	return converter.RenderSuccess
}
