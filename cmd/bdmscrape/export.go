package main

import (
	"fmt"

	"github.com/fwojciec/bdmscrape"
)

// Run executes the export command. The output directory is only replaced
// once every article has been written.
func (c *ExportCmd) Run(deps *Dependencies) error {
	filter := bdmscrape.ArticleFilter{}
	if c.Category != "" {
		filter.Category = &c.Category
	}
	if c.Subcategory != "" {
		filter.Subcategory = &c.Subcategory
	}

	articles, err := deps.Articles.FindArticles(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bdmscrape.ErrorMessage(err))
		return err
	}

	if len(articles) == 0 {
		fmt.Fprintln(deps.Stdout, "No articles to export. Use 'bdmscrape scrape' to fetch some.")
		return nil
	}

	w := deps.NewWriter(c.Dir)
	for _, a := range articles {
		if err := w.WriteArticle(deps.Ctx, a); err != nil {
			_ = w.Abort()
			fmt.Fprintf(deps.Stderr, "error: export %s: %s\n", a.URL, bdmscrape.ErrorMessage(err))
			return err
		}
	}

	if err := w.Commit(); err != nil {
		_ = w.Abort()
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d articles to %s\n", len(articles), c.Dir)
	return nil
}
