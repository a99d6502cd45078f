package main

import (
	"fmt"

	"github.com/fwojciec/bdmscrape"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := bdmscrape.ArticleFilter{
		Offset: c.Offset,
		Limit:  c.Limit,
	}
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
		fmt.Fprintln(deps.Stdout, "No articles found. Use 'bdmscrape scrape' to fetch some.")
		return nil
	}

	if c.Full {
		fmt.Fprintln(deps.Stdout, bdmscrape.FormatArticles(articles))
		return nil
	}

	for _, a := range articles {
		section := a.Category
		if a.Subcategory != "" {
			section += "/" + a.Subcategory
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n", orDash(a.Date), section, orDash(a.Title), a.URL)
	}

	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
