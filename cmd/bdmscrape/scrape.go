package main

import (
	"fmt"

	"github.com/fwojciec/bdmscrape"
	"github.com/fwojciec/bdmscrape/scrape"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	if deps.Scraper == nil {
		fmt.Fprintf(deps.Stderr, "error: scraper not configured\n")
		return bdmscrape.Errorf(bdmscrape.EINTERNAL, "scraper not configured")
	}

	categories := c.Categories
	if deps.Config != nil {
		categories = deps.Config.Categories
	}
	if len(categories) == 0 {
		categories = scrape.DefaultCategories()
	}

	progress := func(event scrape.ProgressEvent) {
		switch event.Type {
		case scrape.ProgressStarted:
			fmt.Fprintf(deps.Stderr, "%s: found %d articles\n", event.Category, event.Total)
		case scrape.ProgressDetailFailed:
			fmt.Fprintf(deps.Stderr, "  no detail %s: %v\n", scrape.TruncateURL(event.URL, 80), event.Error)
		case scrape.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", scrape.TruncateURL(event.URL, 80), event.Error)
		}
	}

	result, err := deps.Scraper.ScrapeAll(deps.Ctx, categories, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error scraping: %v\n", err)
		return err
	}

	if !c.Quiet && len(result.Articles) > 0 {
		fmt.Fprintln(deps.Stdout, bdmscrape.FormatArticles(result.Articles))
		fmt.Fprintln(deps.Stdout)
	}

	if c.DryRun {
		fmt.Fprintf(deps.Stdout, "Extracted %d articles (dry run, nothing saved)\n", len(result.Articles))
		return nil
	}

	fmt.Fprintln(deps.Stdout, result.Summary())
	return nil
}
