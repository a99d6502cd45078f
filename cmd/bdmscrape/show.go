package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/bdmscrape"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	article, err := deps.Articles.FindArticleByURL(deps.Ctx, c.URL)
	if bdmscrape.ErrorCode(err) == bdmscrape.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: article %q not found. Use 'bdmscrape list' to see stored articles.\n", c.URL)
		return err
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bdmscrape.ErrorMessage(err))
		return err
	}

	if c.JSON {
		data, err := json.MarshalIndent(article, "", "  ")
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
		fmt.Fprintln(deps.Stdout, string(data))
		return nil
	}

	fmt.Fprintln(deps.Stdout, bdmscrape.FormatArticle(article))
	if !article.FetchedAt.IsZero() {
		fmt.Fprintf(deps.Stdout, "Fetched: %s\n", article.FetchedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
