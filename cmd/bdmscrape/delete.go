package main

import (
	"fmt"

	"github.com/fwojciec/bdmscrape"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return bdmscrape.Errorf(bdmscrape.EINVALID, "use --force to confirm deletion")
	}

	err := deps.Articles.DeleteArticle(deps.Ctx, c.URL)
	if bdmscrape.ErrorCode(err) == bdmscrape.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: article %q not found. Use 'bdmscrape list' to see stored articles.\n", c.URL)
		return err
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bdmscrape.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted article %q\n", c.URL)
	return nil
}
