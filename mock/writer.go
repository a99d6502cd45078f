package mock

import (
	"context"

	"github.com/fwojciec/bdmscrape"
)

var _ bdmscrape.ArticleWriter = (*ArticleWriter)(nil)

// ArticleWriter is a mock implementation of bdmscrape.ArticleWriter.
type ArticleWriter struct {
	WriteArticleFn func(ctx context.Context, a *bdmscrape.Article) error
	CommitFn       func() error
	AbortFn        func() error
}

func (w *ArticleWriter) WriteArticle(ctx context.Context, a *bdmscrape.Article) error {
	return w.WriteArticleFn(ctx, a)
}

func (w *ArticleWriter) Commit() error {
	return w.CommitFn()
}

func (w *ArticleWriter) Abort() error {
	return w.AbortFn()
}
