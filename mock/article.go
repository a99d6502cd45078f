package mock

import (
	"context"

	"github.com/fwojciec/bdmscrape"
)

var _ bdmscrape.ArticleService = (*ArticleService)(nil)

// ArticleService is a mock implementation of bdmscrape.ArticleService.
type ArticleService struct {
	UpsertArticleFn    func(ctx context.Context, a *bdmscrape.Article) error
	FindArticleByURLFn func(ctx context.Context, url string) (*bdmscrape.Article, error)
	FindArticlesFn     func(ctx context.Context, filter bdmscrape.ArticleFilter) ([]*bdmscrape.Article, error)
	DeleteArticleFn    func(ctx context.Context, url string) error
}

func (s *ArticleService) UpsertArticle(ctx context.Context, a *bdmscrape.Article) error {
	return s.UpsertArticleFn(ctx, a)
}

func (s *ArticleService) FindArticleByURL(ctx context.Context, url string) (*bdmscrape.Article, error) {
	return s.FindArticleByURLFn(ctx, url)
}

func (s *ArticleService) FindArticles(ctx context.Context, filter bdmscrape.ArticleFilter) ([]*bdmscrape.Article, error) {
	return s.FindArticlesFn(ctx, filter)
}

func (s *ArticleService) DeleteArticle(ctx context.Context, url string) error {
	return s.DeleteArticleFn(ctx, url)
}
