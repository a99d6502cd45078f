package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/bdmscrape"
)

// Ensure LoggingArticleService implements bdmscrape.ArticleService.
var _ bdmscrape.ArticleService = (*LoggingArticleService)(nil)

// LoggingArticleService wraps an ArticleService with logging.
type LoggingArticleService struct {
	next   bdmscrape.ArticleService
	logger *slog.Logger
}

// NewLoggingArticleService creates a new LoggingArticleService.
func NewLoggingArticleService(next bdmscrape.ArticleService, logger *slog.Logger) *LoggingArticleService {
	return &LoggingArticleService{next: next, logger: logger}
}

// UpsertArticle delegates to the wrapped service. Failures are logged at
// warn level since the run continues past them.
func (s *LoggingArticleService) UpsertArticle(ctx context.Context, a *bdmscrape.Article) (err error) {
	defer func(begin time.Time) {
		level := slog.LevelDebug
		if err != nil {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "upsert article",
			"url", a.URL,
			"id", a.ID,
			"hash", a.ContentHash,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.UpsertArticle(ctx, a)
}

// FindArticleByURL delegates to the wrapped service.
func (s *LoggingArticleService) FindArticleByURL(ctx context.Context, url string) (a *bdmscrape.Article, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find article",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindArticleByURL(ctx, url)
}

// FindArticles delegates to the wrapped service and logs the result count.
func (s *LoggingArticleService) FindArticles(ctx context.Context, filter bdmscrape.ArticleFilter) (articles []*bdmscrape.Article, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find articles",
			"count", len(articles),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindArticles(ctx, filter)
}

// DeleteArticle delegates to the wrapped service.
func (s *LoggingArticleService) DeleteArticle(ctx context.Context, url string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete article",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteArticle(ctx, url)
}
