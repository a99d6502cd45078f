package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/bdmscrape"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ bdmscrape.ArticleService = (*ArticleService)(nil)

const articleColumns = `id, url, category, subcategory, title, image, resume, date,
	author, content, markdown, images, content_hash, fetched_at`

// ArticleService implements bdmscrape.ArticleService using SQLite.
type ArticleService struct {
	db  *DB
	now func() time.Time
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *DB) *ArticleService {
	return &ArticleService{db: db, now: time.Now}
}

// UpsertArticle inserts the article or replaces every field of the stored
// article with the same URL. The stored ID is kept on replace and copied back
// into a.
func (s *ArticleService) UpsertArticle(ctx context.Context, a *bdmscrape.Article) error {
	if err := a.Validate(); err != nil {
		return err
	}

	images := a.ArticleImages
	if images == nil {
		images = bdmscrape.ArticleImages{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return fmt.Errorf("failed to encode article images: %w", err)
	}

	id := uuid.New().String()
	fetchedAt := s.now().UTC().Truncate(time.Second)
	hash := contentHash(a.Content)

	var storedID string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO articles (`+articleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			category = excluded.category,
			subcategory = excluded.subcategory,
			title = excluded.title,
			image = excluded.image,
			resume = excluded.resume,
			date = excluded.date,
			author = excluded.author,
			content = excluded.content,
			markdown = excluded.markdown,
			images = excluded.images,
			content_hash = excluded.content_hash,
			fetched_at = excluded.fetched_at
		RETURNING id
	`, id, a.URL, a.Category, nullString(a.Subcategory), nullString(a.Title),
		nullString(a.Image), nullString(a.Resume), nullString(a.Date),
		nullString(a.Author), nullString(a.Content), nullString(a.Markdown),
		string(imagesJSON), hash, fetchedAt.Format(time.RFC3339)).Scan(&storedID)
	if err != nil {
		return err
	}

	a.ID = storedID
	a.ArticleImages = images
	a.ContentHash = hash
	a.FetchedAt = fetchedAt
	return nil
}

// FindArticleByURL retrieves an article by URL.
func (s *ArticleService) FindArticleByURL(ctx context.Context, url string) (*bdmscrape.Article, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE url = ?`, url)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, bdmscrape.Errorf(bdmscrape.ENOTFOUND, "article not found")
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// FindArticles retrieves articles matching the filter, newest publication
// date first. Articles without a date come last.
func (s *ArticleService) FindArticles(ctx context.Context, filter bdmscrape.ArticleFilter) ([]*bdmscrape.Article, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + articleColumns + " FROM articles WHERE 1=1")

	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.Category != nil {
		query.WriteString(" AND category = ?")
		args = append(args, *filter.Category)
	}
	if filter.Subcategory != nil {
		query.WriteString(" AND subcategory = ?")
		args = append(args, *filter.Subcategory)
	}

	query.WriteString(" ORDER BY date IS NULL, date DESC, url ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := []*bdmscrape.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}

	return articles, rows.Err()
}

// DeleteArticle permanently removes an article.
func (s *ArticleService) DeleteArticle(ctx context.Context, url string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM articles WHERE url = ?", url)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return bdmscrape.Errorf(bdmscrape.ENOTFOUND, "article not found")
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(row scanner) (*bdmscrape.Article, error) {
	var a bdmscrape.Article
	var subcategory, title, image, resume, date, author, content, markdown sql.NullString
	var images, fetchedAt string

	if err := row.Scan(&a.ID, &a.URL, &a.Category, &subcategory, &title, &image,
		&resume, &date, &author, &content, &markdown, &images, &a.ContentHash,
		&fetchedAt); err != nil {
		return nil, err
	}

	a.Subcategory = subcategory.String
	a.Title = title.String
	a.Image = image.String
	a.Resume = resume.String
	a.Date = date.String
	a.Author = author.String
	a.Content = content.String
	a.Markdown = markdown.String

	if err := json.Unmarshal([]byte(images), &a.ArticleImages); err != nil {
		return nil, fmt.Errorf("failed to decode images of %s: %w", a.URL, err)
	}

	var err error
	a.FetchedAt, err = parseTimestamp(fetchedAt, "fetched_at")
	if err != nil {
		return nil, err
	}

	return &a, nil
}
