package bdmscrape

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"time"
)

// Article represents a news article assembled from a listing page entry and
// its detail page. Nullable fields are empty strings when the markup did not
// provide them.
type Article struct {
	ID            string        `json:"id,omitempty"`
	Title         string        `json:"title"`
	Image         string        `json:"image"`
	Subcategory   string        `json:"subcategory"`
	Resume        string        `json:"resume"`
	Date          string        `json:"date"`
	Author        string        `json:"author"`
	Content       string        `json:"content"`
	Markdown      string        `json:"markdown,omitempty"`
	ArticleImages ArticleImages `json:"article_images"`
	URL           string        `json:"url"`
	Category      string        `json:"category"`
	ContentHash   string        `json:"contentHash,omitempty"`
	FetchedAt     time.Time     `json:"fetchedAt,omitzero"`
}

// Validate returns an error if the article cannot be stored.
func (a *Article) Validate() error {
	if a.URL == "" {
		return Errorf(EINVALID, "article URL required")
	}
	if a.Category == "" {
		return Errorf(EINVALID, "article category required")
	}
	return nil
}

// Merge copies the detail page fields into the article.
// A nil detail resets them to their empty values.
func (a *Article) Merge(d *ArticleDetail) {
	if d == nil {
		d = &ArticleDetail{}
	}
	a.Author = d.Author
	a.Content = d.Content
	a.Markdown = d.Markdown
	a.ArticleImages = d.Images
	if a.ArticleImages == nil {
		a.ArticleImages = ArticleImages{}
	}
}

// ArticleDetail holds the fields that only the detail page provides.
type ArticleDetail struct {
	Author   string
	Content  string
	Markdown string
	Images   ArticleImages
}

// ArticleImage is an image found in an article body.
type ArticleImage struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// ArticleImages is the ordered set of images of an article body.
//
// It decodes from both the canonical sequence shape
// ([{"url": ..., "caption": ...}]) and the legacy mapping shape
// ({"<url>": "<caption>"}). Legacy mappings are ordered by URL.
type ArticleImages []ArticleImage

// Map returns the legacy mapping shape, keyed by image URL.
func (imgs ArticleImages) Map() map[string]string {
	m := make(map[string]string, len(imgs))
	for _, img := range imgs {
		m[img.URL] = img.Caption
	}
	return m
}

// UnmarshalJSON accepts the sequence and the legacy mapping shapes.
func (imgs *ArticleImages) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*imgs = ArticleImages{}
		return nil
	}

	if len(data) > 0 && data[0] == '{' {
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		urls := make([]string, 0, len(m))
		for u := range m {
			if u != "" {
				urls = append(urls, u)
			}
		}
		sort.Strings(urls)
		out := make(ArticleImages, 0, len(urls))
		for _, u := range urls {
			out = append(out, ArticleImage{URL: u, Caption: m[u]})
		}
		*imgs = out
		return nil
	}

	var list []ArticleImage
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	out := make(ArticleImages, 0, len(list))
	for _, img := range list {
		if img.URL != "" {
			out = append(out, img)
		}
	}
	*imgs = out
	return nil
}

// ArticleService represents a service for managing stored articles.
type ArticleService interface {
	// UpsertArticle inserts the article or replaces the stored article with
	// the same URL. Repeated calls with the same input leave one record.
	// Returns EINVALID if the article has no URL.
	UpsertArticle(ctx context.Context, a *Article) error

	// FindArticleByURL retrieves an article by URL.
	// Returns ENOTFOUND if the article does not exist.
	FindArticleByURL(ctx context.Context, url string) (*Article, error)

	// FindArticles retrieves articles matching the filter.
	FindArticles(ctx context.Context, filter ArticleFilter) ([]*Article, error)

	// DeleteArticle permanently removes an article.
	// Returns ENOTFOUND if the article does not exist.
	DeleteArticle(ctx context.Context, url string) error
}

// ArticleFilter represents a filter for FindArticles.
type ArticleFilter struct {
	URL         *string `json:"url"`
	Category    *string `json:"category"`
	Subcategory *string `json:"subcategory"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ArticleWriter exports articles with atomic semantics.
// WriteArticle writes to a pending location; Commit makes the export
// visible, replacing any previous one; Abort discards pending writes.
type ArticleWriter interface {
	WriteArticle(ctx context.Context, a *Article) error
	Commit() error
	Abort() error
}
