// Package scrape orchestrates category scraping. It fetches listing pages,
// follows article links to their detail pages, merges the extracted fields
// and stores the resulting articles.
package scrape

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/bdmscrape"
	"golang.org/x/sync/errgroup"
)

// DefaultBaseURL is the site root that category paths are appended to.
const DefaultBaseURL = "https://www.blogdumoderateur.com/"

// DefaultCategories returns the categories scraped when none are given.
func DefaultCategories() []string {
	return []string{"web", "marketing", "social", "tech"}
}

// Scraper orchestrates the scraping of category listings.
//
// Articles may be nil, in which case nothing is persisted. Known and
// RateLimiter are optional.
type Scraper struct {
	Fetcher     bdmscrape.Fetcher
	Listings    bdmscrape.ListingExtractor
	Details     bdmscrape.DetailExtractor
	Articles    bdmscrape.ArticleService
	RateLimiter bdmscrape.DomainLimiter
	Known       bdmscrape.URLSet

	// BaseURL defaults to DefaultBaseURL.
	BaseURL string

	// Incremental reuses stored detail fields for articles already known
	// instead of fetching their detail page again.
	Incremental bool

	// Concurrency bounds parallel detail fetches. Values below 1 mean 1.
	Concurrency int

	// RetryDelays are the waits between fetch retries. Nil disables retries.
	RetryDelays []time.Duration

	// Log receives retry messages.
	Log LogFunc
}

// Result holds the outcome of a scrape.
type Result struct {
	// Articles are in listing document order.
	Articles []*bdmscrape.Article
	Saved    int
	Failed   int
	Skipped  int
	Bytes    int
}

func (r *Result) add(other *Result) {
	r.Articles = append(r.Articles, other.Articles...)
	r.Saved += other.Saved
	r.Failed += other.Failed
	r.Skipped += other.Skipped
	r.Bytes += other.Bytes
}

// ProgressEvent reports progress during a scrape.
type ProgressEvent struct {
	Type      ProgressType
	Category  string
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	// ProgressStarted is sent once a listing is extracted; Total is the
	// number of articles found.
	ProgressStarted ProgressType = iota
	// ProgressCompleted is sent for each article handed to the store.
	ProgressCompleted
	// ProgressSkipped is sent for each article whose detail was reused.
	ProgressSkipped
	// ProgressDetailFailed is sent when a detail page could not be fetched
	// or parsed. The article is still emitted with empty detail fields.
	ProgressDetailFailed
	// ProgressFailed is sent when a listing page or an article could not
	// be processed.
	ProgressFailed
	// ProgressFinished is sent once per category.
	ProgressFinished
)

// ProgressFunc is a callback for reporting scrape progress.
type ProgressFunc func(event ProgressEvent)

// CategoryURL returns the listing page URL of a category.
func CategoryURL(baseURL, category string) (string, error) {
	u, err := url.JoinPath(baseURL, category)
	if err != nil {
		return "", bdmscrape.Errorf(bdmscrape.EINVALID, "invalid base URL %q: %v", baseURL, err)
	}
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u, nil
}

// ScrapeAll scrapes each category in turn. A category whose listing cannot be
// fetched contributes no articles; the run continues with the next one.
func (s *Scraper) ScrapeAll(ctx context.Context, categories []string, progress ProgressFunc) (*Result, error) {
	total := &Result{Articles: []*bdmscrape.Article{}}
	for _, category := range categories {
		res, err := s.ScrapeCategory(ctx, category, progress)
		if err != nil {
			return total, err
		}
		total.add(res)
	}
	return total, nil
}

// ScrapeCategory fetches the listing page of a category and processes every
// article on it. Fetch failures are reported through progress and yield an
// empty result. Only context cancellation and invalid configuration are
// returned as errors.
func (s *Scraper) ScrapeCategory(ctx context.Context, category string, progress ProgressFunc) (*Result, error) {
	baseURL := s.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	pageURL, err := CategoryURL(baseURL, category)
	if err != nil {
		return nil, err
	}

	html, err := s.fetch(ctx, pageURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		emit(progress, ProgressEvent{Type: ProgressFailed, Category: category, URL: pageURL, Error: err})
		emit(progress, ProgressEvent{Type: ProgressFinished, Category: category})
		return &Result{Articles: []*bdmscrape.Article{}, Failed: 1}, nil
	}

	res, err := s.ExtractListing(ctx, html, pageURL, category, progress)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		emit(progress, ProgressEvent{Type: ProgressFailed, Category: category, URL: pageURL, Error: err})
		emit(progress, ProgressEvent{Type: ProgressFinished, Category: category})
		return &Result{Articles: []*bdmscrape.Article{}, Failed: 1}, nil
	}
	return res, nil
}

// detailResult holds the outcome of resolving one article's detail.
type detailResult struct {
	skipped bool
	err     error
}

// ExtractListing extracts the articles of an already fetched listing page,
// completes each one from its detail page and stores it. Articles without a
// URL are returned but neither fetched nor stored.
func (s *Scraper) ExtractListing(ctx context.Context, html, pageURL, category string, progress ProgressFunc) (*Result, error) {
	articles, err := s.Listings.ExtractListing(html, pageURL, category)
	if err != nil {
		return nil, err
	}

	total := len(articles)
	emit(progress, ProgressEvent{Type: ProgressStarted, Category: category, Total: total})

	concurrency := s.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]detailResult, total)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, a := range articles {
		if a.URL == "" {
			a.Merge(nil)
			continue
		}
		g.Go(func() error {
			results[i] = s.resolveDetail(gctx, a)
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	res := &Result{Articles: articles}
	for i, a := range articles {
		completed := i + 1
		r := results[i]
		if r.err != nil {
			emit(progress, ProgressEvent{
				Type: ProgressDetailFailed, Category: category,
				Completed: completed, Total: total, URL: a.URL, Error: r.err,
			})
		}
		if r.skipped {
			res.Skipped++
			emit(progress, ProgressEvent{
				Type: ProgressSkipped, Category: category,
				Completed: completed, Total: total, URL: a.URL,
			})
		}

		if a.URL == "" || s.Articles == nil {
			continue
		}
		if err := s.Articles.UpsertArticle(ctx, a); err != nil {
			res.Failed++
			emit(progress, ProgressEvent{
				Type: ProgressFailed, Category: category,
				Completed: completed, Total: total, URL: a.URL, Error: err,
			})
			continue
		}
		if s.Known != nil {
			s.Known.Add(a.URL)
		}
		res.Saved++
		res.Bytes += len(a.Content)
		emit(progress, ProgressEvent{
			Type: ProgressCompleted, Category: category,
			Completed: completed, Total: total, URL: a.URL,
		})
	}

	emit(progress, ProgressEvent{Type: ProgressFinished, Category: category, Completed: total, Total: total})
	return res, nil
}

// resolveDetail fills the detail fields of a, either from the store or from
// its detail page. On failure the detail fields are left empty.
func (s *Scraper) resolveDetail(ctx context.Context, a *bdmscrape.Article) detailResult {
	if stored := s.storedArticle(ctx, a.URL); stored != nil {
		a.Merge(&bdmscrape.ArticleDetail{
			Author:   stored.Author,
			Content:  stored.Content,
			Markdown: stored.Markdown,
			Images:   stored.ArticleImages,
		})
		return detailResult{skipped: true}
	}

	html, err := s.fetch(ctx, a.URL)
	if err != nil {
		a.Merge(nil)
		return detailResult{err: err}
	}

	detail, err := s.Details.ExtractDetail(html)
	if err != nil {
		a.Merge(nil)
		return detailResult{err: err}
	}
	a.Merge(detail)
	return detailResult{}
}

// storedArticle returns the stored copy of an already known article when
// scraping incrementally, or nil when the detail page must be fetched.
// A stored copy without content is fetched again, since an earlier detail
// failure leaves the detail fields empty.
func (s *Scraper) storedArticle(ctx context.Context, rawURL string) *bdmscrape.Article {
	if !s.Incremental || s.Articles == nil {
		return nil
	}
	if s.Known != nil && !s.Known.Test(rawURL) {
		return nil
	}
	stored, err := s.Articles.FindArticleByURL(ctx, rawURL)
	if err != nil || stored.Content == "" {
		return nil
	}
	return stored
}

// fetch waits for the rate limiter and fetches rawURL with retries.
func (s *Scraper) fetch(ctx context.Context, rawURL string) (string, error) {
	if s.RateLimiter != nil {
		if err := s.RateLimiter.Wait(ctx, hostOf(rawURL)); err != nil {
			return "", err
		}
	}
	html, err := FetchWithRetry(ctx, rawURL, s.Fetcher.Fetch, s.Log, s.RetryDelays)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	return html, nil
}

func emit(progress ProgressFunc, event ProgressEvent) {
	if progress != nil {
		progress(event)
	}
}

