package scrape_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/bdmscrape"
	"github.com/fwojciec/bdmscrape/goquery"
	"github.com/fwojciec/bdmscrape/mock"
	"github.com/fwojciec/bdmscrape/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingPage = `<html><body><main>
	<article>
		<div class="post-thumbnail picture rounded-img">
			<img data-src="https://www.blogdumoderateur.com/wp-content/uploads/a.jpg">
		</div>
		<div class="entry-meta ms-md-5 pt-md-0 pt-3">
			<span class="favtag color-b">Outils</span>
			<span class="posted-on t-def px-3">1er avril 2024</span>
			<header class="entry-header pt-1"><a href="/web/outil-a/"><h3>Outil A</h3></a></header>
			<div class="entry-excerpt t-def t-size-def pt-1">Résumé A</div>
		</div>
	</article>
	<article>
		<div class="entry-meta ms-md-5 pt-md-0 pt-3">
			<span class="favtag color-b">Réseaux</span>
			<header class="entry-header pt-1"><a href="https://www.blogdumoderateur.com/web/outil-b/"><h3>Outil B</h3></a></header>
		</div>
	</article>
</main></body></html>`

const detailPage = `<html><body>
	<div class="author-meta"><a class="author-name">Jane Doe</a></div>
	<div class="entry-content row justify-content-center">
		<p>Premier   paragraphe.</p>
		<script>track()</script>
		<figure><img src="https://cdn.example.com/1.jpg"><figcaption>Une légende</figcaption></figure>
		<p>Second paragraphe.</p>
	</div>
</body></html>`

func newUpsertRecorder() (*mock.ArticleService, func() []*bdmscrape.Article) {
	var mu sync.Mutex
	var saved []*bdmscrape.Article
	svc := &mock.ArticleService{
		UpsertArticleFn: func(_ context.Context, a *bdmscrape.Article) error {
			mu.Lock()
			defer mu.Unlock()
			saved = append(saved, a)
			return nil
		},
	}
	return svc, func() []*bdmscrape.Article {
		mu.Lock()
		defer mu.Unlock()
		return saved
	}
}

func TestScraper_ScrapeCategory(t *testing.T) {
	t.Parallel()

	t.Run("extracts, completes and stores every article", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				fetched = append(fetched, url)
				if url == "https://www.blogdumoderateur.com/web/" {
					return listingPage, nil
				}
				return detailPage, nil
			},
		}
		registry := goquery.NewDefaultRegistry(goquery.NewDetector())
		articles, saved := newUpsertRecorder()

		s := &scrape.Scraper{
			Fetcher:  fetcher,
			Listings: registry,
			Details:  registry,
			Articles: articles,
		}

		res, err := s.ScrapeCategory(context.Background(), "web", nil)

		require.NoError(t, err)
		require.Len(t, res.Articles, 2)
		assert.Equal(t, []string{
			"https://www.blogdumoderateur.com/web/",
			"https://www.blogdumoderateur.com/web/outil-a/",
			"https://www.blogdumoderateur.com/web/outil-b/",
		}, fetched)

		first := res.Articles[0]
		assert.Equal(t, "Outil A", first.Title)
		assert.Equal(t, "2024/04/01", first.Date)
		assert.Equal(t, "https://www.blogdumoderateur.com/wp-content/uploads/a.jpg", first.Image)
		assert.Equal(t, "Jane Doe", first.Author)
		assert.Equal(t, "Premier paragraphe. Second paragraphe.", first.Content)
		assert.Equal(t, bdmscrape.ArticleImages{
			{URL: "https://cdn.example.com/1.jpg", Caption: "Une légende"},
		}, first.ArticleImages)
		assert.Equal(t, "web", first.Category)

		second := res.Articles[1]
		assert.Equal(t, "Outil B", second.Title)
		assert.Empty(t, second.Date)
		assert.Empty(t, second.Image)
		assert.Equal(t, "web", second.Category)

		assert.Equal(t, 2, res.Saved)
		assert.Len(t, saved(), 2)
	})

	t.Run("listing fetch failure yields empty result and failure event", func(t *testing.T) {
		t.Parallel()

		var events []scrape.ProgressEvent
		s := &scrape.Scraper{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "", errors.New("HTTP 503")
				},
			},
			Listings: &mock.ListingExtractor{},
		}

		res, err := s.ScrapeCategory(context.Background(), "web", func(e scrape.ProgressEvent) {
			events = append(events, e)
		})

		require.NoError(t, err)
		assert.Empty(t, res.Articles)
		assert.Equal(t, 1, res.Failed)
		require.Len(t, events, 2)
		assert.Equal(t, scrape.ProgressFailed, events[0].Type)
		assert.Equal(t, "https://www.blogdumoderateur.com/web/", events[0].URL)
		assert.Contains(t, events[0].Error.Error(), "HTTP 503")
		assert.Equal(t, scrape.ProgressFinished, events[1].Type)
	})

	t.Run("returns context error when canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		s := &scrape.Scraper{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, _ string) (string, error) {
					return "", ctx.Err()
				},
			},
		}

		_, err := s.ScrapeCategory(ctx, "web", nil)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("waits on the rate limiter per host", func(t *testing.T) {
		t.Parallel()

		var hosts []string
		s := &scrape.Scraper{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "<html></html>", nil
				},
			},
			Listings: &mock.ListingExtractor{
				ExtractListingFn: func(_, _, category string) ([]*bdmscrape.Article, error) {
					return []*bdmscrape.Article{}, nil
				},
			},
			RateLimiter: &mock.DomainLimiter{
				WaitFn: func(_ context.Context, domain string) error {
					hosts = append(hosts, domain)
					return nil
				},
			},
			BaseURL: "https://news.example.com/",
		}

		_, err := s.ScrapeCategory(context.Background(), "tech", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"news.example.com"}, hosts)
	})
}

func TestScraper_ExtractListing(t *testing.T) {
	t.Parallel()

	t.Run("does not fetch detail for container without link", func(t *testing.T) {
		t.Parallel()

		var fetches atomic.Int32
		articles, saved := newUpsertRecorder()
		s := &scrape.Scraper{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					fetches.Add(1)
					return detailPage, nil
				},
			},
			Listings: &mock.ListingExtractor{
				ExtractListingFn: func(_, _, category string) ([]*bdmscrape.Article, error) {
					return []*bdmscrape.Article{{Title: "Sans lien", Category: category}}, nil
				},
			},
			Details:  &mock.DetailExtractor{},
			Articles: articles,
		}

		res, err := s.ExtractListing(context.Background(), "<html></html>", "https://www.example.com/web/", "web", nil)

		require.NoError(t, err)
		assert.Equal(t, int32(0), fetches.Load())
		require.Len(t, res.Articles, 1)
		assert.Empty(t, res.Articles[0].URL)
		assert.Empty(t, res.Articles[0].Author)
		assert.NotNil(t, res.Articles[0].ArticleImages)
		assert.Empty(t, saved(), "articles without URL are not stored")
	})

	t.Run("detail failure keeps listing fields and still stores", func(t *testing.T) {
		t.Parallel()

		var events []scrape.ProgressEvent
		articles, saved := newUpsertRecorder()
		s := &scrape.Scraper{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "", errors.New("connection reset")
				},
			},
			Listings: &mock.ListingExtractor{
				ExtractListingFn: func(_, _, category string) ([]*bdmscrape.Article, error) {
					return []*bdmscrape.Article{{
						Title:    "Titre",
						Date:     "2024/01/05",
						URL:      "https://www.example.com/web/a/",
						Category: category,
					}}, nil
				},
			},
			Details:  &mock.DetailExtractor{},
			Articles: articles,
		}

		res, err := s.ExtractListing(context.Background(), "<html></html>", "https://www.example.com/web/", "web",
			func(e scrape.ProgressEvent) { events = append(events, e) })

		require.NoError(t, err)
		require.Len(t, res.Articles, 1)
		a := res.Articles[0]
		assert.Equal(t, "Titre", a.Title)
		assert.Equal(t, "2024/01/05", a.Date)
		assert.Empty(t, a.Author)
		assert.Empty(t, a.Content)
		assert.Equal(t, bdmscrape.ArticleImages{}, a.ArticleImages)
		assert.Len(t, saved(), 1)

		var types []scrape.ProgressType
		for _, e := range events {
			types = append(types, e.Type)
		}
		assert.Equal(t, []scrape.ProgressType{
			scrape.ProgressStarted,
			scrape.ProgressDetailFailed,
			scrape.ProgressCompleted,
			scrape.ProgressFinished,
		}, types)
	})

	t.Run("detail parse error yields empty detail", func(t *testing.T) {
		t.Parallel()

		s := &scrape.Scraper{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "<html></html>", nil
				},
			},
			Listings: &mock.ListingExtractor{
				ExtractListingFn: func(_, _, category string) ([]*bdmscrape.Article, error) {
					return []*bdmscrape.Article{{URL: "https://www.example.com/web/a/", Category: category}}, nil
				},
			},
			Details: &mock.DetailExtractor{
				ExtractDetailFn: func(_ string) (*bdmscrape.ArticleDetail, error) {
					return nil, bdmscrape.Errorf(bdmscrape.EINVALID, "bad html")
				},
			},
		}

		res, err := s.ExtractListing(context.Background(), "", "https://www.example.com/web/", "web", nil)

		require.NoError(t, err)
		assert.Empty(t, res.Articles[0].Content)
		assert.Equal(t, 0, res.Saved)
	})

	t.Run("preserves listing order with concurrent detail fetches", func(t *testing.T) {
		t.Parallel()

		const n = 8
		listing := make([]*bdmscrape.Article, n)
		for i := range listing {
			listing[i] = &bdmscrape.Article{
				URL:      "https://www.example.com/web/" + string(rune('a'+i)) + "/",
				Category: "web",
			}
		}

		var inFlight, maxInFlight atomic.Int32
		s := &scrape.Scraper{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					cur := inFlight.Add(1)
					defer inFlight.Add(-1)
					for {
						prev := maxInFlight.Load()
						if cur <= prev || maxInFlight.CompareAndSwap(prev, cur) {
							break
						}
					}
					// Earlier articles take longer so they finish last.
					idx := strings.TrimSuffix(strings.TrimPrefix(url, "https://www.example.com/web/"), "/")
					time.Sleep(time.Duration('a'+n-int(idx[0])) * time.Millisecond)
					return url, nil
				},
			},
			Listings: &mock.ListingExtractor{
				ExtractListingFn: func(_, _, _ string) ([]*bdmscrape.Article, error) {
					return listing, nil
				},
			},
			Details: &mock.DetailExtractor{
				ExtractDetailFn: func(html string) (*bdmscrape.ArticleDetail, error) {
					return &bdmscrape.ArticleDetail{Content: html}, nil
				},
			},
			Concurrency: 3,
		}

		res, err := s.ExtractListing(context.Background(), "", "https://www.example.com/web/", "web", nil)

		require.NoError(t, err)
		require.Len(t, res.Articles, n)
		for i, a := range res.Articles {
			assert.Equal(t, listing[i].URL, a.URL)
			assert.Equal(t, a.URL, a.Content)
		}
		assert.LessOrEqual(t, maxInFlight.Load(), int32(3))
	})

	t.Run("store failure is counted and the run continues", func(t *testing.T) {
		t.Parallel()

		calls := 0
		s := &scrape.Scraper{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "", nil
				},
			},
			Listings: &mock.ListingExtractor{
				ExtractListingFn: func(_, _, category string) ([]*bdmscrape.Article, error) {
					return []*bdmscrape.Article{
						{URL: "https://www.example.com/web/a/", Category: category},
						{URL: "https://www.example.com/web/b/", Category: category},
					}, nil
				},
			},
			Details: &mock.DetailExtractor{
				ExtractDetailFn: func(_ string) (*bdmscrape.ArticleDetail, error) {
					return &bdmscrape.ArticleDetail{}, nil
				},
			},
			Articles: &mock.ArticleService{
				UpsertArticleFn: func(_ context.Context, _ *bdmscrape.Article) error {
					calls++
					if calls == 1 {
						return errors.New("database is locked")
					}
					return nil
				},
			},
		}

		res, err := s.ExtractListing(context.Background(), "", "https://www.example.com/web/", "web", nil)

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Equal(t, 1, res.Failed)
		assert.Equal(t, 1, res.Saved)
	})

	t.Run("incremental reuses stored detail of known URLs", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		known := map[string]bool{"https://www.example.com/web/a/": true}
		var added []string
		s := &scrape.Scraper{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					fetched = append(fetched, url)
					return detailPage, nil
				},
			},
			Listings: &mock.ListingExtractor{
				ExtractListingFn: func(_, _, category string) ([]*bdmscrape.Article, error) {
					return []*bdmscrape.Article{
						{Title: "Nouveau titre", URL: "https://www.example.com/web/a/", Category: category},
						{Title: "B", URL: "https://www.example.com/web/b/", Category: category},
					}, nil
				},
			},
			Details: &mock.DetailExtractor{
				ExtractDetailFn: func(_ string) (*bdmscrape.ArticleDetail, error) {
					return &bdmscrape.ArticleDetail{Author: "Fresh"}, nil
				},
			},
			Articles: &mock.ArticleService{
				FindArticleByURLFn: func(_ context.Context, url string) (*bdmscrape.Article, error) {
					if url == "https://www.example.com/web/a/" {
						return &bdmscrape.Article{
							URL:           url,
							Author:        "Stored",
							Content:       "Stored content",
							ArticleImages: bdmscrape.ArticleImages{{URL: "https://cdn.example.com/s.jpg"}},
						}, nil
					}
					return nil, bdmscrape.Errorf(bdmscrape.ENOTFOUND, "article not found")
				},
				UpsertArticleFn: func(_ context.Context, _ *bdmscrape.Article) error {
					return nil
				},
			},
			Known: &mock.URLSet{
				TestFn: func(url string) bool { return known[url] },
				AddFn:  func(url string) { added = append(added, url) },
			},
			Incremental: true,
		}

		res, err := s.ExtractListing(context.Background(), "", "https://www.example.com/web/", "web", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://www.example.com/web/b/"}, fetched)
		assert.Equal(t, 1, res.Skipped)

		a := res.Articles[0]
		assert.Equal(t, "Nouveau titre", a.Title)
		assert.Equal(t, "Stored", a.Author)
		assert.Equal(t, "Stored content", a.Content)
		assert.Len(t, a.ArticleImages, 1)

		assert.Equal(t, "Fresh", res.Articles[1].Author)
		assert.Equal(t, []string{"https://www.example.com/web/a/", "https://www.example.com/web/b/"}, added)
	})

	t.Run("incremental fetches again a stored article without detail", func(t *testing.T) {
		t.Parallel()

		var fetches atomic.Int32
		s := &scrape.Scraper{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					fetches.Add(1)
					return detailPage, nil
				},
			},
			Listings: &mock.ListingExtractor{
				ExtractListingFn: func(_, _, category string) ([]*bdmscrape.Article, error) {
					return []*bdmscrape.Article{
						{Title: "A", URL: "https://www.example.com/web/a/", Category: category},
					}, nil
				},
			},
			Details: &mock.DetailExtractor{
				ExtractDetailFn: func(_ string) (*bdmscrape.ArticleDetail, error) {
					return &bdmscrape.ArticleDetail{Author: "Jane Doe", Content: "Texte complet."}, nil
				},
			},
			Articles: &mock.ArticleService{
				FindArticleByURLFn: func(_ context.Context, url string) (*bdmscrape.Article, error) {
					// Left behind by a run whose detail fetch failed.
					return &bdmscrape.Article{URL: url, Category: "web"}, nil
				},
				UpsertArticleFn: func(_ context.Context, _ *bdmscrape.Article) error {
					return nil
				},
			},
			Incremental: true,
		}

		res, err := s.ExtractListing(context.Background(), "", "https://www.example.com/web/", "web", nil)

		require.NoError(t, err)
		assert.Equal(t, int32(1), fetches.Load())
		assert.Equal(t, 0, res.Skipped)
		assert.Equal(t, "Jane Doe", res.Articles[0].Author)
		assert.Equal(t, "Texte complet.", res.Articles[0].Content)
	})

	t.Run("returns error for unparseable listing", func(t *testing.T) {
		t.Parallel()

		s := &scrape.Scraper{
			Listings: &mock.ListingExtractor{
				ExtractListingFn: func(_, _, _ string) ([]*bdmscrape.Article, error) {
					return nil, bdmscrape.Errorf(bdmscrape.EINVALID, "unparseable listing")
				},
			},
		}

		_, err := s.ExtractListing(context.Background(), "", "https://www.example.com/web/", "web", nil)
		assert.Equal(t, bdmscrape.EINVALID, bdmscrape.ErrorCode(err))
	})
}

func TestScraper_ScrapeAll(t *testing.T) {
	t.Parallel()

	t.Run("continues past a failing category", func(t *testing.T) {
		t.Parallel()

		s := &scrape.Scraper{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					if strings.HasSuffix(url, "/marketing/") {
						return "", errors.New("HTTP 500")
					}
					return "<html></html>", nil
				},
			},
			Listings: &mock.ListingExtractor{
				ExtractListingFn: func(_, pageURL, category string) ([]*bdmscrape.Article, error) {
					return []*bdmscrape.Article{{Title: pageURL, Category: category}}, nil
				},
			},
		}

		res, err := s.ScrapeAll(context.Background(), []string{"web", "marketing", "tech"}, nil)

		require.NoError(t, err)
		require.Len(t, res.Articles, 2)
		assert.Equal(t, "web", res.Articles[0].Category)
		assert.Equal(t, "tech", res.Articles[1].Category)
		assert.Equal(t, 1, res.Failed)
	})
}

func TestCategoryURL(t *testing.T) {
	t.Parallel()

	t.Run("appends category with trailing slash", func(t *testing.T) {
		t.Parallel()

		u, err := scrape.CategoryURL(scrape.DefaultBaseURL, "marketing")
		require.NoError(t, err)
		assert.Equal(t, "https://www.blogdumoderateur.com/marketing/", u)
	})

	t.Run("accepts base without trailing slash", func(t *testing.T) {
		t.Parallel()

		u, err := scrape.CategoryURL("https://www.blogdumoderateur.com", "web")
		require.NoError(t, err)
		assert.Equal(t, "https://www.blogdumoderateur.com/web/", u)
	})

	t.Run("rejects invalid base", func(t *testing.T) {
		t.Parallel()

		_, err := scrape.CategoryURL("://bad", "web")
		assert.Equal(t, bdmscrape.EINVALID, bdmscrape.ErrorCode(err))
	})
}
