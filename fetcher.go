package bdmscrape

import "context"

// Fetcher retrieves HTML from URLs.
type Fetcher interface {
	// Fetch issues a GET request for the URL and returns the decoded body.
	// Non-2xx responses and network failures are returned as errors.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases fetcher resources.
	Close() error
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// URLSet is a probabilistic set of article URLs.
// Test may report false positives but never false negatives.
type URLSet interface {
	Add(url string)
	Test(url string) bool
}
