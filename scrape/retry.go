package scrape

import (
	"context"
	"time"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// Backoff returns n delays starting at initial and doubling each time.
// Zero or negative n yields nil, which disables retries.
func Backoff(n int, initial time.Duration) []time.Duration {
	if n <= 0 {
		return nil
	}
	delays := make([]time.Duration, n)
	for i := range delays {
		delays[i] = initial << i
	}
	return delays
}

// FetchWithRetry fetches url and, while it fails, waits for the next entry of
// delays and tries again. Nil delays means a single attempt. The logger, if
// provided, is called before each wait.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, logger LogFunc, delays []time.Duration) (string, error) {
	attempts := len(delays) + 1

	html, err := fetch(ctx, url)
	for i, delay := range delays {
		if err == nil || ctx.Err() != nil {
			break
		}
		if logger != nil {
			logger("retry %s (attempt %d/%d): %v", url, i+2, attempts, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}

		html, err = fetch(ctx, url)
	}

	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	return html, nil
}
