package mock

import (
	"context"

	"github.com/fwojciec/bdmscrape"
)

var (
	_ bdmscrape.DomainLimiter = (*DomainLimiter)(nil)
	_ bdmscrape.URLSet        = (*URLSet)(nil)
)

// DomainLimiter is a mock implementation of bdmscrape.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

// URLSet is a mock implementation of bdmscrape.URLSet.
type URLSet struct {
	AddFn  func(url string)
	TestFn func(url string) bool
}

func (s *URLSet) Add(url string) {
	s.AddFn(url)
}

func (s *URLSet) Test(url string) bool {
	return s.TestFn(url)
}
