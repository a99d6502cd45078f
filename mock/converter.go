package mock

import "github.com/fwojciec/bdmscrape"

var _ bdmscrape.Converter = (*Converter)(nil)

// Converter is a mock implementation of bdmscrape.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
