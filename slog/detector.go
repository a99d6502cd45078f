package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/bdmscrape"
)

// Ensure LoggingDetector implements bdmscrape.MarkupDetector.
var _ bdmscrape.MarkupDetector = (*LoggingDetector)(nil)

// LoggingDetector wraps a MarkupDetector with debug logging.
type LoggingDetector struct {
	next   bdmscrape.MarkupDetector
	logger *slog.Logger
}

// NewLoggingDetector creates a new LoggingDetector.
func NewLoggingDetector(next bdmscrape.MarkupDetector, logger *slog.Logger) *LoggingDetector {
	return &LoggingDetector{next: next, logger: logger}
}

// Detect delegates to the wrapped detector and logs the detected markup.
func (d *LoggingDetector) Detect(html string) bdmscrape.Markup {
	begin := time.Now()
	markup := d.next.Detect(html)
	name := string(markup)
	if markup == bdmscrape.MarkupUnknown {
		name = "(unknown)"
	}
	d.logger.Debug("markup detection",
		"markup", name,
		"duration", time.Since(begin),
	)
	return markup
}
