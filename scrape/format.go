package scrape

import (
	"fmt"
	"strings"
)

// TruncateURL shortens a URL for progress lines. The scheme is dropped and
// long URLs keep their tail, where the article slug is.
func TruncateURL(rawURL string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	s := strings.TrimPrefix(strings.TrimPrefix(rawURL, "https://"), "http://")
	r := []rune(s)
	switch {
	case len(r) <= maxLen:
		return s
	case maxLen <= 3:
		return string(r[len(r)-maxLen:])
	default:
		return "..." + string(r[len(r)-maxLen+3:])
	}
}

// FormatBytes formats a byte count with binary units.
func FormatBytes(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	units := []string{"KB", "MB", "GB"}
	v := float64(n) / 1024
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %s", v, units[i])
}

// Summary returns the one-line outcome of a run, e.g.
// "Saved 12 of 14 articles (48.2 KB, 3 reused, 2 failed)".
func (r *Result) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Saved %d of %d articles (%s", r.Saved, len(r.Articles), FormatBytes(r.Bytes))
	if r.Skipped > 0 {
		fmt.Fprintf(&b, ", %d reused", r.Skipped)
	}
	if r.Failed > 0 {
		fmt.Fprintf(&b, ", %d failed", r.Failed)
	}
	b.WriteString(")")
	return b.String()
}
