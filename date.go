package bdmscrape

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// frenchMonths maps French month names to their two-digit number.
// Keys are lower case and NFC-normalized.
var frenchMonths = map[string]string{
	"janvier":   "01",
	"février":   "02",
	"mars":      "03",
	"avril":     "04",
	"mai":       "05",
	"juin":      "06",
	"juillet":   "07",
	"août":      "08",
	"septembre": "09",
	"octobre":   "10",
	"novembre":  "11",
	"décembre":  "12",
}

// NormalizeDate converts a French date such as "5 mars 2021" into the
// canonical "2021/03/05" form. Tokens after the year are ignored.
// Returns an empty string if the text is not a recognizable date.
func NormalizeDate(text string) string {
	parts := strings.Fields(text)
	if len(parts) < 3 {
		return ""
	}

	day, ok := parseDay(parts[0])
	if !ok {
		return ""
	}

	month, ok := frenchMonths[foldMonth(parts[1])]
	if !ok {
		return ""
	}

	year, err := strconv.Atoi(parts[2])
	if err != nil || len(parts[2]) != 4 || year < 1000 {
		return ""
	}

	return fmt.Sprintf("%04d/%s/%02d", year, month, day)
}

// parseDay accepts "1".."31" and the French ordinal "1er".
func parseDay(s string) (int, bool) {
	if strings.EqualFold(s, "1er") {
		return 1, true
	}
	if s == "" || len(s) > 2 {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	day, _ := strconv.Atoi(s)
	if day < 1 || day > 31 {
		return 0, false
	}
	return day, true
}

// foldMonth lower-cases a month token and normalizes decomposed accents
// (e.g. "février") to their composed form.
func foldMonth(s string) string {
	return cases.Lower(language.French).String(norm.NFC.String(s))
}
