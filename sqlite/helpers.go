package sqlite

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/bdmscrape"
)

// parseTimestamp decodes a stored RFC3339 column value.
func parseTimestamp(value, column string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, bdmscrape.Errorf(bdmscrape.EINTERNAL, "invalid %s %q: %v", column, value, err)
	}
	return t, nil
}

// appendPagination adds LIMIT and OFFSET clauses for positive values.
// An offset without a limit needs LIMIT -1 in SQLite.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	switch {
	case limit > 0:
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	case offset > 0:
		query.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}

// nullString stores empty fields as NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// contentHash fingerprints an article body.
func contentHash(content string) string {
	return strconv.FormatUint(xxhash.Sum64String(content), 16)
}
