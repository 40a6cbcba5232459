package sqlite

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// timeLayout keeps lexical and chronological order aligned.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// hashContent computes xxHash of content and returns hex string.
func hashContent(content []byte) string {
	h := xxhash.Sum64(content)
	b := make([]byte, 8)
	for i := range b {
		b[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(b)
}

// parseTime parses a stored timestamp, naming the field on failure.
func parseTime(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// nullBool converts an optional bool to a nullable column value.
func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

// boolPtr converts a nullable column value to an optional bool.
func boolPtr(n sql.NullBool) *bool {
	if !n.Valid {
		return nil
	}
	b := n.Bool
	return &b
}

// appendPagination appends LIMIT and OFFSET clauses to a query builder if values are > 0.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	}
	if offset > 0 {
		if limit <= 0 {
			query.WriteString(" LIMIT -1")
		}
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}
