package query

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMaxRequestLength bounds a natural-language request in characters.
const DefaultMaxRequestLength = 4000

var (
	ErrEmptyRequest   = errors.New("request is empty")
	ErrRequestTooLong = errors.New("request is too long")
)

// tableNameRegex matches a bare SQL identifier. The table name is used as a
// LIKE pattern in catalog lookups so wildcards are not accepted here.
var tableNameRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

var reservedWords = map[string]bool{
	"SELECT": true, "INSERT": true, "UPDATE": true, "DELETE": true,
	"DROP": true, "CREATE": true, "ALTER": true, "TRUNCATE": true,
	"EXEC": true, "EXECUTE": true, "UNION": true, "FROM": true,
	"WHERE": true, "TABLE": true,
}

// ValidateTableName rejects names that are not plain identifiers.
func ValidateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if len(name) > 128 {
		return fmt.Errorf("table name too long (max 128 chars): %q", name)
	}
	if !tableNameRegex.MatchString(name) {
		return fmt.Errorf("invalid table name %q: must match [a-zA-Z_][a-zA-Z0-9_]*", name)
	}
	if reservedWords[strings.ToUpper(name)] {
		return fmt.Errorf("table name %q is a SQL reserved word", name)
	}
	return nil
}

// NormalizeRequest trims surrounding whitespace, drops NUL bytes, and checks
// the result is non-empty and at most maxLen characters. A non-positive
// maxLen means DefaultMaxRequestLength.
func NormalizeRequest(q string, maxLen int) (string, error) {
	if maxLen <= 0 {
		maxLen = DefaultMaxRequestLength
	}
	q = strings.TrimSpace(strings.ReplaceAll(q, "\x00", ""))
	if q == "" {
		return "", ErrEmptyRequest
	}
	if n := utf8.RuneCountInString(q); n > maxLen {
		return "", fmt.Errorf("%w: %d characters (max %d)", ErrRequestTooLong, n, maxLen)
	}
	return q, nil
}
