// Package query extracts SQL from completion text and executes it.
package query

import "strings"

const selectKeyword = "SELECT"

// ExtractSQL returns text from the first occurrence of "SELECT" onward. The
// match is ordinal and case-sensitive; ok is false when there is none.
// Nothing after the keyword is validated.
func ExtractSQL(text string) (sql string, ok bool) {
	k := strings.Index(text, selectKeyword)
	if k < 0 {
		return "", false
	}
	return text[k:], true
}
