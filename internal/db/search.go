package db

import (
	"fmt"
	"strings"
)

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	Index  string
	Filter string // pre-filter fragment, e.g. a tenant tag filter; applied inside the query
	Vector []float32
	K      int
	Return []string
}

// TextQuery is the input for lexical search.
type TextQuery struct {
	Index    string
	Filter   string // pre-filter fragment, ANDed with Match
	Match    string // text match fragment, e.g. a wildcard OR group
	Limit    int
	SortBy   string // optional NUMERIC/TAG sortable field
	SortDesc bool
	Return   []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}

// TagFilter builds an exact-match tag pre-filter fragment: @field:{value}.
func TagFilter(field, value string) string {
	return fmt.Sprintf("@%s:{%s}", field, tagEscaper.Replace(value))
}

// WildcardOr builds a case-insensitive infix-wildcard OR group over one
// text field: @field:(*a* | *b*). Terms are reduced to [a-z0-9] to keep
// the fragment free of query syntax; empty terms are dropped. Returns ""
// when nothing usable remains.
func WildcardOr(field string, terms []string) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		t = sanitizeTerm(t)
		if t == "" {
			continue
		}
		parts = append(parts, "*"+t+"*")
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("@%s:(%s)", field, strings.Join(parts, " | "))
}

// OrGroup joins non-empty query fragments into a parenthesized OR group.
func OrGroup(fragments ...string) string {
	parts := fragments[:0]
	for _, f := range fragments {
		if f != "" {
			parts = append(parts, f)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, " | ") + ")"
}

func sanitizeTerm(t string) string {
	var b strings.Builder
	b.Grow(len(t))
	for _, r := range strings.ToLower(t) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var tagEscaper = strings.NewReplacer(
	",", "\\,", ".", "\\.", "<", "\\<", ">", "\\>",
	"{", "\\{", "}", "\\}", "\"", "\\\"", "'", "\\'",
	":", "\\:", ";", "\\;", "!", "\\!", "@", "\\@",
	"#", "\\#", "$", "\\$", "%", "\\%", "^", "\\^",
	"&", "\\&", "*", "\\*", "(", "\\(", ")", "\\)",
	"-", "\\-", "+", "\\+", "=", "\\=", "~", "\\~",
	" ", "\\ ",
)
