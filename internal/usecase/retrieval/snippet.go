package retrieval

import (
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/unirag/internal/textutil"
)

// snippetLeadPercent places the first keyword hit at roughly this share
// into the returned window, so the snippet carries context on both sides
// of the match instead of starting exactly at it.
const snippetLeadPercent = 35

// ExtractSnippet returns a window of at most maxLen bytes of the
// whitespace-normalized text, positioned around the earliest
// case-insensitive keyword hit. With no hit the document prefix is
// returned; stuffing whole documents into the context is never allowed.
func ExtractSnippet(text string, kws []string, maxLen int) string {
	t := textutil.CollapseWhitespace(text)
	if t == "" || maxLen <= 0 {
		return ""
	}
	if len(t) <= maxLen {
		return t
	}

	lower := strings.ToLower(t)
	hit := -1
	for _, kw := range kws {
		if kw == "" {
			continue
		}
		if i := strings.Index(lower, strings.ToLower(kw)); i >= 0 && (hit < 0 || i < hit) {
			hit = i
		}
	}

	if hit < 0 {
		return t[:snapLeft(t, maxLen)]
	}

	start := hit - maxLen*snippetLeadPercent/100
	if start < 0 {
		start = 0
	}
	end := start + maxLen
	if end > len(t) {
		end = len(t)
	}
	start = snapLeft(t, start)
	end = snapLeft(t, end)
	return t[start:end]
}

// snapLeft moves i back to the nearest UTF-8 rune start so slicing never
// splits a rune.
func snapLeft(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}
