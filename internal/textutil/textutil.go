// Package textutil holds the text-normalization primitives shared by the
// retrieval pipeline: whitespace collapsing and a narrowly-scoped HTML to
// plain text conversion used for pages whose primary text is unusable.
package textutil

import (
	"regexp"
	"strings"
)

var (
	scriptRe = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	styleRe  = regexp.MustCompile(`(?is)<style\b.*?</style>`)
	tagRe    = regexp.MustCompile(`<[^>]+>`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// entityReplacer decodes the fixed set of entities the crawler is known to
// leave behind. This is deliberately not a full HTML entity table.
var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
)

// CollapseWhitespace replaces every whitespace run with a single space and
// trims the result.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// StripHTML converts markup to plain text: script/style blocks are removed,
// remaining tags are replaced with spaces, the fixed entity set is decoded,
// and whitespace is collapsed.
func StripHTML(html string) string {
	s := scriptRe.ReplaceAllString(html, " ")
	s = styleRe.ReplaceAllString(s, " ")
	s = tagRe.ReplaceAllString(s, " ")
	s = entityReplacer.Replace(s)
	return CollapseWhitespace(s)
}
