package retrieval

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/unirag/internal/domain"
)

const (
	contextHeader  = "=== VERIFIED UNIVERSITY DATA ==="
	contextFooter  = "=== END VERIFIED DATA ==="
	blockSeparator = "\n\n---\n\n"

	// assembleSnippetCap is a final guard; snippets are already bounded by
	// the per-stage extraction upstream.
	assembleSnippetCap = 3000
)

// Assemble formats the selected candidates into the labeled context block
// consumed by the prompt builder, together with a parallel citation list
// and the distinct source types used. An empty selection yields an empty
// context with HasSources=false -- the explicit "no data" signal the
// consumer must branch on.
func Assemble(selected []domain.ScoredCandidate, totalChars int) domain.Assembled {
	if len(selected) == 0 {
		return domain.Assembled{HasSources: false}
	}

	var b strings.Builder
	b.WriteString("\n\n" + contextHeader + "\n\n")

	citations := make([]domain.Citation, 0, len(selected))
	seenTypes := make(map[domain.SourceType]struct{}, 4)
	var types []domain.SourceType

	for i, c := range selected {
		idx := i + 1
		fmt.Fprintf(&b, "[SOURCE %d] [%s] %s", idx, strings.ToUpper(string(c.Source)), c.Title)
		if c.URL != "" {
			fmt.Fprintf(&b, " | URL: %s", c.URL)
		}
		b.WriteByte('\n')

		content := c.Content
		if len(content) > assembleSnippetCap {
			content = content[:snapLeft(content, assembleSnippetCap)]
		}
		b.WriteString(content)
		b.WriteString(blockSeparator)

		citations = append(citations, domain.Citation{
			Index:  idx,
			Title:  c.Title,
			Source: c.Source,
			URL:    c.URL,
		})
		if _, ok := seenTypes[c.Source]; !ok {
			seenTypes[c.Source] = struct{}{}
			types = append(types, c.Source)
		}
	}

	b.WriteString(contextFooter)

	return domain.Assembled{
		Text:        b.String(),
		Citations:   citations,
		SourceTypes: types,
		TotalChars:  totalChars,
		HasSources:  true,
	}
}
