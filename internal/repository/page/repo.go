// Package page adapts the crawled-page store (web pages and uploaded PDFs)
// to the retrieval pipeline's page searcher contract.
package page

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/unirag/internal/db"
	"github.com/kailas-cloud/unirag/internal/domain"
	"github.com/kailas-cloud/unirag/internal/textutil"
)

const (
	// IndexName is the FT index over page hashes.
	IndexName = domain.KeyPrefix + "pages:idx"
	// KeyPrefix is the hash key prefix the index covers.
	KeyPrefix = domain.KeyPrefix + "page:"

	// minBodyChars is the length below which the primary text
	// representation is considered unusable and the stored markup is
	// stripped instead.
	minBodyChars = 30
)

// store is the consumer interface for page search operations.
type store interface {
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
}

// Repo implements retrieval.PageSearcher.
type Repo struct {
	store store
}

// New creates a page repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// EnsureIndex creates the page FT index if it does not exist yet. The raw
// markup field is stored on the hash but not indexed; RETURN can still
// fetch it.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	def := &db.IndexDefinition{
		Name:   IndexName,
		Prefix: KeyPrefix,
		Fields: []db.IndexField{
			{Name: "tenant", Type: db.FieldTag},
			{Name: "title", Type: db.FieldText, WithSuffixTrie: true},
			{Name: "body", Type: db.FieldText, WithSuffixTrie: true},
			{Name: "source_type", Type: db.FieldTag},
			{Name: "crawled_at", Type: db.FieldNumeric, Sortable: true},
		},
	}
	if err := r.store.CreateIndex(ctx, def); err != nil && err != db.ErrIndexExists {
		return fmt.Errorf("create page index: %w", err)
	}
	return nil
}

// SearchPages OR-matches keywords against page title and body, scoped to
// tenantID, ordered by crawl recency descending, capped at limit. Returned
// candidate content is the page's usable plain text: the body, or the
// stripped markup when the body is unusably short.
func (r *Repo) SearchPages(
	ctx context.Context, tenantID string, kws []string, limit int,
) ([]domain.Candidate, error) {
	match := db.OrGroup(
		db.WildcardOr("title", kws),
		db.WildcardOr("body", kws),
	)
	if match == "" {
		return nil, nil
	}

	q := &db.TextQuery{
		Index:    IndexName,
		Filter:   db.TagFilter("tenant", tenantID),
		Match:    match,
		Limit:    limit,
		SortBy:   "crawled_at",
		SortDesc: true,
		Return:   []string{"title", "body", "markup", "url", "source_type"},
	}

	sr, err := r.store.SearchText(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search pages by keyword: %w", err)
	}

	out := make([]domain.Candidate, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		raw := usableText(e.Fields["body"], e.Fields["markup"])
		if raw == "" {
			continue
		}

		src := domain.SourceWeb
		if e.Fields["source_type"] == "pdf" {
			src = domain.SourcePDF
		}

		title := e.Fields["title"]
		if title == "" {
			if src == domain.SourcePDF {
				title = "PDF Document"
			} else {
				title = "Web Page"
			}
		}

		out = append(out, domain.Candidate{
			TenantID: tenantID,
			Content:  raw,
			Title:    title,
			URL:      e.Fields["url"],
			Source:   src,
		})
	}
	return out, nil
}

// usableText picks the page's plain-text representation: the body when it
// carries enough text, otherwise the markup stripped to plain text.
func usableText(body, markup string) string {
	body = strings.TrimSpace(body)
	if len(body) >= minBodyChars {
		return body
	}
	if markup = strings.TrimSpace(markup); markup != "" {
		return textutil.StripHTML(markup)
	}
	return body
}
