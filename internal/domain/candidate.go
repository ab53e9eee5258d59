package domain

// SourceType classifies where a candidate came from.
type SourceType string

const (
	// SourceVector marks a chunk found via vector similarity search.
	SourceVector SourceType = "vector"
	// SourceChunk marks a chunk found via keyword fallback search.
	SourceChunk SourceType = "chunk"
	// SourceKeyword marks a page found via keyword fallback search.
	SourceKeyword SourceType = "keyword"
	// SourcePDF marks an admin-uploaded PDF page.
	SourcePDF SourceType = "pdf"
	// SourceWeb marks a crawled web page.
	SourceWeb SourceType = "web"
)

// Candidate is a retrieved text fragment before scoring. Every candidate is
// scoped to exactly one tenant; the scoping is enforced inside the search
// query of each store adapter, never post-filtered.
type Candidate struct {
	TenantID   string
	Content    string
	Title      string
	URL        string
	Source     SourceType
	Similarity float64 // cosine similarity, set only for vector-sourced candidates
}

// ScoredCandidate is a candidate with its blended relevance score (>= 0).
type ScoredCandidate struct {
	Candidate
	Score float64
}
