package domain

import "context"

// EmbeddingResult holds a query vector and token usage of the provider call.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker is implemented by components that can verify upstream availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
