package chat

import (
	"context"

	"github.com/kailas-cloud/unirag/internal/domain"
)

// TenantReader resolves a university profile by tenant id.
type TenantReader interface {
	Get(ctx context.Context, tenantID string) (domain.Tenant, error)
}

// Retriever runs the retrieval pipeline and returns the grounding context.
type Retriever interface {
	Retrieve(ctx context.Context, q domain.Query) (domain.Assembled, error)
}

// Completer generates an assistant reply from a full message list
// (system turn included).
type Completer interface {
	Complete(ctx context.Context, msgs []domain.Turn) (string, error)
}
