// Package chat answers free-form questions about one university: it
// resolves the tenant, runs the retrieval pipeline, and asks the chat
// completion provider for a grounded reply.
package chat

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/unirag/internal/domain"
	"github.com/kailas-cloud/unirag/internal/logger"
)

// maxHistoryTurns caps how much prior conversation is replayed to the
// model; older turns add cost without improving grounding.
const maxHistoryTurns = 6

// Answer is one completed chat exchange.
type Answer struct {
	Message     string
	TenantName  string
	SourcesUsed int
	SourceTypes []domain.SourceType
	Grounded    bool // false means the reply was produced without any retrieved sources
}

// Service orchestrates one chat answer per request.
type Service struct {
	tenants   TenantReader
	retriever Retriever
	completer Completer
}

// New creates a chat service.
func New(tenants TenantReader, retriever Retriever, completer Completer) *Service {
	return &Service{tenants: tenants, retriever: retriever, completer: completer}
}

// Ask answers one user message scoped to a tenant. Returns
// domain.ErrTenantNotFound when the university scope does not exist;
// retrieval degradation never fails the request.
func (s *Service) Ask(
	ctx context.Context, tenantID, message string, history []domain.Turn,
) (Answer, error) {
	log := logger.FromContext(ctx)

	tenant, err := s.tenants.Get(ctx, tenantID)
	if err != nil {
		return Answer{}, fmt.Errorf("resolve tenant %s: %w", tenantID, err)
	}

	assembled, err := s.retriever.Retrieve(ctx, domain.Query{
		TenantID: tenant.ID,
		Text:     message,
		History:  history,
	})
	if err != nil {
		return Answer{}, fmt.Errorf("retrieve context: %w", err)
	}

	msgs := make([]domain.Turn, 0, maxHistoryTurns+2)
	msgs = append(msgs, domain.Turn{Role: domain.RoleSystem, Content: systemPrompt(tenant, assembled)})
	msgs = append(msgs, trimHistory(history)...)
	msgs = append(msgs, domain.Turn{Role: domain.RoleUser, Content: message})

	reply, err := s.completer.Complete(ctx, msgs)
	if err != nil {
		return Answer{}, fmt.Errorf("chat completion: %w", err)
	}

	log.Info("chat_answered",
		zap.String("tenant_id", tenant.ID),
		zap.Int("sources_used", len(assembled.Citations)),
		zap.Bool("grounded", assembled.HasSources),
	)

	return Answer{
		Message:     reply,
		TenantName:  tenant.Name,
		SourcesUsed: len(assembled.Citations),
		SourceTypes: assembled.SourceTypes,
		Grounded:    assembled.HasSources,
	}, nil
}

// trimHistory keeps the most recent turns and normalizes roles: anything
// that is not a user turn is replayed as assistant.
func trimHistory(history []domain.Turn) []domain.Turn {
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}
	out := make([]domain.Turn, 0, len(history))
	for _, h := range history {
		role := domain.RoleAssistant
		if h.Role == domain.RoleUser {
			role = domain.RoleUser
		}
		out = append(out, domain.Turn{Role: role, Content: h.Content})
	}
	return out
}
