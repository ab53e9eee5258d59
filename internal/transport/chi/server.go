// Package chi exposes the chat and retrieval services over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/unirag/internal/domain"
	chatuc "github.com/kailas-cloud/unirag/internal/usecase/chat"
	healthuc "github.com/kailas-cloud/unirag/internal/usecase/health"
)

const maxRequestBody = 1 << 20 // 1 MiB

// Error response codes.
const (
	codeBadRequest       = "bad_request"
	codeTenantNotFound   = "tenant_not_found"
	codeRateLimited      = "rate_limited"
	codeProviderError    = "provider_error"
	codeInternalError    = "internal_error"
	codeValidationFailed = "validation_failed"
)

// ChatService answers one user message scoped to a tenant.
type ChatService interface {
	Ask(ctx context.Context, tenantID, message string, history []domain.Turn) (chatuc.Answer, error)
}

// RetrieveService runs the retrieval pipeline without chat completion.
type RetrieveService interface {
	Retrieve(ctx context.Context, q domain.Query) (domain.Assembled, error)
}

// HealthService aggregates component health checks.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// Server carries the HTTP handlers.
type Server struct {
	chat      ChatService
	retrieval RetrieveService
	health    HealthService
	logger    *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(chat ChatService, retrieval RetrieveService, health HealthService, logger *zap.Logger) *Server {
	return &Server{chat: chat, retrieval: retrieval, health: health, logger: logger}
}

// Routes registers all handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/v1/chat", s.Chat)
	r.Post("/v1/retrieve", s.Retrieve)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type turnDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	TenantID string    `json:"tenant_id"`
	Message  string    `json:"message"`
	History  []turnDTO `json:"history,omitempty"`
}

type chatResponse struct {
	Message     string   `json:"message"`
	TenantName  string   `json:"tenant_name"`
	SourcesUsed int      `json:"sources_used"`
	SourceTypes []string `json:"source_types"`
	Grounded    bool     `json:"grounded"`
}

type retrieveRequest struct {
	TenantID string `json:"tenant_id"`
	Query    string `json:"query"`
}

type retrieveResponse struct {
	Context     string            `json:"context"`
	Citations   []domain.Citation `json:"citations"`
	SourceTypes []string          `json:"source_types"`
	HasSources  bool              `json:"has_sources"`
}

// Chat handles POST /v1/chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.TenantID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "tenant_id is required")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "message is required")
		return
	}

	answer, err := s.chat.Ask(r.Context(), req.TenantID, req.Message, turnsFromDTO(req.History))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Message:     answer.Message,
		TenantName:  answer.TenantName,
		SourcesUsed: answer.SourcesUsed,
		SourceTypes: sourceTypeStrings(answer.SourceTypes),
		Grounded:    answer.Grounded,
	})
}

// Retrieve handles POST /v1/retrieve. It exposes the assembled context
// directly, for callers that run their own completion.
func (s *Server) Retrieve(w http.ResponseWriter, r *http.Request) {
	var req retrieveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.TenantID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "tenant_id is required")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query is required")
		return
	}

	assembled, err := s.retrieval.Retrieve(r.Context(), domain.Query{
		TenantID: req.TenantID,
		Text:     req.Query,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	citations := assembled.Citations
	if citations == nil {
		citations = []domain.Citation{}
	}

	writeJSON(w, http.StatusOK, retrieveResponse{
		Context:     assembled.Text,
		Citations:   citations,
		SourceTypes: sourceTypeStrings(assembled.SourceTypes),
		HasSources:  assembled.HasSources,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))

	switch {
	case errors.Is(err, domain.ErrTenantNotFound):
		writeError(w, http.StatusNotFound, codeTenantNotFound, domain.ErrTenantNotFound.Error())
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, codeRateLimited, domain.ErrRateLimited.Error())
	case errors.Is(err, domain.ErrEmbeddingProviderError):
		writeError(w, http.StatusBadGateway, codeProviderError, domain.ErrEmbeddingProviderError.Error())
	case errors.Is(err, domain.ErrChatProviderError):
		writeError(w, http.StatusBadGateway, codeProviderError, domain.ErrChatProviderError.Error())
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	return json.NewDecoder(r.Body).Decode(v)
}

func turnsFromDTO(dtos []turnDTO) []domain.Turn {
	if len(dtos) == 0 {
		return nil
	}
	out := make([]domain.Turn, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, domain.Turn{Role: domain.Role(d.Role), Content: d.Content})
	}
	return out
}

func sourceTypeStrings(types []domain.SourceType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
